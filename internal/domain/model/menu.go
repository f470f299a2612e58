package model

import "strings"

// FoodType is the dietary tag carried by a menu item.
type FoodType string

const (
	FoodTypeVeg    FoodType = "veg"
	FoodTypeNonVeg FoodType = "nonveg"
	FoodTypeEgg    FoodType = "egg"
	FoodTypeNone   FoodType = "none"
)

// MenuItem is a read-only snapshot row from the catalog collaborator.
type MenuItem struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Price        int64    `json:"price"` // minor currency units
	Categories   []string `json:"categories"`
	Tags         []string `json:"tags"`
	FoodType     FoodType `json:"food_type"`
	Unit         string   `json:"unit"`
	UnitQuantity int      `json:"unit_quantity"`
	ImageURL     string   `json:"image_url"`
	Available    bool     `json:"available"`
}

// NormalizedName lower-cases and strips all whitespace; the form used for
// exact-match comparisons.
func NormalizedName(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "")
}

// Category is a read-only catalog grouping.
type Category struct {
	Name   string `json:"name"`
	Paused bool   `json:"paused"`
}

// Catalog is the per-turn working snapshot: available items with paused
// categories already applied. Read-only within a turn.
type Catalog struct {
	Items []MenuItem
}

// BuildSnapshot filters raw catalog rows for a single turn. Items whose every
// category is paused are dropped; surviving items keep only non-paused
// categories in their displayed set.
func BuildSnapshot(items []MenuItem, pausedCategories []string) Catalog {
	paused := make(map[string]struct{}, len(pausedCategories))
	for _, c := range pausedCategories {
		paused[strings.ToLower(c)] = struct{}{}
	}
	out := make([]MenuItem, 0, len(items))
	for _, it := range items {
		if !it.Available {
			continue
		}
		kept := make([]string, 0, len(it.Categories))
		for _, c := range it.Categories {
			if _, ok := paused[strings.ToLower(c)]; !ok {
				kept = append(kept, c)
			}
		}
		if len(kept) == 0 && len(it.Categories) > 0 {
			continue
		}
		it.Categories = kept
		out = append(out, it)
	}
	return Catalog{Items: out}
}

// ItemByID resolves an item in the snapshot; ok is false when the id no
// longer exists (deleted or hidden since the previous turn).
func (c Catalog) ItemByID(id string) (MenuItem, bool) {
	for _, it := range c.Items {
		if it.ID == id {
			return it, true
		}
	}
	return MenuItem{}, false
}

// CategoryNames returns the distinct non-paused category names in catalog order.
func (c Catalog) CategoryNames() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, it := range c.Items {
		for _, cat := range it.Categories {
			if _, ok := seen[cat]; ok {
				continue
			}
			seen[cat] = struct{}{}
			out = append(out, cat)
		}
	}
	return out
}

// FilterByFoodType returns items matching the given food type. Egg items are
// included for nonveg queries since they are not vegetarian.
func (c Catalog) FilterByFoodType(ft FoodType) []MenuItem {
	var out []MenuItem
	for _, it := range c.Items {
		switch ft {
		case FoodTypeVeg:
			if it.FoodType == FoodTypeVeg {
				out = append(out, it)
			}
		case FoodTypeNonVeg:
			if it.FoodType == FoodTypeNonVeg || it.FoodType == FoodTypeEgg {
				out = append(out, it)
			}
		case FoodTypeEgg:
			if it.FoodType == FoodTypeEgg {
				out = append(out, it)
			}
		default:
			out = append(out, it)
		}
	}
	return out
}

// FilterByCategory returns items carrying the named category (case-insensitive).
func (c Catalog) FilterByCategory(name string) []MenuItem {
	var out []MenuItem
	for _, it := range c.Items {
		for _, cat := range it.Categories {
			if strings.EqualFold(cat, name) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// SearchResult is the ephemeral outcome of one catalog query.
type SearchResult struct {
	Items      []MenuItem
	FoodType   FoodType // matched food-type hint, if any
	Ingredient string   // specific ingredient keyword, if any
	Label      string   // human label for the result set
	ExactMatch bool
}
