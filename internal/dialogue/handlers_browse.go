package dialogue

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"restaurant-order-bot/internal/domain/model"
	"restaurant-order-bot/internal/domain/ports/adapter"
	"restaurant-order-bot/internal/intent"
)

func foodTypeMarker(ft model.FoodType) string {
	switch ft {
	case model.FoodTypeVeg:
		return "🟢"
	case model.FoodTypeNonVeg:
		return "🔴"
	case model.FoodTypeEgg:
		return "🟡"
	default:
		return ""
	}
}

func (c *Controller) handleWelcome(ctx context.Context, t *turn) ([]Reply, error) {
	st := &t.cust.State
	*st = model.ConversationState{Step: model.StepMainMenu, LastInteraction: st.LastInteraction}

	name := t.cust.Name
	if name == "" {
		name = "there"
	}
	greeting := fmt.Sprintf("👋 Hi %s! Welcome to %s. What would you like to do?", name, c.cfg.RestaurantName)
	sections := []adapter.Section{{
		Title: "Order food",
		Rows: []adapter.Row{
			{ID: "view_menu", Title: "📖 Browse Menu", Description: "See all categories"},
			{ID: "select_food_type", Title: "🥗 Veg / Non-Veg", Description: "Filter the menu by food type"},
			{ID: "view_cart", Title: "🛒 View Cart", Description: "Review what you've added"},
		},
	}, {
		Title: "Your orders",
		Rows: []adapter.Row{
			{ID: "order_status", Title: "📦 My Orders", Description: "Status of recent orders"},
			{ID: "track_order_prompt", Title: "🛵 Track Order", Description: "Where is my order?"},
			{ID: "help", Title: "💬 Help", Description: "Talk to us"},
		},
	}}
	return []Reply{listReply(greeting, "Pick an option to get started.", "Menu", sections, c.cfg.RestaurantName)}, nil
}

func (c *Controller) handleBack(ctx context.Context, t *turn) ([]Reply, error) {
	st := &t.cust.State
	switch st.Step {
	case model.StepViewingItems, model.StepViewingItemDetails, model.StepSelectQuantity, model.StepViewingTagResults, model.StepBrowsingMenu:
		if st.SelectedCategory != "" {
			st.SelectedCategory = ""
			return c.categoryList(t, st.CategoryPage, false)
		}
	}
	return c.handleWelcome(ctx, t)
}

func (c *Controller) handleHelp(ctx context.Context, t *turn) ([]Reply, error) {
	return []Reply{buttonsReply(
		fmt.Sprintf("💬 Need a hand? You can browse the menu, manage your cart, or track an order right here. For anything else the %s team is a call away.", c.cfg.RestaurantName),
		[]adapter.Button{
			{ID: "home", Title: "🏠 Home"},
			{ID: "view_menu", Title: "📖 Menu"},
		}, "")}, nil
}

func (c *Controller) handleFoodTypePrompt(ctx context.Context, t *turn) ([]Reply, error) {
	t.cust.State.Step = model.StepSelectFoodType
	return []Reply{buttonsReply("What do you feel like today?", []adapter.Button{
		{ID: "food_veg", Title: "🟢 Veg"},
		{ID: "food_nonveg", Title: "🔴 Non-Veg"},
		{ID: "food_all", Title: "🍽 Everything"},
	}, "")}, nil
}

func (c *Controller) handleFoodTypeOrderPrompt(ctx context.Context, t *turn) ([]Reply, error) {
	t.cust.State.Step = model.StepSelectFoodTypeOrder
	return []Reply{buttonsReply("Let's build your order. Any preference?", []adapter.Button{
		{ID: "order_food_veg", Title: "🟢 Veg"},
		{ID: "order_food_nonveg", Title: "🔴 Non-Veg"},
		{ID: "order_food_all", Title: "🍽 Everything"},
	}, "")}, nil
}

func (c *Controller) handleFoodTypeChoice(ctx context.Context, t *turn) ([]Reply, error) {
	return c.applyFoodTypeChoice(t, strings.TrimPrefix(t.sel, "food_"))
}

func (c *Controller) handleFoodTypeOrderChoice(ctx context.Context, t *turn) ([]Reply, error) {
	return c.applyFoodTypeChoice(t, strings.TrimPrefix(t.sel, "order_food_"))
}

func (c *Controller) applyFoodTypeChoice(t *turn, choice string) ([]Reply, error) {
	st := &t.cust.State
	switch choice {
	case "veg":
		st.FoodTypePreference = model.FoodTypeVeg
	case "nonveg":
		st.FoodTypePreference = model.FoodTypeNonVeg
	case "egg":
		st.FoodTypePreference = model.FoodTypeEgg
	default:
		st.FoodTypePreference = ""
	}
	st.Step = model.StepBrowsingMenu
	st.SelectedCategory = ""
	st.SearchTag = ""
	items := t.catalog.Items
	label := "Our menu"
	if st.FoodTypePreference != "" {
		items = t.catalog.FilterByFoodType(st.FoodTypePreference)
		label = fmt.Sprintf("%s %s dishes", foodTypeMarker(st.FoodTypePreference), strings.Title(choice))
	}
	if len(items) == 0 {
		return []Reply{buttonsReply("Nothing matches that filter right now.", []adapter.Button{
			{ID: "view_menu", Title: "📖 Full Menu"},
			{ID: "home", Title: "🏠 Home"},
		}, "")}, nil
	}
	return c.itemList(t, items, 0, label), nil
}

func (c *Controller) handleCategoryListStart(ctx context.Context, t *turn) ([]Reply, error) {
	return c.categoryList(t, 0, false)
}

func (c *Controller) handleCategoryPage(ctx context.Context, t *turn) ([]Reply, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(t.sel, "cat_page_"))
	if err != nil {
		return c.fallbackMenu(), nil
	}
	return c.categoryList(t, n, false)
}

// categoryList renders one page of 9 categories plus the "all" entry, with
// navigation rows in their own section when more pages exist.
func (c *Controller) categoryList(t *turn, pageIdx int, orderFlow bool) ([]Reply, error) {
	st := &t.cust.State
	cats := t.catalog.CategoryNames()
	pages := totalPages(len(cats), categoryPageSize)
	if pageIdx >= pages {
		pageIdx = pages - 1
	}
	if pageIdx < 0 {
		pageIdx = 0
	}
	st.Step = model.StepSelectCategory
	st.CategoryPage = pageIdx
	st.SelectedCategory = ""
	st.SearchTag = ""
	start, end := page(len(cats), pageIdx, categoryPageSize)

	idPrefix := "cat_"
	if orderFlow {
		idPrefix = "order_cat_"
	}
	rows := make([]adapter.Row, 0, categoryPageSize+1)
	for _, name := range cats[start:end] {
		count := len(t.catalog.FilterByCategory(name))
		rows = append(rows, adapter.Row{
			ID:          idPrefix + strings.ToLower(name),
			Title:       name,
			Description: fmt.Sprintf("%d items", count),
		})
	}
	rows = append(rows, adapter.Row{ID: idPrefix + "all", Title: "🍽 All Items", Description: "The full menu"})

	sections := []adapter.Section{{Title: "Categories", Rows: rows}}
	if pages > 1 {
		var nav []adapter.Row
		if pageIdx > 0 {
			nav = append(nav, adapter.Row{ID: pageToken("cat", pageIdx-1), Title: "⬅ Previous"})
		}
		if pageIdx < pages-1 {
			nav = append(nav, adapter.Row{ID: pageToken("cat", pageIdx+1), Title: "Next ➡"})
		}
		sections = append(sections, adapter.Section{Title: fmt.Sprintf("Page %d of %d", pageIdx+1, pages), Rows: nav})
	}
	return []Reply{listReply("📖 Our Menu", "Pick a category to see the dishes.", "Categories", sections, c.cfg.RestaurantName)}, nil
}

func (c *Controller) handleCategoryChoice(ctx context.Context, t *turn) ([]Reply, error) {
	return c.openCategory(t, strings.TrimPrefix(t.sel, "cat_"))
}

func (c *Controller) handleOrderCategoryChoice(ctx context.Context, t *turn) ([]Reply, error) {
	return c.openCategory(t, strings.TrimPrefix(t.sel, "order_cat_"))
}

func (c *Controller) openCategory(t *turn, name string) ([]Reply, error) {
	st := &t.cust.State
	st.SearchTag = ""
	var items []model.MenuItem
	label := "🍽 All Items"
	if name == "all" {
		st.SelectedCategory = ""
		items = t.catalog.Items
	} else {
		st.SelectedCategory = name
		items = t.catalog.FilterByCategory(name)
		label = strings.Title(name)
	}
	if st.FoodTypePreference != "" {
		items = filterItemsByFoodType(items, st.FoodTypePreference)
	}
	if len(items) == 0 {
		return []Reply{buttonsReply(fmt.Sprintf("No items available under %q right now.", name), []adapter.Button{
			{ID: "view_menu", Title: "📖 Categories"},
			{ID: "home", Title: "🏠 Home"},
		}, "")}, nil
	}
	st.Step = model.StepViewingItems
	return c.itemList(t, items, 0, label), nil
}

func (c *Controller) handleItemPage(ctx context.Context, t *turn) ([]Reply, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(t.sel, "item_page_"))
	if err != nil {
		return c.fallbackMenu(), nil
	}
	items, label := c.currentListing(ctx, t)
	if len(items) == 0 {
		return c.fallbackMenu(), nil
	}
	return c.itemList(t, items, n, label), nil
}

// currentListing reconstructs the item set being paged through from the
// conversation state: tag results, then category, then food-type filter,
// then the full menu.
func (c *Controller) currentListing(ctx context.Context, t *turn) ([]model.MenuItem, string) {
	st := t.cust.State
	if st.SearchTag != "" {
		res := c.search.Search(ctx, st.SearchTag, t.catalog)
		return res.Items, fmt.Sprintf("Results for %q", st.SearchTag)
	}
	if st.SelectedCategory != "" {
		items := t.catalog.FilterByCategory(st.SelectedCategory)
		if st.FoodTypePreference != "" {
			items = filterItemsByFoodType(items, st.FoodTypePreference)
		}
		return items, strings.Title(st.SelectedCategory)
	}
	if st.FoodTypePreference != "" {
		return t.catalog.FilterByFoodType(st.FoodTypePreference), "Filtered menu"
	}
	return t.catalog.Items, "Our menu"
}

// itemList renders one page of up to 10 items.
func (c *Controller) itemList(t *turn, items []model.MenuItem, pageIdx int, label string) []Reply {
	st := &t.cust.State
	pages := totalPages(len(items), itemPageSize)
	if pageIdx >= pages {
		pageIdx = pages - 1
	}
	if pageIdx < 0 {
		pageIdx = 0
	}
	st.CurrentPage = pageIdx
	start, end := page(len(items), pageIdx, itemPageSize)

	rows := make([]adapter.Row, 0, itemPageSize)
	for _, it := range items[start:end] {
		rows = append(rows, adapter.Row{
			ID:          "view_" + it.ID,
			Title:       fmt.Sprintf("%s %s", foodTypeMarker(it.FoodType), it.Name),
			Description: fmt.Sprintf("%s · %d %s", c.price(it.Price), it.UnitQuantity, it.Unit),
		})
	}
	sections := []adapter.Section{{Title: label, Rows: rows}}
	if pages > 1 {
		var nav []adapter.Row
		if pageIdx > 0 {
			nav = append(nav, adapter.Row{ID: pageToken("item", pageIdx-1), Title: "⬅ Previous"})
		}
		if pageIdx < pages-1 {
			nav = append(nav, adapter.Row{ID: pageToken("item", pageIdx+1), Title: "Next ➡"})
		}
		sections = append(sections, adapter.Section{Title: fmt.Sprintf("Page %d of %d", pageIdx+1, pages), Rows: nav})
	}
	desc := fmt.Sprintf("%d dishes · tap one for details", len(items))
	return []Reply{listReply(label, desc, "View dishes", sections, c.cfg.RestaurantName)}
}

func (c *Controller) handleItemDetails(ctx context.Context, t *turn) ([]Reply, error) {
	id := strings.TrimPrefix(t.sel, "view_")
	return c.itemDetails(t, id)
}

func (c *Controller) itemDetails(t *turn, id string) ([]Reply, error) {
	item, ok := t.catalog.ItemByID(id)
	if !ok {
		return c.itemUnavailable(t), nil
	}
	st := &t.cust.State
	st.Step = model.StepViewingItemDetails
	st.SelectedItemID = item.ID

	text := fmt.Sprintf("%s *%s*\n%s for %d %s", foodTypeMarker(item.FoodType), item.Name, c.price(item.Price), item.UnitQuantity, item.Unit)
	if len(item.Categories) > 0 {
		text += "\n📂 " + strings.Join(item.Categories, ", ")
	}
	buttons := []adapter.Button{
		{ID: "add_" + item.ID, Title: "➕ Add to Cart"},
		{ID: "back", Title: "⬅ Back"},
		{ID: "view_cart", Title: "🛒 Cart"},
	}
	if item.ImageURL != "" {
		return []Reply{imageButtonsReply(item.ImageURL, text, buttons)}, nil
	}
	return []Reply{buttonsReply(text, buttons, "")}, nil
}

// itemUnavailable is the recovery for a stale item reference: re-selection
// prompt plus a reset to a safe browsing state.
func (c *Controller) itemUnavailable(t *turn) []Reply {
	st := &t.cust.State
	st.Step = model.StepBrowsingMenu
	st.SelectedItemID = ""
	return []Reply{buttonsReply("😔 That item just went off the menu. Pick something else?", []adapter.Button{
		{ID: "view_menu", Title: "📖 Menu"},
		{ID: "home", Title: "🏠 Home"},
	}, "")}
}

func (c *Controller) handleNumericInput(ctx context.Context, t *turn) ([]Reply, error) {
	n, err := strconv.Atoi(t.sel)
	if err != nil || n < 1 {
		return c.fallbackMenu(), nil
	}
	st := t.cust.State

	if st.Step == model.StepSelectQuantity {
		return c.addQuantity(ctx, t, n)
	}
	if st.Step == model.StepSelectCategory {
		cats := t.catalog.CategoryNames()
		start, end := page(len(cats), st.CategoryPage, categoryPageSize)
		idx := start + n - 1
		if idx >= end {
			return c.fallbackMenu(), nil
		}
		return c.openCategory(t, cats[idx])
	}

	items, _ := c.currentListing(ctx, t)
	start, end := page(len(items), st.CurrentPage, itemPageSize)
	idx := start + n - 1
	if idx >= end {
		return c.fallbackMenu(), nil
	}
	return c.itemDetails(t, items[idx].ID)
}

// handleFreeText is the last-resort chain: catalog search, then a
// food-type-only match, then category names, then welcome for uninitialized
// state, then the bounded fallback menu.
func (c *Controller) handleFreeText(ctx context.Context, t *turn) ([]Reply, error) {
	if t.text != "" {
		res := c.search.Search(ctx, t.text, t.catalog)
		if len(res.Items) == 1 && res.ExactMatch {
			return c.itemDetails(t, res.Items[0].ID)
		}
		if len(res.Items) > 0 {
			st := &t.cust.State
			st.Step = model.StepViewingTagResults
			st.SearchTag = intent.Normalize(t.text)
			st.SelectedCategory = ""
			label := res.Label
			if label == "" {
				label = fmt.Sprintf("Results for %q", t.text)
			}
			return c.itemList(t, res.Items, 0, label), nil
		}
		if res.FoodType != "" {
			if items := t.catalog.FilterByFoodType(res.FoodType); len(items) > 0 {
				st := &t.cust.State
				st.Step = model.StepBrowsingMenu
				st.FoodTypePreference = res.FoodType
				st.SelectedCategory = ""
				st.SearchTag = ""
				return c.itemList(t, items, 0, fmt.Sprintf("%s Menu", foodTypeMarker(res.FoodType))), nil
			}
		}
		norm := intent.Normalize(t.text)
		for _, cat := range t.catalog.CategoryNames() {
			if intent.Normalize(cat) == norm || strings.Contains(norm, intent.Normalize(cat)) {
				return c.openCategory(t, cat)
			}
		}
	}
	if t.cust.State.Step == "" || t.cust.State.Step == model.StepWelcome {
		return c.handleWelcome(ctx, t)
	}
	return c.fallbackMenu(), nil
}

func filterItemsByFoodType(items []model.MenuItem, ft model.FoodType) []model.MenuItem {
	var out []model.MenuItem
	for _, it := range items {
		switch ft {
		case model.FoodTypeVeg:
			if it.FoodType == model.FoodTypeVeg {
				out = append(out, it)
			}
		case model.FoodTypeNonVeg:
			if it.FoodType == model.FoodTypeNonVeg || it.FoodType == model.FoodTypeEgg {
				out = append(out, it)
			}
		case model.FoodTypeEgg:
			if it.FoodType == model.FoodTypeEgg {
				out = append(out, it)
			}
		default:
			out = append(out, it)
		}
	}
	return out
}
