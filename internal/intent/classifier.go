// Package intent classifies normalized message text against the lexicon
// pattern tables. Classifiers are independent and may overlap; the dialogue
// controller's dispatch order, not classifier logic, resolves ambiguity. The
// one exception is order-status, which explicitly yields to cancel, refund
// and track to avoid misrouting.
package intent

import (
	"sort"
	"strings"
	"unicode"

	"restaurant-order-bot/internal/domain/model"
	"restaurant-order-bot/internal/lexicon"
)

// FoodTypeHint is the outcome of food-type detection. Ingredient is set when
// a specific non-veg ingredient such as "chicken" was mentioned.
type FoodTypeHint struct {
	Type       model.FoodType
	Ingredient string
}

// Classifier evaluates text against the pattern tables. It is pure and safe
// for concurrent use.
type Classifier struct {
	lex      *lexicon.Lexicon
	patterns map[lexicon.Intent][]string // normalized once at construction
	strip    []string                    // generic food words, longest first
}

func NewClassifier(lex *lexicon.Lexicon) *Classifier {
	c := &Classifier{lex: lex, patterns: map[lexicon.Intent][]string{}}
	for _, intent := range []lexicon.Intent{
		lexicon.IntentGreeting, lexicon.IntentMainMenu, lexicon.IntentBack,
		lexicon.IntentViewCart, lexicon.IntentClearCart, lexicon.IntentCheckout,
		lexicon.IntentCancel, lexicon.IntentRefund, lexicon.IntentTrack,
		lexicon.IntentOrderStatus, lexicon.IntentHelp,
	} {
		for _, p := range lex.Patterns(intent) {
			c.patterns[intent] = append(c.patterns[intent], Normalize(p))
		}
	}
	ft := lex.FoodTypes()
	for _, list := range [][]string{ft.Veg, ft.NonVeg, ft.Egg, ft.Generic} {
		for _, w := range list {
			c.strip = append(c.strip, Normalize(w))
		}
	}
	// Strip longer phrases first so "non veg" goes before "veg".
	sort.Slice(c.strip, func(i, j int) bool { return len(c.strip[i]) > len(c.strip[j]) })
	return c
}

// Normalize lower-cases, folds punctuation to spaces and collapses runs,
// keeping letters and digits in any script.
func Normalize(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Is reports whether any pattern for intent matches text. Matching is
// whole-word: both sides are space-padded so "hi" never fires inside "this".
func (c *Classifier) Is(intent lexicon.Intent, text string) bool {
	padded := " " + Normalize(text) + " "
	for _, p := range c.patterns[intent] {
		if strings.Contains(padded, " "+p+" ") {
			return true
		}
	}
	return false
}

func (c *Classifier) IsGreeting(text string) bool  { return c.Is(lexicon.IntentGreeting, text) }
func (c *Classifier) IsMainMenu(text string) bool  { return c.Is(lexicon.IntentMainMenu, text) }
func (c *Classifier) IsBack(text string) bool      { return c.Is(lexicon.IntentBack, text) }
func (c *Classifier) IsViewCart(text string) bool  { return c.Is(lexicon.IntentViewCart, text) }
func (c *Classifier) IsClearCart(text string) bool { return c.Is(lexicon.IntentClearCart, text) }
func (c *Classifier) IsCheckout(text string) bool  { return c.Is(lexicon.IntentCheckout, text) }
func (c *Classifier) IsCancel(text string) bool    { return c.Is(lexicon.IntentCancel, text) }
func (c *Classifier) IsRefund(text string) bool    { return c.Is(lexicon.IntentRefund, text) }
func (c *Classifier) IsTrack(text string) bool     { return c.Is(lexicon.IntentTrack, text) }
func (c *Classifier) IsHelp(text string) bool      { return c.Is(lexicon.IntentHelp, text) }

// IsOrderStatus matches generic order-status phrasing, but returns false when
// the more specific cancel/refund/track classifiers also match so those flows
// win regardless of dispatch order.
func (c *Classifier) IsOrderStatus(text string) bool {
	if !c.Is(lexicon.IntentOrderStatus, text) {
		return false
	}
	if c.IsCancel(text) || c.IsRefund(text) || c.IsTrack(text) {
		return false
	}
	return true
}

// DetectFoodType finds a dietary hint in text. Specificity order: ingredient
// mention > explicit egg (excluding "eggless") > general non-veg > general
// veg. Veg is only reported when no non-veg phrase is present, since "non
// veg" textually contains "veg".
func (c *Classifier) DetectFoodType(text string) *FoodTypeHint {
	padded := " " + Normalize(text) + " "
	ft := c.lex.FoodTypes()

	for _, ing := range ft.Ingredients {
		if strings.Contains(padded, " "+Normalize(ing)+" ") {
			return &FoodTypeHint{Type: model.FoodTypeNonVeg, Ingredient: Normalize(ing)}
		}
	}
	if !strings.Contains(padded, " eggless ") {
		for _, w := range ft.Egg {
			if strings.Contains(padded, " "+Normalize(w)+" ") {
				return &FoodTypeHint{Type: model.FoodTypeEgg}
			}
		}
	}
	for _, w := range ft.NonVeg {
		if strings.Contains(padded, " "+Normalize(w)+" ") {
			return &FoodTypeHint{Type: model.FoodTypeNonVeg}
		}
	}
	for _, w := range ft.Veg {
		if strings.Contains(padded, " "+Normalize(w)+" ") {
			return &FoodTypeHint{Type: model.FoodTypeVeg}
		}
	}
	return nil
}

// StripFoodWords removes generic dietary and filler phrases from a search
// variation. Ingredient terms like "chicken" are deliberately kept since they
// remain useful search terms.
func (c *Classifier) StripFoodWords(text string) string {
	padded := " " + Normalize(text) + " "
	for _, w := range c.strip {
		padded = strings.ReplaceAll(padded, " "+w+" ", " ")
	}
	return strings.TrimSpace(padded)
}
