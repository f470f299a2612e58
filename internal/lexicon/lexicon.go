package lexicon

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed tables
var TablesFS embed.FS

// Intent names a discrete classified purpose of a message. The pattern table
// is data-driven: adding a language touches YAML only, never classifier code.
type Intent string

const (
	IntentGreeting    Intent = "greeting"
	IntentMainMenu    Intent = "main_menu"
	IntentBack        Intent = "back"
	IntentViewCart    Intent = "view_cart"
	IntentClearCart   Intent = "clear_cart"
	IntentCheckout    Intent = "checkout"
	IntentCancel      Intent = "cancel"
	IntentRefund      Intent = "refund"
	IntentTrack       Intent = "track"
	IntentOrderStatus Intent = "order_status"
	IntentHelp        Intent = "help"
)

// FoodTypeTable holds the dietary keyword lists.
type FoodTypeTable struct {
	Veg         []string `yaml:"veg"`
	NonVeg      []string `yaml:"nonveg"`
	Egg         []string `yaml:"egg"`
	Ingredients []string `yaml:"ingredients"`
	Generic     []string `yaml:"generic"`
}

// Lexicon is the immutable, load-once bundle of pattern sets, the
// transliteration dictionary, synonym expansions and food-type keywords.
type Lexicon struct {
	patterns map[Intent][]string
	translit map[string]string
	synonyms map[string][]string
	food     FoodTypeTable
}

// Load reads every table from fsys (normally TablesFS) and validates shape.
func Load(fsys fs.FS) (*Lexicon, error) {
	lex := &Lexicon{
		patterns: map[Intent][]string{},
		translit: map[string]string{},
		synonyms: map[string][]string{},
	}

	raw, err := fs.ReadFile(fsys, "tables/patterns.yaml")
	if err != nil {
		return nil, fmt.Errorf("read patterns table: %w", err)
	}
	var byIntent map[string]map[string][]string
	if err := yaml.Unmarshal(raw, &byIntent); err != nil {
		return nil, fmt.Errorf("parse patterns table: %w", err)
	}
	for intent, locales := range byIntent {
		var flat []string
		for _, phrases := range locales {
			for _, p := range phrases {
				p = strings.ToLower(strings.TrimSpace(p))
				if p != "" {
					flat = append(flat, p)
				}
			}
		}
		if len(flat) == 0 {
			return nil, fmt.Errorf("intent %q has no patterns", intent)
		}
		lex.patterns[Intent(intent)] = flat
	}

	raw, err = fs.ReadFile(fsys, "tables/translit.yaml")
	if err != nil {
		return nil, fmt.Errorf("read translit table: %w", err)
	}
	var translit map[string]string
	if err := yaml.Unmarshal(raw, &translit); err != nil {
		return nil, fmt.Errorf("parse translit table: %w", err)
	}
	for k, v := range translit {
		lex.translit[strings.ToLower(k)] = strings.ToLower(v)
	}

	raw, err = fs.ReadFile(fsys, "tables/synonyms.yaml")
	if err != nil {
		return nil, fmt.Errorf("read synonyms table: %w", err)
	}
	var syn map[string][]string
	if err := yaml.Unmarshal(raw, &syn); err != nil {
		return nil, fmt.Errorf("parse synonyms table: %w", err)
	}
	for k, vs := range syn {
		key := strings.ToLower(k)
		for _, v := range vs {
			lex.synonyms[key] = append(lex.synonyms[key], strings.ToLower(v))
		}
	}

	raw, err = fs.ReadFile(fsys, "tables/foodtypes.yaml")
	if err != nil {
		return nil, fmt.Errorf("read foodtypes table: %w", err)
	}
	if err := yaml.Unmarshal(raw, &lex.food); err != nil {
		return nil, fmt.Errorf("parse foodtypes table: %w", err)
	}
	if len(lex.food.Veg) == 0 || len(lex.food.NonVeg) == 0 {
		return nil, fmt.Errorf("foodtypes table missing veg/nonveg lists")
	}

	return lex, nil
}

// MustLoad loads the embedded tables or panics; intended for wiring in main
// and tests where the embedded tables are known-good.
func MustLoad() *Lexicon {
	lex, err := Load(TablesFS)
	if err != nil {
		panic(err)
	}
	return lex
}

// Patterns returns the flattened pattern list for an intent.
func (l *Lexicon) Patterns(intent Intent) []string { return l.patterns[intent] }

// Transliterate maps a single token; ok is false when the dictionary has no
// entry.
func (l *Lexicon) Transliterate(token string) (string, bool) {
	v, ok := l.translit[strings.ToLower(token)]
	return v, ok
}

// TransliterateText maps every known token in text, leaving the rest alone.
func (l *Lexicon) TransliterateText(text string) string {
	fields := strings.Fields(strings.ToLower(text))
	for i, f := range fields {
		if v, ok := l.translit[f]; ok {
			fields[i] = v
		}
	}
	return strings.Join(fields, " ")
}

// Synonyms returns the expansion list for a term, or nil.
func (l *Lexicon) Synonyms(term string) []string { return l.synonyms[strings.ToLower(term)] }

// FoodTypes exposes the dietary keyword table.
func (l *Lexicon) FoodTypes() FoodTypeTable { return l.food }

// IsNonVegIngredient reports whether token is a specific non-veg ingredient
// keyword such as "chicken".
func (l *Lexicon) IsNonVegIngredient(token string) bool {
	token = strings.ToLower(token)
	for _, ing := range l.food.Ingredients {
		if token == strings.ToLower(ing) {
			return true
		}
	}
	return false
}
