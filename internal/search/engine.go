// Package search resolves free-text queries against the per-turn catalog
// snapshot. The layering is exact name -> exact tag -> synonym-expanded
// scoring over progressively looser catalog scopes, so specific queries
// resolve deterministically while vague ones still surface a ranked result
// whenever any relation exists.
package search

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"restaurant-order-bot/internal/domain/model"
	"restaurant-order-bot/internal/infra/logging"
	"restaurant-order-bot/internal/infra/metrics"
	"restaurant-order-bot/internal/intent"
	"restaurant-order-bot/internal/lexicon"
	"restaurant-order-bot/internal/translate"
)

// Scoring contract: these weights are part of the engine's observable
// behavior and are kept fixed rather than tuned.
const (
	scoreExactName = 100
	scoreExactTag  = 50
	scoreKeyword   = 20
	scorePartial   = 10
)

type Engine struct {
	pipeline *translate.Pipeline
	cls      *intent.Classifier
	lex      *lexicon.Lexicon
	log      *zerolog.Logger
}

func NewEngine(pipeline *translate.Pipeline, cls *intent.Classifier, lex *lexicon.Lexicon, log *zerolog.Logger) *Engine {
	return &Engine{pipeline: pipeline, cls: cls, lex: lex, log: log}
}

// Search runs the full layered resolution for query against catalog.
func (e *Engine) Search(ctx context.Context, query string, catalog model.Catalog) model.SearchResult {
	defer logging.TraceDuration(e.log, "search.Search")()

	tr := e.pipeline.Translate(ctx, query)

	hint := e.cls.DetectFoodType(tr.Primary)
	var result model.SearchResult
	if hint != nil {
		result.FoodType = hint.Type
		result.Ingredient = hint.Ingredient
	}

	// Clean search terms: generic dietary words stripped, ingredient terms kept.
	terms := make([]string, 0, len(tr.Variations))
	for _, v := range tr.Variations {
		if t := e.cls.StripFoodWords(v); t != "" {
			terms = append(terms, t)
		}
		if n := intent.Normalize(v); n != "" {
			terms = append(terms, n)
		}
	}
	terms = dedupe(terms)

	if items := exactNameMatch(terms, catalog); len(items) > 0 {
		metrics.IncSearchOutcome("exact_name")
		result.Items = items
		result.ExactMatch = true
		result.Label = items[0].Name
		return result
	}

	if items := e.exactTagMatch(terms, catalog); len(items) > 0 {
		metrics.IncSearchOutcome("exact_tag")
		result.Items = items
		result.ExactMatch = true
		return result
	}

	scope := catalog.Items
	if hint != nil {
		scope = catalog.FilterByFoodType(hint.Type)
	}
	if items := e.score(terms, scope); len(items) > 0 {
		metrics.IncSearchOutcome("scored")
		result.Items = items
		return result
	}
	if hint != nil {
		// Retry the full catalog; the food-type label no longer applies.
		if items := e.score(terms, catalog.Items); len(items) > 0 {
			metrics.IncSearchOutcome("scored_unfiltered")
			result.Items = items
			result.FoodType = ""
			result.Ingredient = ""
			return result
		}
	}
	if items := e.score(singleKeywords(terms), catalog.Items); len(items) > 0 {
		metrics.IncSearchOutcome("scored_keywords")
		result.Items = items
		result.FoodType = ""
		result.Ingredient = ""
		return result
	}

	metrics.IncSearchOutcome("no_match")
	return result
}

// exactNameMatch returns every item whose normalized name equals a normalized
// variation, bypassing ranking entirely.
func exactNameMatch(terms []string, catalog model.Catalog) []model.MenuItem {
	for _, t := range terms {
		norm := model.NormalizedName(t)
		if norm == "" {
			continue
		}
		var hits []model.MenuItem
		for _, it := range catalog.Items {
			if model.NormalizedName(it.Name) == norm {
				hits = append(hits, it)
			}
		}
		if len(hits) > 0 {
			return hits
		}
	}
	return nil
}

// exactTagMatch unions items whose tag set contains any keyword token, then
// applies the food-type consistency filter: a non-veg ingredient keyword with
// no veg keyword drops veg items, and symmetrically for veg-only keyword
// sets.
func (e *Engine) exactTagMatch(terms []string, catalog model.Catalog) []model.MenuItem {
	tokens := singleKeywords(terms)

	hasNonVegToken := false
	hasVegToken := false
	for _, tok := range tokens {
		if e.lex.IsNonVegIngredient(tok) {
			hasNonVegToken = true
		}
		if tok == "veg" || tok == "vegetarian" {
			hasVegToken = true
		}
	}

	seen := map[string]struct{}{}
	var union []model.MenuItem
	for _, it := range catalog.Items {
		for _, tag := range it.Tags {
			normTag := model.NormalizedName(tag)
			for _, tok := range tokens {
				if model.NormalizedName(tok) == normTag {
					if _, ok := seen[it.ID]; !ok {
						seen[it.ID] = struct{}{}
						union = append(union, it)
					}
				}
			}
		}
	}

	if hasNonVegToken && !hasVegToken {
		union = filterOut(union, model.FoodTypeVeg)
	} else if hasVegToken && !hasNonVegToken {
		union = filterOut(union, model.FoodTypeNonVeg)
	}
	return union
}

func filterOut(items []model.MenuItem, drop model.FoodType) []model.MenuItem {
	out := items[:0]
	for _, it := range items {
		if it.FoodType != drop {
			out = append(out, it)
		}
	}
	return out
}

// score ranks scope items against the synonym-expanded term set. Ties keep
// catalog order (stable sort).
func (e *Engine) score(terms []string, scope []model.MenuItem) []model.MenuItem {
	terms = e.expandSynonyms(terms)
	if len(terms) == 0 {
		return nil
	}

	type scored struct {
		item  model.MenuItem
		score int
	}
	ranked := make([]scored, 0, len(scope))
	for _, it := range scope {
		normName := model.NormalizedName(it.Name)
		total := 0
		for _, term := range terms {
			normTerm := model.NormalizedName(term)
			if normTerm == "" {
				continue
			}
			if normTerm == normName {
				total += scoreExactName
			}
			for _, tag := range it.Tags {
				if model.NormalizedName(tag) == normTerm {
					total += scoreExactTag
				}
			}
			if strings.Contains(normName, normTerm) || strings.Contains(normTerm, normName) {
				total += scorePartial
			}
			if kws := strings.Fields(term); len(kws) > 1 {
				for _, kw := range kws {
					if matchesKeyword(it, kw) {
						total += scoreKeyword
					}
				}
			}
		}
		if total > 0 {
			ranked = append(ranked, scored{item: it, score: total})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	out := make([]model.MenuItem, len(ranked))
	for i, r := range ranked {
		out[i] = r.item
	}
	return out
}

func matchesKeyword(it model.MenuItem, kw string) bool {
	norm := model.NormalizedName(kw)
	if norm == "" {
		return false
	}
	if strings.Contains(model.NormalizedName(it.Name), norm) {
		return true
	}
	for _, tag := range it.Tags {
		if strings.Contains(model.NormalizedName(tag), norm) {
			return true
		}
	}
	return false
}

// expandSynonyms adds table expansions to the term set without replacing the
// originals, so exact-term matches are never lost.
func (e *Engine) expandSynonyms(terms []string) []string {
	out := append([]string{}, terms...)
	for _, t := range terms {
		for _, syn := range e.lex.Synonyms(t) {
			out = append(out, syn)
		}
		for _, kw := range strings.Fields(t) {
			for _, syn := range e.lex.Synonyms(kw) {
				out = append(out, syn)
			}
		}
	}
	return dedupe(out)
}

// singleKeywords splits every term into its constituent tokens.
func singleKeywords(terms []string) []string {
	var out []string
	for _, t := range terms {
		out = append(out, strings.Fields(t)...)
	}
	return dedupe(out)
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
