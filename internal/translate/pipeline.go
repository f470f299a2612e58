// Package translate normalizes raw customer text into one or more English
// search variations. The pipeline is total: for any input it returns at least
// one variation and never propagates a downstream failure.
package translate

import (
	"context"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"restaurant-order-bot/internal/domain/ports/adapter"
	"restaurant-order-bot/internal/infra/metrics"
	"restaurant-order-bot/internal/lexicon"
)

// Result carries the best English rendering plus every candidate variation.
type Result struct {
	Primary    string
	Variations []string
}

// Pipeline converts any-script input to English search variations using the
// AI translator with static transliteration fallbacks.
type Pipeline struct {
	ai  adapter.AITranslator // may be nil in offline wiring
	lex *lexicon.Lexicon
	log *zerolog.Logger
}

func NewPipeline(ai adapter.AITranslator, lex *lexicon.Lexicon, log *zerolog.Logger) *Pipeline {
	return &Pipeline{ai: ai, lex: lex, log: log}
}

// Translate renders text as English. Non-Latin input goes through the AI
// service (combined, then word-by-word), then the transliteration dictionary,
// then the unmodified lower-cased input. Latin input is transliterated first
// and AI rephrasing variants are added best-effort.
func (p *Pipeline) Translate(ctx context.Context, text string) Result {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return Result{Primary: "", Variations: []string{""}}
	}

	if hasNonLatin(lower) {
		return p.translateNonLatin(ctx, lower)
	}

	translit := p.lex.TransliterateText(lower)
	variations := []string{translit}
	if translit != lower {
		variations = append(variations, lower)
	}
	if p.ai != nil {
		if vars, err := p.ai.Rephrase(ctx, translit); err == nil {
			variations = append(variations, lowerAll(vars)...)
		}
		// rephrase failures are silently ignored
	}
	return Result{Primary: translit, Variations: dedupe(variations)}
}

func (p *Pipeline) translateNonLatin(ctx context.Context, lower string) Result {
	variations := []string{}

	if p.ai != nil {
		combined, err := p.ai.TranslateToEnglish(ctx, lower)
		if err == nil {
			combined = strings.ToLower(strings.TrimSpace(combined))
			if usable(combined) {
				return Result{Primary: combined, Variations: dedupe(append(variations, combined))}
			}
			variations = append(variations, combined)
		}
		if err == nil || wordByWordWorthTrying(lower) {
			if primary, perWord := p.wordByWord(ctx, lower); primary != "" {
				metrics.IncTranslationFallback("word_by_word")
				return Result{Primary: primary, Variations: dedupe(append(variations, append(perWord, primary)...))}
			}
		}
		if err != nil {
			p.log.Debug().Err(err).Msg("translation service unavailable")
		}
	}

	if translit := p.lex.TransliterateText(lower); translit != lower && usable(translit) {
		metrics.IncTranslationFallback("translit_dict")
		return Result{Primary: translit, Variations: dedupe(append(variations, translit, lower))}
	}

	metrics.IncTranslationFallback("identity")
	return Result{Primary: lower, Variations: dedupe(append(variations, lower))}
}

// wordByWord translates each non-Latin token individually and recombines.
// Latin tokens pass through untouched. Returns empty primary when nothing
// translated usably.
func (p *Pipeline) wordByWord(ctx context.Context, lower string) (string, []string) {
	fields := strings.Fields(lower)
	out := make([]string, 0, len(fields))
	var perWord []string
	translated := false
	for _, f := range fields {
		if !hasNonLatin(f) {
			out = append(out, f)
			continue
		}
		w, err := p.ai.TranslateToEnglish(ctx, f)
		w = strings.ToLower(strings.TrimSpace(w))
		if err != nil || !usable(w) {
			if t, ok := p.lex.Transliterate(f); ok {
				w = t
			} else {
				out = append(out, f)
				continue
			}
		}
		out = append(out, w)
		perWord = append(perWord, w)
		translated = true
	}
	if !translated {
		return "", nil
	}
	return strings.Join(out, " "), perWord
}

// usable means non-empty pure-ASCII output; anything else is treated as an
// unusable rendering from the translation service.
func usable(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

func wordByWordWorthTrying(s string) bool {
	return len(strings.Fields(s)) > 1
}

func hasNonLatin(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) && !unicode.Is(unicode.Latin, r) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		out = []string{strings.ToLower(strings.Join(in, " "))}
	}
	return out
}
