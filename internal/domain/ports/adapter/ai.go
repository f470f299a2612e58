package adapter

import "context"

// AITranslator is the port for the AI translation service used by the
// normalization pipeline. Both calls are best-effort: the pipeline has static
// fallbacks for every failure mode and never surfaces these errors to the
// customer.
type AITranslator interface {
	// TranslateToEnglish renders text (any script) as plain English.
	TranslateToEnglish(ctx context.Context, text string) (string, error)

	// Rephrase returns alternative English phrasings of an already-English
	// query, used to widen catalog search.
	Rephrase(ctx context.Context, text string) ([]string, error)
}
