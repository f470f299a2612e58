// File: internal/infra/adapters/ai/multi_adapter.go
package ai

import (
	"context"

	"restaurant-order-bot/internal/domain/ports/adapter"
)

var _ adapter.AITranslator = (*MultiAIAdapter)(nil)

// MultiAIAdapter tries each provider in order until one answers. Providers
// are interchangeable for this workload; ordering is a cost and latency
// preference, not a capability one.
type MultiAIAdapter struct {
	providers []adapter.AITranslator
}

func NewMultiAIAdapter(providers ...adapter.AITranslator) *MultiAIAdapter {
	chain := make([]adapter.AITranslator, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			chain = append(chain, p)
		}
	}
	return &MultiAIAdapter{providers: chain}
}

func (m *MultiAIAdapter) TranslateToEnglish(ctx context.Context, text string) (string, error) {
	var lastErr error
	for _, p := range m.providers {
		out, err := p.TranslateToEnglish(ctx, text)
		if err == nil && out != "" {
			return out, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errNoProvider
	}
	return "", lastErr
}

func (m *MultiAIAdapter) Rephrase(ctx context.Context, text string) ([]string, error) {
	var lastErr error
	for _, p := range m.providers {
		out, err := p.Rephrase(ctx, text)
		if err == nil && len(out) > 0 {
			return out, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errNoProvider
	}
	return nil, lastErr
}
