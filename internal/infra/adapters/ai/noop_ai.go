package ai

import (
	"context"
	"errors"

	"restaurant-order-bot/internal/domain/ports/adapter"
)

var errNoProvider = errors.New("no ai provider available")

var _ adapter.AITranslator = (*NoopAIAdapter)(nil)

// NoopAIAdapter is used when no AI provider is configured. It always errors,
// which pushes the translation pipeline onto its static fallbacks, so the bot
// still works (with narrower multilingual reach) in dev setups without keys.
type NoopAIAdapter struct{}

func NewNoopAIAdapter() *NoopAIAdapter { return &NoopAIAdapter{} }

func (a *NoopAIAdapter) TranslateToEnglish(ctx context.Context, text string) (string, error) {
	return "", errNoProvider
}

func (a *NoopAIAdapter) Rephrase(ctx context.Context, text string) ([]string, error) {
	return nil, errNoProvider
}
