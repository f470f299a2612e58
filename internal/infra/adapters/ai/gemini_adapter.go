// File: internal/infra/adapters/ai/gemini_adapter.go
package ai

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"restaurant-order-bot/internal/domain/ports/adapter"
)

var _ adapter.AITranslator = (*GeminiAdapter)(nil)

type GeminiAdapter struct {
	client *genai.Client
	model  string
}

// NewGeminiAdapter creates a Gemini adapter using the official SDK.
func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, model string) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdapter{client: c, model: model}, nil
}

func (g *GeminiAdapter) TranslateToEnglish(ctx context.Context, text string) (string, error) {
	out, err := g.generate(ctx, translateSystemPrompt, text)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (g *GeminiAdapter) Rephrase(ctx context.Context, text string) ([]string, error) {
	out, err := g.generate(ctx, rephraseSystemPrompt, text)
	if err != nil {
		return nil, err
	}
	var phrases []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			phrases = append(phrases, line)
		}
	}
	return phrases, nil
}

func (g *GeminiAdapter) generate(ctx context.Context, system, user string) (string, error) {
	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(user),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
			MaxOutputTokens:   128,
		},
	)
	if err != nil {
		return "", err
	}
	out := resp.Text()
	if out == "" {
		return "", errors.New("gemini: empty response")
	}
	return out, nil
}
