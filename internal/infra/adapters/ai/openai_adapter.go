package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"restaurant-order-bot/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.AITranslator = (*OpenAIAdapter)(nil)

const translateSystemPrompt = `You translate short restaurant food orders into plain English.
Reply with ONLY the translation, lowercase, no punctuation, no explanation.
If the text is already English, reply with it unchanged.`

const rephraseSystemPrompt = `You suggest alternative English phrasings for a short food search query.
Reply with up to 3 alternatives, one per line, lowercase, no numbering, no explanation.`

// OpenAIAdapter implements adapter.AITranslator on the Chat Completions API.
type OpenAIAdapter struct {
	client openai.Client
	model  string
}

func NewOpenAIAdapter(apiKey, model string) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIAdapter{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

func (o *OpenAIAdapter) TranslateToEnglish(ctx context.Context, text string) (string, error) {
	out, err := o.chat(ctx, translateSystemPrompt, text)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (o *OpenAIAdapter) Rephrase(ctx context.Context, text string) ([]string, error) {
	out, err := o.chat(ctx, rephraseSystemPrompt, text)
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

func (o *OpenAIAdapter) chat(ctx context.Context, system, user string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", err
	}
	for _, c := range resp.Choices {
		if c.Message.Content != "" {
			return c.Message.Content, nil
		}
	}
	return "", errors.New("no choice content")
}
