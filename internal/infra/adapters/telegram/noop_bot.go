package telegram

import (
	"context"

	"github.com/rs/zerolog"

	"restaurant-order-bot/internal/domain/ports/adapter"
)

var _ adapter.Messenger = (*NoopGateway)(nil)

// NoopGateway implements adapter.Messenger for local/dev testing. It logs
// messages instead of sending real ones.
type NoopGateway struct {
	log zerolog.Logger
}

func NewNoopGateway(log *zerolog.Logger) *NoopGateway {
	return &NoopGateway{log: log.With().Str("component", "noop-messenger").Logger()}
}

func (g *NoopGateway) SendMessage(ctx context.Context, phone, text string) error {
	g.log.Info().Str("to", phone).Str("text", text).Msg("message")
	return nil
}

func (g *NoopGateway) SendButtons(ctx context.Context, phone, text string, buttons []adapter.Button, footer string) error {
	g.log.Info().Str("to", phone).Str("text", text).Int("buttons", len(buttons)).Str("footer", footer).Msg("buttons")
	return nil
}

func (g *NoopGateway) SendList(ctx context.Context, phone, title, description, buttonLabel string, sections []adapter.Section, footer string) error {
	g.log.Info().Str("to", phone).Str("title", title).Int("sections", len(sections)).Msg("list")
	return nil
}

func (g *NoopGateway) SendImageWithButtons(ctx context.Context, phone, imageURL, text string, buttons []adapter.Button) error {
	g.log.Info().Str("to", phone).Str("image", imageURL).Str("caption", text).Int("buttons", len(buttons)).Msg("image")
	return nil
}

func (g *NoopGateway) SendLocationRequest(ctx context.Context, phone, text string) error {
	g.log.Info().Str("to", phone).Str("text", text).Msg("location request")
	return nil
}

func (g *NoopGateway) SendCtaURL(ctx context.Context, phone, text, buttonLabel, url, footer string) error {
	g.log.Info().Str("to", phone).Str("text", text).Str("label", buttonLabel).Str("url", url).Msg("cta")
	return nil
}
