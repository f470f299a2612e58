package telegram

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"

	"restaurant-order-bot/internal/domain/ports/adapter"
)

func TestNoopGateway(t *testing.T) {
	logger := zerolog.New(io.Discard)
	var g adapter.Messenger = NewNoopGateway(&logger)
	ctx := context.Background()

	calls := []struct {
		name string
		send func() error
	}{
		{"message", func() error { return g.SendMessage(ctx, "100", "hi") }},
		{"buttons", func() error {
			return g.SendButtons(ctx, "100", "pick", []adapter.Button{{ID: "home", Title: "Home"}}, "")
		}},
		{"list", func() error {
			return g.SendList(ctx, "100", "Menu", "desc", "View", []adapter.Section{{Title: "A"}}, "")
		}},
		{"image", func() error {
			return g.SendImageWithButtons(ctx, "100", "http://img", "caption", nil)
		}},
		{"location", func() error { return g.SendLocationRequest(ctx, "100", "where?") }},
		{"cta", func() error { return g.SendCtaURL(ctx, "100", "pay", "Pay", "upi://x", "") }},
	}
	for _, c := range calls {
		t.Run(c.name, func(t *testing.T) {
			if err := c.send(); err != nil {
				t.Fatalf("%s: %v", c.name, err)
			}
		})
	}
}
