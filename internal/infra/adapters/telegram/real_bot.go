package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"restaurant-order-bot/internal/application"
	"restaurant-order-bot/internal/config"
	"restaurant-order-bot/internal/domain/model"
	"restaurant-order-bot/internal/domain/ports/adapter"
	"restaurant-order-bot/internal/infra/worker"
)

var _ adapter.Messenger = (*RealTelegramGateway)(nil)

// RealTelegramGateway polls updates with tgbotapi, maps them to inbound
// events and hands each to the turn processor on the worker pool. On the
// outbound side it renders the abstract reply shapes as inline keyboards.
//
// The customer key is the Telegram chat id rendered as a string; it plays
// the role a phone number plays on messaging transports that expose one.
type RealTelegramGateway struct {
	bot           *tgbotapi.BotAPI
	cfg           *config.BotConfig
	processor     *application.TurnProcessor
	pool          *worker.Pool
	log           *zerolog.Logger
	cancelPolling context.CancelFunc
}

func NewRealTelegramGateway(cfg *config.BotConfig, pool *worker.Pool, log *zerolog.Logger) (*RealTelegramGateway, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	return &RealTelegramGateway{bot: bot, cfg: cfg, pool: pool, log: log}, nil
}

// SetProcessor wires the turn processor after construction. The gateway is
// both the inbound source and the outbound Messenger, so it has to exist
// before the processor that uses it.
func (g *RealTelegramGateway) SetProcessor(p *application.TurnProcessor) {
	g.processor = p
}

func (g *RealTelegramGateway) StartPolling(ctx context.Context) error {
	if g.processor == nil {
		return errors.New("turn processor not set")
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := g.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	g.cancelPolling = cancel

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case up := <-updates:
			in, ok := g.toInbound(up)
			if !ok {
				continue
			}
			if up.CallbackQuery != nil {
				// Ack so the client stops showing the spinner.
				_, _ = g.bot.Request(tgbotapi.NewCallback(up.CallbackQuery.ID, ""))
			}
			if err := g.pool.Submit(func(ctx context.Context) error {
				return g.processor.Process(ctx, in)
			}); err != nil {
				g.log.Warn().Err(err).Str("phone", in.Phone).Msg("update dropped")
			}
		}
	}
}

func (g *RealTelegramGateway) StopPolling() {
	if g.cancelPolling != nil {
		g.cancelPolling()
	}
}

func (g *RealTelegramGateway) toInbound(up tgbotapi.Update) (model.Inbound, bool) {
	if cb := up.CallbackQuery; cb != nil && cb.Message != nil {
		return model.Inbound{
			Phone:      strconv.FormatInt(cb.Message.Chat.ID, 10),
			Type:       model.MessageText,
			SelectedID: cb.Data,
			SenderName: cb.From.FirstName,
		}, true
	}
	msg := up.Message
	if msg == nil || msg.From == nil {
		return model.Inbound{}, false
	}
	in := model.Inbound{
		Phone:      strconv.FormatInt(msg.Chat.ID, 10),
		Type:       model.MessageText,
		Text:       msg.Text,
		SenderName: msg.From.FirstName,
	}
	if msg.Location != nil {
		in.Type = model.MessageLocation
		in.Location = &model.Location{
			Latitude:  msg.Location.Latitude,
			Longitude: msg.Location.Longitude,
		}
	}
	if in.Text == "" && in.Location == nil {
		return model.Inbound{}, false
	}
	// Telegram commands arrive as "/start" etc.; the dialogue layer works in
	// plain words.
	in.Text = strings.TrimPrefix(in.Text, "/")
	return in, true
}

// ----- outbound -----

func (g *RealTelegramGateway) SendMessage(ctx context.Context, phone, text string) error {
	return g.send(ctx, tgbotapi.NewMessage(chatID(phone), text))
}

func (g *RealTelegramGateway) SendButtons(ctx context.Context, phone, text string, buttons []adapter.Button, footer string) error {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label(b.Title), b.ID),
		))
	}
	msg := tgbotapi.NewMessage(chatID(phone), withFooter(text, footer))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	return g.send(ctx, msg)
}

func (g *RealTelegramGateway) SendList(ctx context.Context, phone, title, description, buttonLabel string, sections []adapter.Section, footer string) error {
	var body strings.Builder
	body.WriteString(title)
	if description != "" {
		body.WriteString("\n")
		body.WriteString(description)
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, sec := range sections {
		if sec.Title != "" && len(sections) > 1 {
			body.WriteString("\n\n")
			body.WriteString(sec.Title)
		}
		for _, row := range sec.Rows {
			t := row.Title
			if row.Description != "" {
				t += " · " + row.Description
			}
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(label(t), row.ID),
			))
		}
	}
	msg := tgbotapi.NewMessage(chatID(phone), withFooter(body.String(), footer))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	return g.send(ctx, msg)
}

func (g *RealTelegramGateway) SendImageWithButtons(ctx context.Context, phone, imageURL, text string, buttons []adapter.Button) error {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label(b.Title), b.ID),
		))
	}
	photo := tgbotapi.NewPhoto(chatID(phone), tgbotapi.FileURL(imageURL))
	photo.Caption = text
	photo.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if err := g.send(ctx, photo); err != nil {
		// Bad or unreachable image URLs must not lose the message.
		return g.SendButtons(ctx, phone, text, buttons, "")
	}
	return nil
}

func (g *RealTelegramGateway) SendLocationRequest(ctx context.Context, phone, text string) error {
	msg := tgbotapi.NewMessage(chatID(phone), text)
	kb := tgbotapi.NewOneTimeReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonLocation("📍 Share location")),
	)
	msg.ReplyMarkup = kb
	return g.send(ctx, msg)
}

func (g *RealTelegramGateway) SendCtaURL(ctx context.Context, phone, text, buttonLabel, url, footer string) error {
	msg := tgbotapi.NewMessage(chatID(phone), withFooter(text, footer))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL(label(buttonLabel), url)),
	)
	return g.send(ctx, msg)
}

func (g *RealTelegramGateway) send(ctx context.Context, c tgbotapi.Chattable) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	_, err := g.bot.Send(c)
	return err
}

func chatID(phone string) int64 {
	id, _ := strconv.ParseInt(phone, 10, 64)
	return id
}

func label(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "•"
	}
	// Telegram truncates long button labels; cut on a rune boundary.
	r := []rune(s)
	if len(r) > 60 {
		return string(r[:60])
	}
	return s
}

func withFooter(text, footer string) string {
	if footer == "" {
		return text
	}
	return text + "\n\n" + footer
}
