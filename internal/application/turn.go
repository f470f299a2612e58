// Package application composes the dialogue controller with the per-customer
// lock, outbound delivery and the turn-level safety net.
package application

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"restaurant-order-bot/internal/dialogue"
	"restaurant-order-bot/internal/domain"
	"restaurant-order-bot/internal/domain/model"
	"restaurant-order-bot/internal/domain/ports/adapter"
	"restaurant-order-bot/internal/infra/logging"
	"restaurant-order-bot/internal/infra/metrics"
	"restaurant-order-bot/internal/usecase"
)

// Locker serializes turns per customer key. Turns for different customers run
// concurrently; overlapping turns for the same customer (duplicate delivery,
// impatient double-taps) must not interleave their read-modify-write cycles.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

// TurnProcessor drives one inbound event through the controller with the
// guarantees the transport layer relies on: nothing escapes uncaught, a
// response is always sent, and whatever state is safe to keep is persisted.
type TurnProcessor struct {
	controller *dialogue.Controller
	customers  *usecase.CustomerUseCase
	messenger  adapter.Messenger
	locker     Locker
	lockTTL    time.Duration
	log        *zerolog.Logger
	entropy    *ulid.MonotonicEntropy
}

func NewTurnProcessor(controller *dialogue.Controller, customers *usecase.CustomerUseCase, messenger adapter.Messenger, locker Locker, log *zerolog.Logger) *TurnProcessor {
	return &TurnProcessor{
		controller: controller,
		customers:  customers,
		messenger:  messenger,
		locker:     locker,
		lockTTL:    30 * time.Second,
		log:        log,
		entropy:    ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// Process handles one turn end to end. It never returns an error for
// customer-visible conditions; the error return is for transport-level
// delivery failures only.
func (p *TurnProcessor) Process(ctx context.Context, in model.Inbound) error {
	start := time.Now()
	traceID := ulid.MustNew(ulid.Timestamp(start), p.entropy).String()
	ctx = logging.WithTraceID(ctx, traceID)
	if in.Phone != "" {
		ctx = logging.WithPhone(ctx, logging.Redact(in.Phone, false))
	}
	log := logging.With(ctx, p.log)

	outcome := "ok"
	defer func() {
		metrics.IncTurn(outcome)
		metrics.ObserveTurnLatency(outcome, float64(time.Since(start).Milliseconds()))
	}()

	if in.Phone == "" {
		outcome = "invalid"
		return fmt.Errorf("inbound event without phone")
	}
	log.Debug().Str("type", string(in.Type)).Msg("turn start")

	if p.locker != nil {
		token, err := p.locker.TryLock(ctx, "turn:"+in.Phone, p.lockTTL)
		switch {
		case err == nil:
			defer func() { _ = p.locker.Unlock(ctx, "turn:"+in.Phone, token) }()
		case errors.Is(err, domain.ErrTurnInProgress):
			outcome = "locked"
			log.Warn().Msg("customer turn already in progress, dropping event")
			return nil
		default:
			// Lock store down. Running unlocked risks an interleaved turn;
			// dropping the event loses it for sure.
			log.Warn().Err(err).Msg("turn lock unavailable, proceeding unlocked")
		}
	}

	cust, replies := p.runControllerSafely(ctx, in, log)

	if cust != nil {
		if err := p.customers.Save(ctx, cust); err != nil {
			outcome = "persist_failed"
			log.Error().Err(err).Msg("persist state after turn")
			// The reply still goes out; the next turn reloads the last
			// durable state.
		}
	}

	if err := dialogue.Send(ctx, p.messenger, in.Phone, replies); err != nil {
		outcome = "send_failed"
		return fmt.Errorf("deliver replies: %w", err)
	}
	log.Debug().Dur("took", time.Since(start)).Int("replies", len(replies)).Msg("turn done")
	return nil
}

// runControllerSafely converts every internal fault, panic included, into the
// generic apology with home/help options so the conversation is never stuck.
func (p *TurnProcessor) runControllerSafely(ctx context.Context, in model.Inbound, log *zerolog.Logger) (cust *model.Customer, replies []dialogue.Reply) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("turn panicked")
			replies = apologyReplies()
		}
	}()

	cust, replies, err := p.controller.Handle(ctx, in)
	if err != nil {
		log.Error().Err(err).Msg("turn failed")
		replies = apologyReplies()
	}
	return cust, replies
}

func apologyReplies() []dialogue.Reply {
	return []dialogue.Reply{{
		Kind: dialogue.ReplyButtons,
		Text: "😅 Something went wrong on our side. Let's try again!",
		Buttons: []adapter.Button{
			{ID: "home", Title: "🏠 Home"},
			{ID: "help", Title: "💬 Help"},
		},
	}}
}
