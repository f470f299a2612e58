package repository

import (
	"context"

	"restaurant-order-bot/internal/domain/model"
)

// StateCache mirrors the customer's conversation state in a fast store with a
// TTL. The Postgres customer row remains the system of record; the cache only
// short-cuts the read at the start of a turn. A miss is not an error.
type StateCache interface {
	SetState(ctx context.Context, phone string, state *model.ConversationState) error
	GetState(ctx context.Context, phone string) (*model.ConversationState, error)
	ClearState(ctx context.Context, phone string) error
}
