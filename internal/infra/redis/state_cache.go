package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"restaurant-order-bot/internal/domain"
	"restaurant-order-bot/internal/domain/model"
	"restaurant-order-bot/internal/domain/ports/repository"

	goredis "github.com/go-redis/redis/v8"
)

var _ repository.StateCache = (*StateCache)(nil)

// StateCache mirrors conversation state in Redis with a TTL. Postgres holds
// the durable copy; this only saves a row read at the start of a hot turn.
type StateCache struct {
	client *Client
	ttl    time.Duration
}

func NewStateCache(client *Client) *StateCache {
	return &StateCache{
		client: client,
		ttl:    15 * time.Minute, // give customers 15 minutes to finish any flow
	}
}

func (s *StateCache) stateKey(phone string) string {
	return fmt.Sprintf("conv_state:%s", phone)
}

func (s *StateCache) SetState(ctx context.Context, phone string, state *model.ConversationState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.stateKey(phone), data, s.ttl)
}

func (s *StateCache) GetState(ctx context.Context, phone string) (*model.ConversationState, error) {
	data, err := s.client.Get(ctx, s.stateKey(phone))
	if err != nil {
		if err == goredis.Nil {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var state model.ConversationState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *StateCache) ClearState(ctx context.Context, phone string) error {
	return s.client.Del(ctx, s.stateKey(phone))
}
