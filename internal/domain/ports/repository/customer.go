package repository

import (
	"context"

	"restaurant-order-bot/internal/domain/model"
)

// CustomerRepository persists customers with their conversation state and
// cart. Implementations return domain.ErrNotFound for unknown phones.
type CustomerRepository interface {
	FindByPhone(ctx context.Context, phone string) (*model.Customer, error)
	Save(ctx context.Context, c *model.Customer) error
}
