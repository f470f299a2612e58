package usecase

import (
	"context"
	"errors"
	"fmt"

	"restaurant-order-bot/internal/domain"
	"restaurant-order-bot/internal/domain/model"
	"restaurant-order-bot/internal/domain/ports/repository"
)

// CustomerUseCase owns customer lookup and creation. Conversation state is
// read through the cache when warm; the Postgres row stays the system of
// record and every save writes through to both.
type CustomerUseCase struct {
	customers repository.CustomerRepository
	states    repository.StateCache // optional
}

func NewCustomerUseCase(customers repository.CustomerRepository, states repository.StateCache) *CustomerUseCase {
	return &CustomerUseCase{customers: customers, states: states}
}

// GetOrCreate fetches the customer for phone, creating a first-contact record
// in the initial step when none exists.
func (u *CustomerUseCase) GetOrCreate(ctx context.Context, phone, name string) (*model.Customer, error) {
	c, err := u.customers.FindByPhone(ctx, phone)
	if errors.Is(err, domain.ErrNotFound) {
		c = model.NewCustomer(phone, name)
		if err := u.customers.Save(ctx, c); err != nil {
			return nil, fmt.Errorf("create customer: %w", err)
		}
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}
	if name != "" && c.Name == "" {
		c.Name = name
	}
	if u.states != nil {
		if st, err := u.states.GetState(ctx, phone); err == nil && st != nil {
			c.State = *st
		}
	}
	return c, nil
}

// Save persists the customer and refreshes the state cache mirror.
func (u *CustomerUseCase) Save(ctx context.Context, c *model.Customer) error {
	c.Touch()
	if err := u.customers.Save(ctx, c); err != nil {
		return fmt.Errorf("save customer: %w", err)
	}
	if u.states != nil {
		_ = u.states.SetState(ctx, c.Phone, &c.State)
	}
	return nil
}
