package usecase

import (
	"context"
	"fmt"

	"restaurant-order-bot/internal/domain"
	"restaurant-order-bot/internal/domain/model"
	"restaurant-order-bot/internal/domain/ports/adapter"
	"restaurant-order-bot/internal/domain/ports/repository"
	"restaurant-order-bot/internal/infra/metrics"
)

// CartUseCase mutates the customer's cart. Every mutation re-reads the
// authoritative record immediately before changing it and persists
// immediately after, to narrow the lost-update window between turns.
type CartUseCase struct {
	customers repository.CustomerRepository
}

func NewCartUseCase(customers repository.CustomerRepository) *CartUseCase {
	return &CartUseCase{customers: customers}
}

// AddItem merges qty of itemID into the cart. The item must resolve in the
// current catalog snapshot or domain.ErrItemUnavailable is returned.
func (u *CartUseCase) AddItem(ctx context.Context, cust *model.Customer, catalog model.Catalog, itemID string, qty int) (model.MenuItem, error) {
	item, ok := catalog.ItemByID(itemID)
	if !ok {
		return model.MenuItem{}, domain.ErrItemUnavailable
	}

	fresh, err := u.customers.FindByPhone(ctx, cust.Phone)
	if err == nil {
		cust.Cart = fresh.Cart
	}
	cust.Cart.Add(itemID, qty)
	if err := u.customers.Save(ctx, cust); err != nil {
		return model.MenuItem{}, fmt.Errorf("save cart: %w", err)
	}
	metrics.IncCartOp("add")
	return item, nil
}

// Clear empties the cart and persists.
func (u *CartUseCase) Clear(ctx context.Context, cust *model.Customer) error {
	if fresh, err := u.customers.FindByPhone(ctx, cust.Phone); err == nil {
		cust.Cart = fresh.Cart
	}
	cust.Cart.Clear()
	if err := u.customers.Save(ctx, cust); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	metrics.IncCartOp("clear")
	return nil
}

// CheckoutUseCase delegates order creation to the order orchestrator. The
// orchestrator is the system of record for totals and payment state.
type CheckoutUseCase struct {
	customers repository.CustomerRepository
	orders    adapter.OrderService
}

func NewCheckoutUseCase(customers repository.CustomerRepository, orders adapter.OrderService) *CheckoutUseCase {
	return &CheckoutUseCase{customers: customers, orders: orders}
}

// PlaceOrder validates preconditions, creates the order and clears the cart.
func (u *CheckoutUseCase) PlaceOrder(ctx context.Context, cust *model.Customer, serviceType model.ServiceType, paymentMethod string) (*model.Order, error) {
	if cust.Cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}
	delivery := model.DeliveryInfo{
		Address:   cust.DeliveryAddress,
		Latitude:  cust.Latitude,
		Longitude: cust.Longitude,
	}
	order, err := u.orders.CreateOrder(ctx, cust, cust.Cart.Lines, serviceType, delivery, paymentMethod)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	cust.Cart.Clear()
	if err := u.customers.Save(ctx, cust); err != nil {
		return order, fmt.Errorf("clear cart after checkout: %w", err)
	}
	metrics.IncCartOp("checkout")
	return order, nil
}
