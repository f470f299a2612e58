package usecase

import (
	"context"

	"restaurant-order-bot/internal/domain"
	"restaurant-order-bot/internal/domain/model"
)

type memCustomerRepo struct {
	customers map[string]model.Customer
	findErr   error
	saveErr   error
	saves     int
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{customers: map[string]model.Customer{}}
}

func (m *memCustomerRepo) FindByPhone(_ context.Context, phone string) (*model.Customer, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	c, ok := m.customers[phone]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := c
	return &cp, nil
}

func (m *memCustomerRepo) Save(_ context.Context, c *model.Customer) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.customers[c.Phone] = *c
	return nil
}

// memStateCache is an in-memory StateCache without expiry.
type memStateCache struct {
	states map[string]model.ConversationState
	sets   int
}

func newMemStateCache() *memStateCache {
	return &memStateCache{states: map[string]model.ConversationState{}}
}

func (m *memStateCache) SetState(_ context.Context, phone string, st *model.ConversationState) error {
	m.sets++
	m.states[phone] = *st
	return nil
}

func (m *memStateCache) GetState(_ context.Context, phone string) (*model.ConversationState, error) {
	st, ok := m.states[phone]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := st
	return &cp, nil
}

func (m *memStateCache) ClearState(_ context.Context, phone string) error {
	delete(m.states, phone)
	return nil
}

type fakeOrderSvc struct {
	created   *model.Order
	createErr error
	lastLines []model.CartLine
}

func (f *fakeOrderSvc) CreateOrder(_ context.Context, cust *model.Customer, lines []model.CartLine, st model.ServiceType, d model.DeliveryInfo, method string) (*model.Order, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.lastLines = lines
	o := model.Order{ID: "ord1", Phone: cust.Phone, Lines: lines, Total: 10000, ServiceType: st, PaymentMethod: method, Delivery: d, Status: model.OrderConfirmed}
	f.created = &o
	return &o, nil
}

func (f *fakeOrderSvc) ListRecentOrders(_ context.Context, _ string, _ int) ([]model.Order, error) {
	return nil, nil
}

func (f *fakeOrderSvc) TrackOrder(_ context.Context, _, _ string) (*model.Order, error) {
	return nil, domain.ErrOrderNotFound
}

func (f *fakeOrderSvc) CancelOrder(_ context.Context, _, _ string) error { return nil }

func (f *fakeOrderSvc) RequestRefund(_ context.Context, _, _ string) error { return nil }
