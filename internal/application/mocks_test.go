package application

import (
	"context"
	"time"

	"restaurant-order-bot/internal/domain"
	"restaurant-order-bot/internal/domain/model"
	"restaurant-order-bot/internal/domain/ports/adapter"
)

type memCustomerRepo struct {
	customers map[string]model.Customer
	saveErr   error
	saves     int
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{customers: map[string]model.Customer{}}
}

func (m *memCustomerRepo) FindByPhone(_ context.Context, phone string) (*model.Customer, error) {
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

type memCatalogRepo struct {
	items []model.MenuItem
	err   error
}

func (m *memCatalogRepo) ListAvailableItems(_ context.Context) ([]model.MenuItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.items, nil
}

func (m *memCatalogRepo) ListPausedCategories(_ context.Context) ([]string, error) {
	return nil, nil
}

type noopOrderSvc struct{}

func (noopOrderSvc) CreateOrder(context.Context, *model.Customer, []model.CartLine, model.ServiceType, model.DeliveryInfo, string) (*model.Order, error) {
	return &model.Order{ID: "o1"}, nil
}
func (noopOrderSvc) ListRecentOrders(context.Context, string, int) ([]model.Order, error) {
	return nil, nil
}
func (noopOrderSvc) TrackOrder(context.Context, string, string) (*model.Order, error) {
	return nil, domain.ErrOrderNotFound
}
func (noopOrderSvc) CancelOrder(context.Context, string, string) error   { return nil }
func (noopOrderSvc) RequestRefund(context.Context, string, string) error { return nil }

type stubGeocoder struct{}

func (stubGeocoder) ReverseGeocode(context.Context, float64, float64) string { return "somewhere" }

// recordingMessenger captures every outbound send.
type recordingMessenger struct {
	sent    []string // rendered kind markers in delivery order
	sendErr error
}

func (r *recordingMessenger) record(kind string) error {
	if r.sendErr != nil {
		return r.sendErr
	}
	r.sent = append(r.sent, kind)
	return nil
}

func (r *recordingMessenger) SendMessage(_ context.Context, _, _ string) error {
	return r.record("text")
}

func (r *recordingMessenger) SendButtons(_ context.Context, _, _ string, _ []adapter.Button, _ string) error {
	return r.record("buttons")
}

func (r *recordingMessenger) SendList(_ context.Context, _, _, _, _ string, _ []adapter.Section, _ string) error {
	return r.record("list")
}

func (r *recordingMessenger) SendImageWithButtons(_ context.Context, _, _, _ string, _ []adapter.Button) error {
	return r.record("image")
}

func (r *recordingMessenger) SendLocationRequest(_ context.Context, _, _ string) error {
	return r.record("location")
}

func (r *recordingMessenger) SendCtaURL(_ context.Context, _, _, _, _, _ string) error {
	return r.record("cta")
}

// fakeLocker scripts lock acquisition.
type fakeLocker struct {
	denyErr  error
	locked   []string
	unlocked []string
}

func (f *fakeLocker) TryLock(_ context.Context, key string, _ time.Duration) (string, error) {
	if f.denyErr != nil {
		return "", f.denyErr
	}
	f.locked = append(f.locked, key)
	return "tok", nil
}

func (f *fakeLocker) Unlock(_ context.Context, key, _ string) error {
	f.unlocked = append(f.unlocked, key)
	return nil
}
