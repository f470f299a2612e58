package dialogue

import (
	"context"
	"fmt"
	"strings"

	"restaurant-order-bot/internal/domain"
	"restaurant-order-bot/internal/domain/model"
)

// memCustomerRepo is an in-memory CustomerRepository for dialogue tests.
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

// memCatalogRepo serves a fixed item set.
type memCatalogRepo struct {
	items  []model.MenuItem
	paused []string
	err    error
}

func (m *memCatalogRepo) ListAvailableItems(_ context.Context) ([]model.MenuItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.items, nil
}

func (m *memCatalogRepo) ListPausedCategories(_ context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.paused, nil
}

// fakeOrderSvc records calls and serves scripted orders.
type fakeOrderSvc struct {
	recent     []model.Order
	created    *model.Order
	createErr  error
	cancelErr  error
	refundErr  error
	cancelled  []string
	refunded   []string
	lastMethod string
}

func (f *fakeOrderSvc) CreateOrder(_ context.Context, cust *model.Customer, lines []model.CartLine, st model.ServiceType, d model.DeliveryInfo, method string) (*model.Order, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.lastMethod = method
	o := model.Order{ID: "ord1", Phone: cust.Phone, Lines: lines, Total: 10000, ServiceType: st, PaymentMethod: method, Delivery: d, Status: model.OrderConfirmed}
	if method == model.PayUPI {
		o.Status = model.OrderPendingPayment
		o.PaymentURL = "upi://pay?pa=test@upi&am=100.00"
	}
	f.created = &o
	return &o, nil
}

func (f *fakeOrderSvc) ListRecentOrders(_ context.Context, phone string, limit int) ([]model.Order, error) {
	if limit < len(f.recent) {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func (f *fakeOrderSvc) TrackOrder(_ context.Context, phone, orderID string) (*model.Order, error) {
	for _, o := range f.recent {
		if o.ID == orderID {
			return &o, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (f *fakeOrderSvc) CancelOrder(_ context.Context, phone, orderID string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, orderID)
	return nil
}

func (f *fakeOrderSvc) RequestRefund(_ context.Context, phone, orderID string) error {
	if f.refundErr != nil {
		return f.refundErr
	}
	f.refunded = append(f.refunded, orderID)
	return nil
}

// stubGeocoder resolves every coordinate to the same address.
type stubGeocoder struct{ address string }

func (s stubGeocoder) ReverseGeocode(_ context.Context, lat, lon float64) string {
	if s.address != "" {
		return s.address
	}
	return fmt.Sprintf("Shared location (%.5f, %.5f)", lat, lon)
}

// replyText flattens a reply's visible text for containment assertions.
func replyText(r Reply) string {
	var b strings.Builder
	b.WriteString(r.Text)
	b.WriteString(" ")
	b.WriteString(r.Title)
	b.WriteString(" ")
	b.WriteString(r.Description)
	for _, s := range r.Sections {
		b.WriteString(" ")
		b.WriteString(s.Title)
		for _, row := range s.Rows {
			b.WriteString(" ")
			b.WriteString(row.Title)
		}
	}
	return b.String()
}

func buttonIDs(r Reply) []string {
	out := make([]string, len(r.Buttons))
	for i, b := range r.Buttons {
		out[i] = b.ID
	}
	return out
}

func rowIDs(r Reply) []string {
	var out []string
	for _, s := range r.Sections {
		for _, row := range s.Rows {
			out = append(out, row.ID)
		}
	}
	return out
}

func hasID(ids []string, want string) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}
