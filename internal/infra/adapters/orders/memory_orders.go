package orders

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"restaurant-order-bot/internal/domain"
	"restaurant-order-bot/internal/domain/model"
	"restaurant-order-bot/internal/domain/ports/adapter"
)

var _ adapter.OrderService = (*MemoryOrderService)(nil)

// MemoryOrderService keeps orders in process memory. Used in dev setups
// without Postgres; orders vanish on restart.
type MemoryOrderService struct {
	mu      sync.Mutex
	byID    map[string]*model.Order
	pricing Pricing
}

func NewMemoryOrderService(pricing Pricing) *MemoryOrderService {
	return &MemoryOrderService{byID: make(map[string]*model.Order), pricing: pricing}
}

func (s *MemoryOrderService) CreateOrder(ctx context.Context, customer *model.Customer, lines []model.CartLine, serviceType model.ServiceType, delivery model.DeliveryInfo, paymentMethod string) (*model.Order, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}
	var total int64
	if s.pricing != nil {
		items, err := s.pricing.ListAvailableItems(ctx)
		if err != nil {
			return nil, err
		}
		byID := make(map[string]model.MenuItem, len(items))
		for _, it := range items {
			byID[it.ID] = it
		}
		for _, l := range lines {
			it, ok := byID[l.ItemID]
			if !ok {
				return nil, domain.ErrItemUnavailable
			}
			total += it.Price * int64(l.Quantity)
		}
	}

	o := &model.Order{
		ID:            uuid.NewString(),
		Phone:         customer.Phone,
		Lines:         lines,
		Total:         total,
		ServiceType:   serviceType,
		PaymentMethod: paymentMethod,
		Status:        model.OrderConfirmed,
		Delivery:      delivery,
		CreatedAt:     time.Now(),
	}
	if paymentMethod == model.PayUPI {
		o.Status = model.OrderPendingPayment
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[o.ID] = o
	cp := *o
	return &cp, nil
}

func (s *MemoryOrderService) ListRecentOrders(ctx context.Context, phone string, limit int) ([]model.Order, error) {
	if limit <= 0 {
		limit = 5
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Order
	for _, o := range s.byID {
		if o.Phone == phone {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryOrderService) TrackOrder(ctx context.Context, phone, orderID string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.byID[orderID]
	if !ok || o.Phone != phone {
		return nil, domain.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *MemoryOrderService) CancelOrder(ctx context.Context, phone, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.byID[orderID]
	if !ok || o.Phone != phone {
		return domain.ErrOrderNotFound
	}
	switch o.Status {
	case model.OrderPendingPayment, model.OrderConfirmed, model.OrderPreparing:
		o.Status = model.OrderCancelled
		return nil
	}
	return domain.ErrOrderNotFound
}

func (s *MemoryOrderService) RequestRefund(ctx context.Context, phone, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.byID[orderID]
	if !ok || o.Phone != phone {
		return domain.ErrOrderNotFound
	}
	switch o.Status {
	case model.OrderCancelled, model.OrderDelivered:
		o.Status = model.OrderRefunded
		return nil
	}
	return domain.ErrOrderNotFound
}
