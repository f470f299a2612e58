// Package orders implements the order orchestrator collaborator backed by
// Postgres. Totals and status policy live here, not in the dialogue core.
package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"restaurant-order-bot/internal/domain"
	"restaurant-order-bot/internal/domain/model"
	"restaurant-order-bot/internal/domain/ports/adapter"
)

var _ adapter.OrderService = (*PostgresOrderService)(nil)

// Pricing reads item prices at order time. The catalog repo satisfies this.
type Pricing interface {
	ListAvailableItems(ctx context.Context) ([]model.MenuItem, error)
}

type PostgresOrderService struct {
	pool    *pgxpool.Pool
	pricing Pricing
	upiID   string // merchant VPA for upi:// deep links, empty disables UPI
	payee   string
}

func NewPostgresOrderService(pool *pgxpool.Pool, pricing Pricing, upiID, payee string) *PostgresOrderService {
	return &PostgresOrderService{pool: pool, pricing: pricing, upiID: upiID, payee: payee}
}

func (s *PostgresOrderService) CreateOrder(ctx context.Context, customer *model.Customer, lines []model.CartLine, serviceType model.ServiceType, delivery model.DeliveryInfo, paymentMethod string) (*model.Order, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}
	total, err := s.total(ctx, lines)
	if err != nil {
		return nil, err
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
		o.PaymentURL = s.upiLink(o)
	}

	linesJSON, err := json.Marshal(o.Lines)
	if err != nil {
		return nil, fmt.Errorf("marshal lines: %w", err)
	}
	const q = `
INSERT INTO orders (
  id, phone, lines, total, service_type, payment_method, payment_url, status,
  delivery_address, delivery_lat, delivery_lon, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12);
`
	_, err = s.pool.Exec(ctx, q, o.ID, o.Phone, linesJSON, o.Total, string(o.ServiceType), o.PaymentMethod, o.PaymentURL, string(o.Status), o.Delivery.Address, o.Delivery.Latitude, o.Delivery.Longitude, o.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return o, nil
}

func (s *PostgresOrderService) ListRecentOrders(ctx context.Context, phone string, limit int) ([]model.Order, error) {
	if limit <= 0 {
		limit = 5
	}
	const q = `
SELECT id, phone, lines, total, service_type, payment_method, payment_url, status,
       delivery_address, delivery_lat, delivery_lon, created_at
  FROM orders WHERE phone=$1 ORDER BY created_at DESC LIMIT $2;
`
	rows, err := s.pool.Query(ctx, q, phone, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (s *PostgresOrderService) TrackOrder(ctx context.Context, phone, orderID string) (*model.Order, error) {
	const q = `
SELECT id, phone, lines, total, service_type, payment_method, payment_url, status,
       delivery_address, delivery_lat, delivery_lon, created_at
  FROM orders WHERE id=$1 AND phone=$2;
`
	o, err := scanOrder(s.pool.QueryRow(ctx, q, orderID, phone))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

func (s *PostgresOrderService) CancelOrder(ctx context.Context, phone, orderID string) error {
	// Only orders that have not left the kitchen can be cancelled.
	const q = `
UPDATE orders SET status=$1
 WHERE id=$2 AND phone=$3 AND status IN ($4,$5,$6);
`
	tag, err := s.pool.Exec(ctx, q, string(model.OrderCancelled), orderID, phone,
		string(model.OrderPendingPayment), string(model.OrderConfirmed), string(model.OrderPreparing))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (s *PostgresOrderService) RequestRefund(ctx context.Context, phone, orderID string) error {
	const q = `
UPDATE orders SET status=$1
 WHERE id=$2 AND phone=$3 AND status IN ($4,$5);
`
	tag, err := s.pool.Exec(ctx, q, string(model.OrderRefunded), orderID, phone,
		string(model.OrderCancelled), string(model.OrderDelivered))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (s *PostgresOrderService) total(ctx context.Context, lines []model.CartLine) (int64, error) {
	items, err := s.pricing.ListAvailableItems(ctx)
	if err != nil {
		return 0, fmt.Errorf("price lookup: %w", err)
	}
	byID := make(map[string]model.MenuItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	var total int64
	for _, l := range lines {
		it, ok := byID[l.ItemID]
		if !ok {
			return 0, domain.ErrItemUnavailable
		}
		total += it.Price * int64(l.Quantity)
	}
	return total, nil
}

func (s *PostgresOrderService) upiLink(o *model.Order) string {
	if s.upiID == "" {
		return ""
	}
	v := url.Values{}
	v.Set("pa", s.upiID)
	v.Set("pn", s.payee)
	v.Set("tn", "Order "+shortID(o.ID))
	v.Set("am", fmt.Sprintf("%d.%02d", o.Total/100, o.Total%100))
	v.Set("cu", "INR")
	return "upi://pay?" + v.Encode()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var (
		o               model.Order
		lines           []byte
		svcType, status string
	)
	if err := row.Scan(&o.ID, &o.Phone, &lines, &o.Total, &svcType, &o.PaymentMethod, &o.PaymentURL, &status, &o.Delivery.Address, &o.Delivery.Latitude, &o.Delivery.Longitude, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.ServiceType = model.ServiceType(svcType)
	o.Status = model.OrderStatus(status)
	if err := json.Unmarshal(lines, &o.Lines); err != nil {
		return nil, fmt.Errorf("unmarshal lines: %w", err)
	}
	return &o, nil
}
