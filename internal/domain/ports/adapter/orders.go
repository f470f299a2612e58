package adapter

import (
	"context"

	"restaurant-order-bot/internal/domain/model"
)

// OrderService is the order/payment orchestrator collaborator. It is the
// system of record for totals and payment state; the core calls it at
// checkout and for track/cancel/refund flows and never applies business
// policy itself.
type OrderService interface {
	CreateOrder(ctx context.Context, customer *model.Customer, lines []model.CartLine, serviceType model.ServiceType, delivery model.DeliveryInfo, paymentMethod string) (*model.Order, error)
	ListRecentOrders(ctx context.Context, phone string, limit int) ([]model.Order, error)
	TrackOrder(ctx context.Context, phone, orderID string) (*model.Order, error)
	CancelOrder(ctx context.Context, phone, orderID string) error
	RequestRefund(ctx context.Context, phone, orderID string) error
}
