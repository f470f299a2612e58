package model

import "time"

// ServiceType distinguishes how an order is fulfilled.
type ServiceType string

const (
	ServiceDelivery ServiceType = "delivery"
	ServicePickup   ServiceType = "pickup"
)

// PaymentMethod values offered at checkout.
const (
	PayUPI = "upi"
	PayCOD = "cod"
)

// OrderStatus as reported by the order orchestrator.
type OrderStatus string

const (
	OrderPendingPayment OrderStatus = "pending_payment"
	OrderConfirmed      OrderStatus = "confirmed"
	OrderPreparing      OrderStatus = "preparing"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
	OrderRefunded       OrderStatus = "refunded"
)

// DeliveryInfo captures where an order goes.
type DeliveryInfo struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// Order is the collaborator-owned record; the core only reads it back for
// track/cancel/refund flows and never derives totals itself.
type Order struct {
	ID            string       `json:"id"`
	Phone         string       `json:"phone"`
	Lines         []CartLine   `json:"lines"`
	Total         int64        `json:"total"`
	ServiceType   ServiceType  `json:"service_type"`
	PaymentMethod string       `json:"payment_method"`
	PaymentURL    string       `json:"payment_url,omitempty"`
	Status        OrderStatus  `json:"status"`
	Delivery      DeliveryInfo `json:"delivery"`
	CreatedAt     time.Time    `json:"created_at"`
}
