package service

import "context"

// Order event types published to the event stream.
const (
	EventTypeOrderPlaced        = "order.placed"
	EventTypeOrderStatusChanged = "order.status_changed"
)

// OrderEvent is the payload published when an order is created or its
// status changes. Publishing is best-effort: a failed publish never fails
// the order operation itself.
type OrderEvent struct {
	Type        string  `json:"type"`
	OrderID     string  `json:"order_id"`
	UserID      string  `json:"user_id,omitempty"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount,omitempty"`
	RequestID   string  `json:"request_id,omitempty"`
}

// EventPublisher publishes order lifecycle events for downstream consumers
// (kitchen displays, notification workers).
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event *OrderEvent) error
	Close() error
}
