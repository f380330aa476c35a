// Package entity contains the core business objects of the project.
package entity

import (
	"slices"
	"time"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	// OrderStatusPending is the initial state of every new order.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusPreparing means the kitchen has accepted the order.
	OrderStatusPreparing OrderStatus = "preparing"
	// OrderStatusDelivered is a terminal state.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled is a terminal state.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// orderStatusTransitions is the full transition graph. Terminal states have
// no outgoing edges; everything not listed here is an illegal transition.
var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPreparing, OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusDelivered},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// String returns the string representation of the OrderStatus.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid checks if the OrderStatus is a known value.
func (s OrderStatus) IsValid() bool {
	_, ok := orderStatusTransitions[s]

	return ok
}

// IsTerminal reports whether no further transition is defined out of s.
func (s OrderStatus) IsTerminal() bool {
	next, ok := orderStatusTransitions[s]

	return ok && len(next) == 0
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return slices.Contains(orderStatusTransitions[s], next)
}

// PaymentMethodCOD is the only supported payment method: cash on delivery.
const PaymentMethodCOD = "COD"

// Order is an immutable snapshot of a cart plus the customer's contact
// details, created exactly once at checkout. After creation only the
// Status field changes, and only through legal transitions.
type Order struct {
	ID              string      `json:"id"`                  // Server-assigned document ID.
	UserID          string      `json:"userId"`              // Identity of the customer who placed the order.
	UserName        string      `json:"userName"`            // Customer display name, "Guest" when unknown.
	UserPhone       string      `json:"userPhone"`           // Contact number captured at checkout.
	UserEmail       string      `json:"userEmail"`           // Contact email captured at checkout.
	Items           []CartLine  `json:"items"`               // Frozen copy of the cart lines.
	TotalAmount     float64     `json:"totalAmount"`         // Cart total at checkout time.
	DeliveryAddress string      `json:"deliveryAddress"`     // Free-form delivery address.
	Status          OrderStatus `json:"status"`              // Current lifecycle state.
	CreatedAt       *time.Time  `json:"createdAt,omitempty"` // Server timestamp; nil for legacy records without one.
	PaymentMethod   string      `json:"paymentMethod"`       // Always PaymentMethodCOD.
}
