package usecase

import (
	"context"

	"hotellee/internal/domain/entity"
	"hotellee/internal/domain/repository"
)

// CheckoutInput is the data required to place an order from the current cart.
type CheckoutInput struct {
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
}

// OrderBoard is the reconciled, chronologically sorted order list plus the
// dashboard aggregates derived from it. It is rebuilt in full from the
// latest store notification, never patched incrementally.
type OrderBoard struct {
	Orders       []entity.Order `json:"orders"`
	PendingCount int            `json:"pendingCount"`
	Revenue      float64        `json:"revenue"`
	TotalCount   int            `json:"totalCount"`
}

// OrderUsecase covers checkout, order history, the administrator live
// board, and status transitions.
type OrderUsecase interface {
	// Checkout validates the input, freezes the current cart into a new
	// pending order, writes it to the store, and clears the cart.
	Checkout(ctx context.Context, userID string, input *CheckoutInput) (*entity.Order, error)

	// ListUserOrders returns the caller's orders, reconciled and sorted
	// newest first.
	ListUserOrders(ctx context.Context, userID string) ([]entity.Order, error)

	// ListAllOrders returns the full reconciled board for administrators.
	ListAllOrders(ctx context.Context) (*OrderBoard, error)

	// WatchOrders subscribes onChange to the live reconciled board. The
	// returned Unsubscribe must be called when the watching scope ends.
	WatchOrders(ctx context.Context, onChange func(*OrderBoard)) (repository.Unsubscribe, error)

	// UpdateStatus transitions an order along the status graph. Transitions
	// out of a terminal status are rejected.
	UpdateStatus(ctx context.Context, orderID string, next entity.OrderStatus) error

	// TrackingQR renders the tracking QR code PNG for an existing order.
	TrackingQR(ctx context.Context, orderID string) ([]byte, error)
}
