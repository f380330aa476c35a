// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"hotellee/internal/domain/entity"
)

// CartView is the read model returned by every cart operation: the line
// sequence plus totals recomputed from it on each call.
type CartView struct {
	Lines      []entity.CartLine `json:"lines"`
	TotalItems int               `json:"totalItems"`
	TotalPrice float64           `json:"totalPrice"`
}

// CartUsecase owns the authoritative in-memory cart of each customer and
// keeps the durable local mirror in sync on every mutation.
type CartUsecase interface {
	// Get returns the current cart, loading the durable mirror on first use.
	Get(ctx context.Context, ownerID string) (*CartView, error)

	// AddItem adds one unit of the menu item, aggregating by item ID.
	AddItem(ctx context.Context, ownerID, itemID string) (*CartView, error)

	// SetQuantity sets a line's quantity; a quantity <= 0 removes the line.
	SetQuantity(ctx context.Context, ownerID, itemID string, quantity int) (*CartView, error)

	// RemoveItem deletes the line with the given item ID; absent is a no-op.
	RemoveItem(ctx context.Context, ownerID, itemID string) (*CartView, error)

	// Clear empties the cart and its durable mirror.
	Clear(ctx context.Context, ownerID string) error
}
