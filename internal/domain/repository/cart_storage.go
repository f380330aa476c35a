package repository

import (
	"context"

	"hotellee/internal/domain/entity"
)

// CartStorageKey is the fixed application key the cart mirror is stored
// under. Owner-specific keys are derived from it, so carts written by the
// original web client remain loadable.
const CartStorageKey = "hotelLeeCart"

// CartStorage is the durable local mirror of the in-memory cart. Every cart
// mutation synchronously writes the full line sequence; startup reads it
// back. The mirror is client-owned state and never lives in the hosted
// store until checkout.
type CartStorage interface {
	// Load returns the persisted line sequence for the key. A missing or
	// corrupt record yields an empty sequence and no error: a broken mirror
	// must degrade to an empty cart, never block startup.
	Load(ctx context.Context, key string) ([]entity.CartLine, error)

	// Save overwrites the persisted line sequence for the key.
	Save(ctx context.Context, key string, lines []entity.CartLine) error

	// Clear removes the persisted record for the key.
	Clear(ctx context.Context, key string) error
}
