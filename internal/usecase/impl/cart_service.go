package impl

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"hotellee/internal/domain/entity"
	domainerrors "hotellee/internal/domain/errors"
	"hotellee/internal/domain/repository"
	"hotellee/internal/usecase"

	"github.com/pkg/errors"
)

// cartService implements the CartUsecase interface. It is the authoritative
// in-memory cart per owner; every mutation synchronously mirrors the full
// snapshot to durable storage before the in-memory state is committed.
type cartService struct {
	mu      sync.Mutex
	carts   map[string]*entity.Cart
	storage repository.CartStorage
	store   repository.DocumentStore
	logger  *slog.Logger
}

// NewCartService is the constructor for cartService.
func NewCartService(
	storage repository.CartStorage,
	store repository.DocumentStore,
	logger *slog.Logger,
) usecase.CartUsecase {
	return &cartService{
		carts:   make(map[string]*entity.Cart),
		storage: storage,
		store:   store,
		logger:  logger,
	}
}

// storageKey derives the owner-specific mirror key from the fixed
// application key.
func storageKey(ownerID string) string {
	return fmt.Sprintf("%s-%s", repository.CartStorageKey, ownerID)
}

// Get returns the current cart view.
func (srv *cartService) Get(ctx context.Context, ownerID string) (*usecase.CartView, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	cart, err := srv.cartFor(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return cartView(cart), nil
}

// AddItem looks the menu item up in the store, then aggregates it into the
// cart by item ID.
func (srv *cartService) AddItem(ctx context.Context, ownerID, itemID string) (*usecase.CartView, error) {
	doc, err := srv.store.GetDocument(ctx, repository.CollectionMenuItems, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return nil, domainerrors.ErrMenuItemNotFound.WrapMessage("add to cart")
		}

		return nil, domainerrors.NewRemoteOperationError(err, "failed to load menu item")
	}

	item := normalizeMenuItem(*doc)
	if !item.IsAvailable {
		return nil, domainerrors.ErrMenuItemUnavailable.WrapMessage("add to cart")
	}

	line := entity.CartLine{
		ItemID: item.ID,
		Name:   item.Name,
		Price:  item.Price,
		Image:  item.Image,
	}

	return srv.mutate(ctx, ownerID, func(cart *entity.Cart) {
		cart.Add(line)
	})
}

// SetQuantity sets a line's quantity; non-positive quantities remove the line.
func (srv *cartService) SetQuantity(ctx context.Context, ownerID, itemID string, quantity int) (*usecase.CartView, error) {
	return srv.mutate(ctx, ownerID, func(cart *entity.Cart) {
		cart.SetQuantity(itemID, quantity)
	})
}

// RemoveItem deletes a line; removing an absent line is a no-op.
func (srv *cartService) RemoveItem(ctx context.Context, ownerID, itemID string) (*usecase.CartView, error) {
	return srv.mutate(ctx, ownerID, func(cart *entity.Cart) {
		cart.Remove(itemID)
	})
}

// Clear empties the cart, e.g. after a successful checkout.
func (srv *cartService) Clear(ctx context.Context, ownerID string) error {
	_, err := srv.mutate(ctx, ownerID, func(cart *entity.Cart) {
		cart.Clear()
	})

	return err
}

// mutate applies fn to a clone of the owner's cart, persists the snapshot,
// and commits the clone only after the mirror accepted it. A failed save
// leaves the in-memory cart untouched so the operation can simply be
// re-triggered.
func (srv *cartService) mutate(ctx context.Context, ownerID string, fn func(*entity.Cart)) (*usecase.CartView, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	cart, err := srv.cartFor(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	next := cart.Clone()
	fn(next)

	if err := srv.storage.Save(ctx, storageKey(ownerID), next.Lines); err != nil {
		srv.logger.Error("Failed to persist cart mirror", slog.String("ownerID", ownerID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to persist cart")
	}

	srv.carts[ownerID] = next

	return cartView(next), nil
}

// cartFor returns the cached cart or loads the durable mirror. The mirror
// degrading to empty (missing or corrupt) is by contract not an error.
// Callers must hold srv.mu.
func (srv *cartService) cartFor(ctx context.Context, ownerID string) (*entity.Cart, error) {
	if cart, ok := srv.carts[ownerID]; ok {
		return cart, nil
	}

	lines, err := srv.storage.Load(ctx, storageKey(ownerID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cart mirror")
	}

	cart := &entity.Cart{Lines: lines}
	srv.carts[ownerID] = cart

	return cart, nil
}

// cartView snapshots the cart into the read model. Totals are recomputed
// here on every call rather than cached.
func cartView(cart *entity.Cart) *usecase.CartView {
	snapshot := cart.Clone()
	if snapshot.Lines == nil {
		snapshot.Lines = []entity.CartLine{}
	}

	return &usecase.CartView{
		Lines:      snapshot.Lines,
		TotalItems: snapshot.TotalItems(),
		TotalPrice: snapshot.TotalPrice(),
	}
}
