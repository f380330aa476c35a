package impl

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	domainerrors "hotellee/internal/domain/errors"
	"hotellee/internal/domain/repository"
	"hotellee/internal/infra/persistence/cartfile"
	"hotellee/internal/infra/persistence/memory"
	"hotellee/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cartServiceFixtures holds all test dependencies for cart service tests.
type cartServiceFixtures struct {
	service usecase.CartUsecase
	store   *memory.Store
	storage repository.CartStorage
	dir     string
}

func createTestCartService(t *testing.T) cartServiceFixtures {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()

	storage, err := cartfile.NewStorage(dir, logger)
	require.NoError(t, err)

	store := memory.NewStore(logger)
	service := NewCartService(storage, store, logger)

	return cartServiceFixtures{service: service, store: store, storage: storage, dir: dir}
}

func seedMenuItem(t *testing.T, store *memory.Store, id string, data map[string]any) {
	t.Helper()
	require.NoError(t, store.SetDocument(context.Background(), repository.CollectionMenuItems, id, data, false))
}

func TestCartService_AddItem_AggregatesRepeatedAdds(t *testing.T) {
	fx := createTestCartService(t)
	ctx := context.Background()
	seedMenuItem(t, fx.store, "dal", map[string]any{"name": "Dal Makhani", "price": 120.0, "isAvailable": true})

	_, err := fx.service.AddItem(ctx, "u1", "dal")
	require.NoError(t, err)
	cart, err := fx.service.AddItem(ctx, "u1", "dal")
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.Equal(t, 2, cart.TotalItems)
	assert.InDelta(t, 240.0, cart.TotalPrice, 0.001)
}

func TestCartService_AddItem_UnknownItem(t *testing.T) {
	fx := createTestCartService(t)

	_, err := fx.service.AddItem(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, domainerrors.ErrMenuItemNotFound)
}

func TestCartService_AddItem_UnavailableItem(t *testing.T) {
	fx := createTestCartService(t)
	seedMenuItem(t, fx.store, "gone", map[string]any{"name": "Seasonal", "price": 99.0, "isAvailable": false})

	_, err := fx.service.AddItem(context.Background(), "u1", "gone")
	assert.ErrorIs(t, err, domainerrors.ErrMenuItemUnavailable)
}

func TestCartService_AddItem_AvailabilityDefaultsTrue(t *testing.T) {
	fx := createTestCartService(t)
	// Legacy records predate the availability flag.
	seedMenuItem(t, fx.store, "old", map[string]any{"name": "Classic", "price": 80.0})

	cart, err := fx.service.AddItem(context.Background(), "u1", "old")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "Classic", cart.Lines[0].Name)
}

func TestCartService_SetQuantity_ZeroRemovesLine(t *testing.T) {
	fx := createTestCartService(t)
	ctx := context.Background()
	seedMenuItem(t, fx.store, "dal", map[string]any{"name": "Dal", "price": 120.0, "isAvailable": true})

	_, err := fx.service.AddItem(ctx, "u1", "dal")
	require.NoError(t, err)

	cart, err := fx.service.SetQuantity(ctx, "u1", "dal", 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
	assert.Equal(t, 0, cart.TotalItems)
}

func TestCartService_RemoveItem_AbsentIsNoOp(t *testing.T) {
	fx := createTestCartService(t)
	ctx := context.Background()
	seedMenuItem(t, fx.store, "dal", map[string]any{"name": "Dal", "price": 120.0, "isAvailable": true})

	_, err := fx.service.AddItem(ctx, "u1", "dal")
	require.NoError(t, err)

	cart, err := fx.service.RemoveItem(ctx, "u1", "never-added")
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 1)
}

func TestCartService_CartsAreIsolatedPerOwner(t *testing.T) {
	fx := createTestCartService(t)
	ctx := context.Background()
	seedMenuItem(t, fx.store, "dal", map[string]any{"name": "Dal", "price": 120.0, "isAvailable": true})

	_, err := fx.service.AddItem(ctx, "u1", "dal")
	require.NoError(t, err)

	other, err := fx.service.Get(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other.Lines)
}

func TestCartService_MirrorSurvivesRestart(t *testing.T) {
	fx := createTestCartService(t)
	ctx := context.Background()
	seedMenuItem(t, fx.store, "dal", map[string]any{"name": "Dal", "price": 120.0, "isAvailable": true})

	_, err := fx.service.AddItem(ctx, "u1", "dal")
	require.NoError(t, err)
	_, err = fx.service.AddItem(ctx, "u1", "dal")
	require.NoError(t, err)

	// A new service instance over the same mirror directory simulates a
	// process restart.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	storage, err := cartfile.NewStorage(fx.dir, logger)
	require.NoError(t, err)
	restarted := NewCartService(storage, fx.store, logger)

	cart, err := restarted.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.InDelta(t, 240.0, cart.TotalPrice, 0.001)
}

func TestCartService_CorruptMirrorDegradesToEmpty(t *testing.T) {
	fx := createTestCartService(t)
	ctx := context.Background()

	path := filepath.Join(fx.dir, repository.CartStorageKey+"-u1.json")
	require.NoError(t, os.WriteFile(path, []byte("{corrupt"), 0o644))

	cart, err := fx.service.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestCartService_Clear(t *testing.T) {
	fx := createTestCartService(t)
	ctx := context.Background()
	seedMenuItem(t, fx.store, "dal", map[string]any{"name": "Dal", "price": 120.0, "isAvailable": true})

	_, err := fx.service.AddItem(ctx, "u1", "dal")
	require.NoError(t, err)
	require.NoError(t, fx.service.Clear(ctx, "u1"))

	cart, err := fx.service.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
	assert.Equal(t, 0, cart.TotalItems)
}
