package cartfile

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"hotellee/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStorage(t *testing.T) (*Storage, string) {
	t.Helper()
	dir := t.TempDir()
	storage, err := NewStorage(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	return storage, dir
}

func TestStorage_SaveAndLoad(t *testing.T) {
	storage, _ := testStorage(t)
	ctx := context.Background()

	lines := []entity.CartLine{
		{ItemID: "a", Name: "Dal", Price: 120, Quantity: 2, Image: "a.png"},
		{ItemID: "b", Name: "Naan", Price: 40, Quantity: 1},
	}

	require.NoError(t, storage.Save(ctx, "hotelLeeCart-u1", lines))

	loaded, err := storage.Load(ctx, "hotelLeeCart-u1")
	require.NoError(t, err)
	assert.Equal(t, lines, loaded)
}

func TestStorage_LoadMissingYieldsEmpty(t *testing.T) {
	storage, _ := testStorage(t)

	lines, err := storage.Load(context.Background(), "hotelLeeCart-nobody")
	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.NotNil(t, lines)
}

func TestStorage_LoadCorruptYieldsEmpty(t *testing.T) {
	storage, dir := testStorage(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "hotelLeeCart-u1.json"), []byte("{not json"), 0o644))

	lines, err := storage.Load(ctx, "hotelLeeCart-u1")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestStorage_Clear(t *testing.T) {
	storage, _ := testStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, "hotelLeeCart-u1", []entity.CartLine{{ItemID: "a", Quantity: 1}}))
	require.NoError(t, storage.Clear(ctx, "hotelLeeCart-u1"))

	lines, err := storage.Load(ctx, "hotelLeeCart-u1")
	require.NoError(t, err)
	assert.Empty(t, lines)

	// Clearing an absent record is not an error.
	assert.NoError(t, storage.Clear(ctx, "hotelLeeCart-u1"))
}

func TestStorage_KeysAreIsolated(t *testing.T) {
	storage, _ := testStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, "hotelLeeCart-u1", []entity.CartLine{{ItemID: "a", Quantity: 1}}))
	require.NoError(t, storage.Save(ctx, "hotelLeeCart-u2", []entity.CartLine{{ItemID: "b", Quantity: 3}}))

	u1, err := storage.Load(ctx, "hotelLeeCart-u1")
	require.NoError(t, err)
	u2, err := storage.Load(ctx, "hotelLeeCart-u2")
	require.NoError(t, err)

	require.Len(t, u1, 1)
	require.Len(t, u2, 1)
	assert.Equal(t, "a", u1[0].ItemID)
	assert.Equal(t, "b", u2[0].ItemID)
}
