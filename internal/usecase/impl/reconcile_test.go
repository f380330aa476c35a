package impl

import (
	"testing"
	"time"

	"hotellee/internal/domain/entity"
	"hotellee/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderDoc(id string, data map[string]any) repository.Document {
	return repository.Document{ID: id, Data: data}
}

func TestReconcileOrders_SortsNewestFirst(t *testing.T) {
	docs := []repository.Document{
		orderDoc("old", map[string]any{"createdAt": "2024-01-01T10:00:00Z"}),
		orderDoc("new", map[string]any{"createdAt": "2024-06-01T10:00:00Z"}),
		orderDoc("mid", map[string]any{"createdAt": "2024-03-01T10:00:00Z"}),
	}

	orders := ReconcileOrders(docs)

	require.Len(t, orders, 3)
	assert.Equal(t, "new", orders[0].ID)
	assert.Equal(t, "mid", orders[1].ID)
	assert.Equal(t, "old", orders[2].ID)
}

func TestReconcileOrders_MissingTimestampSinksToEnd(t *testing.T) {
	docs := []repository.Document{
		orderDoc("b", map[string]any{}),
		orderDoc("a", map[string]any{"createdAt": "2024-01-01T10:00:00Z"}),
	}

	orders := ReconcileOrders(docs)

	require.Len(t, orders, 2)
	assert.Equal(t, "a", orders[0].ID)
	assert.Equal(t, "b", orders[1].ID)
	assert.Nil(t, orders[1].CreatedAt)
}

func TestReconcileOrders_UnparseableTimestampSortsAsEpoch(t *testing.T) {
	docs := []repository.Document{
		orderDoc("broken", map[string]any{"createdAt": "not a date"}),
		orderDoc("ok", map[string]any{"createdAt": "2024-01-01T10:00:00Z"}),
	}

	orders := ReconcileOrders(docs)

	require.Len(t, orders, 2)
	assert.Equal(t, "ok", orders[0].ID)
	assert.Equal(t, "broken", orders[1].ID)
	// The record survives the pass; only its timestamp is dropped.
	assert.Nil(t, orders[1].CreatedAt)
}

func TestReconcileOrder_UserNameProbeOrder(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
		want string
	}{
		{"current spelling wins", map[string]any{"userName": "Alice", "name": "Bob"}, "Alice"},
		{"snake case fallback", map[string]any{"user_name": "Carol"}, "Carol"},
		{"bare name fallback", map[string]any{"name": "Dave"}, "Dave"},
		{"customer name fallback", map[string]any{"customerName": "Eve"}, "Eve"},
		{"customer snake fallback", map[string]any{"customer_name": "Frank"}, "Frank"},
		{"empty string skipped", map[string]any{"userName": "", "name": "Grace"}, "Grace"},
		{"nothing recognizable", map[string]any{"fullName": "Hank"}, "Guest"},
		{"empty record", map[string]any{}, "Guest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := reconcileOrder(orderDoc("x", tt.data))
			assert.Equal(t, tt.want, order.UserName)
		})
	}
}

func TestReconcileOrder_CreatedAtProbeOrder(t *testing.T) {
	ts := "2024-05-01T08:00:00Z"
	want, err := time.Parse(time.RFC3339, ts)
	require.NoError(t, err)

	tests := []struct {
		name string
		data map[string]any
	}{
		{"createdAt", map[string]any{"createdAt": ts}},
		{"created_at", map[string]any{"created_at": ts}},
		{"timestamp", map[string]any{"timestamp": ts}},
		{"date", map[string]any{"date": ts}},
		{"orderDate", map[string]any{"orderDate": ts}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := reconcileOrder(orderDoc("x", tt.data))
			require.NotNil(t, order.CreatedAt)
			assert.True(t, order.CreatedAt.Equal(want))
		})
	}
}

func TestReconcileOrder_NumericTimestamps(t *testing.T) {
	seconds := reconcileOrder(orderDoc("s", map[string]any{"createdAt": float64(1714550400)}))
	require.NotNil(t, seconds.CreatedAt)
	assert.Equal(t, int64(1714550400), seconds.CreatedAt.Unix())

	millis := reconcileOrder(orderDoc("m", map[string]any{"createdAt": float64(1714550400000)}))
	require.NotNil(t, millis.CreatedAt)
	assert.Equal(t, int64(1714550400), millis.CreatedAt.Unix())
}

func TestReconcileItems_LegacySpellings(t *testing.T) {
	order := reconcileOrder(orderDoc("x", map[string]any{
		"items": []any{
			map[string]any{"id": "a", "name": "Dal", "price": 120.0, "quantity": 2.0, "image": "a.png"},
			map[string]any{"itemId": "b", "name": "Naan", "price": 40.0, "image_url": "b.png"},
			"not a map",
		},
	}))

	require.Len(t, order.Items, 2)
	assert.Equal(t, entity.CartLine{ItemID: "a", Name: "Dal", Price: 120, Quantity: 2, Image: "a.png"}, order.Items[0])
	// Missing quantity floors to 1 and legacy field names resolve.
	assert.Equal(t, entity.CartLine{ItemID: "b", Name: "Naan", Price: 40, Quantity: 1, Image: "b.png"}, order.Items[1])
}

func TestBuildOrderBoard_Aggregates(t *testing.T) {
	orders := []entity.Order{
		{ID: "1", Status: entity.OrderStatusPending, TotalAmount: 100},
		{ID: "2", Status: entity.OrderStatusPending, TotalAmount: 200},
		{ID: "3", Status: entity.OrderStatusPreparing, TotalAmount: 300},
		{ID: "4", Status: entity.OrderStatusDelivered, TotalAmount: 400},
		{ID: "5", Status: entity.OrderStatusDelivered, TotalAmount: 150},
		{ID: "6", Status: entity.OrderStatusCancelled, TotalAmount: 999},
	}

	board := BuildOrderBoard(orders)

	assert.Equal(t, 6, board.TotalCount)
	assert.Equal(t, 2, board.PendingCount)
	// Revenue counts delivered orders only.
	assert.InDelta(t, 550.0, board.Revenue, 0.001)
}

func TestBuildOrderBoard_Empty(t *testing.T) {
	board := BuildOrderBoard(nil)

	assert.Equal(t, 0, board.TotalCount)
	assert.Equal(t, 0, board.PendingCount)
	assert.InDelta(t, 0.0, board.Revenue, 0.001)
}
