package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status OrderStatus
		want   bool
	}{
		{"pending is valid", OrderStatusPending, true},
		{"preparing is valid", OrderStatusPreparing, true},
		{"delivered is valid", OrderStatusDelivered, true},
		{"cancelled is valid", OrderStatusCancelled, true},
		{"unknown is invalid", OrderStatus("shipped"), false},
		{"empty is invalid", OrderStatus(""), false},
		{"case sensitive", OrderStatus("Pending"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsValid())
		})
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.False(t, OrderStatusPreparing.IsTerminal())
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())

	// Unknown statuses are not terminal; they are invalid instead.
	assert.False(t, OrderStatus("shipped").IsTerminal())
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"pending to preparing", OrderStatusPending, OrderStatusPreparing, true},
		{"pending to delivered", OrderStatusPending, OrderStatusDelivered, true},
		{"pending to cancelled", OrderStatusPending, OrderStatusCancelled, true},
		{"preparing to delivered", OrderStatusPreparing, OrderStatusDelivered, true},
		{"preparing to cancelled is illegal", OrderStatusPreparing, OrderStatusCancelled, false},
		{"preparing back to pending", OrderStatusPreparing, OrderStatusPending, false},
		{"delivered is final", OrderStatusDelivered, OrderStatusPending, false},
		{"delivered cannot cancel", OrderStatusDelivered, OrderStatusCancelled, false},
		{"cancelled is final", OrderStatusCancelled, OrderStatusPending, false},
		{"cancelled cannot deliver", OrderStatusCancelled, OrderStatusDelivered, false},
		{"no self transition", OrderStatusPending, OrderStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrder_WireFormatIsCamelCase(t *testing.T) {
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	order := Order{
		ID:              "o1",
		UserID:          "u1",
		UserName:        "Alice",
		UserPhone:       "9876543210",
		UserEmail:       "alice@example.com",
		Items:           []CartLine{{ItemID: "dal", Name: "Dal", Price: 120, Quantity: 2}},
		TotalAmount:     240,
		DeliveryAddress: "12 Curry Lane, Bangalore",
		Status:          OrderStatusPending,
		CreatedAt:       &created,
		PaymentMethod:   PaymentMethodCOD,
	}

	payload, err := json.Marshal(order)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))

	// The API serves the same camelCase shapes the web client stores.
	for _, key := range []string{
		"id", "userId", "userName", "userPhone", "userEmail", "items",
		"totalAmount", "deliveryAddress", "status", "createdAt", "paymentMethod",
	} {
		assert.Contains(t, decoded, key)
	}
	assert.NotContains(t, decoded, "ID")
	assert.NotContains(t, decoded, "UserName")

	items, ok := decoded["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	line, ok := items[0].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, line, "id")
	assert.Contains(t, line, "quantity")

	// Legacy orders without a timestamp omit the field entirely.
	bare, err := json.Marshal(Order{ID: "o2"})
	require.NoError(t, err)
	assert.NotContains(t, string(bare), "createdAt")
}
