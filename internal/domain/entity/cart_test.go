package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testLine(id string, price float64) CartLine {
	return CartLine{ItemID: id, Name: "item " + id, Price: price, Quantity: 1}
}

func TestCart_Add_AggregatesByItemID(t *testing.T) {
	cart := &Cart{}

	cart.Add(testLine("a", 100))
	cart.Add(testLine("b", 50))
	cart.Add(testLine("a", 100))

	assert.Len(t, cart.Lines, 2)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.Equal(t, 1, cart.Lines[1].Quantity)
	assert.Equal(t, 3, cart.TotalItems())
	assert.InDelta(t, 250.0, cart.TotalPrice(), 0.001)
}

func TestCart_Remove(t *testing.T) {
	cart := &Cart{}
	cart.Add(testLine("a", 100))
	cart.Add(testLine("b", 50))

	cart.Remove("a")
	assert.Len(t, cart.Lines, 1)
	assert.Equal(t, "b", cart.Lines[0].ItemID)

	// Removing an absent line is a no-op.
	cart.Remove("missing")
	assert.Len(t, cart.Lines, 1)
}

func TestCart_SetQuantity(t *testing.T) {
	cart := &Cart{}
	cart.Add(testLine("a", 100))

	cart.SetQuantity("a", 5)
	assert.Equal(t, 5, cart.Lines[0].Quantity)
	assert.InDelta(t, 500.0, cart.TotalPrice(), 0.001)

	// Zero and negative quantities remove the line.
	cart.SetQuantity("a", 0)
	assert.True(t, cart.IsEmpty())

	cart.Add(testLine("a", 100))
	cart.SetQuantity("a", -3)
	assert.True(t, cart.IsEmpty())
}

func TestCart_Clear(t *testing.T) {
	cart := &Cart{}
	cart.Add(testLine("a", 100))
	cart.Add(testLine("b", 50))

	cart.Clear()

	assert.True(t, cart.IsEmpty())
	assert.Equal(t, 0, cart.TotalItems())
	assert.InDelta(t, 0.0, cart.TotalPrice(), 0.001)
}

func TestCart_TotalPrice_IsLinear(t *testing.T) {
	cart := &Cart{}
	cart.Add(CartLine{ItemID: "a", Price: 120.5})
	cart.SetQuantity("a", 4)

	assert.InDelta(t, 482.0, cart.TotalPrice(), 0.001)
}

func TestCart_Clone_IsIndependent(t *testing.T) {
	cart := &Cart{}
	cart.Add(testLine("a", 100))

	clone := cart.Clone()
	clone.Add(testLine("b", 50))
	clone.SetQuantity("a", 9)

	assert.Len(t, cart.Lines, 1)
	assert.Equal(t, 1, cart.Lines[0].Quantity)
	assert.Len(t, clone.Lines, 2)
}
