// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

// CartLine is a single pending line item in a customer's cart.
// A cart holds at most one line per ItemID; repeated adds raise Quantity.
type CartLine struct {
	ItemID   string  `json:"id"`              // Menu item ID the line was created from.
	Name     string  `json:"name"`            // Item name, copied at add time.
	Price    float64 `json:"price"`           // Unit price, copied at add time.
	Quantity int     `json:"quantity"`        // Always >= 1 while the line exists.
	Image    string  `json:"image,omitempty"` // Optional image reference, copied at add time.
}

// Cart is the ordered sequence of pending line items owned by a single
// customer. Lines keep insertion order; mutations are pure in-memory
// operations, durability is the caller's concern.
type Cart struct {
	Lines []CartLine
}

// Add increments the quantity of an existing line with the same ItemID,
// or appends a new line with quantity 1. It never fails.
func (c *Cart) Add(line CartLine) {
	for i := range c.Lines {
		if c.Lines[i].ItemID == line.ItemID {
			c.Lines[i].Quantity++

			return
		}
	}

	line.Quantity = 1
	c.Lines = append(c.Lines, line)
}

// Remove deletes the line with the given item ID. Removing an absent
// item is a no-op, not an error.
func (c *Cart) Remove(itemID string) {
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)

			return
		}
	}
}

// SetQuantity sets the quantity of the line with the given item ID.
// A quantity <= 0 is equivalent to Remove. An absent item is a no-op.
func (c *Cart) SetQuantity(itemID string, quantity int) {
	if quantity <= 0 {
		c.Remove(itemID)

		return
	}

	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			c.Lines[i].Quantity = quantity

			return
		}
	}
}

// Clear empties the cart. Used after a successful checkout.
func (c *Cart) Clear() {
	c.Lines = nil
}

// TotalItems is the sum of quantities over all lines.
// Recomputed on every call so it can never go stale.
func (c *Cart) TotalItems() int {
	total := 0
	for i := range c.Lines {
		total += c.Lines[i].Quantity
	}

	return total
}

// TotalPrice is the sum of price * quantity over all lines.
// Recomputed on every call so it can never go stale.
func (c *Cart) TotalPrice() float64 {
	total := 0.0
	for i := range c.Lines {
		total += c.Lines[i].Price * float64(c.Lines[i].Quantity)
	}

	return total
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clone returns a deep copy of the cart. Mutations are applied to a clone
// first and committed only after the durable mirror accepted the snapshot.
func (c *Cart) Clone() *Cart {
	clone := &Cart{}
	if len(c.Lines) > 0 {
		clone.Lines = make([]CartLine, len(c.Lines))
		copy(clone.Lines, c.Lines)
	}

	return clone
}
