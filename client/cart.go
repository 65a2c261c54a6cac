package client

// LineItem is a cart entry: a product plus the requested quantity.
type LineItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Cart holds the line items for the current session. It lives purely
// in memory: it does not survive a process restart and is not
// persisted across logout. At most one line item exists per product
// id; adding the same product again merges into the existing line.
type Cart struct {
	items []LineItem
}

func NewCart() *Cart {
	return &Cart{}
}

// Add puts quantity units of the product in the cart, merging with an
// existing line for the same id. A quantity below one counts as one.
func (c *Cart) Add(p Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	for i := range c.items {
		if c.items[i].ID == p.ID {
			c.items[i].Quantity += quantity
			return
		}
	}
	c.items = append(c.items, LineItem{Product: p, Quantity: quantity})
}

// SetQuantity sets the line's quantity to exactly quantity. Zero or
// negative removes the line. Unknown ids are ignored.
func (c *Cart) SetQuantity(productID int64, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	for i := range c.items {
		if c.items[i].ID == productID {
			c.items[i].Quantity = quantity
			return
		}
	}
}

// Remove deletes the line for the product id; no-op when absent.
func (c *Cart) Remove(productID int64) {
	for i := range c.items {
		if c.items[i].ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Items returns a copy of the cart's line items.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Total is the sum of price * quantity over all lines.
func (c *Cart) Total() float64 {
	var total float64
	for _, it := range c.items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// Count is the total number of units across all lines.
func (c *Cart) Count() int {
	var n int
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}
