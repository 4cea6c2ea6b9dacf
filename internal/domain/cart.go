package domain

import "time"

// Customization holds what the buyer supplied for a personalised item.
type Customization struct {
	CustomerName     string   `json:"customerName,omitempty"`
	CustomerPhotoURL string   `json:"customerPhotoUrl,omitempty"`
	CustomerImages   []string `json:"customerImages,omitempty"`
}

// IsEmpty reports whether nothing was captured.
func (c *Customization) IsEmpty() bool {
	return c == nil || (c.CustomerName == "" && c.CustomerPhotoURL == "" && len(c.CustomerImages) == 0)
}

// CartLine is one product in a cart. Quantity stays within [1, Product.Stock].
type CartLine struct {
	Product  ProductSnapshot `json:"product"`
	Quantity int             `json:"quantity"`
	AddedAt  time.Time       `json:"addedAt"`
}

// Cart is the ordered set of lines owned by a signed-in user or a guest session.
type Cart struct {
	OwnerKey  string     `json:"ownerKey"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// NewCart returns an empty cart for owner.
func NewCart(ownerKey string) *Cart {
	return &Cart{OwnerKey: ownerKey, Lines: []CartLine{}}
}

// Add merges qty of p into the cart and returns the resulting line quantity.
// Quantities above stock are silently clamped.
func (c *Cart) Add(p ProductSnapshot, qty int, now time.Time) (int, error) {
	if p.Stock < 1 {
		return 0, ErrOutOfStock
	}
	if qty < 1 {
		qty = 1
	}
	for i := range c.Lines {
		if c.Lines[i].Product.ID != p.ID {
			continue
		}
		c.Lines[i].Quantity = clamp(c.Lines[i].Quantity+qty, 1, c.Lines[i].Product.Stock)
		c.UpdatedAt = now
		return c.Lines[i].Quantity, nil
	}
	line := CartLine{Product: p, Quantity: clamp(qty, 1, p.Stock), AddedAt: now}
	c.Lines = append(c.Lines, line)
	c.UpdatedAt = now
	return line.Quantity, nil
}

// UpdateQuantity sets the quantity of a line. Values below 1 remove the line and return 0.
func (c *Cart) UpdateQuantity(productID string, qty int, now time.Time) (int, error) {
	idx := c.index(productID)
	if idx < 0 {
		return 0, ErrNotFound
	}
	if qty < 1 {
		c.removeAt(idx)
		c.UpdatedAt = now
		return 0, nil
	}
	c.Lines[idx].Quantity = clamp(qty, 1, c.Lines[idx].Product.Stock)
	c.UpdatedAt = now
	return c.Lines[idx].Quantity, nil
}

// Remove drops the line for productID, reporting whether one existed.
func (c *Cart) Remove(productID string, now time.Time) bool {
	idx := c.index(productID)
	if idx < 0 {
		return false
	}
	c.removeAt(idx)
	c.UpdatedAt = now
	return true
}

// Clear empties the cart.
func (c *Cart) Clear(now time.Time) {
	c.Lines = []CartLine{}
	c.UpdatedAt = now
}

// Line returns the line for productID.
func (c *Cart) Line(productID string) (CartLine, bool) {
	idx := c.index(productID)
	if idx < 0 {
		return CartLine{}, false
	}
	return c.Lines[idx], true
}

// Count is the total number of units across lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clone returns a copy whose lines can be mutated independently.
func (c *Cart) Clone() *Cart {
	out := *c
	out.Lines = make([]CartLine, len(c.Lines))
	copy(out.Lines, c.Lines)
	return &out
}

func (c *Cart) index(productID string) int {
	for i := range c.Lines {
		if c.Lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(idx int) {
	c.Lines = append(c.Lines[:idx:idx], c.Lines[idx+1:]...)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
