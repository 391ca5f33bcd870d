// Package cart holds the order cart a terminal builds before checkout.
package cart

import (
	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// AppliedPromotion is a promotion result bound to the cart revision it was computed for.
type AppliedPromotion struct {
	Revision uint64                 `json:"revision"`
	Result   entity.PromotionResult `json:"result"`
}

// Cart is an ordered set of line items with at most one line per identity key.
// A Cart is owned by a single terminal and is not safe for concurrent use.
type Cart struct {
	items    []entity.LineItem
	revision uint64
	applied  *AppliedPromotion
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Restore rebuilds a cart from a snapshot. Lines sharing a key are merged.
func Restore(s Snapshot) *Cart {
	c := &Cart{}
	for _, it := range s.Items {
		c.merge(it, it.Quantity)
	}
	c.revision = s.Revision
	if s.Applied != nil && s.Applied.Revision == s.Revision {
		applied := *s.Applied
		c.applied = &applied
	}
	return c
}

// Add merges qty units of item into the cart. A qty below 1 is treated as 1.
func (c *Cart) Add(item entity.LineItem, qty int) {
	c.merge(item, qty)
	c.touch()
}

// Increment adds one unit to the line with the given key. Unknown keys are ignored.
func (c *Cart) Increment(key string) {
	if i := c.indexOf(key); i >= 0 {
		c.items[i].Quantity++
	}
	c.touch()
}

// Decrement removes one unit from the line with the given key, never going below 1.
// Unknown keys are ignored.
func (c *Cart) Decrement(key string) {
	if i := c.indexOf(key); i >= 0 && c.items[i].Quantity > 1 {
		c.items[i].Quantity--
	}
	c.touch()
}

// Remove deletes the line with the given key regardless of its quantity.
func (c *Cart) Remove(key string) {
	if i := c.indexOf(key); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
	c.touch()
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
	c.touch()
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []entity.LineItem {
	out := make([]entity.LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns the line with the given key.
func (c *Cart) Get(key string) (entity.LineItem, bool) {
	if i := c.indexOf(key); i >= 0 {
		return c.items[i], true
	}
	return entity.LineItem{}, false
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Subtotal returns the sum of quantity times price over all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.Total())
	}
	return total
}

// Revision increases on every mutating call.
func (c *Cart) Revision() uint64 {
	return c.revision
}

// ApplyPromotion binds a result to the current revision.
func (c *Cart) ApplyPromotion(result entity.PromotionResult) {
	c.applied = &AppliedPromotion{Revision: c.revision, Result: result}
}

// ClearPromotion drops any applied promotion without touching the items.
func (c *Cart) ClearPromotion() {
	c.applied = nil
}

// AppliedPromotion returns the applied result, or nil when none is applied
// or the cart has changed since it was computed.
func (c *Cart) AppliedPromotion() *entity.PromotionResult {
	if c.applied == nil || c.applied.Revision != c.revision {
		return nil
	}
	result := c.applied.Result
	return &result
}

// Snapshot captures the cart state for storage.
func (c *Cart) Snapshot() Snapshot {
	s := Snapshot{Items: c.Items(), Revision: c.revision}
	if c.applied != nil && c.applied.Revision == c.revision {
		applied := *c.applied
		s.Applied = &applied
	}
	return s
}

func (c *Cart) merge(item entity.LineItem, qty int) {
	if qty < 1 {
		qty = 1
	}
	if i := c.indexOf(item.Key()); i >= 0 {
		c.items[i].Quantity += qty
		return
	}
	item.Quantity = qty
	c.items = append(c.items, item)
}

func (c *Cart) touch() {
	c.revision++
	c.applied = nil
}

func (c *Cart) indexOf(key string) int {
	for i := range c.items {
		if c.items[i].Key() == key {
			return i
		}
	}
	return -1
}
