// Package cart holds one session's cart. Every mutation writes the full line list back to
// its slot before returning; there is no flush step.
package cart

import (
	"context"
	"errors"
	"fmt"
	"github.com/ariefcatur/go-kantin-orders/internal/orders"
	"github.com/ariefcatur/go-kantin-orders/internal/store"
	"go.uber.org/zap"
	"slices"
)

// ErrNegativeQuantity: jumlah negatif ditolak, tidak di-clamp ke 0.
var ErrNegativeQuantity = errors.New("cart: negative quantity")

type Cart struct {
	lines []orders.Line
	slot  *store.Slot[[]orders.Line]
}

func emptyLines() []orders.Line { return []orders.Line{} }

// NewSlot is the cart slot of a scope, with validation at the storage boundary.
func NewSlot(b store.Backend, scope string, log *zap.Logger) *store.Slot[[]orders.Line] {
	return store.NewSlot(b, scope, store.SlotCart, emptyLines, orders.ValidateLines, log)
}

// Open restores the persisted cart; a missing or corrupt slot gives an empty cart.
func Open(ctx context.Context, slot *store.Slot[[]orders.Line]) *Cart {
	lines := slot.Load(ctx)
	if lines == nil {
		lines = emptyLines()
	}
	return &Cart{lines: lines, slot: slot}
}

func (c *Cart) index(id orders.ItemID) int {
	return slices.IndexFunc(c.lines, func(l orders.Line) bool { return l.ID == id })
}

// SetQuantity replaces the quantity for item. 0 removes the line, a new item is appended,
// an existing line keeps its position and takes the fresh snapshot of item.
func (c *Cart) SetQuantity(ctx context.Context, item orders.MenuEntry, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: %d for %s", ErrNegativeQuantity, quantity, item.ID)
	}
	if quantity == 0 {
		return c.RemoveLine(ctx, item.ID)
	}
	line := orders.Line{MenuEntry: item, Quantity: quantity}
	if err := line.Validate(); err != nil {
		return err
	}
	if i := c.index(item.ID); i >= 0 {
		c.lines[i] = line
	} else {
		c.lines = append(c.lines, line)
	}
	c.persist(ctx)
	return nil
}

// IncrementQuantity adds delta to the current quantity (the "add to cart" button).
func (c *Cart) IncrementQuantity(ctx context.Context, item orders.MenuEntry, delta int) error {
	if delta < 0 {
		return fmt.Errorf("%w: %d for %s", ErrNegativeQuantity, delta, item.ID)
	}
	if delta == 0 {
		return nil
	}
	current := 0
	if i := c.index(item.ID); i >= 0 {
		current = c.lines[i].Quantity
	}
	return c.SetQuantity(ctx, item, current+delta)
}

func (c *Cart) RemoveLine(ctx context.Context, id orders.ItemID) error {
	i := c.index(id)
	if i < 0 {
		return nil
	}
	c.lines = slices.Delete(c.lines, i, i+1)
	c.persist(ctx)
	return nil
}

// Clear empties the cart and drops its slot.
func (c *Cart) Clear(ctx context.Context) {
	c.lines = emptyLines()
	c.slot.Clear(ctx)
}

func (c *Cart) persist(ctx context.Context) {
	c.slot.Save(ctx, c.lines)
}

// Lines returns a copy in display order.
func (c *Cart) Lines() []orders.Line { return slices.Clone(c.lines) }

func (c *Cart) Line(id orders.ItemID) (orders.Line, bool) {
	if i := c.index(id); i >= 0 {
		return c.lines[i], true
	}
	return orders.Line{}, false
}

func (c *Cart) Contains(id orders.ItemID) bool { return c.index(id) >= 0 }
func (c *Cart) IsEmpty() bool                  { return len(c.lines) == 0 }
func (c *Cart) TotalItems() int                { return orders.TotalItems(c.lines) }
func (c *Cart) TotalPrice() int64              { return orders.TotalPrice(c.lines) }
