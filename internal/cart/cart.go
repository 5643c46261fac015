// Package cart keeps one shopping cart per customer and persists every
// change to a Store.
package cart

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"pizzeria/internal/model"
)

// Snapshot is a consistent view of a cart and its derived totals.
type Snapshot struct {
	Lines      []model.CartLine `json:"lines"`
	ItemCount  int              `json:"item_count"`
	TotalPrice decimal.Decimal  `json:"total_price"`
}

// persistFunc saves the full line list. Failures are handled by the callee.
type persistFunc func(ctx context.Context, lines []model.CartLine)

// loadFunc reads the stored lines. An error means the store could not be
// reached, not that the stored value was unusable.
type loadFunc func(ctx context.Context) ([]model.CartLine, error)

// Cart is a quantity keyed collection of menu items. All methods are safe
// for concurrent use and each mutation is persisted before it returns.
//
// Until the stored copy has been read once the cart is not synced: changes
// stay in memory and are never written, so an unreachable store cannot
// cause the stored cart to be overwritten. The next successful read merges
// the stored lines with the in-memory ones.
type Cart struct {
	mu      sync.Mutex
	lines   []model.CartLine
	load    loadFunc
	persist persistFunc
	synced  bool
}

func newCart(load loadFunc, persist persistFunc) *Cart {
	if persist == nil {
		persist = func(context.Context, []model.CartLine) {}
	}
	return &Cart{load: load, persist: persist, synced: load == nil}
}

// New returns an empty cart that is never persisted.
func New() *Cart {
	return newCart(nil, nil)
}

// Synced reports whether the stored copy has been read.
func (c *Cart) Synced() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.synced
}

// sync reads the stored copy if it has not been read yet.
func (c *Cart) sync(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.syncLocked(ctx)
}

func (c *Cart) syncLocked(ctx context.Context) bool {
	if c.synced {
		return true
	}
	stored, err := c.load(ctx)
	if err != nil {
		return false
	}
	pending := len(c.lines) > 0
	c.lines = merge(stored, c.lines)
	c.synced = true
	if pending {
		c.persist(ctx, c.snapshotLocked().Lines)
	}
	return true
}

// Add puts one unit of item in the cart, merging with an existing line.
// The item is copied.
func (c *Cart) Add(ctx context.Context, item model.MenuItem) Snapshot {
	return c.mutate(ctx, func() {
		if i := c.indexOf(item.ID); i >= 0 {
			c.lines[i].Quantity++
			return
		}
		item.Ingredients = append([]string(nil), item.Ingredients...)
		c.lines = append(c.lines, model.CartLine{Item: item, Quantity: 1})
	})
}

// Remove deletes the line for id, if any.
func (c *Cart) Remove(ctx context.Context, id string) Snapshot {
	return c.mutate(ctx, func() {
		if i := c.indexOf(id); i >= 0 {
			c.removeAt(i)
		}
	})
}

// Increase adds one unit to the line for id, if any.
func (c *Cart) Increase(ctx context.Context, id string) Snapshot {
	return c.mutate(ctx, func() {
		if i := c.indexOf(id); i >= 0 {
			c.lines[i].Quantity++
		}
	})
}

// Decrease removes one unit from the line for id. A line at quantity one
// is removed.
func (c *Cart) Decrease(ctx context.Context, id string) Snapshot {
	return c.mutate(ctx, func() {
		i := c.indexOf(id)
		if i < 0 {
			return
		}
		if c.lines[i].Quantity <= 1 {
			c.removeAt(i)
			return
		}
		c.lines[i].Quantity--
	})
}

// Clear empties the cart.
func (c *Cart) Clear(ctx context.Context) Snapshot {
	return c.mutate(ctx, func() {
		c.lines = nil
	})
}

// Snapshot returns lines and totals read under one lock.
func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// TotalItemCount is the sum of all quantities.
func (c *Cart) TotalItemCount() int {
	return c.Snapshot().ItemCount
}

// TotalPrice is the sum of unit price times quantity over all lines.
func (c *Cart) TotalPrice() decimal.Decimal {
	return c.Snapshot().TotalPrice
}

// Checkout hands the current lines to place while holding the cart, so
// concurrent mutations and checkouts wait for it. The cart is emptied only
// when place succeeds.
func (c *Cart) Checkout(ctx context.Context, place func(Snapshot) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	synced := c.syncLocked(ctx)
	if err := place(c.snapshotLocked()); err != nil {
		return err
	}
	c.lines = nil
	if synced {
		c.persist(ctx, c.snapshotLocked().Lines)
	}
	return nil
}

func (c *Cart) mutate(ctx context.Context, fn func()) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	synced := c.syncLocked(ctx)
	fn()
	snap := c.snapshotLocked()
	if synced {
		c.persist(ctx, snap.Lines)
	}
	return snap
}

func (c *Cart) snapshotLocked() Snapshot {
	snap := Snapshot{
		Lines:      make([]model.CartLine, len(c.lines)),
		TotalPrice: decimal.Zero,
	}
	copy(snap.Lines, c.lines)
	for _, line := range c.lines {
		snap.ItemCount += line.Quantity
		snap.TotalPrice = snap.TotalPrice.Add(line.Subtotal())
	}
	return snap
}

func (c *Cart) indexOf(id string) int {
	for i := range c.lines {
		if c.lines[i].Item.ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// merge adds the quantities of extra to base, keeping the order of base and
// appending lines only extra has.
func merge(base, extra []model.CartLine) []model.CartLine {
	out := append([]model.CartLine(nil), base...)
	for _, line := range extra {
		found := false
		for i := range out {
			if out[i].Item.ID == line.Item.ID {
				out[i].Quantity += line.Quantity
				found = true
				break
			}
		}
		if !found {
			out = append(out, line)
		}
	}
	return out
}
