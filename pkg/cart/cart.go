// Package cart implements the mutable, session-scoped shopping cart.
//
// A cart holds at most one line per catalog item: re-adding an item merges
// into the existing line instead of duplicating it. Quantities are clamped
// to a minimum of 1, since voice-extracted numbers can come through as
// zero or negative after misrecognition.
package cart

import (
	"sync"

	"github.com/teslashibe/go-grocer/pkg/catalog"
)

// Line is one cart entry for a single catalog item.
type Line struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

// AddResult reports the outcome of a successful Add.
type AddResult struct {
	// Item is the resolved catalog item.
	Item catalog.Item

	// Quantity is the line's quantity after the add.
	Quantity int

	// Merged is true when the add incremented an existing line.
	Merged bool
}

// LineSummary is one formatted cart line with a live-resolved price.
type LineSummary struct {
	ItemID   string  `json:"item_id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Subtotal float64 `json:"subtotal"`
}

// Summary is the cart contents with per-line subtotals and a grand total.
// Empty distinguishes "cart is empty" from a zero-total cart.
type Summary struct {
	Lines []LineSummary `json:"lines"`
	Total float64       `json:"total"`
	Empty bool          `json:"empty"`
}

// Cart is the per-session line collection. The dialogue loop drives tool
// calls sequentially, but the dashboard reads the cart from its own
// goroutine, so access is serialized with a mutex.
type Cart struct {
	mu    sync.Mutex
	cat   *catalog.Catalog
	lines []Line
}

// New creates an empty cart bound to a catalog for id validation
// and live price lookups.
func New(cat *catalog.Catalog) *Cart {
	return &Cart{cat: cat}
}

// clampQuantity enforces the minimum-1 policy on voice-extracted quantities.
func clampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

// Add puts quantity of itemID into the cart. If the item already has a
// line, the quantity is incremented and notes, when given, are appended
// space-joined. The bool return is false when itemID is not in the
// catalog; in that case the cart is left untouched.
func (c *Cart) Add(itemID string, quantity int, notes string) (AddResult, bool) {
	item, ok := c.cat.FindByID(itemID)
	if !ok {
		return AddResult{}, false
	}

	quantity = clampQuantity(quantity)

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ItemID != itemID {
			continue
		}
		c.lines[i].Quantity += quantity
		if notes != "" {
			if c.lines[i].Notes != "" {
				c.lines[i].Notes += " " + notes
			} else {
				c.lines[i].Notes = notes
			}
		}
		return AddResult{Item: item, Quantity: c.lines[i].Quantity, Merged: true}, true
	}

	c.lines = append(c.lines, Line{ItemID: itemID, Quantity: quantity, Notes: notes})
	return AddResult{Item: item, Quantity: quantity}, true
}

// Remove deletes the line for itemID. Returns false when no such line
// exists; absence is a negative result, not an error.
func (c *Cart) Remove(itemID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return true
		}
	}
	return false
}

// Summarize resolves current catalog prices for every line and computes
// subtotals and the grand total. Prices are live, not snapshotted; only
// placed orders freeze prices. Lines whose item has been retired from
// the catalog fall back to the raw id and price 0.
func (c *Cart) Summarize() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.lines) == 0 {
		return Summary{Empty: true}
	}

	s := Summary{Lines: make([]LineSummary, 0, len(c.lines))}
	for _, ln := range c.lines {
		name := ln.ItemID
		price := 0.0
		if item, ok := c.cat.FindByID(ln.ItemID); ok {
			name = item.Name
			price = item.Price
		}
		sub := price * float64(ln.Quantity)
		s.Lines = append(s.Lines, LineSummary{
			ItemID:   ln.ItemID,
			Name:     name,
			Quantity: ln.Quantity,
			Price:    price,
			Subtotal: sub,
		})
		s.Total += sub
	}
	return s
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Clear empties the cart. Called after a successful order placement.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}
