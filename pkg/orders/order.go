// Package orders finalizes carts into immutable, durably stored orders.
//
// An order is a denormalized snapshot: item names and prices are copied
// out of the catalog at placement time, so later catalog edits never
// retroactively change a placed order.
package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teslashibe/go-grocer/pkg/cart"
	"github.com/teslashibe/go-grocer/pkg/catalog"
)

// Item is one snapshotted order line.
type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Order is an immutable record of a completed purchase.
type Order struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customer_name,omitempty"`
	Address      string    `json:"address,omitempty"`
	Items        []Item    `json:"items"`
	Total        float64   `json:"total"`
	Timestamp    time.Time `json:"timestamp"`
}

// newOrderID builds an id from the placement instant plus a random suffix.
// The suffix makes ids unique even when two orders land within the same
// second, so the store never has to resolve a key collision.
func newOrderID(ts time.Time) string {
	suffix := strings.Split(uuid.New().String(), "-")[0]
	return fmt.Sprintf("order-%s-%s", ts.UTC().Format("20060102T150405"), suffix)
}

// Finalizer converts a non-empty cart into a persisted order.
type Finalizer struct {
	cat   *catalog.Catalog
	store Store
}

// NewFinalizer creates a finalizer over the given catalog and order sink.
func NewFinalizer(cat *catalog.Catalog, store Store) *Finalizer {
	return &Finalizer{cat: cat, store: store}
}

// Place snapshots the cart into an Order, persists it, and clears the cart.
//
// An empty cart returns ErrEmptyCart with no side effects. A persistence
// failure returns the store's error and leaves the cart intact — the cart
// is cleared only after the order is durably written, so the user can
// retry without rebuilding it.
//
// Cart lines whose item has been retired from the catalog are snapshotted
// with an empty name and price 0 rather than aborting the order. That
// tolerance is deliberate: a stale line should not block the whole
// purchase over one unresolvable id.
func (f *Finalizer) Place(c *cart.Cart, customerName, address string) (*Order, error) {
	lines := c.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	now := time.Now()
	order := &Order{
		ID:           newOrderID(now),
		CustomerName: customerName,
		Address:      address,
		Items:        make([]Item, 0, len(lines)),
		Timestamp:    now,
	}

	for _, ln := range lines {
		name := ""
		price := 0.0
		if item, ok := f.cat.FindByID(ln.ItemID); ok {
			name = item.Name
			price = item.Price
		}
		order.Items = append(order.Items, Item{
			ID:       ln.ItemID,
			Name:     name,
			Quantity: ln.Quantity,
			Price:    price,
		})
		order.Total += price * float64(ln.Quantity)
	}

	if err := f.store.Save(order); err != nil {
		return nil, fmt.Errorf("orders: save %s: %w", order.ID, err)
	}

	c.Clear()
	return order, nil
}
