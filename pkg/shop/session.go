// Package shop ties the catalog, cart, and order flow into one
// conversational session and exposes them as voice tools.
package shop

import (
	"strings"

	"github.com/teslashibe/go-grocer/pkg/cart"
	"github.com/teslashibe/go-grocer/pkg/catalog"
	"github.com/teslashibe/go-grocer/pkg/orders"
)

// Session holds all commerce state for one conversation. There is
// exactly one cart per session and it lives only as long as the
// session does, except for orders which are persisted on placement.
type Session struct {
	catalog   *catalog.Catalog
	cart      *cart.Cart
	finalizer *orders.Finalizer
	store     orders.Store
}

// NewSession creates a session with an empty cart over the given
// catalog and order store.
func NewSession(cat *catalog.Catalog, store orders.Store) *Session {
	c := cart.New(cat)
	return &Session{
		catalog:   cat,
		cart:      c,
		finalizer: orders.NewFinalizer(cat, store),
		store:     store,
	}
}

// Catalog returns the session's catalog.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// Cart returns the session's cart.
func (s *Session) Cart() *cart.Cart { return s.cart }

// Orders returns the session's order store.
func (s *Session) Orders() orders.Store { return s.store }

// PlaceOrder finalizes the cart into a persisted order.
func (s *Session) PlaceOrder(customerName, address string) (*orders.Order, error) {
	return s.finalizer.Place(s.cart, customerName, address)
}

// ResolveItemID maps free-form user text to a catalog item id.
// An exact name match wins; otherwise the first substring hit from
// a catalog search is used. Returns false when nothing matches.
func (s *Session) ResolveItemID(query string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", false
	}

	// Spoken ids arrive verbatim sometimes
	if _, ok := s.catalog.FindByID(q); ok {
		return q, true
	}

	for _, it := range s.catalog.Items() {
		if strings.ToLower(it.Name) == q {
			return it.ID, true
		}
	}

	if hits := s.catalog.Search(q); len(hits) > 0 {
		return hits[0].ID, true
	}
	return "", false
}
