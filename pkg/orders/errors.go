package orders

import "errors"

// Sentinel errors for the orders package.
var (
	// ErrEmptyCart indicates place was called with nothing in the cart.
	// Reported conversationally; no side effects occur.
	ErrEmptyCart = errors.New("orders: cart is empty")

	// ErrNotFound indicates the requested order id is not in the store.
	ErrNotFound = errors.New("orders: order not found")

	// ErrDuplicateID indicates a save would overwrite an existing order.
	// Order ids carry a random suffix so this should never fire; it exists
	// so a key collision is loud instead of silently destructive.
	ErrDuplicateID = errors.New("orders: duplicate order id")
)
