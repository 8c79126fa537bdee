package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTransaction is returned when a draft has no items.
	ErrEmptyTransaction = errors.New("transaction has no items")
	// ErrMissingCounterparty is returned when a draft names no customer or supplier.
	ErrMissingCounterparty = errors.New("counterparty is required")
	// ErrInvalidQuantity is returned when an item quantity is not positive.
	ErrInvalidQuantity = errors.New("item quantity must be positive")
)

// InsufficientStockError is returned when a sale cannot be satisfied from
// current stock. A sale against a product that does not exist at all is
// also reported this way, with Available set to zero.
type InsufficientStockError struct {
	Product   string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.Product, e.Requested, e.Available)
}

// UnknownProductError is returned when a purchase references a product that
// is not in the catalog. The whole transaction is rejected rather than
// silently dropping the line's inventory effect.
type UnknownProductError struct {
	Product string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown product %s", e.Product)
}
