package inventory

import (
	"context"
	"errors"
	"fmt"
)

// ErrProductNotFound is returned when the ledger has no stock row for a product.
var ErrProductNotFound = errors.New("product not found in inventory")

// InsufficientStockError reports a failed reservation with the quantity that
// was actually available, so clients can adjust the cart instead of blindly
// retrying.
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// Ledger is the sole authority over how many units of a product are available
// to sell. Reserve must be atomic with respect to concurrent reservations on
// the same product: two callers must never both succeed when their combined
// quantity exceeds the available stock.
type Ledger interface {
	// Reserve atomically checks stock >= quantity and decrements it.
	// Returns *InsufficientStockError when the check fails.
	Reserve(ctx context.Context, productID int64, quantity int) error

	// Release increments stock, undoing a prior reservation. Used as the
	// compensating action when a multi-line checkout fails partway.
	Release(ctx context.Context, productID int64, quantity int) error

	// Stock returns a point-in-time snapshot of the available quantity.
	Stock(ctx context.Context, productID int64) (int, error)

	// SetStock sets the stock level for a product (seeding and restock).
	SetStock(ctx context.Context, productID int64, quantity int) error
}
