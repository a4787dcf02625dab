package cart

import (
	"context"
	"errors"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrItemNotFound = errors.New("item not found in cart")
)

// Repository defines the interface for cart data operations.
// Consumers define this interface, not the MongoDB implementation.
type Repository interface {
	GetCart(ctx context.Context, userID string) (*Cart, error)

	// AddItem merges into an existing line for the same product (quantities
	// sum) or appends a new line, creating the cart if needed.
	AddItem(ctx context.Context, userID string, item Item) error

	// UpdateItemQuantity replaces the quantity of an existing line.
	// Returns ErrItemNotFound when the product is not in the cart.
	UpdateItemQuantity(ctx context.Context, userID string, productID int64, quantity int) error

	// RemoveItem is idempotent: removing an absent line is a no-op.
	RemoveItem(ctx context.Context, userID string, productID int64) error

	// ClearCart empties the cart's items. The cart itself survives.
	ClearCart(ctx context.Context, userID string) error
}
