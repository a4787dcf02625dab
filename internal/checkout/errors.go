package checkout

import "errors"

var (
	// ErrEmptyCart rejects checkout on a cart with no lines. Nothing is
	// mutated.
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

	// ErrPersistenceFailure wraps an order-creation failure after the
	// compensating stock release has run. No order row exists when this
	// is returned.
	ErrPersistenceFailure = errors.New("failed to persist order")

	// IllegalTransitionError guards the checkout state machine against
	// programming errors; callers should never see it.
	IllegalTransitionError = errors.New("illegal transition of checkout status")
)
