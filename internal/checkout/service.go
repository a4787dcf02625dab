// Package checkout turns a cart into an order with all-or-nothing stock
// commitment. Stock is reserved line by line before the order is persisted;
// any downstream failure releases every reservation made in the attempt, so
// an aborted checkout never leaves the ledger with less stock than it started
// with.
package checkout

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/vishalmart/shop/internal/cart"
	"github.com/vishalmart/shop/internal/inventory"
	"github.com/vishalmart/shop/internal/orders"
	"github.com/vishalmart/shop/internal/pricing"
)

// CartStore is the slice of the cart service checkout needs: a snapshot of
// the lines in insertion order, and a way to empty the cart on success.
type CartStore interface {
	Snapshot(ctx context.Context, userID string) ([]cart.Item, error)
	Clear(ctx context.Context, userID string) error
}

// OrderWriter persists the order produced by a successful checkout.
type OrderWriter interface {
	CreateOrder(ctx context.Context, order *orders.Order) error
}

type Service struct {
	cart    CartStore
	ledger  inventory.Ledger
	repo    OrderWriter
	pricing pricing.Config
}

func NewService(cartStore CartStore, ledger inventory.Ledger, repo OrderWriter, pricingCfg pricing.Config) *Service {
	return &Service{
		cart:    cartStore,
		ledger:  ledger,
		repo:    repo,
		pricing: pricingCfg,
	}
}

// Checkout runs the full flow for one user: snapshot -> price -> reserve ->
// persist -> clear. Each line is priced with its PriceAtAdd snapshot, not the
// live catalog price. Orders are created as Pending: payment is cash on
// delivery, so there is no settlement step to model.
//
// Retrying a failed checkout is the caller's call; it must go through a fresh
// cart read, never a replay of a stale snapshot.
func (s *Service) Checkout(ctx context.Context, userID string) (*orders.Order, error) {
	status := StatusInitiated

	items, err := s.cart.Snapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	if len(items) == 0 {
		if !CanTransitionTo(status, StatusRejectedEmptyCart) {
			return nil, IllegalTransitionError
		}
		return nil, ErrEmptyCart
	}

	breakdown, err := s.price(items, status)
	if err != nil {
		return nil, err
	}
	status = StatusPriced

	if err := s.reserveLines(ctx, items, status); err != nil {
		return nil, err
	}
	status = StatusInventoryReserved

	// Cancellation after this point must run the same compensation as a
	// persistence failure: the reservations are already committed.
	if err := ctx.Err(); err != nil {
		s.releaseLines(items)
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	if !CanTransitionTo(status, StatusPersisted) {
		s.releaseLines(items)
		return nil, IllegalTransitionError
	}

	order := buildOrder(userID, items, breakdown)

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		s.releaseLines(items)
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	status = StatusPersisted

	// The order exists and stock is committed; a failed cart clear must not
	// fail the checkout. The next cart read will show the leftovers.
	if err := s.cart.Clear(ctx, userID); err != nil {
		log.Printf("failed to clear cart for user %s after checkout %s: %v", userID, order.ID, err)
	}

	if !CanTransitionTo(status, StatusCompleted) {
		return nil, IllegalTransitionError
	}

	return order, nil
}

func (s *Service) price(items []cart.Item, status Status) (pricing.Breakdown, error) {
	if !CanTransitionTo(status, StatusPriced) {
		return pricing.Breakdown{}, IllegalTransitionError
	}

	lines := make([]pricing.Line, len(items))
	for i, item := range items {
		lines[i] = pricing.Line{
			Quantity:  item.Quantity,
			UnitPrice: item.PriceAtAdd,
		}
	}

	breakdown, err := s.pricing.Price(lines)
	if err != nil {
		return pricing.Breakdown{}, fmt.Errorf("failed to price cart: %w", err)
	}
	return breakdown, nil
}

func buildOrder(userID string, items []cart.Item, breakdown pricing.Breakdown) *orders.Order {
	now := time.Now()

	orderItems := make([]orders.Item, len(items))
	for i, item := range items {
		orderItems[i] = orders.Item{
			ProductID: item.ProductID,
			Title:     item.Title,
			Quantity:  item.Quantity,
			UnitPrice: item.PriceAtAdd,
		}
	}

	return &orders.Order{
		ID:        uuid.New(),
		UserID:    userID,
		Items:     orderItems,
		Subtotal:  breakdown.Subtotal,
		Tax:       breakdown.Tax,
		Shipping:  breakdown.Shipping,
		Total:     breakdown.Total,
		Status:    orders.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
