package checkout

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/vishalmart/shop/internal/cart"
)

const releaseTimeout = 5 * time.Second

// reserveLines reserves stock for every line in cart insertion order. On the
// first failure it releases the lines already reserved in this attempt, in
// reverse order, and returns the failure untouched so callers can inspect the
// typed *inventory.InsufficientStockError.
func (s *Service) reserveLines(ctx context.Context, items []cart.Item, status Status) error {
	if !CanTransitionTo(status, StatusInventoryReserved) {
		return IllegalTransitionError
	}

	for i, item := range items {
		if err := s.ledger.Reserve(ctx, item.ProductID, item.Quantity); err != nil {
			s.releaseLines(items[:i])
			return fmt.Errorf("reserving product %d: %w", item.ProductID, err)
		}
	}
	return nil
}

// releaseLines is the compensating action: it returns every given line's
// quantity to the ledger, in reverse reservation order. It runs on a fresh
// context so a cancelled checkout can still roll back, and it logs rather
// than fails — a release error means stock is leaked and needs operator
// attention, but there is nothing further the checkout can do about it.
func (s *Service) releaseLines(items []cart.Item) {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()

	for i := len(items) - 1; i >= 0; i-- {
		item := items[i]
		if err := s.ledger.Release(ctx, item.ProductID, item.Quantity); err != nil {
			log.Printf("failed to release %d units of product %d during checkout rollback: %v",
				item.Quantity, item.ProductID, err)
		}
	}
}
