package inventory

import (
	"context"
	"sync"
)

// MemoryLedger implements Ledger with in-memory storage. The mutex serializes
// check-and-decrement, so concurrent reservations on the same product cannot
// both pass the stock check.
type MemoryLedger struct {
	mu     sync.Mutex
	stocks map[int64]int
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		stocks: make(map[int64]int),
	}
}

func (l *MemoryLedger) Reserve(_ context.Context, productID int64, quantity int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	stock, exists := l.stocks[productID]
	if !exists {
		return ErrProductNotFound
	}
	if stock < quantity {
		return &InsufficientStockError{
			ProductID: productID,
			Requested: quantity,
			Available: stock,
		}
	}

	l.stocks[productID] = stock - quantity
	return nil
}

func (l *MemoryLedger) Release(_ context.Context, productID int64, quantity int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	stock, exists := l.stocks[productID]
	if !exists {
		return ErrProductNotFound
	}

	l.stocks[productID] = stock + quantity
	return nil
}

func (l *MemoryLedger) Stock(_ context.Context, productID int64) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	stock, exists := l.stocks[productID]
	if !exists {
		return 0, ErrProductNotFound
	}
	return stock, nil
}

func (l *MemoryLedger) SetStock(_ context.Context, productID int64, quantity int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stocks[productID] = quantity
	return nil
}
