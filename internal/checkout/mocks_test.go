package checkout

import (
	"context"
	"sync"

	"github.com/vishalmart/shop/internal/cart"
	"github.com/vishalmart/shop/internal/inventory"
	"github.com/vishalmart/shop/internal/orders"
)

// MockCartStore implements CartStore for testing
type MockCartStore struct {
	Items      []cart.Item
	SnapErr    error
	ClearErr   error
	ClearCalls int
}

func (m *MockCartStore) Snapshot(_ context.Context, _ string) ([]cart.Item, error) {
	return m.Items, m.SnapErr
}

func (m *MockCartStore) Clear(_ context.Context, _ string) error {
	m.ClearCalls++
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.Items = nil
	return nil
}

// MockOrderWriter implements OrderWriter for testing
type MockOrderWriter struct {
	CreateErr error
	Created   []*orders.Order // Captures every order passed to CreateOrder
}

func (m *MockOrderWriter) CreateOrder(_ context.Context, order *orders.Order) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Created = append(m.Created, order)
	return nil
}

// RecordingLedger wraps a real MemoryLedger and records the call sequence so
// tests can assert reservation and rollback ordering.
type RecordingLedger struct {
	*inventory.MemoryLedger

	mu    sync.Mutex
	Calls []LedgerCall
}

type LedgerCall struct {
	Op        string // "reserve" or "release"
	ProductID int64
	Quantity  int
}

func NewRecordingLedger() *RecordingLedger {
	return &RecordingLedger{MemoryLedger: inventory.NewMemoryLedger()}
}

func (l *RecordingLedger) Reserve(ctx context.Context, productID int64, quantity int) error {
	err := l.MemoryLedger.Reserve(ctx, productID, quantity)
	if err == nil {
		l.record("reserve", productID, quantity)
	}
	return err
}

func (l *RecordingLedger) Release(ctx context.Context, productID int64, quantity int) error {
	err := l.MemoryLedger.Release(ctx, productID, quantity)
	if err == nil {
		l.record("release", productID, quantity)
	}
	return err
}

func (l *RecordingLedger) record(op string, productID int64, quantity int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Calls = append(l.Calls, LedgerCall{Op: op, ProductID: productID, Quantity: quantity})
}

// TotalStock sums available stock across the given products.
func (l *RecordingLedger) TotalStock(ctx context.Context, productIDs ...int64) int {
	total := 0
	for _, id := range productIDs {
		stock, err := l.Stock(ctx, id)
		if err == nil {
			total += stock
		}
	}
	return total
}
