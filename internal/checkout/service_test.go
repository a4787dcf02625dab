package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishalmart/shop/internal/cart"
	"github.com/vishalmart/shop/internal/inventory"
	"github.com/vishalmart/shop/internal/orders"
	"github.com/vishalmart/shop/internal/pricing"
)

func newCheckoutService(cartStore CartStore, ledger inventory.Ledger, repo OrderWriter) *Service {
	return NewService(cartStore, ledger, repo, pricing.DefaultConfig())
}

func TestCheckout_EmptyCart(t *testing.T) {
	cartStore := &MockCartStore{Items: nil}
	ledger := NewRecordingLedger()
	repo := &MockOrderWriter{}
	svc := newCheckoutService(cartStore, ledger, repo)

	_, err := svc.Checkout(context.Background(), "user-1")

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, ledger.Calls)
	assert.Empty(t, repo.Created)
	assert.Zero(t, cartStore.ClearCalls)
}

func TestCheckout_Success(t *testing.T) {
	ctx := context.Background()
	cartStore := &MockCartStore{Items: []cart.Item{
		{ProductID: 1, Title: "Headphones", Quantity: 2, PriceAtAdd: 100.00},
	}}
	ledger := NewRecordingLedger()
	require.NoError(t, ledger.SetStock(ctx, 1, 5))
	repo := &MockOrderWriter{}
	svc := newCheckoutService(cartStore, ledger, repo)

	order, err := svc.Checkout(ctx, "user-1")
	require.NoError(t, err)

	// Stock committed: 5 - 2 = 3.
	stock, err := ledger.Stock(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, stock)

	// One pending order with the snapshot price and computed breakdown:
	// 200 subtotal, 10 tax, 50 shipping.
	require.Len(t, repo.Created, 1)
	assert.Equal(t, order.ID, repo.Created[0].ID)
	assert.Equal(t, "user-1", order.UserID)
	assert.Equal(t, orders.StatusPending, order.Status)
	assert.Equal(t, 200.00, order.Subtotal)
	assert.Equal(t, 10.00, order.Tax)
	assert.Equal(t, 50.00, order.Shipping)
	assert.Equal(t, 260.00, order.Total)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 100.00, order.Items[0].UnitPrice)

	// Cart cleared only after the order exists.
	assert.Equal(t, 1, cartStore.ClearCalls)
}

func TestCheckout_PriceLockIn(t *testing.T) {
	// The cart line was added at 80.00; whatever the catalog says now is
	// irrelevant — checkout never reads it.
	ctx := context.Background()
	cartStore := &MockCartStore{Items: []cart.Item{
		{ProductID: 1, Title: "Keyboard", Quantity: 1, PriceAtAdd: 80.00},
	}}
	ledger := NewRecordingLedger()
	require.NoError(t, ledger.SetStock(ctx, 1, 10))
	repo := &MockOrderWriter{}
	svc := newCheckoutService(cartStore, ledger, repo)

	order, err := svc.Checkout(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 80.00, order.Items[0].UnitPrice)
	assert.Equal(t, 80.00, order.Subtotal)
	assert.Equal(t, 4.00, order.Tax)
	assert.Equal(t, 134.00, order.Total)
}

func TestCheckout_InsufficientStock_RollsBackInReverseOrder(t *testing.T) {
	ctx := context.Background()
	cartStore := &MockCartStore{Items: []cart.Item{
		{ProductID: 1, Quantity: 2, PriceAtAdd: 10.00},
		{ProductID: 2, Quantity: 1, PriceAtAdd: 20.00},
		{ProductID: 3, Quantity: 4, PriceAtAdd: 5.00}, // only 1 in stock
	}}
	ledger := NewRecordingLedger()
	require.NoError(t, ledger.SetStock(ctx, 1, 10))
	require.NoError(t, ledger.SetStock(ctx, 2, 10))
	require.NoError(t, ledger.SetStock(ctx, 3, 1))
	repo := &MockOrderWriter{}
	svc := newCheckoutService(cartStore, ledger, repo)

	before := ledger.TotalStock(ctx, 1, 2, 3)

	_, err := svc.Checkout(ctx, "user-1")

	var insufficient *inventory.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(3), insufficient.ProductID)
	assert.Equal(t, 4, insufficient.Requested)
	assert.Equal(t, 1, insufficient.Available)

	// No order, no cleared cart, no stock leaked.
	assert.Empty(t, repo.Created)
	assert.Zero(t, cartStore.ClearCalls)
	assert.Equal(t, before, ledger.TotalStock(ctx, 1, 2, 3))

	// Reserved 1 then 2, rolled back 2 then 1.
	assert.Equal(t, []LedgerCall{
		{Op: "reserve", ProductID: 1, Quantity: 2},
		{Op: "reserve", ProductID: 2, Quantity: 1},
		{Op: "release", ProductID: 2, Quantity: 1},
		{Op: "release", ProductID: 1, Quantity: 2},
	}, ledger.Calls)
}

func TestCheckout_PersistenceFailure_ReleasesAllReservations(t *testing.T) {
	ctx := context.Background()
	cartStore := &MockCartStore{Items: []cart.Item{
		{ProductID: 1, Quantity: 2, PriceAtAdd: 10.00},
		{ProductID: 2, Quantity: 3, PriceAtAdd: 20.00},
	}}
	ledger := NewRecordingLedger()
	require.NoError(t, ledger.SetStock(ctx, 1, 5))
	require.NoError(t, ledger.SetStock(ctx, 2, 5))
	repo := &MockOrderWriter{CreateErr: errors.New("connection refused")}
	svc := newCheckoutService(cartStore, ledger, repo)

	_, err := svc.Checkout(ctx, "user-1")

	assert.ErrorIs(t, err, ErrPersistenceFailure)
	assert.Zero(t, cartStore.ClearCalls)

	stock1, _ := ledger.Stock(ctx, 1)
	stock2, _ := ledger.Stock(ctx, 2)
	assert.Equal(t, 5, stock1)
	assert.Equal(t, 5, stock2)
}

func TestCheckout_CancelledAfterReservation_Compensates(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	cartStore := &MockCartStore{Items: []cart.Item{
		{ProductID: 1, Quantity: 1, PriceAtAdd: 10.00},
	}}
	ledger := NewRecordingLedger()
	require.NoError(t, ledger.SetStock(context.Background(), 1, 5))
	repo := &MockOrderWriter{}
	svc := newCheckoutService(cartStore, ledger, repo)

	_, err := svc.Checkout(cancelled, "user-1")

	assert.ErrorIs(t, err, ErrPersistenceFailure)
	assert.Empty(t, repo.Created)

	stock, serr := ledger.Stock(context.Background(), 1)
	require.NoError(t, serr)
	assert.Equal(t, 5, stock)
}

func TestCheckout_ClearFailureStillReturnsOrder(t *testing.T) {
	ctx := context.Background()
	cartStore := &MockCartStore{
		Items:    []cart.Item{{ProductID: 1, Quantity: 1, PriceAtAdd: 10.00}},
		ClearErr: errors.New("mongo unavailable"),
	}
	ledger := NewRecordingLedger()
	require.NoError(t, ledger.SetStock(ctx, 1, 5))
	repo := &MockOrderWriter{}
	svc := newCheckoutService(cartStore, ledger, repo)

	order, err := svc.Checkout(ctx, "user-1")
	require.NoError(t, err)
	assert.NotNil(t, order)
	assert.Len(t, repo.Created, 1)
}

func TestCheckout_ConcurrentCheckoutsCannotOversell(t *testing.T) {
	ctx := context.Background()
	ledger := NewRecordingLedger()
	require.NoError(t, ledger.SetStock(ctx, 1, 3))

	// Five users race to check out 2 units each with 3 in stock; at most
	// one can succeed.
	done := make(chan error, 5)
	for i := 0; i < 5; i++ {
		go func() {
			cartStore := &MockCartStore{Items: []cart.Item{
				{ProductID: 1, Quantity: 2, PriceAtAdd: 10.00},
			}}
			svc := newCheckoutService(cartStore, ledger, &MockOrderWriter{})
			_, err := svc.Checkout(ctx, "user")
			done <- err
		}()
	}

	succeeded := 0
	for i := 0; i < 5; i++ {
		if err := <-done; err == nil {
			succeeded++
		} else {
			var insufficient *inventory.InsufficientStockError
			require.ErrorAs(t, err, &insufficient)
		}
	}

	assert.Equal(t, 1, succeeded)

	stock, err := ledger.Stock(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, stock)
}
