package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice_KnownBreakdown(t *testing.T) {
	cfg := DefaultConfig()

	lines := []Line{
		{Quantity: 2, UnitPrice: 10.00},
		{Quantity: 1, UnitPrice: 5.00},
	}

	b, err := cfg.Price(lines)
	require.NoError(t, err)

	assert.Equal(t, 25.00, b.Subtotal)
	assert.Equal(t, 1.25, b.Tax)
	assert.Equal(t, 50.00, b.Shipping)
	assert.Equal(t, 76.25, b.Total)
}

func TestPrice_Deterministic(t *testing.T) {
	cfg := DefaultConfig()

	lines := []Line{
		{Quantity: 3, UnitPrice: 19.99},
		{Quantity: 1, UnitPrice: 249.50},
		{Quantity: 7, UnitPrice: 0.99},
	}

	first, err := cfg.Price(lines)
	require.NoError(t, err)
	second, err := cfg.Price(lines)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPrice_NoFloatDrift(t *testing.T) {
	cfg := DefaultConfig()

	// 100 lines of 0.10 would drift with naive float64 accumulation.
	lines := make([]Line, 100)
	for i := range lines {
		lines[i] = Line{Quantity: 1, UnitPrice: 0.10}
	}

	b, err := cfg.Price(lines)
	require.NoError(t, err)

	assert.Equal(t, 10.00, b.Subtotal)
	assert.Equal(t, 0.50, b.Tax)
	assert.Equal(t, 60.50, b.Total)
}

func TestPrice_EmptyLines(t *testing.T) {
	cfg := DefaultConfig()

	_, err := cfg.Price(nil)
	assert.ErrorIs(t, err, ErrNoLines)

	_, err = cfg.Price([]Line{})
	assert.ErrorIs(t, err, ErrNoLines)
}

func TestPrice_TaxOnUnroundedSubtotal(t *testing.T) {
	cfg := Config{
		TaxRate:     decimal.NewFromFloat(0.05),
		ShippingFee: decimal.NewFromFloat(50.00),
	}

	// subtotal 33.33 * 3 = 99.99, tax = 4.9995 -> 5.00
	b, err := cfg.Price([]Line{{Quantity: 3, UnitPrice: 33.33}})
	require.NoError(t, err)

	assert.Equal(t, 99.99, b.Subtotal)
	assert.Equal(t, 5.00, b.Tax)
	assert.Equal(t, 154.99, b.Total)
}
