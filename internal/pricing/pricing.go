// Package pricing computes the price breakdown of a cart at checkout time.
// It is a pure calculation layer: no storage, no clock, no I/O.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNoLines is returned when pricing is requested for an empty cart.
// Callers must reject empty carts before asking for a breakdown.
var ErrNoLines = errors.New("no lines to price")

// Line is a single cart line as seen by the calculator: the quantity and the
// unit price locked in when the product was added to the cart.
type Line struct {
	Quantity  int
	UnitPrice float64
}

// Breakdown holds the computed totals, each rounded to 2 decimal places.
type Breakdown struct {
	Subtotal float64
	Tax      float64
	Shipping float64
	Total    float64
}

// Config holds the pricing constants. The zero value is not usable; build it
// from configuration with DefaultConfig or explicit values.
type Config struct {
	TaxRate     decimal.Decimal
	ShippingFee decimal.Decimal
}

// DefaultConfig returns the observed store constants: 5% tax and a flat
// 50.00 shipping fee on any non-empty cart.
func DefaultConfig() Config {
	return Config{
		TaxRate:     decimal.NewFromFloat(0.05),
		ShippingFee: decimal.NewFromFloat(50.00),
	}
}

// Price computes the breakdown for the given lines. The subtotal is summed at
// full precision and rounded once per reported figure, so repeated unit prices
// like 0.10 do not accumulate binary-float drift. Tax is computed on the
// unrounded subtotal.
func (c Config) Price(lines []Line) (Breakdown, error) {
	if len(lines) == 0 {
		return Breakdown{}, ErrNoLines
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		unit := decimal.NewFromFloat(line.UnitPrice)
		subtotal = subtotal.Add(unit.Mul(qty))
	}

	tax := subtotal.Mul(c.TaxRate).Round(2)
	total := subtotal.Add(tax).Add(c.ShippingFee).Round(2)

	return Breakdown{
		Subtotal: subtotal.Round(2).InexactFloat64(),
		Tax:      tax.InexactFloat64(),
		Shipping: c.ShippingFee.Round(2).InexactFloat64(),
		Total:    total.InexactFloat64(),
	}, nil
}
