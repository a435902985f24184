package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeLineAmount(t *testing.T) {
	assert.Equal(t, 20.0, ComputeLineAmount(2, 10))
	assert.Equal(t, 0.0, ComputeLineAmount(0, 99.99))
	assert.Equal(t, 2.5*19.99, ComputeLineAmount(2.5, 19.99))

	// mid-edit state: an empty numeric field parses to NaN and passes through
	assert.True(t, math.IsNaN(ComputeLineAmount(math.NaN(), 10)))
}

func TestComputeTotalsSingleItem(t *testing.T) {
	items := []InvoiceItem{
		{Description: "Widget", Quantity: 2, UnitPrice: 10.00, Amount: ComputeLineAmount(2, 10.00)},
	}

	totals := ComputeTotals(items, 10, 5)

	assert.Equal(t, 20.00, totals.Subtotal)
	assert.Equal(t, 2.00, totals.TaxAmount)
	assert.Equal(t, 17.00, totals.Total)
}

func TestComputeTotalsMultipleItemsZeroTax(t *testing.T) {
	items := []InvoiceItem{
		{Quantity: 1, UnitPrice: 100, Amount: ComputeLineAmount(1, 100)},
		{Quantity: 3, UnitPrice: 50, Amount: ComputeLineAmount(3, 50)},
	}

	totals := ComputeTotals(items, 0, 0)

	assert.Equal(t, 250.00, totals.Subtotal)
	assert.Equal(t, 0.00, totals.TaxAmount)
	assert.Equal(t, 250.00, totals.Total)
}

func TestComputeTotalsDiscountExceedsSubtotal(t *testing.T) {
	items := []InvoiceItem{
		{Quantity: 1, UnitPrice: 10, Amount: ComputeLineAmount(1, 10)},
	}

	totals := ComputeTotals(items, 0, 50)

	assert.Equal(t, 10.00, totals.Subtotal)
	// negative totals are not clamped
	assert.Equal(t, -40.00, totals.Total)
}

func TestComputeTotalsIdempotent(t *testing.T) {
	items := []InvoiceItem{
		{Quantity: 3, UnitPrice: 7.77, Amount: ComputeLineAmount(3, 7.77)},
		{Quantity: 1.5, UnitPrice: 4, Amount: ComputeLineAmount(1.5, 4)},
	}

	first := ComputeTotals(items, 8.25, 2)
	second := ComputeTotals(items, 8.25, 2)

	assert.Equal(t, first, second)
}

func TestComputeTotalsEmptyItems(t *testing.T) {
	totals := ComputeTotals(nil, 10, 0)

	assert.Equal(t, 0.00, totals.Subtotal)
	assert.Equal(t, 0.00, totals.TaxAmount)
	assert.Equal(t, 0.00, totals.Total)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 2.35, Round2(2.345))
	assert.Equal(t, 2.34, Round2(2.344))
	assert.Equal(t, -2.35, Round2(-2.345))
	assert.Equal(t, 10.00, Round2(10))
	assert.Equal(t, 0.10, Round2(0.1+0.2-0.2))

	assert.True(t, math.IsNaN(Round2(math.NaN())))
	assert.True(t, math.IsInf(Round2(math.Inf(1)), 1))
}
