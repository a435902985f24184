package models

import (
	"math"

	"github.com/shopspring/decimal"
)

// Totals holds the derived figures of an invoice.
type Totals struct {
	Subtotal  float64
	TaxAmount float64
	Total     float64
}

// ComputeLineAmount returns quantity * unit price, unrounded. Non-finite
// inputs (a field mid-edit) produce a non-finite amount that propagates
// into the subtotal rather than being corrected here.
func ComputeLineAmount(quantity, unitPrice float64) float64 {
	return quantity * unitPrice
}

// ComputeTotals derives subtotal, tax amount and total from the current
// line items. Values are exact; rounding to two decimals happens at
// display and persist time via Round2.
func ComputeTotals(items []InvoiceItem, taxRate, discount float64) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Amount
	}

	taxAmount := subtotal * taxRate / 100
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     subtotal + taxAmount - discount,
	}
}

// Recalculate rewrites every derived field from the invoice's items, tax
// rate and discount, rounded to two decimals the way records are stored.
// Whatever figures the caller supplied are overwritten.
func (inv *Invoice) Recalculate() {
	for i := range inv.Items {
		inv.Items[i].Amount = Round2(ComputeLineAmount(inv.Items[i].Quantity, inv.Items[i].UnitPrice))
	}

	totals := ComputeTotals(inv.Items, inv.TaxRate, inv.Discount)
	inv.Subtotal = Round2(totals.Subtotal)
	inv.TaxAmount = Round2(inv.Subtotal * inv.TaxRate / 100)
	inv.Total = Round2(inv.Subtotal + inv.TaxAmount - inv.Discount)
}

// Round2 rounds a currency value to two decimal places, half away from
// zero. Non-finite values pass through unchanged.
func Round2(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	rounded, _ := decimal.NewFromFloat(value).Round(2).Float64()
	return rounded
}
