// Package form holds the in-memory working copy of an invoice while the
// user edits it. Every mutating operation recomputes the affected line
// amount immediately; the invoice totals are a pure function of the
// current state and are derived on every read.
package form

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/invoice-manager/models"
)

// Gateway is the slice of the persistence API the form needs to submit.
// client.Client satisfies it; tests substitute a mock.
type Gateway interface {
	Create(ctx context.Context, inv models.Invoice) (*models.Invoice, error)
	Update(ctx context.Context, id uint, inv models.Invoice) (*models.Invoice, error)
}

// ItemField names an editable line-item field.
type ItemField string

const (
	FieldDescription ItemField = "description"
	FieldQuantity    ItemField = "quantity"
	FieldUnitPrice   ItemField = "unit_price"
)

const (
	defaultCompanyName = "Your Company"
	defaultTerms       = "Payment due within 30 days"
	dueDateOffsetDays  = 30
)

// Form owns one invoice being edited. Data is the working copy; header
// text fields may be set directly, but line items, tax rate and discount
// go through the methods so derived amounts stay consistent.
type Form struct {
	// Now supplies the clock used for default invoice numbers and dates.
	Now func() time.Time

	Data models.Invoice
}

// New returns a blank form with derived defaults: a timestamp-based
// invoice number, today's date, a due date 30 days out and a single
// blank line item.
func New() *Form {
	f := &Form{Now: time.Now}
	f.Reset()
	return f
}

// Load returns a form seeded from an existing record for editing.
func Load(inv models.Invoice) *Form {
	inv.Items = append([]models.InvoiceItem(nil), inv.Items...)
	return &Form{Now: time.Now, Data: inv}
}

// Reset replaces the working copy with blank defaults.
func (f *Form) Reset() {
	now := f.Now()
	f.Data = models.Invoice{
		InvoiceNumber: fmt.Sprintf("INV-%d", now.UnixMilli()),
		InvoiceDate:   now.Format(models.DateLayout),
		DueDate:       now.AddDate(0, 0, dueDateOffsetDays).Format(models.DateLayout),
		CompanyName:   defaultCompanyName,
		Terms:         defaultTerms,
		Status:        models.StatusDraft,
		Items:         []models.InvoiceItem{blankItem()},
	}
}

// AddItem appends a blank line item to the end of the sequence.
func (f *Form) AddItem() {
	items := append([]models.InvoiceItem(nil), f.Data.Items...)
	f.Data.Items = append(items, blankItem())
}

// RemoveItem drops the item at index. An invoice keeps at least one line
// item, so removing the last remaining item is a no-op, as is an index
// out of range.
func (f *Form) RemoveItem(index int) {
	if len(f.Data.Items) <= 1 || index < 0 || index >= len(f.Data.Items) {
		return
	}
	items := make([]models.InvoiceItem, 0, len(f.Data.Items)-1)
	items = append(items, f.Data.Items[:index]...)
	items = append(items, f.Data.Items[index+1:]...)
	f.Data.Items = items
}

// UpdateItem sets one field of the item at index from its raw input text.
// Editing quantity or unit price recomputes that item's amount and only
// that item's. Non-numeric entry yields a NaN amount, an accepted
// transient state while the user is mid-edit.
func (f *Form) UpdateItem(index int, field ItemField, raw string) {
	if index < 0 || index >= len(f.Data.Items) {
		return
	}
	items := append([]models.InvoiceItem(nil), f.Data.Items...)
	item := &items[index]

	switch field {
	case FieldDescription:
		item.Description = raw
	case FieldQuantity:
		item.Quantity = parseNumber(raw)
	case FieldUnitPrice:
		item.UnitPrice = parseNumber(raw)
	default:
		return
	}

	if field == FieldQuantity || field == FieldUnitPrice {
		item.Amount = models.ComputeLineAmount(item.Quantity, item.UnitPrice)
	}
	f.Data.Items = items
}

// SetTaxRate sets the tax rate from raw input text. Empty or non-numeric
// entry counts as zero.
func (f *Form) SetTaxRate(raw string) {
	f.Data.TaxRate = numberOrZero(raw)
}

// SetDiscount sets the flat discount from raw input text. Empty or
// non-numeric entry counts as zero.
func (f *Form) SetDiscount(raw string) {
	f.Data.Discount = numberOrZero(raw)
}

// Totals derives subtotal, tax amount and total from the current state.
// Values are exact; round for display with models.Round2.
func (f *Form) Totals() models.Totals {
	return models.ComputeTotals(f.Data.Items, f.Data.TaxRate, f.Data.Discount)
}

// Submit folds the current totals into the record and sends it to the
// gateway: create when the record has no identifier yet, update
// otherwise. On failure the working copy is left untouched so the user
// can retry without re-entering anything.
func (f *Form) Submit(ctx context.Context, gw Gateway) (*models.Invoice, error) {
	record := f.Data
	record.Items = append([]models.InvoiceItem(nil), f.Data.Items...)

	totals := f.Totals()
	record.Subtotal = totals.Subtotal
	record.TaxAmount = totals.TaxAmount
	record.Total = totals.Total

	if record.ID == 0 {
		return gw.Create(ctx, record)
	}
	return gw.Update(ctx, record.ID, record)
}

func blankItem() models.InvoiceItem {
	return models.InvoiceItem{Description: "", Quantity: 1, UnitPrice: 0, Amount: 0}
}

func parseNumber(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func numberOrZero(raw string) float64 {
	v := parseNumber(raw)
	if math.IsNaN(v) {
		return 0
	}
	return v
}
