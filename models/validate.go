package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidInvoice is the sentinel for all write-time validation failures,
// so callers can match with errors.Is regardless of which rules fired.
var ErrInvalidInvoice = errors.New("invalid invoice")

// ValidationErrors collects every rule violation found in one pass.
type ValidationErrors struct {
	Messages []string
}

func (e *ValidationErrors) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidInvoice.Error(), strings.Join(e.Messages, "; "))
}

func (e *ValidationErrors) Unwrap() error {
	return ErrInvalidInvoice
}

// Validate checks an invoice before it is persisted. The form deliberately
// lets invalid numeric entry through while the user is mid-edit; this is
// the write-side gate that keeps bad records out of storage.
func (inv *Invoice) Validate() error {
	var messages []string

	if inv.InvoiceNumber == "" {
		messages = append(messages, "Missing required field: invoice_number")
	}
	if inv.DueDate == "" {
		messages = append(messages, "Missing required field: due_date")
	}
	if inv.ClientName == "" {
		messages = append(messages, "Missing required field: client_name")
	}

	if inv.InvoiceDate != "" {
		if _, err := time.Parse(DateLayout, inv.InvoiceDate); err != nil {
			messages = append(messages, "Invalid date format. Use ISO format (YYYY-MM-DD)")
		}
	}
	if inv.DueDate != "" {
		if _, err := time.Parse(DateLayout, inv.DueDate); err != nil {
			messages = append(messages, "Invalid date format. Use ISO format (YYYY-MM-DD)")
		}
	}

	if len(inv.Items) == 0 {
		messages = append(messages, "Invoice must have at least one item")
	}
	for i, item := range inv.Items {
		if item.Description == "" {
			messages = append(messages, fmt.Sprintf("Item %d: Missing description", i+1))
		}
		if !(item.Quantity > 0) {
			messages = append(messages, fmt.Sprintf("Item %d: Quantity must be greater than 0", i+1))
		}
		if !(item.UnitPrice >= 0) {
			messages = append(messages, fmt.Sprintf("Item %d: Unit price cannot be negative", i+1))
		}
	}

	if !(inv.TaxRate >= 0) {
		messages = append(messages, "Tax rate cannot be negative")
	}
	if !(inv.Discount >= 0) {
		messages = append(messages, "Discount cannot be negative")
	}

	switch inv.Status {
	case "", StatusDraft, StatusSent, StatusPaid, StatusCancelled:
	default:
		messages = append(messages, fmt.Sprintf("Invalid status: %s", inv.Status))
	}

	if !validEmail(inv.ClientEmail) {
		messages = append(messages, "Invalid client email")
	}
	if !validEmail(inv.CompanyEmail) {
		messages = append(messages, "Invalid company email")
	}

	if len(messages) > 0 {
		return &ValidationErrors{Messages: messages}
	}
	return nil
}

// validEmail accepts the empty string since email fields are optional.
func validEmail(email string) bool {
	if email == "" {
		return true
	}
	at := strings.Index(email, "@")
	if at <= 0 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}
