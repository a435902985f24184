package models

import (
	"time"
)

// Invoice statuses
const (
	StatusDraft     = "draft"
	StatusSent      = "sent"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

// DateLayout is the wire format for invoice_date and due_date.
const DateLayout = "2006-01-02"

type Invoice struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	InvoiceNumber string `gorm:"uniqueIndex;size:50;not null" json:"invoice_number"`
	InvoiceDate   string `gorm:"size:10;not null" json:"invoice_date"`
	DueDate       string `gorm:"size:10;not null" json:"due_date"`

	ClientName    string `gorm:"size:255;not null" json:"client_name"`
	ClientEmail   string `gorm:"size:255" json:"client_email"`
	ClientPhone   string `gorm:"size:50" json:"client_phone"`
	ClientAddress string `gorm:"type:text" json:"client_address"`

	CompanyName    string `gorm:"size:255" json:"company_name"`
	CompanyEmail   string `gorm:"size:255" json:"company_email"`
	CompanyPhone   string `gorm:"size:50" json:"company_phone"`
	CompanyAddress string `gorm:"type:text" json:"company_address"`

	Subtotal  float64 `gorm:"default:0" json:"subtotal"`
	TaxRate   float64 `gorm:"default:0" json:"tax_rate"`
	TaxAmount float64 `gorm:"default:0" json:"tax_amount"`
	Discount  float64 `gorm:"default:0" json:"discount"`
	Total     float64 `gorm:"default:0" json:"total"`

	Notes  string `gorm:"type:text" json:"notes"`
	Terms  string `gorm:"type:text" json:"terms"`
	Status string `gorm:"size:20;default:'draft'" json:"status"` // draft, sent, paid, cancelled

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items"`
}

type InvoiceItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	InvoiceID   uint    `gorm:"index;not null" json:"-"`
	Description string  `gorm:"size:255" json:"description"`
	Quantity    float64 `gorm:"not null" json:"quantity"`
	UnitPrice   float64 `gorm:"not null" json:"unit_price"`
	Amount      float64 `gorm:"not null" json:"amount"`
}

// TableName overrides the table name
func (Invoice) TableName() string {
	return "invoices"
}

// TableName overrides the table name
func (InvoiceItem) TableName() string {
	return "invoice_items"
}
