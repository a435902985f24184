package utils

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/yourusername/invoice-manager/models"
)

// PDFGeneratorInterface defines the PDF rendering operations, so handlers
// can be tested with a mock.
type PDFGeneratorInterface interface {
	GenerateInvoicePDF(inv *models.Invoice) ([]byte, error)
}

// PDFGenerator renders invoices with gofpdf.
type PDFGenerator struct{}

func NewPDFGenerator() *PDFGenerator {
	return &PDFGenerator{}
}

// GenerateInvoicePDF renders a single invoice as an A4 PDF.
func (g *PDFGenerator) GenerateInvoicePDF(inv *models.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 22)
	pdf.Cell(120, 10, "INVOICE")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 10, inv.InvoiceNumber, "", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(120, 6, "", "", 0, "", false, 0, "")
	pdf.CellFormat(0, 6, "Invoice Date: "+inv.InvoiceDate, "", 1, "R", false, 0, "")
	pdf.CellFormat(120, 6, "", "", 0, "", false, 0, "")
	pdf.CellFormat(0, 6, "Due Date: "+inv.DueDate, "", 1, "R", false, 0, "")
	pdf.CellFormat(120, 6, "", "", 0, "", false, 0, "")
	pdf.CellFormat(0, 6, "Status: "+strings.ToUpper(inv.Status), "", 1, "R", false, 0, "")
	pdf.Ln(6)

	// From / Bill To
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(95, 6, "From", "", 0, "", false, 0, "")
	pdf.CellFormat(95, 6, "Bill To", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	writePartyColumns(pdf,
		[]string{inv.CompanyName, inv.CompanyAddress, inv.CompanyEmail, inv.CompanyPhone},
		[]string{inv.ClientName, inv.ClientAddress, inv.ClientEmail, inv.ClientPhone},
	)
	pdf.Ln(8)

	// Items table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(90, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Quantity", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 8, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range inv.Items {
		pdf.CellFormat(90, 8, item.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, trimZeros(item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, money(item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, money(item.Amount), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Totals block
	writeTotalRow(pdf, "Subtotal", money(inv.Subtotal), false)
	writeTotalRow(pdf, fmt.Sprintf("Tax (%s%%)", trimZeros(inv.TaxRate)), money(inv.TaxAmount), false)
	writeTotalRow(pdf, "Discount", money(inv.Discount), false)
	writeTotalRow(pdf, "Total", money(inv.Total), true)

	if inv.Notes != "" {
		pdf.Ln(8)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, "Notes", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, inv.Notes, "", "L", false)
	}
	if inv.Terms != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, "Terms", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, inv.Terms, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func writePartyColumns(pdf *gofpdf.Fpdf, left, right []string) {
	for i := 0; i < len(left); i++ {
		l, r := left[i], right[i]
		if l == "" && r == "" {
			continue
		}
		pdf.CellFormat(95, 5, l, "", 0, "", false, 0, "")
		pdf.CellFormat(95, 5, r, "", 1, "", false, 0, "")
	}
}

func writeTotalRow(pdf *gofpdf.Fpdf, label, value string, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont("Arial", style, 10)
	pdf.CellFormat(115, 7, "", "", 0, "", false, 0, "")
	pdf.CellFormat(35, 7, label, "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, value, "", 1, "R", false, 0, "")
}

func money(value float64) string {
	return fmt.Sprintf("$%.2f", models.Round2(value))
}

func trimZeros(value float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", value), "0"), ".")
}
