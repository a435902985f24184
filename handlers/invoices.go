package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/invoice-manager/config"
	"github.com/yourusername/invoice-manager/models"
	"github.com/yourusername/invoice-manager/utils"
	"gorm.io/gorm"
)

type InvoiceHandler struct {
	db     *gorm.DB
	config *config.Config
	pdf    utils.PDFGeneratorInterface
}

func NewInvoiceHandler(db *gorm.DB, cfg *config.Config) *InvoiceHandler {
	return &InvoiceHandler{
		db:     db,
		config: cfg,
		pdf:    utils.NewPDFGenerator(),
	}
}

type InvoiceItemRequest struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type InvoiceRequest struct {
	InvoiceNumber string `json:"invoice_number"`
	InvoiceDate   string `json:"invoice_date"`
	DueDate       string `json:"due_date"`

	ClientName    string `json:"client_name"`
	ClientEmail   string `json:"client_email"`
	ClientPhone   string `json:"client_phone"`
	ClientAddress string `json:"client_address"`

	CompanyName    string `json:"company_name"`
	CompanyEmail   string `json:"company_email"`
	CompanyPhone   string `json:"company_phone"`
	CompanyAddress string `json:"company_address"`

	TaxRate  float64 `json:"tax_rate"`
	Discount float64 `json:"discount"`
	Notes    string  `json:"notes"`
	Terms    string  `json:"terms"`
	Status   string  `json:"status"`

	Items []InvoiceItemRequest `json:"items"`
}

func (r *InvoiceRequest) toInvoice() models.Invoice {
	inv := models.Invoice{
		InvoiceNumber:  r.InvoiceNumber,
		InvoiceDate:    r.InvoiceDate,
		DueDate:        r.DueDate,
		ClientName:     r.ClientName,
		ClientEmail:    r.ClientEmail,
		ClientPhone:    r.ClientPhone,
		ClientAddress:  r.ClientAddress,
		CompanyName:    r.CompanyName,
		CompanyEmail:   r.CompanyEmail,
		CompanyPhone:   r.CompanyPhone,
		CompanyAddress: r.CompanyAddress,
		TaxRate:        r.TaxRate,
		Discount:       r.Discount,
		Notes:          r.Notes,
		Terms:          r.Terms,
		Status:         r.Status,
	}
	if inv.Status == "" {
		inv.Status = models.StatusDraft
	}
	for _, item := range r.Items {
		inv.Items = append(inv.Items, models.InvoiceItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return inv
}

func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	var invoices []models.Invoice

	if err := h.db.Preload("Items").Order("id DESC").Find(&invoices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoices"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	id := c.Param("id")
	var invoice models.Invoice

	if err := h.db.Preload("Items").First(&invoice, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invoice := req.toInvoice()
	if err := invoice.Validate(); err != nil {
		respondValidationError(c, err)
		return
	}

	// Stored records always carry server-computed derived fields, whatever
	// figures the client sent along.
	invoice.Recalculate()

	if err := h.db.Create(&invoice).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invoice"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"invoice": invoice})
}

func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	id := c.Param("id")
	var existing models.Invoice

	if err := h.db.Preload("Items").First(&existing, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}

	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated := req.toInvoice()
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	if err := updated.Validate(); err != nil {
		respondValidationError(c, err)
		return
	}
	updated.Recalculate()

	// Line items are replaced wholesale, not diffed.
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", existing.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&updated).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update invoice"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": updated})
}

func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	id := c.Param("id")
	var invoice models.Invoice

	if err := h.db.First(&invoice, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&invoice).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete invoice"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *InvoiceHandler) DownloadInvoicePDF(c *gin.Context) {
	id := c.Param("id")
	var invoice models.Invoice

	if err := h.db.Preload("Items").First(&invoice, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}

	data, err := h.pdf.GenerateInvoicePDF(&invoice)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice_%s.pdf", invoice.InvoiceNumber))
	c.Data(http.StatusOK, "application/pdf", data)
}

func respondValidationError(c *gin.Context, err error) {
	var verr *models.ValidationErrors
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Messages})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
