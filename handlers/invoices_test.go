package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yourusername/invoice-manager/config"
	"github.com/yourusername/invoice-manager/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB() *gorm.DB {
	db, _ := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	db.AutoMigrate(&models.Invoice{}, &models.InvoiceItem{})
	return db
}

type MockPDFGenerator struct {
	GenerateInvoicePDFFunc func(inv *models.Invoice) ([]byte, error)
}

func (m *MockPDFGenerator) GenerateInvoicePDF(inv *models.Invoice) ([]byte, error) {
	return m.GenerateInvoicePDFFunc(inv)
}

func setupRouter(db *gorm.DB, pdf *MockPDFGenerator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := &InvoiceHandler{
		db:     db,
		config: &config.Config{},
		pdf:    pdf,
	}

	router := gin.Default()
	api := router.Group("/api")
	{
		api.GET("/invoices", handler.ListInvoices)
		api.POST("/invoices", handler.CreateInvoice)
		api.GET("/invoices/:id", handler.GetInvoice)
		api.PUT("/invoices/:id", handler.UpdateInvoice)
		api.DELETE("/invoices/:id", handler.DeleteInvoice)
		api.GET("/invoices/:id/pdf", handler.DownloadInvoicePDF)
	}
	return router
}

func validRequest() InvoiceRequest {
	return InvoiceRequest{
		InvoiceNumber: "INV-2026-001",
		InvoiceDate:   "2026-08-01",
		DueDate:       "2026-08-31",
		ClientName:    "Acme Corp",
		TaxRate:       10,
		Discount:      5,
		Status:        models.StatusDraft,
		Items: []InvoiceItemRequest{
			{Description: "Widget", Quantity: 2, UnitPrice: 10.00},
		},
	}
}

func performJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestCreateInvoiceComputesTotals(t *testing.T) {
	db := setupTestDB()
	router := setupRouter(db, nil)

	w := performJSON(router, http.MethodPost, "/api/invoices", validRequest())
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Invoice models.Invoice `json:"invoice"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotZero(t, resp.Invoice.ID)
	assert.Equal(t, 20.00, resp.Invoice.Items[0].Amount)
	assert.Equal(t, 20.00, resp.Invoice.Subtotal)
	assert.Equal(t, 2.00, resp.Invoice.TaxAmount)
	assert.Equal(t, 17.00, resp.Invoice.Total)

	var stored models.Invoice
	assert.NoError(t, db.Preload("Items").First(&stored, resp.Invoice.ID).Error)
	assert.Equal(t, 17.00, stored.Total)
	assert.Len(t, stored.Items, 1)
}

func TestCreateInvoiceOverridesClientTotals(t *testing.T) {
	db := setupTestDB()
	router := setupRouter(db, nil)

	// a client-sent item amount is ignored, the server derives its own
	body := map[string]any{
		"invoice_number": "INV-2026-002",
		"invoice_date":   "2026-08-01",
		"due_date":       "2026-08-31",
		"client_name":    "Acme Corp",
		"subtotal":       999999,
		"total":          999999,
		"items": []map[string]any{
			{"description": "Widget", "quantity": 1, "unit_price": 10, "amount": 123456},
		},
	}

	w := performJSON(router, http.MethodPost, "/api/invoices", body)
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Invoice models.Invoice `json:"invoice"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, 10.00, resp.Invoice.Subtotal)
	assert.Equal(t, 10.00, resp.Invoice.Total)
	assert.Equal(t, 10.00, resp.Invoice.Items[0].Amount)
}

func TestCreateInvoiceValidationFailure(t *testing.T) {
	db := setupTestDB()
	router := setupRouter(db, nil)

	req := validRequest()
	req.ClientName = ""
	req.Items = nil

	w := performJSON(router, http.MethodPost, "/api/invoices", req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Errors []string `json:"errors"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Contains(t, resp.Errors, "Missing required field: client_name")
	assert.Contains(t, resp.Errors, "Invoice must have at least one item")

	var count int64
	db.Model(&models.Invoice{}).Count(&count)
	assert.Zero(t, count)
}

func TestListInvoices(t *testing.T) {
	db := setupTestDB()
	router := setupRouter(db, nil)

	for _, number := range []string{"INV-1", "INV-2"} {
		req := validRequest()
		req.InvoiceNumber = number
		performJSON(router, http.MethodPost, "/api/invoices", req)
	}

	w := performJSON(router, http.MethodGet, "/api/invoices", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Invoices []models.Invoice `json:"invoices"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Len(t, resp.Invoices, 2)
	// newest first
	assert.Equal(t, "INV-2", resp.Invoices[0].InvoiceNumber)
}

func TestGetInvoiceNotFound(t *testing.T) {
	db := setupTestDB()
	router := setupRouter(db, nil)

	w := performJSON(router, http.MethodGet, "/api/invoices/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Invoice not found")
}

func TestUpdateInvoiceReplacesItems(t *testing.T) {
	db := setupTestDB()
	router := setupRouter(db, nil)

	w := performJSON(router, http.MethodPost, "/api/invoices", validRequest())
	var created struct {
		Invoice models.Invoice `json:"invoice"`
	}
	json.Unmarshal(w.Body.Bytes(), &created)

	update := validRequest()
	update.TaxRate = 0
	update.Discount = 0
	update.Status = models.StatusSent
	update.Items = []InvoiceItemRequest{
		{Description: "Widget", Quantity: 1, UnitPrice: 100},
		{Description: "Gadget", Quantity: 3, UnitPrice: 50},
	}

	w = performJSON(router, http.MethodPut, "/api/invoices/1", update)
	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.Invoice
	assert.NoError(t, db.Preload("Items").First(&stored, created.Invoice.ID).Error)
	assert.Equal(t, models.StatusSent, stored.Status)
	assert.Len(t, stored.Items, 2)
	assert.Equal(t, 250.00, stored.Subtotal)
	assert.Equal(t, 0.00, stored.TaxAmount)
	assert.Equal(t, 250.00, stored.Total)

	// the old item rows are gone, not orphaned
	var itemCount int64
	db.Model(&models.InvoiceItem{}).Count(&itemCount)
	assert.Equal(t, int64(2), itemCount)
}

func TestUpdateInvoiceNotFound(t *testing.T) {
	db := setupTestDB()
	router := setupRouter(db, nil)

	w := performJSON(router, http.MethodPut, "/api/invoices/42", validRequest())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteInvoice(t *testing.T) {
	db := setupTestDB()
	router := setupRouter(db, nil)

	performJSON(router, http.MethodPost, "/api/invoices", validRequest())

	w := performJSON(router, http.MethodDelete, "/api/invoices/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	db.Model(&models.Invoice{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.InvoiceItem{}).Count(&count)
	assert.Zero(t, count)

	w = performJSON(router, http.MethodDelete, "/api/invoices/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadInvoicePDF(t *testing.T) {
	db := setupTestDB()
	pdf := &MockPDFGenerator{
		GenerateInvoicePDFFunc: func(inv *models.Invoice) ([]byte, error) {
			assert.Equal(t, "INV-2026-001", inv.InvoiceNumber)
			assert.Len(t, inv.Items, 1)
			return []byte("%PDF-mock"), nil
		},
	}
	router := setupRouter(db, pdf)

	performJSON(router, http.MethodPost, "/api/invoices", validRequest())

	w := performJSON(router, http.MethodGet, "/api/invoices/1/pdf", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=invoice_INV-2026-001.pdf`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-mock", w.Body.String())
}

func TestDownloadInvoicePDFRenderFailure(t *testing.T) {
	db := setupTestDB()
	pdf := &MockPDFGenerator{
		GenerateInvoicePDFFunc: func(inv *models.Invoice) ([]byte, error) {
			return nil, errors.New("render failed")
		},
	}
	router := setupRouter(db, pdf)

	performJSON(router, http.MethodPost, "/api/invoices", validRequest())

	w := performJSON(router, http.MethodGet, "/api/invoices/1/pdf", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to generate PDF")
}
