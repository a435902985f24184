package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/invoice-manager/config"
	"github.com/yourusername/invoice-manager/handlers"
	"github.com/yourusername/invoice-manager/middleware"
)

func main() {
	logger := config.GetLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "invoice-manager-api",
		})
	})

	// API routes
	invoiceHandler := handlers.NewInvoiceHandler(db, cfg)
	api := router.Group("/api")
	{
		api.GET("/invoices", invoiceHandler.ListInvoices)
		api.POST("/invoices", invoiceHandler.CreateInvoice)
		api.GET("/invoices/:id", invoiceHandler.GetInvoice)
		api.PUT("/invoices/:id", invoiceHandler.UpdateInvoice)
		api.DELETE("/invoices/:id", invoiceHandler.DeleteInvoice)
		api.GET("/invoices/:id/pdf", invoiceHandler.DownloadInvoicePDF)
	}

	// Start server
	logger.Infof("Starting invoice-manager API server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
