package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gstreport/internal/handler"
	"gstreport/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Health    *handler.HealthHandler
	Tax       *handler.TaxHandler
	Invoice   *handler.InvoiceHandler
	Document  *handler.DocumentHandler
	Report    *handler.ReportHandler
	Dashboard *handler.DashboardHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(logger *zap.Logger, allowedOrigins []string, h Handlers) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	v1 := r.Group("/api/v1")

	// Identifier validation and tax calculation
	v1.GET("/gstin/:gstin", h.Tax.ValidateGSTIN)
	v1.POST("/gstin/validate", h.Tax.ValidateGSTINBatch)
	v1.POST("/tax/split", h.Tax.Split)

	invoices := v1.Group("/invoices")
	invoices.POST("", h.Invoice.Create)
	invoices.GET("", h.Invoice.List)
	invoices.GET("/:id", h.Invoice.GetByID)
	invoices.PATCH("/:id", h.Invoice.Update)
	invoices.POST("/:id/status", h.Invoice.Transition)
	invoices.POST("/:id/revisions", h.Invoice.Revise)

	documents := v1.Group("/documents")
	documents.POST("", h.Document.Create)
	documents.GET("", h.Document.List)
	documents.GET("/stats", h.Document.Stats)
	documents.GET("/:id", h.Document.GetByID)
	documents.POST("/:id/status", h.Document.Transition)

	reports := v1.Group("/reports/:kind")
	reports.GET("", h.Report.Generate)
	reports.POST("", h.Report.Materialize)
	reports.GET("/history", h.Report.History)
	reports.GET("/history/:id", h.Report.GetByID)
	reports.GET("/export", h.Report.Export)
	reports.POST("/publish", h.Report.Publish)

	v1.GET("/dashboard", h.Dashboard.Metrics)
	v1.GET("/activities", h.Dashboard.Activities)

	return r
}
