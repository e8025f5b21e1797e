package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gstreport/internal/domain"
	"gstreport/internal/gstin"
	"gstreport/internal/taxcalc"
)

const maxBatchSize = 500

// TaxHandler handles GSTIN validation and tax split endpoints.
type TaxHandler struct {
	validator gstin.Validator
	calc      *taxcalc.Calculator
}

// NewTaxHandler creates a new TaxHandler.
func NewTaxHandler(calc *taxcalc.Calculator) *TaxHandler {
	return &TaxHandler{validator: calc.Validator, calc: calc}
}

// ValidateGSTIN handles GET /api/v1/gstin/:gstin
// An invalid identifier is a normal outcome and still returns 200.
func (h *TaxHandler) ValidateGSTIN(c *gin.Context) {
	RespondOK(c, h.validator.Validate(c.Param("gstin")))
}

// ValidateGSTINBatch handles POST /api/v1/gstin/validate
func (h *TaxHandler) ValidateGSTINBatch(c *gin.Context) {
	var req struct {
		GSTINs []string `json:"gstins" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "gstins is required")
		return
	}
	if len(req.GSTINs) > maxBatchSize {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "at most 500 identifiers per request")
		return
	}

	results := make([]gstin.Result, 0, len(req.GSTINs))
	for _, id := range req.GSTINs {
		results = append(results, h.validator.Validate(id))
	}
	RespondOK(c, results)
}

// Split handles POST /api/v1/tax/split
func (h *TaxHandler) Split(c *gin.Context) {
	var req struct {
		SupplierGSTIN string       `json:"supplier_gstin" binding:"required"`
		CustomerGSTIN string       `json:"customer_gstin" binding:"required"`
		TaxableValue  domain.Money `json:"taxable_value"`
		Rate          domain.Rate  `json:"rate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", bindMessage(err,
			"supplier_gstin, customer_gstin, taxable_value and rate are required"))
		return
	}

	tb, err := h.calc.ComputeSplit(req.SupplierGSTIN, req.CustomerGSTIN, req.TaxableValue, req.Rate)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"breakdown": tb, "total_tax": tb.Total()})
}
