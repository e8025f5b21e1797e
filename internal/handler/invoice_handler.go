package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gstreport/internal/domain"
	"gstreport/internal/search"
	"gstreport/internal/service"
)

// invoiceFilterKeys are the categorical filters accepted on GET /invoices.
var invoiceFilterKeys = []string{"status", "category", "direction", "supply", "tax_type"}

// InvoiceHandler handles invoice store endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

type createInvoiceRequest struct {
	IssueDate     string                 `json:"issue_date" binding:"required"`
	SupplierGSTIN string                 `json:"supplier_gstin" binding:"required"`
	SupplierName  string                 `json:"supplier_name"`
	CustomerGSTIN string                 `json:"customer_gstin" binding:"required"`
	CustomerName  string                 `json:"customer_name"`
	TaxableValue  *domain.Money          `json:"taxable_value" binding:"required"`
	Rate          *domain.Rate           `json:"rate" binding:"required"`
	Category      string                 `json:"category"`
	Direction     domain.SupplyDirection `json:"direction"`
}

// invoiceRequest is a partial edit; nil fields keep their current value.
type invoiceRequest struct {
	IssueDate     string                  `json:"issue_date"`
	SupplierGSTIN *string                 `json:"supplier_gstin"`
	SupplierName  *string                 `json:"supplier_name"`
	CustomerGSTIN *string                 `json:"customer_gstin"`
	CustomerName  *string                 `json:"customer_name"`
	TaxableValue  *domain.Money           `json:"taxable_value"`
	Rate          *domain.Rate            `json:"rate"`
	Category      *string                 `json:"category"`
	Direction     *domain.SupplyDirection `json:"direction"`
}

func (r *invoiceRequest) toUpdate() (*service.UpdateInvoiceInput, error) {
	in := &service.UpdateInvoiceInput{
		SupplierGSTIN: r.SupplierGSTIN,
		SupplierName:  r.SupplierName,
		CustomerGSTIN: r.CustomerGSTIN,
		CustomerName:  r.CustomerName,
		TaxableValue:  r.TaxableValue,
		Rate:          r.Rate,
		Category:      r.Category,
		Direction:     r.Direction,
	}
	if r.IssueDate != "" {
		d, err := domain.ParseDate(r.IssueDate)
		if err != nil {
			return nil, err
		}
		in.IssueDate = &d
	}
	return in, nil
}

// Create handles POST /api/v1/invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", bindMessage(err,
			"issue_date, supplier_gstin, customer_gstin, taxable_value and rate are required"))
		return
	}
	issued, err := domain.ParseDate(req.IssueDate)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	inv, err := h.invoiceService.Create(c.Request.Context(), &service.CreateInvoiceInput{
		IssueDate:     issued,
		SupplierGSTIN: req.SupplierGSTIN,
		SupplierName:  req.SupplierName,
		CustomerGSTIN: req.CustomerGSTIN,
		CustomerName:  req.CustomerName,
		TaxableValue:  *req.TaxableValue,
		Rate:          *req.Rate,
		Category:      req.Category,
		Direction:     req.Direction,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, inv)
}

// List handles GET /api/v1/invoices
// Supports q (or search) plus status, category, direction and tax_type filters.
func (h *InvoiceHandler) List(c *gin.Context) {
	offset, limit, ok := parsePagination(c)
	if !ok {
		return
	}
	q := search.ParseQuery(c.Request.URL.Query(), invoiceFilterKeys...)

	invoices, err := h.invoiceService.Search(c.Request.Context(), q)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, page(invoices, offset, limit), PagMeta{Total: len(invoices), Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/invoices/:id
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	inv, err := h.invoiceService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, inv)
}

// Update handles PATCH /api/v1/invoices/:id
// Only draft invoices can be edited.
func (h *InvoiceHandler) Update(c *gin.Context) {
	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", bindMessage(err, "invalid invoice payload"))
		return
	}
	input, err := req.toUpdate()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	inv, err := h.invoiceService.UpdateDraft(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, inv)
}

// Transition handles POST /api/v1/invoices/:id/status
func (h *InvoiceHandler) Transition(c *gin.Context) {
	var req struct {
		Status domain.InvoiceStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "status is required")
		return
	}
	if !req.Status.Valid() {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "status must be one of draft, pending, submitted")
		return
	}

	inv, err := h.invoiceService.Transition(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, inv)
}

// Revise handles POST /api/v1/invoices/:id/revisions
// The original stays as filed; the correction is a new draft.
func (h *InvoiceHandler) Revise(c *gin.Context) {
	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", bindMessage(err, "invalid invoice payload"))
		return
	}
	input, err := req.toUpdate()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	inv, err := h.invoiceService.Revise(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, inv)
}
