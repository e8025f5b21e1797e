package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gstreport/internal/domain"
	"gstreport/internal/search"
	"gstreport/internal/service"
)

var documentFilterKeys = []string{"type", "status", "category"}

// DocumentHandler handles document bin endpoints.
type DocumentHandler struct {
	documentService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Create handles POST /api/v1/documents
// The request registers metadata only; file bytes are stored elsewhere.
func (h *DocumentHandler) Create(c *gin.Context) {
	var req struct {
		Name        string  `json:"name" binding:"required"`
		ContentType string  `json:"content_type"`
		SizeBytes   int64   `json:"size_bytes"`
		Category    string  `json:"category"`
		InvoiceID   *string `json:"invoice_id"`
		UploadDate  string  `json:"upload_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "name is required")
		return
	}

	input := &service.CreateDocumentInput{
		Name:        req.Name,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		Category:    req.Category,
		InvoiceID:   req.InvoiceID,
	}
	if req.UploadDate != "" {
		d, err := domain.ParseDate(req.UploadDate)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
		input.UploadDate = d
	}

	doc, err := h.documentService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, doc)
}

// List handles GET /api/v1/documents
// Supports q (or search) plus type, status and category filters.
func (h *DocumentHandler) List(c *gin.Context) {
	offset, limit, ok := parsePagination(c)
	if !ok {
		return
	}
	q := search.ParseQuery(c.Request.URL.Query(), documentFilterKeys...)

	docs, err := h.documentService.Search(c.Request.Context(), q)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, page(docs, offset, limit), PagMeta{Total: len(docs), Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/documents/:id
func (h *DocumentHandler) GetByID(c *gin.Context) {
	doc, err := h.documentService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// Transition handles POST /api/v1/documents/:id/status
func (h *DocumentHandler) Transition(c *gin.Context) {
	var req struct {
		Status domain.DocumentStatus `json:"status" binding:"required"`
		Note   string                `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "status is required")
		return
	}
	if !req.Status.Valid() {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "status must be one of pending, processed, error")
		return
	}

	doc, err := h.documentService.Transition(c.Request.Context(), c.Param("id"), req.Status, req.Note)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// Stats handles GET /api/v1/documents/stats
func (h *DocumentHandler) Stats(c *gin.Context) {
	stats, err := h.documentService.Stats(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, stats)
}
