package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gstreport/internal/domain"
	"gstreport/internal/export"
	"gstreport/internal/service"
)

// ReportHandler handles GSTR-1 and GSTR-2 report endpoints.
type ReportHandler struct {
	reportService service.ReportService
	now           func() time.Time
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService, now: time.Now}
}

// parseReportRequest reads the :kind path parameter and the reporting period.
// The period comes from ?period= (2024-01, 2024-Q1 or a..b), or from ?from=&to=,
// and defaults to the current month.
func (h *ReportHandler) parseReportRequest(c *gin.Context) (domain.SupplyDirection, domain.Period, bool) {
	kind, err := domain.ParseReportKind(c.Param("kind"))
	if err != nil {
		HandleError(c, err)
		return "", domain.Period{}, false
	}
	period, err := parsePeriod(c, h.now())
	if err != nil {
		HandleError(c, err)
		return "", domain.Period{}, false
	}
	return kind, period, true
}

func parsePeriod(c *gin.Context, now time.Time) (domain.Period, error) {
	if p := c.Query("period"); p != "" {
		return domain.ParsePeriod(p)
	}
	from, to := c.Query("from"), c.Query("to")
	if from == "" && to == "" {
		return domain.MonthPeriod(now.Year(), now.Month()), nil
	}
	if from == "" || to == "" {
		return domain.Period{}, fmt.Errorf("%w: both 'from' and 'to' are required", domain.ErrInvalidPeriod)
	}
	return domain.ParsePeriod(from + ".." + to)
}

// Generate handles GET /api/v1/reports/:kind
func (h *ReportHandler) Generate(c *gin.Context) {
	kind, period, ok := h.parseReportRequest(c)
	if !ok {
		return
	}
	rep, err := h.reportService.Generate(c.Request.Context(), kind, period)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rep)
}

// Materialize handles POST /api/v1/reports/:kind
// The generated report is stored in the history.
func (h *ReportHandler) Materialize(c *gin.Context) {
	kind, period, ok := h.parseReportRequest(c)
	if !ok {
		return
	}
	rep, err := h.reportService.Materialize(c.Request.Context(), kind, period)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, rep)
}

// History handles GET /api/v1/reports/:kind/history
func (h *ReportHandler) History(c *gin.Context) {
	kind, err := domain.ParseReportKind(c.Param("kind"))
	if err != nil {
		HandleError(c, err)
		return
	}
	offset, limit, ok := parsePagination(c)
	if !ok {
		return
	}
	reports, err := h.reportService.History(c.Request.Context(), kind)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, page(reports, offset, limit), PagMeta{Total: len(reports), Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/reports/:kind/history/:id
func (h *ReportHandler) GetByID(c *gin.Context) {
	kind, err := domain.ParseReportKind(c.Param("kind"))
	if err != nil {
		HandleError(c, err)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid report ID")
		return
	}
	rep, err := h.reportService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	if rep.Kind != kind {
		HandleError(c, domain.ErrReportNotFound)
		return
	}
	RespondOK(c, rep)
}

// Export handles GET /api/v1/reports/:kind/export?format=csv|xlsx
func (h *ReportHandler) Export(c *gin.Context) {
	kind, period, ok := h.parseReportRequest(c)
	if !ok {
		return
	}
	format := domain.ExportFormat(c.DefaultQuery("format", string(domain.ExportFormatCSV)))

	// Render into memory so a failure can still produce a JSON error.
	var buf bytes.Buffer
	rep, err := h.reportService.Export(c.Request.Context(), kind, period, format, &buf)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename(rep, format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// Publish handles POST /api/v1/reports/:kind/publish
func (h *ReportHandler) Publish(c *gin.Context) {
	kind, period, ok := h.parseReportRequest(c)
	if !ok {
		return
	}
	pub, err := h.reportService.Publish(c.Request.Context(), kind, period)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, pub)
}
