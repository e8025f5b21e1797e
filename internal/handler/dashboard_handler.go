package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"gstreport/internal/domain"
	"gstreport/internal/service"
)

const defaultActivityLimit = 20

// DashboardHandler handles dashboard endpoints.
type DashboardHandler struct {
	dashboardService service.DashboardService
	now              func() time.Time
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, now: time.Now}
}

// Metrics handles GET /api/v1/dashboard?month=YYYY-MM
// The month defaults to the current one.
func (h *DashboardHandler) Metrics(c *gin.Context) {
	month := domain.MonthPeriod(h.now().Year(), h.now().Month())
	if m := c.Query("month"); m != "" {
		t, err := time.Parse("2006-01", m)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_PERIOD", "'month' must be YYYY-MM")
			return
		}
		month = domain.MonthPeriod(t.Year(), t.Month())
	}

	metrics, err := h.dashboardService.Metrics(c.Request.Context(), month)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, metrics)
}

// Activities handles GET /api/v1/activities?limit=N
func (h *DashboardHandler) Activities(c *gin.Context) {
	limit := defaultActivityLimit
	if s := c.Query("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "'limit' must be a positive integer")
			return
		}
		limit = min(v, maxLimit)
	}

	acts, err := h.dashboardService.RecentActivities(c.Request.Context(), limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, acts)
}
