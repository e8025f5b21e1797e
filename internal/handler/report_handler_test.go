package handler_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gstreport/internal/domain"
	"gstreport/internal/handler"
	"gstreport/internal/service"
	"gstreport/mocks"
)

func newReportHandler() (*handler.ReportHandler, *mocks.MockReportService) {
	mockSvc := new(mocks.MockReportService)
	return handler.NewReportHandler(mockSvc), mockSvc
}

func januaryReport(kind domain.SupplyDirection) *domain.PeriodicReport {
	name := "GSTR-1"
	if kind == domain.DirectionInward {
		name = "GSTR-2"
	}
	return &domain.PeriodicReport{
		Kind:       kind,
		ReturnName: name,
		Period:     domain.MonthPeriod(2024, time.January),
		Status:     domain.ReportStatusReady,
		Summary:    domain.ReportSummary{InvoiceCount: 2, TotalTaxableValue: domain.Rupees(20000)},
	}
}

func TestReportHandler_Generate(t *testing.T) {
	t.Run("explicit_period", func(t *testing.T) {
		h, mockSvc := newReportHandler()
		jan := domain.MonthPeriod(2024, time.January)
		mockSvc.On("Generate", mock.Anything, domain.DirectionOutward, jan).
			Return(januaryReport(domain.DirectionOutward), nil)

		c, w := newContext(http.MethodGet, "/api/v1/reports/gstr1?period=2024-01", "")
		c.Params = gin.Params{{Key: "kind", Value: "gstr1"}}
		h.Generate(c)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decode(t, w).Data.(map[string]interface{})
		assert.Equal(t, "GSTR-1", data["return_name"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("from_to_range", func(t *testing.T) {
		h, mockSvc := newReportHandler()
		q1 := domain.QuarterPeriod(2024, 1)
		mockSvc.On("Generate", mock.Anything, domain.DirectionInward, q1).
			Return(januaryReport(domain.DirectionInward), nil)

		c, w := newContext(http.MethodGet, "/api/v1/reports/gstr2?from=2024-01-01&to=2024-03-31", "")
		c.Params = gin.Params{{Key: "kind", Value: "GSTR-2"}}
		h.Generate(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("unknown_kind", func(t *testing.T) {
		h, mockSvc := newReportHandler()
		c, w := newContext(http.MethodGet, "/api/v1/reports/gstr9", "")
		c.Params = gin.Params{{Key: "kind", Value: "gstr9"}}
		h.Generate(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_REPORT_KIND", decode(t, w).Error.Code)
		mockSvc.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("half_open_range", func(t *testing.T) {
		h, _ := newReportHandler()
		c, w := newContext(http.MethodGet, "/api/v1/reports/gstr1?from=2024-01-01", "")
		c.Params = gin.Params{{Key: "kind", Value: "gstr1"}}
		h.Generate(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_PERIOD", decode(t, w).Error.Code)
	})

	t.Run("service_failure_is_internal", func(t *testing.T) {
		h, mockSvc := newReportHandler()
		mockSvc.On("Generate", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("connection reset"))

		c, w := newContext(http.MethodGet, "/api/v1/reports/gstr1?period=2024-01", "")
		c.Params = gin.Params{{Key: "kind", Value: "gstr1"}}
		h.Generate(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection reset")
	})
}

func TestReportHandler_Export(t *testing.T) {
	t.Run("csv_attachment", func(t *testing.T) {
		h, mockSvc := newReportHandler()
		body := []byte("invoice_id,issue_date\nINV-2024-0001,2024-01-15\n")
		mockSvc.On("Export", mock.Anything, domain.DirectionOutward, domain.MonthPeriod(2024, time.January),
			domain.ExportFormatCSV, mock.Anything).Return(januaryReport(domain.DirectionOutward), nil, body)

		c, w := newContext(http.MethodGet, "/api/v1/reports/gstr1/export?period=2024-01", "")
		c.Params = gin.Params{{Key: "kind", Value: "gstr1"}}
		h.Export(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `attachment; filename="GSTR-1_2024-01.csv"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, string(body), w.Body.String())
	})

	t.Run("xlsx_attachment", func(t *testing.T) {
		h, mockSvc := newReportHandler()
		mockSvc.On("Export", mock.Anything, domain.DirectionInward, mock.Anything,
			domain.ExportFormatXLSX, mock.Anything).Return(januaryReport(domain.DirectionInward), nil, []byte("PK"))

		c, w := newContext(http.MethodGet, "/api/v1/reports/gstr2/export?period=2024-01&format=xlsx", "")
		c.Params = gin.Params{{Key: "kind", Value: "gstr2"}}
		h.Export(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `attachment; filename="GSTR-2_2024-01.xlsx"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, domain.ExportFormatXLSX.ContentType(), w.Header().Get("Content-Type"))
	})

	t.Run("unsupported_format_is_json_error", func(t *testing.T) {
		h, mockSvc := newReportHandler()
		mockSvc.On("Export", mock.Anything, mock.Anything, mock.Anything, domain.ExportFormat("pdf"), mock.Anything).
			Return(nil, domain.ErrUnsupportedFormat)

		c, w := newContext(http.MethodGet, "/api/v1/reports/gstr1/export?format=pdf", "")
		c.Params = gin.Params{{Key: "kind", Value: "gstr1"}}
		h.Export(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "UNSUPPORTED_FORMAT", decode(t, w).Error.Code)
	})
}

func TestReportHandler_History(t *testing.T) {
	h, mockSvc := newReportHandler()
	id1, id2 := uuid.New(), uuid.New()
	reports := []domain.PeriodicReport{*januaryReport(domain.DirectionOutward), *januaryReport(domain.DirectionOutward)}
	reports[0].ID, reports[1].ID = &id1, &id2
	mockSvc.On("History", mock.Anything, domain.DirectionOutward).Return(reports, nil)

	c, w := newContext(http.MethodGet, "/api/v1/reports/gstr1/history?limit=1", "")
	c.Params = gin.Params{{Key: "kind", Value: "gstr1"}}
	h.History(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.Total)
	assert.Len(t, resp.Data, 1)
}

func TestReportHandler_GetByID(t *testing.T) {
	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		h, mockSvc := newReportHandler()
		rep := januaryReport(domain.DirectionOutward)
		rep.ID = &id
		mockSvc.On("Get", mock.Anything, id).Return(rep, nil)

		c, w := newContext(http.MethodGet, "/api/v1/reports/gstr1/history/"+id.String(), "")
		c.Params = gin.Params{{Key: "kind", Value: "gstr1"}, {Key: "id", Value: id.String()}}
		h.GetByID(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("kind_mismatch_is_not_found", func(t *testing.T) {
		h, mockSvc := newReportHandler()
		rep := januaryReport(domain.DirectionInward)
		rep.ID = &id
		mockSvc.On("Get", mock.Anything, id).Return(rep, nil)

		c, w := newContext(http.MethodGet, "/api/v1/reports/gstr1/history/"+id.String(), "")
		c.Params = gin.Params{{Key: "kind", Value: "gstr1"}, {Key: "id", Value: id.String()}}
		h.GetByID(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "REPORT_NOT_FOUND", decode(t, w).Error.Code)
	})

	t.Run("malformed_id", func(t *testing.T) {
		h, _ := newReportHandler()
		c, w := newContext(http.MethodGet, "/api/v1/reports/gstr1/history/abc", "")
		c.Params = gin.Params{{Key: "kind", Value: "gstr1"}, {Key: "id", Value: "abc"}}
		h.GetByID(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_ID", decode(t, w).Error.Code)
	})
}

func TestReportHandler_Publish(t *testing.T) {
	t.Run("published", func(t *testing.T) {
		h, mockSvc := newReportHandler()
		pub := &service.PublishedReport{
			Report:    januaryReport(domain.DirectionOutward),
			Key:       "exports/outward/20240201T093000Z/GSTR-1_2024-01.xlsx",
			URL:       "https://example.com/signed",
			ExpiresIn: 900,
		}
		mockSvc.On("Publish", mock.Anything, domain.DirectionOutward, mock.Anything).Return(pub, nil)

		c, w := newContext(http.MethodPost, "/api/v1/reports/gstr1/publish?period=2024-01", "")
		c.Params = gin.Params{{Key: "kind", Value: "gstr1"}}
		h.Publish(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		data := decode(t, w).Data.(map[string]interface{})
		assert.Equal(t, "https://example.com/signed", data["url"])
	})

	t.Run("disabled", func(t *testing.T) {
		h, mockSvc := newReportHandler()
		mockSvc.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrPublishDisabled)

		c, w := newContext(http.MethodPost, "/api/v1/reports/gstr1/publish", "")
		c.Params = gin.Params{{Key: "kind", Value: "gstr1"}}
		h.Publish(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "PUBLISH_DISABLED", decode(t, w).Error.Code)
	})
}
