package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gstreport/internal/domain"
	"gstreport/internal/handler"
	"gstreport/internal/search"
	"gstreport/internal/service"
	"gstreport/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newInvoiceHandler() (*handler.InvoiceHandler, *mocks.MockInvoiceService) {
	mockSvc := new(mocks.MockInvoiceService)
	return handler.NewInvoiceHandler(mockSvc), mockSvc
}

func newContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestInvoiceHandler_Create_Success(t *testing.T) {
	h, mockSvc := newInvoiceHandler()

	created := &domain.Invoice{ID: "INV-2024-0001", Status: domain.InvoiceStatusDraft}
	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in *service.CreateInvoiceInput) bool {
		return in.IssueDate.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)) &&
			in.SupplierGSTIN == "27AAPFU0939F1ZV" &&
			in.TaxableValue == domain.Paise(2500050) &&
			in.Rate.String() == "18.00" &&
			in.Direction == ""
	})).Return(created, nil)

	c, w := newContext(http.MethodPost, "/api/v1/invoices", `{
		"issue_date": "2024-01-15",
		"supplier_gstin": "27AAPFU0939F1ZV",
		"customer_gstin": "27AABCU9603R1ZX",
		"customer_name": "Tech Solutions",
		"taxable_value": "25000.50",
		"rate": 18
	}`)
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	mockSvc.AssertExpectations(t)
}

func TestInvoiceHandler_Create_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"only_supplier", `{"supplier_gstin": "27AAPFU0939F1ZV"}`},
		{"no_issue_date", `{"supplier_gstin": "27AAPFU0939F1ZV", "customer_gstin": "27AABCU9603R1ZX", "taxable_value": "100", "rate": "18"}`},
		{"empty_customer", `{"issue_date": "2024-01-15", "supplier_gstin": "27AAPFU0939F1ZV", "customer_gstin": "", "taxable_value": "100", "rate": "18"}`},
		{"no_amount", `{"issue_date": "2024-01-15", "supplier_gstin": "27AAPFU0939F1ZV", "customer_gstin": "27AABCU9603R1ZX", "rate": "18"}`},
		{"no_rate", `{"issue_date": "2024-01-15", "supplier_gstin": "27AAPFU0939F1ZV", "customer_gstin": "27AABCU9603R1ZX", "taxable_value": "100"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mockSvc := newInvoiceHandler()

			c, w := newContext(http.MethodPost, "/api/v1/invoices", tt.body)
			h.Create(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decode(t, w)
			assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
			assert.Contains(t, resp.Error.Message, "required")
			mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestInvoiceHandler_Create_ZeroAmountIsAccepted(t *testing.T) {
	h, mockSvc := newInvoiceHandler()
	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in *service.CreateInvoiceInput) bool {
		return in.TaxableValue == 0
	})).Return(&domain.Invoice{ID: "INV-2024-0002"}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/invoices", `{
		"issue_date": "2024-01-15",
		"supplier_gstin": "27AAPFU0939F1ZV",
		"customer_gstin": "27AABCU9603R1ZX",
		"taxable_value": "0",
		"rate": "0"
	}`)
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestInvoiceHandler_Create_BadAmount(t *testing.T) {
	h, _ := newInvoiceHandler()

	c, w := newContext(http.MethodPost, "/api/v1/invoices", `{
		"issue_date": "2024-01-15",
		"supplier_gstin": "27AAPFU0939F1ZV",
		"customer_gstin": "27AABCU9603R1ZX",
		"taxable_value": "10.001",
		"rate": "18"
	}`)
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w).Error.Message, "more than two decimal places")
}

func TestInvoiceHandler_Create_InvalidGSTIN(t *testing.T) {
	h, mockSvc := newInvoiceHandler()

	mockSvc.On("Create", mock.Anything, mock.Anything).Return(nil, &domain.InvalidTaxpayerIDError{
		Side: domain.PartyCustomer, GSTIN: "BAD", Reason: "must be 15 characters, got 3",
	})

	c, w := newContext(http.MethodPost, "/api/v1/invoices", `{
		"issue_date": "2024-01-15",
		"supplier_gstin": "27AAPFU0939F1ZV",
		"customer_gstin": "BAD",
		"taxable_value": "100",
		"rate": "18"
	}`)
	h.Create(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "INVALID_GSTIN", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "customer")
}

func TestInvoiceHandler_List_PassesQuery(t *testing.T) {
	h, mockSvc := newInvoiceHandler()

	invoices := []domain.Invoice{{ID: "INV-2024-0001"}, {ID: "INV-2024-0002"}, {ID: "INV-2024-0003"}}
	want := search.Query{Text: "tech", Filters: map[string]string{"status": "pending"}}
	mockSvc.On("Search", mock.Anything, want).Return(invoices, nil)

	c, w := newContext(http.MethodGet, "/api/v1/invoices?q=tech&status=pending&offset=1&limit=1", "")
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, handler.PagMeta{Total: 3, Offset: 1, Limit: 1}, *resp.Meta)
	data := resp.Data.([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "INV-2024-0002", data[0].(map[string]interface{})["id"])
}

func TestInvoiceHandler_List_BadLimit(t *testing.T) {
	h, _ := newInvoiceHandler()
	c, w := newContext(http.MethodGet, "/api/v1/invoices?limit=abc", "")
	h.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvoiceHandler_GetByID_NotFound(t *testing.T) {
	h, mockSvc := newInvoiceHandler()
	mockSvc.On("Get", mock.Anything, "INV-2024-9999").Return(nil, domain.ErrInvoiceNotFound)

	c, w := newContext(http.MethodGet, "/api/v1/invoices/INV-2024-9999", "")
	c.Params = gin.Params{{Key: "id", Value: "INV-2024-9999"}}
	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "INVOICE_NOT_FOUND", decode(t, w).Error.Code)
}

func TestInvoiceHandler_Transition(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, mockSvc := newInvoiceHandler()
		updated := &domain.Invoice{ID: "INV-2024-0001", Status: domain.InvoiceStatusPending}
		mockSvc.On("Transition", mock.Anything, "INV-2024-0001", domain.InvoiceStatusPending).Return(updated, nil)

		c, w := newContext(http.MethodPost, "/api/v1/invoices/INV-2024-0001/status", `{"status":"pending"}`)
		c.Params = gin.Params{{Key: "id", Value: "INV-2024-0001"}}
		h.Transition(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid_transition_is_conflict", func(t *testing.T) {
		h, mockSvc := newInvoiceHandler()
		mockSvc.On("Transition", mock.Anything, "INV-2024-0001", domain.InvoiceStatusSubmitted).
			Return(nil, &domain.InvalidTransitionError{From: "draft", To: "submitted"})

		c, w := newContext(http.MethodPost, "/api/v1/invoices/INV-2024-0001/status", `{"status":"submitted"}`)
		c.Params = gin.Params{{Key: "id", Value: "INV-2024-0001"}}
		h.Transition(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "INVALID_TRANSITION", decode(t, w).Error.Code)
	})

	t.Run("unknown_status", func(t *testing.T) {
		h, mockSvc := newInvoiceHandler()
		c, w := newContext(http.MethodPost, "/api/v1/invoices/INV-2024-0001/status", `{"status":"filed"}`)
		c.Params = gin.Params{{Key: "id", Value: "INV-2024-0001"}}
		h.Transition(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockSvc.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestInvoiceHandler_Update_Locked(t *testing.T) {
	h, mockSvc := newInvoiceHandler()
	mockSvc.On("UpdateDraft", mock.Anything, "INV-2024-0001", mock.MatchedBy(func(in *service.UpdateInvoiceInput) bool {
		return in.CustomerName != nil && *in.CustomerName == "New Name" && in.IssueDate == nil
	})).Return(nil, domain.ErrInvoiceLocked)

	c, w := newContext(http.MethodPatch, "/api/v1/invoices/INV-2024-0001", `{"customer_name":"New Name"}`)
	c.Params = gin.Params{{Key: "id", Value: "INV-2024-0001"}}
	h.Update(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVOICE_LOCKED", decode(t, w).Error.Code)
}

func TestInvoiceHandler_Revise(t *testing.T) {
	h, mockSvc := newInvoiceHandler()
	orig := "INV-2024-0001"
	rev := &domain.Invoice{ID: "INV-2024-0002", RevisionOf: &orig, Status: domain.InvoiceStatusDraft}
	mockSvc.On("Revise", mock.Anything, orig, mock.MatchedBy(func(in *service.UpdateInvoiceInput) bool {
		return in.Rate != nil && in.Rate.String() == "12.00"
	})).Return(rev, nil)

	c, w := newContext(http.MethodPost, "/api/v1/invoices/INV-2024-0001/revisions", `{"rate":"12"}`)
	c.Params = gin.Params{{Key: "id", Value: orig}}
	h.Revise(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decode(t, w).Data.(map[string]interface{})
	assert.Equal(t, orig, data["revision_of"])
}
