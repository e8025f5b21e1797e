package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"gstreport/internal/domain"
	"gstreport/internal/repository/memory"
	"gstreport/internal/search"
	"gstreport/internal/service"
)

func newDocumentService(t *testing.T) service.DocumentService {
	t.Helper()
	now := func() time.Time { return jan(20) }
	return service.NewDocumentService(memory.NewDocumentRepo(), memory.NewActivityRepo(20), now, zaptest.NewLogger(t))
}

func TestDocumentService_Create(t *testing.T) {
	ctx := context.Background()
	svc := newDocumentService(t)

	t.Run("detects_type_and_defaults", func(t *testing.T) {
		doc, err := svc.Create(ctx, &service.CreateDocumentInput{
			Name:      "Invoice_INV-2024-001.pdf",
			SizeBytes: 250_000,
			Category:  "invoices",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, doc.ID)
		assert.Equal(t, domain.MimeCategoryPDF, doc.MimeCategory)
		assert.Equal(t, domain.DocumentStatusPending, doc.Status)
		assert.Equal(t, jan(20), doc.UploadDate)
	})

	t.Run("content_type_wins_over_extension", func(t *testing.T) {
		doc, err := svc.Create(ctx, &service.CreateDocumentInput{
			Name:        "scan.bin",
			ContentType: "image/png",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.MimeCategoryImage, doc.MimeCategory)
	})

	t.Run("empty_name", func(t *testing.T) {
		_, err := svc.Create(ctx, &service.CreateDocumentInput{Name: "  "})
		assert.ErrorIs(t, err, domain.ErrInvalidDocument)
	})

	t.Run("negative_size", func(t *testing.T) {
		_, err := svc.Create(ctx, &service.CreateDocumentInput{Name: "a.pdf", SizeBytes: -1})
		assert.ErrorIs(t, err, domain.ErrInvalidDocument)
	})
}

func TestDocumentService_Transition(t *testing.T) {
	ctx := context.Background()

	t.Run("pending_to_processed", func(t *testing.T) {
		svc := newDocumentService(t)
		doc, err := svc.Create(ctx, &service.CreateDocumentInput{Name: "a.pdf"})
		require.NoError(t, err)

		got, err := svc.Transition(ctx, doc.ID, domain.DocumentStatusProcessed, "")
		require.NoError(t, err)
		assert.Equal(t, domain.DocumentStatusProcessed, got.Status)
	})

	t.Run("terminal_states_are_final", func(t *testing.T) {
		svc := newDocumentService(t)
		doc, err := svc.Create(ctx, &service.CreateDocumentInput{Name: "a.pdf"})
		require.NoError(t, err)
		_, err = svc.Transition(ctx, doc.ID, domain.DocumentStatusError, "unreadable")
		require.NoError(t, err)

		_, err = svc.Transition(ctx, doc.ID, domain.DocumentStatusProcessed, "")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		_, err = svc.Transition(ctx, doc.ID, domain.DocumentStatusPending, "")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("not_found", func(t *testing.T) {
		svc := newDocumentService(t)
		_, err := svc.Transition(ctx, "DOC-999999", domain.DocumentStatusProcessed, "")
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})
}

func TestDocumentService_SearchAndStats(t *testing.T) {
	ctx := context.Background()
	svc := newDocumentService(t)

	inputs := []service.CreateDocumentInput{
		{Name: "GST_Return_Q4_2023.xlsx", Category: "returns", SizeBytes: 100},
		{Name: "Invoice_INV-2024-001.pdf", Category: "invoices", SizeBytes: 200},
		{Name: "receipt.jpg", Category: "receipts", SizeBytes: 300},
	}
	var ids []string
	for i := range inputs {
		doc, err := svc.Create(ctx, &inputs[i])
		require.NoError(t, err)
		ids = append(ids, doc.ID)
	}
	_, err := svc.Transition(ctx, ids[0], domain.DocumentStatusProcessed, "")
	require.NoError(t, err)
	_, err = svc.Transition(ctx, ids[2], domain.DocumentStatusError, "blurred")
	require.NoError(t, err)

	t.Run("search_by_type", func(t *testing.T) {
		got, err := svc.Search(ctx, search.Query{Filters: map[string]string{"type": "spreadsheet"}})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, ids[0], got[0].ID)
	})

	t.Run("search_by_text_and_status", func(t *testing.T) {
		got, err := svc.Search(ctx, search.Query{Text: "INVOICE", Filters: map[string]string{"status": "pending"}})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, ids[1], got[0].ID)
	})

	t.Run("all_filter_is_ignored", func(t *testing.T) {
		got, err := svc.Search(ctx, search.Query{Filters: map[string]string{"status": search.All}})
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("stats", func(t *testing.T) {
		stats, err := svc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, &domain.DocumentStats{
			Total: 3, Processed: 1, Pending: 1, Errored: 1, TotalBytes: 600,
		}, stats)
	})
}
