package extraction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apflow/backend/internal/domain/intake"
	"github.com/apflow/backend/internal/infrastructure/config"
	"github.com/apflow/backend/internal/infrastructure/storage"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *storage.MemoryDocumentStore) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	docs := storage.NewMemoryDocumentStore()
	client := NewClient(&config.ExtractorConfig{BaseURL: server.URL}, docs, nil)
	return client, docs
}

func TestClient_Extract(t *testing.T) {
	ctx := context.Background()

	t.Run("submits the document and decodes the result", func(t *testing.T) {
		confidence := 0.92
		client, docs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/extract", r.URL.Path)

			require.NoError(t, r.ParseMultipartForm(1<<20))
			_, header, err := r.FormFile("document")
			require.NoError(t, err)
			assert.Contains(t, header.Filename, "a.pdf")
			assert.Equal(t, "application/pdf", r.FormValue("content_type"))

			supplierName := "Nordwind Components GmbH"
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(intake.Extraction{
				Invoice:    &intake.ExtractedInvoice{SupplierName: &supplierName},
				Confidence: &confidence,
			})
		})
		require.NoError(t, docs.Put(ctx, "invoices/a.pdf", []byte("%PDF-1.4"), "application/pdf"))

		result, err := client.Extract(ctx, "invoices/a.pdf")
		require.NoError(t, err)
		require.NotNil(t, result.Invoice)
		assert.Equal(t, "Nordwind Components GmbH", *result.Invoice.SupplierName)
		require.NotNil(t, result.Confidence)
		assert.Equal(t, 0.92, *result.Confidence)
	})

	t.Run("errors when the document is missing", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("service must not be called for a missing document")
		})

		_, err := client.Extract(ctx, "invoices/missing.pdf")
		assert.Error(t, err)
	})

	t.Run("errors on a service failure status", func(t *testing.T) {
		client, docs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model overloaded", http.StatusInternalServerError)
		})
		require.NoError(t, docs.Put(ctx, "invoices/a.pdf", []byte("%PDF-1.4"), "application/pdf"))

		_, err := client.Extract(ctx, "invoices/a.pdf")
		assert.Error(t, err)
	})

	t.Run("errors when the service returns no fields", func(t *testing.T) {
		client, docs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{}`))
		})
		require.NoError(t, docs.Put(ctx, "invoices/a.pdf", []byte("%PDF-1.4"), "application/pdf"))

		_, err := client.Extract(ctx, "invoices/a.pdf")
		assert.Error(t, err)
	})
}
