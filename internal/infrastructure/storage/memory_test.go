package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDocumentStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryDocumentStore()

	t.Run("round-trips content and type", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "invoices/a.pdf", []byte("%PDF-1.4"), "application/pdf"))

		data, contentType, err := store.Get(ctx, "invoices/a.pdf")
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.4"), data)
		assert.Equal(t, "application/pdf", contentType)
	})

	t.Run("Exists", func(t *testing.T) {
		ok, err := store.Exists(ctx, "invoices/a.pdf")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.Exists(ctx, "invoices/missing.pdf")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Get on a missing key errors", func(t *testing.T) {
		_, _, err := store.Get(ctx, "invoices/missing.pdf")
		assert.Error(t, err)
	})

	t.Run("rejects empty keys", func(t *testing.T) {
		assert.Error(t, store.Put(ctx, "", []byte("x"), ""))
	})

	t.Run("stored bytes are isolated from the caller's buffer", func(t *testing.T) {
		buf := []byte("original")
		require.NoError(t, store.Put(ctx, "invoices/b.txt", buf, "text/plain"))
		buf[0] = 'X'

		data, _, err := store.Get(ctx, "invoices/b.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("original"), data)
	})
}
