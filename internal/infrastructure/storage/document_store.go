// Package storage provides document storage backends for uploaded
// invoice files. The stored object key doubles as the sourceRef handed
// to the intake workflow.
package storage

import "context"

// DocumentStore persists raw invoice documents
type DocumentStore interface {
	// Put stores a document under the given key
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Get retrieves a document and its content type
	Get(ctx context.Context, key string) ([]byte, string, error)

	// Exists reports whether a document is stored under the key
	Exists(ctx context.Context, key string) (bool, error)
}
