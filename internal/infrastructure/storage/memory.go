package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryDocumentStore keeps documents in process memory. Suitable for
// development and tests only; nothing survives a restart.
type MemoryDocumentStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data        []byte
	contentType string
}

var _ DocumentStore = (*MemoryDocumentStore)(nil)

// NewMemoryDocumentStore creates an empty in-memory store
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{objects: make(map[string]memoryObject)}
}

// Put stores a document under the given key
func (m *MemoryDocumentStore) Put(_ context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return fmt.Errorf("storage key is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	m.objects[key] = memoryObject{data: buf, contentType: contentType}
	return nil
}

// Get retrieves a document and its content type
func (m *MemoryDocumentStore) Get(_ context.Context, key string) ([]byte, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, "", fmt.Errorf("document %q not found", key)
	}
	return obj.data, obj.contentType, nil
}

// Exists reports whether a document is stored under the key
func (m *MemoryDocumentStore) Exists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok, nil
}
