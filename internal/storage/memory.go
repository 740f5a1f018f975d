package storage

import (
	"context"
	"strings"
	"sync"
)

// MemoryBackend is an in-memory Backend used for tests and ephemeral runs
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

// Get retrieves a value by key
func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	value, ok := b.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	copied := make([]byte, len(value))
	copy(copied, value)
	return copied, nil
}

// Put stores a key-value pair
func (b *MemoryBackend) Put(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	copied := make([]byte, len(value))
	copy(copied, value)
	b.data[key] = copied
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.data, key)
	return nil
}

// List returns all pairs whose key starts with prefix
func (b *MemoryBackend) List(_ context.Context, prefix string) (map[string][]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := make(map[string][]byte)
	for key, value := range b.data {
		if strings.HasPrefix(key, prefix) {
			copied := make([]byte, len(value))
			copy(copied, value)
			result[key] = copied
		}
	}
	return result, nil
}

// Close is a no-op for the in-memory backend
func (b *MemoryBackend) Close() error {
	return nil
}
