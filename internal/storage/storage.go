// Package storage provides the key-value persistence backends behind the
// request lifecycle store. Values are JSON-serialized documents; keys are
// namespaced strings such as "request:<id>". No schema versioning: a format
// change is a breaking change for previously stored data.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key does not exist in the backend
var ErrNotFound = errors.New("storage: key not found")

// Key namespaces
const (
	RequestPrefix = "request:"
	PatientPrefix = "patient:"
	ActorPrefix   = "actor:"
)

// Backend abstracts the persistent key-value store. Implementations must be
// safe for concurrent use by multiple goroutines.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// List returns all key-value pairs whose key starts with prefix.
	List(ctx context.Context, prefix string) (map[string][]byte, error)
	Close() error
}
