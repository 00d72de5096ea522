// Package store holds persistence primitives: a byte-oriented key-value
// interface with memory and SQL implementations, and the in-memory
// registry of active practice games.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by lookups that require the record to exist.
var ErrNotFound = errors.New("not found")

// KV is a whole-record key-value store. Writes are full overwrites; the
// last write for a key wins.
type KV interface {
	// Get returns the stored value and true, or nil and false when absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put creates or replaces the value for key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists keys starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
