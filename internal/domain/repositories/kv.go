package repositories

import (
	"context"
)

// KVStore is the local persistent store: a single namespace of records
// keyed by fixed identifiers, holding opaque blobs. The persistence
// gateway writes the encrypted application snapshot under one key; it
// never depends on what backs the store.
type KVStore interface {
	// Get retrieves the value for a key. Returns (nil, nil) when the
	// key is absent - absence is not an error.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores a value under a key, replacing any existing value.
	// The write is atomic.
	Put(ctx context.Context, key string, value []byte) error

	// Close releases the underlying resources.
	Close() error
}
