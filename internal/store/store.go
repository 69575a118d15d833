// Package store provides the persistent key-value abstraction that backs
// visitor state, with in-memory and SQLite implementations.
package store

import (
	"context"
)

// Store is a flat string key-value space, one per storage partition.
// Values are opaque to the store; callers decide the encoding.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set creates or overwrites the value for key.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Keys lists every key in the partition.
	Keys(ctx context.Context) ([]string, error)

	// Clear removes every key in the partition.
	Clear(ctx context.Context) error

	// Close releases underlying resources.
	Close() error
}
