// Package store defines the persisted-blob boundary: a single serialized
// Identity kept under one key in a durable key-value store. Concrete drivers
// (memory, sqlite, redis) implement Blobs.
package store

import (
	"context"
	"errors"
)

// ErrNotFound reports that no blob exists under the requested key.
var ErrNotFound = errors.New("store: not found")

// Blobs is the persisted key-value blob surface the session core writes
// through. One key, one value; the core is the only writer.
type Blobs interface {
	// Get returns the blob stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the blob under key. Deleting a missing key is not an
	// error; logout relies on that for idempotency.
	Delete(ctx context.Context, key string) error
}
