// Package kvstore is the device-local key-value store used for session
// tokens, profile blobs and other small string values. It mirrors the
// async-storage contract the mobile app relies on: string keys, string
// values, and multi-key batch operations.
package kvstore

import (
	"context"
)

type Repository interface {
	// Get returns the value for key, or the empty string when the key is
	// absent. Absence is not an error.
	Get(ctx context.Context, key string) (string, error)

	Set(ctx context.Context, key, value string) error

	// Remove deletes the key. Removing an absent key is a no-op.
	Remove(ctx context.Context, key string) error

	// MultiGet returns a map holding only the keys that were present.
	MultiGet(ctx context.Context, keys ...string) (map[string]string, error)

	// MultiSet upserts all pairs atomically.
	MultiSet(ctx context.Context, pairs map[string]string) error

	// MultiRemove deletes all keys atomically.
	MultiRemove(ctx context.Context, keys ...string) error

	Clear(ctx context.Context) error
}
