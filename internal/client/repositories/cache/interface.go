// Package cache persists opaque values under string keys in the local
// SQLite database. It knows nothing about what the values mean.
package cache

import (
	"context"
)

// Repository is a byte-level key/value store.
//
// Get returns (nil, nil) for a missing key. Delete of a missing key is not an
// error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
