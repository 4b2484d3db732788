// Package localstore keeps JSON-encoded collections in the local cache,
// partitioned by collection name and identity.
//
// Reads never fail: a missing key, a storage error or a corrupt document all
// yield "nothing cached". Storage errors and corrupt documents are logged.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/crmdesk/internal/client/repositories/cache"
	"github.com/dmitrijs2005/crmdesk/internal/logging"
)

// AnonScope names the partition used when nobody is signed in.
const AnonScope = "anon"

// Key returns the cache key of collection for identityID. An empty identity
// maps to the anonymous partition.
func Key(collection, identityID string) string {
	if identityID == "" {
		identityID = AnonScope
	}
	return collection + "_" + identityID
}

// LegacyKey returns the un-scoped key used before collections were
// partitioned per identity.
func LegacyKey(collection string) string {
	return collection
}

// Adapter serializes values into a cache.Repository.
type Adapter struct {
	repo cache.Repository
	log  logging.Logger
}

func New(repo cache.Repository, log logging.Logger) *Adapter {
	return &Adapter{repo: repo, log: log}
}

// Load reads the collection stored under key. The boolean is false when
// nothing usable is cached.
func Load[T any](ctx context.Context, a *Adapter, key string) ([]T, bool) {
	var items []T
	if !LoadValue(ctx, a, key, &items) {
		return nil, false
	}
	return items, true
}

// Save replaces the collection stored under key. A nil slice is stored as an
// empty JSON array.
func Save[T any](ctx context.Context, a *Adapter, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	return a.SaveValue(ctx, key, items)
}

// LoadValue decodes the document stored under key into dst and reports
// whether it did.
func LoadValue[T any](ctx context.Context, a *Adapter, key string, dst *T) bool {
	raw, err := a.repo.Get(ctx, key)
	if err != nil {
		a.log.Warn(ctx, "local cache read failed", "key", key, "error", err)
		return false
	}
	if raw == nil {
		return false
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		a.log.Warn(ctx, "corrupt local cache entry ignored", "key", key, "error", err)
		return false
	}
	*dst = v
	return true
}

// SaveValue JSON-encodes v under key.
func (a *Adapter) SaveValue(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := a.repo.Set(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Remove deletes key from the cache.
func (a *Adapter) Remove(ctx context.Context, key string) error {
	if err := a.repo.Delete(ctx, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
