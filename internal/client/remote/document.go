package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Blobs stores whole documents by key. Get returns (nil, nil) when the key
// does not exist.
type Blobs interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// DocumentTable keeps one user's collection as a single JSON array in Blobs.
// Every write is a read-modify-write of the whole document under mu.
type DocumentTable[R Row] struct {
	blobs   Blobs
	mu      *sync.Mutex
	key     string
	userID  string
	columns Columns
	now     func() time.Time
}

// NewDocumentTable returns the table stored at "{collection}/{userID}.json".
// Tables of one backend must share mu.
func NewDocumentTable[R Row](blobs Blobs, mu *sync.Mutex, collection, userID string, columns Columns) *DocumentTable[R] {
	return &DocumentTable[R]{
		blobs:   blobs,
		mu:      mu,
		key:     DocumentKey(collection, userID),
		userID:  userID,
		columns: columns,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func DocumentKey(collection, userID string) string {
	return collection + "/" + userID + ".json"
}

func (t *DocumentTable[R]) load(ctx context.Context) ([]R, error) {
	data, err := t.blobs.Get(ctx, t.key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", t.key, err)
	}
	if data == nil {
		return []R{}, nil
	}
	var rows []R
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", t.key, err)
	}
	return rows, nil
}

func (t *DocumentTable[R]) save(ctx context.Context, rows []R) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode %s: %w", t.key, err)
	}
	if err := t.blobs.Put(ctx, t.key, data); err != nil {
		return fmt.Errorf("write %s: %w", t.key, err)
	}
	return nil
}

func (t *DocumentTable[R]) GetAll(ctx context.Context) ([]R, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load(ctx)
}

func (t *DocumentTable[R]) Create(ctx context.Context, row R) (R, error) {
	var zero R
	out, err := t.BulkCreate(ctx, []R{row})
	if err != nil {
		return zero, err
	}
	return out[0], nil
}

func (t *DocumentTable[R]) BulkCreate(ctx context.Context, rows []R) ([]R, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	all, err := t.load(ctx)
	if err != nil {
		return nil, err
	}

	now := t.now()
	created := make([]R, 0, len(rows))
	for _, r := range rows {
		stamped, err := setColumns(r, map[string]any{
			"id":         uuid.NewString(),
			"user_id":    t.userID,
			"created_at": now,
			"updated_at": now,
		})
		if err != nil {
			return nil, err
		}
		created = append(created, stamped)
	}

	if err := t.save(ctx, append(all, created...)); err != nil {
		return nil, err
	}
	return created, nil
}

func (t *DocumentTable[R]) Update(ctx context.Context, id string, patch Patch) (R, error) {
	var zero R
	if err := patch.Validate(t.columns); err != nil {
		return zero, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	all, err := t.load(ctx)
	if err != nil {
		return zero, err
	}
	i := slices.IndexFunc(all, func(r R) bool { return r.RowID() == id })
	if i < 0 {
		return zero, ErrNotFound
	}

	set := make(map[string]any, len(patch)+1)
	for k, v := range patch {
		set[k] = v
	}
	set["updated_at"] = t.now()

	updated, err := setColumns(all[i], set)
	if err != nil {
		return zero, err
	}
	all[i] = updated
	if err := t.save(ctx, all); err != nil {
		return zero, err
	}
	return updated, nil
}

func (t *DocumentTable[R]) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	all, err := t.load(ctx)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(all, func(r R) bool { return r.RowID() == id })
	if i < 0 {
		return ErrNotFound
	}
	return t.save(ctx, slices.Delete(all, i, i+1))
}

// setColumns overwrites JSON fields of r. Fields are matched by their JSON
// names, which are the column names.
func setColumns[R any](r R, set map[string]any) (R, error) {
	var zero R

	b, err := json.Marshal(r)
	if err != nil {
		return zero, fmt.Errorf("encode row: %w", err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &fields); err != nil {
		return zero, fmt.Errorf("decode row: %w", err)
	}
	for col, v := range set {
		raw, err := json.Marshal(v)
		if err != nil {
			return zero, fmt.Errorf("encode column %s: %w", col, err)
		}
		fields[col] = raw
	}

	b, err = json.Marshal(fields)
	if err != nil {
		return zero, fmt.Errorf("encode row: %w", err)
	}
	var out R
	if err := json.Unmarshal(b, &out); err != nil {
		return zero, fmt.Errorf("decode row: %w", err)
	}
	return out, nil
}
