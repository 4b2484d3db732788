// Package memory is an in-process remote backend. It keeps documents in a
// map and can be told to fail chosen operations, which is what the store
// tests and the "memory" driver use it for.
package memory

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/crmdesk/internal/client/models"
	"github.com/dmitrijs2005/crmdesk/internal/client/remote"
)

// Op names a Table operation for failure injection.
type Op string

const (
	OpGetAll     Op = "getAll"
	OpCreate     Op = "create"
	OpUpdate     Op = "update"
	OpDelete     Op = "delete"
	OpBulkCreate Op = "bulkCreate"
)

type opKey struct {
	collection string
	op         Op
}

// Backend implements remote.Backend in memory.
type Backend struct {
	docMu sync.Mutex

	mu       sync.Mutex
	blobs    map[string][]byte
	failures map[opKey]error
	calls    map[opKey]int
}

var _ remote.Backend = (*Backend)(nil)

func New() *Backend {
	return &Backend{
		blobs:    map[string][]byte{},
		failures: map[opKey]error{},
		calls:    map[opKey]int{},
	}
}

// Fail makes every subsequent op on collection return err. A nil err clears
// the failure.
func (b *Backend) Fail(collection string, op Op, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.failures, opKey{collection, op})
		return
	}
	b.failures[opKey{collection, op}] = err
}

// FailAll makes every op on every collection return err, as if the network
// was down. A nil err clears all failures.
func (b *Backend) FailAll(err error) {
	for _, c := range []string{remote.CollectionContacts, remote.CollectionCalendars, remote.CollectionAppointments} {
		for _, op := range []Op{OpGetAll, OpCreate, OpUpdate, OpDelete, OpBulkCreate} {
			b.Fail(c, op, err)
		}
	}
}

// Calls returns how many times op was invoked on collection, failed or not.
func (b *Backend) Calls(collection string, op Op) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[opKey{collection, op}]
}

func (b *Backend) enter(collection string, op Op) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[opKey{collection, op}]++
	return b.failures[opKey{collection, op}]
}

// Get and Put make Backend its own remote.Blobs.
func (b *Backend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.blobs[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (b *Backend) Put(_ context.Context, key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blobs[key] = append([]byte(nil), data...)
	return nil
}

func (b *Backend) Contacts(userID string) remote.Table[models.ContactRow] {
	return newTable[models.ContactRow](b, remote.CollectionContacts, userID, remote.ContactColumns)
}

func (b *Backend) Calendars(userID string) remote.Table[models.CalendarRow] {
	return newTable[models.CalendarRow](b, remote.CollectionCalendars, userID, remote.CalendarColumns)
}

func (b *Backend) Appointments(userID string) remote.Table[models.AppointmentRow] {
	return newTable[models.AppointmentRow](b, remote.CollectionAppointments, userID, remote.AppointmentColumns)
}

func (b *Backend) Close() error { return nil }

type table[R remote.Row] struct {
	b          *Backend
	collection string
	inner      *remote.DocumentTable[R]
}

func newTable[R remote.Row](b *Backend, collection, userID string, cols remote.Columns) *table[R] {
	return &table[R]{
		b:          b,
		collection: collection,
		inner:      remote.NewDocumentTable[R](b, &b.docMu, collection, userID, cols),
	}
}

func (t *table[R]) GetAll(ctx context.Context) ([]R, error) {
	if err := t.b.enter(t.collection, OpGetAll); err != nil {
		return nil, err
	}
	return t.inner.GetAll(ctx)
}

func (t *table[R]) Create(ctx context.Context, row R) (R, error) {
	if err := t.b.enter(t.collection, OpCreate); err != nil {
		var zero R
		return zero, err
	}
	return t.inner.Create(ctx, row)
}

func (t *table[R]) Update(ctx context.Context, id string, patch remote.Patch) (R, error) {
	if err := t.b.enter(t.collection, OpUpdate); err != nil {
		var zero R
		return zero, err
	}
	return t.inner.Update(ctx, id, patch)
}

func (t *table[R]) Delete(ctx context.Context, id string) error {
	if err := t.b.enter(t.collection, OpDelete); err != nil {
		return err
	}
	return t.inner.Delete(ctx, id)
}

func (t *table[R]) BulkCreate(ctx context.Context, rows []R) ([]R, error) {
	if err := t.b.enter(t.collection, OpBulkCreate); err != nil {
		return nil, err
	}
	return t.inner.BulkCreate(ctx, rows)
}
