// Package stores holds the synchronization stores for contacts, calendars
// and appointments.
//
// A store owns one in-memory collection for the active identity. It loads
// from the remote table when an identity is signed in and remote sync is
// enabled, falling back to the local cache otherwise. Mutations are applied
// optimistically: the remote call is attempted first when applicable, and a
// failed remote call degrades to a local-only mutation instead of an error.
// The in-memory collection and its local cache entry are always updated
// together under one mutex; remote calls run outside it, so concurrent
// writers race and the last write wins.
package stores

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/crmdesk/internal/client/auth"
	"github.com/dmitrijs2005/crmdesk/internal/client/localstore"
	"github.com/dmitrijs2005/crmdesk/internal/client/remote"
	"github.com/dmitrijs2005/crmdesk/internal/common"
	"github.com/dmitrijs2005/crmdesk/internal/logging"
)

// ErrNotReady is returned by mutations on a store that is not Ready.
var ErrNotReady = errors.New("store is not ready")

// Deps are the collaborators shared by all stores.
type Deps struct {
	// Remote is nil when remote sync is not configured.
	Remote remote.Backend
	Auth   auth.Capability
	Cache  *localstore.Adapter
	Log    logging.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// kind adapts the generic store to one entity type.
type kind[E any, R remote.Row, P any] struct {
	collection    string
	table         func(b remote.Backend, userID string) remote.Table[R]
	toApp         func(R) E
	toRemote      func(E) R
	patchToRemote func(P) remote.Patch
	applyPatch    func(P, E) E
	// prepare fills defaults and derived fields of a new entity.
	prepare func(E) E
	// completePatch adds derived fields implied by p; may be nil.
	completePatch func(cur E, p P) P
	id            func(E) string
	// localize gives a locally created entity its id and timestamps.
	localize func(e E, id string, now time.Time) E
	clone    func(E) E
	// insert places a new entity according to the collection's convention.
	insert func(items []E, e E) []E
	// order normalizes a collection after a remote load; nil keeps the
	// remote order.
	order func(items []E)
	// reorder restores the order after an update changed a sort key; nil
	// leaves every other entity where it was.
	reorder func(items []E)
	seed    func(now time.Time) []E
}

// scope is a snapshot of the activation an operation runs under.
type scope[R remote.Row] struct {
	gen    uint64
	userID string
	// table is nil when remote sync does not apply.
	table remote.Table[R]
}

// Store is the generic synchronization store.
type Store[E any, R remote.Row, P any] struct {
	kind kind[E, R, P]
	deps Deps
	log  logging.Logger

	mu       sync.Mutex
	state    State
	identity auth.Identity
	// gen increments on every activation and on Close. Results computed
	// under an older generation are discarded.
	gen    uint64
	items  []E
	synced bool
}

func newStore[E any, R remote.Row, P any](k kind[E, R, P], deps Deps) *Store[E, R, P] {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Log == nil {
		deps.Log = logging.Nop()
	}
	return &Store[E, R, P]{
		kind: k,
		deps: deps,
		log:  deps.Log.With("collection", k.collection),
	}
}

// State returns the lifecycle state.
func (s *Store[E, R, P]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Identity returns the identity the store is activated for. An empty ID
// means the anonymous scope.
func (s *Store[E, R, P]) Identity() auth.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Items returns a copy of the collection.
func (s *Store[E, R, P]) Items() []E {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]E, len(s.items))
	for i, e := range s.items {
		out[i] = s.kind.clone(e)
	}
	return out
}

// Len returns the collection size.
func (s *Store[E, R, P]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Get returns the entity with id.
func (s *Store[E, R, P]) Get(id string) (E, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.kind.clone(s.items[i]), true
	}
	var zero E
	return zero, false
}

// Filter returns copies of the entities keep accepts, in collection order.
func (s *Store[E, R, P]) Filter(keep func(E) bool) []E {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []E
	for _, e := range s.items {
		if keep(e) {
			out = append(out, s.kind.clone(e))
		}
	}
	return out
}

func (s *Store[E, R, P]) indexLocked(id string) int {
	return slices.IndexFunc(s.items, func(e E) bool { return s.kind.id(e) == id })
}

// Activate (re)loads the store for id. The zero Identity is the anonymous
// scope. When remote sync applies, the one-time migration of locally cached
// data runs first.
func (s *Store[E, R, P]) Activate(ctx context.Context, id auth.Identity) {
	s.mu.Lock()
	s.gen++
	s.identity = id
	s.state = Loading
	s.items = nil
	s.synced = false
	s.mu.Unlock()

	sc := s.scope()
	if sc.table == nil {
		s.load(ctx, sc)
		return
	}

	res := s.migrate(ctx, sc)
	if res.Kind == MigrationFailed {
		s.loadFallback(ctx, sc, res.Err)
		return
	}
	s.load(ctx, sc)
}

// Reload re-runs the load for the current identity.
func (s *Store[E, R, P]) Reload(ctx context.Context) error {
	s.mu.Lock()
	if s.state == Uninitialized {
		s.mu.Unlock()
		return ErrNotReady
	}
	s.state = Loading
	s.mu.Unlock()

	s.load(ctx, s.scope())
	return nil
}

// Close tears the store down. A closed store can be activated again.
func (s *Store[E, R, P]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.state = Uninitialized
	s.identity = auth.Identity{}
	s.items = nil
	s.synced = false
}

func (s *Store[E, R, P]) scope() scope[R] {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc := scope[R]{gen: s.gen, userID: s.identity.ID}
	if s.remoteAppliesLocked() {
		sc.table = s.kind.table(s.deps.Remote, s.identity.ID)
	}
	return sc
}

func (s *Store[E, R, P]) remoteAppliesLocked() bool {
	return s.identity.ID != "" && s.deps.Remote != nil && s.deps.Auth != nil && s.deps.Auth.RemoteEnabled()
}

func (s *Store[E, R, P]) key(userID string) string {
	return localstore.Key(s.kind.collection, userID)
}

// load fills the collection from the remote table when it applies, or from
// the local cache otherwise.
func (s *Store[E, R, P]) load(ctx context.Context, sc scope[R]) {
	if sc.table == nil {
		s.loadLocal(ctx, sc)
		return
	}

	rows, err := sc.table.GetAll(ctx)
	if err != nil {
		s.loadFallback(ctx, sc, err)
		return
	}

	items, err := s.mapRows(rows)
	if err != nil {
		s.loadFallback(ctx, sc, err)
		return
	}
	if s.kind.order != nil {
		s.kind.order(items)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sc.gen != s.gen {
		return
	}
	if err := localstore.Save(ctx, s.deps.Cache, s.key(sc.userID), items); err != nil {
		s.log.Warn(ctx, "cache refresh failed", "op", "load", "error", err)
	}
	s.items = items
	s.state = Ready
}

// loadLocal reads the identity's (or the anonymous) cache entry, seeding it
// when nothing is cached.
func (s *Store[E, R, P]) loadLocal(ctx context.Context, sc scope[R]) {
	key := s.key(sc.userID)
	items, ok := localstore.Load[E](ctx, s.deps.Cache, key)

	s.mu.Lock()
	defer s.mu.Unlock()
	if sc.gen != s.gen {
		return
	}
	if !ok {
		items = s.kind.seed(s.deps.Now())
		if err := localstore.Save(ctx, s.deps.Cache, key, items); err != nil {
			s.log.Warn(ctx, "seed not persisted", "op", "load", "error", err)
		}
	}
	s.items = items
	s.state = Ready
}

// loadFallback degrades a failed remote load to cached data: the identity's
// entry first, then the legacy un-scoped entry. Nothing is written.
func (s *Store[E, R, P]) loadFallback(ctx context.Context, sc scope[R], cause error) {
	s.log.Warn(ctx, "remote load failed, using local cache", "op", "load", "error", cause)

	items, ok := localstore.Load[E](ctx, s.deps.Cache, s.key(sc.userID))
	if !ok {
		items, _ = localstore.Load[E](ctx, s.deps.Cache, localstore.LegacyKey(s.kind.collection))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sc.gen != s.gen {
		return
	}
	s.items = items
	s.state = Ready
}

func (s *Store[E, R, P]) mapRows(rows []R) (items []E, err error) {
	defer func() {
		if r := recover(); r != nil {
			items, err = nil, fmt.Errorf("map remote rows: %v", r)
		}
	}()
	items = make([]E, 0, len(rows))
	for _, r := range rows {
		items = append(items, s.kind.toApp(r))
	}
	return items, nil
}

// commit applies mutate to a copy of the collection, persists the result
// and only then makes it visible. Nothing changes if persisting fails or
// the store was re-activated since sc was taken.
func (s *Store[E, R, P]) commit(ctx context.Context, sc scope[R], mutate func([]E) ([]E, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sc.gen != s.gen {
		return common.ErrIdentityChanged
	}
	next, err := mutate(slices.Clone(s.items))
	if err != nil {
		return err
	}
	if err := localstore.Save(ctx, s.deps.Cache, s.key(sc.userID), next); err != nil {
		return fmt.Errorf("persist %s: %w", s.kind.collection, err)
	}
	s.items = next
	return nil
}

// readyScope returns the scope for a mutation, or ErrNotReady.
func (s *Store[E, R, P]) readyScope() (scope[R], error) {
	s.mu.Lock()
	ready := s.state == Ready
	s.mu.Unlock()
	if !ready {
		return scope[R]{}, ErrNotReady
	}
	return s.scope(), nil
}

// recoverOp turns a panic inside a mutation into a NotApplied outcome.
func (s *Store[E, R, P]) recoverOp(ctx context.Context, op string, out *Outcome) {
	if r := recover(); r != nil {
		err := fmt.Errorf("%s: unexpected failure: %v", op, r)
		s.log.Error(ctx, "operation had no effect", "op", op, "error", err)
		*out = Outcome{Kind: NotApplied, Reason: err}
	}
}

// finish maps a commit error onto the outcome. Only ErrNotFound and local
// persistence failures are returned to the caller.
func (s *Store[E, R, P]) finish(ctx context.Context, op string, out Outcome, err error) (Outcome, error) {
	switch {
	case err == nil:
		if out.Kind == AppliedLocalFallback {
			s.log.Warn(ctx, "remote call failed, applied locally", "op", op, "error", out.Reason)
		}
		return out, nil
	case errors.Is(err, common.ErrIdentityChanged):
		s.log.Info(ctx, "result discarded after identity change", "op", op)
		return Outcome{Kind: NotApplied, Reason: err}, nil
	default:
		s.log.Error(ctx, "mutation failed", "op", op, "error", err)
		return Outcome{Kind: NotApplied, Reason: err}, err
	}
}

// Create adds a new entity. With remote sync it is created remotely first;
// if that fails, or remote sync does not apply, it gets a local id.
func (s *Store[E, R, P]) Create(ctx context.Context, in E) (created E, out Outcome, err error) {
	defer s.recoverOp(ctx, "create", &out)

	sc, err := s.readyScope()
	if err != nil {
		return created, Outcome{Kind: NotApplied, Reason: err}, err
	}

	e := s.kind.prepare(in)
	out = Outcome{Kind: AppliedLocal}
	if sc.table != nil {
		row, rerr := sc.table.Create(ctx, s.kind.toRemote(e))
		if rerr == nil {
			e = s.kind.toApp(row)
			out = Outcome{Kind: AppliedRemote}
		} else {
			out = Outcome{Kind: AppliedLocalFallback, Reason: rerr}
		}
	}
	if out.Kind != AppliedRemote {
		e = s.kind.localize(e, common.NewLocalID(), s.deps.Now().UTC())
	}

	err = s.commit(ctx, sc, func(items []E) ([]E, error) {
		return s.kind.insert(items, e), nil
	})
	out, err = s.finish(ctx, "create", out, err)
	if err != nil || !out.Applied() {
		var zero E
		return zero, out, err
	}
	return s.kind.clone(e), out, nil
}

// Update applies p to the entity with id. Records that only exist locally
// are never sent to the remote.
func (s *Store[E, R, P]) Update(ctx context.Context, id string, p P) (updated E, out Outcome, err error) {
	defer s.recoverOp(ctx, "update", &out)

	sc, err := s.readyScope()
	if err != nil {
		return updated, Outcome{Kind: NotApplied, Reason: err}, err
	}
	cur, ok := s.Get(id)
	if !ok {
		return updated, Outcome{Kind: NotApplied, Reason: common.ErrNotFound}, common.ErrNotFound
	}

	if s.kind.completePatch != nil {
		p = s.kind.completePatch(cur, p)
	}
	next := s.kind.applyPatch(p, cur)
	out = Outcome{Kind: AppliedLocal}
	if sc.table != nil && !common.IsLocalID(id) {
		row, rerr := sc.table.Update(ctx, id, s.kind.patchToRemote(p))
		if rerr == nil {
			next = s.kind.toApp(row)
			out = Outcome{Kind: AppliedRemote}
		} else {
			out = Outcome{Kind: AppliedLocalFallback, Reason: rerr}
		}
	}

	err = s.commit(ctx, sc, func(items []E) ([]E, error) {
		i := slices.IndexFunc(items, func(e E) bool { return s.kind.id(e) == id })
		if i < 0 {
			return nil, common.ErrNotFound
		}
		items[i] = next
		if s.kind.reorder != nil {
			s.kind.reorder(items)
		}
		return items, nil
	})
	out, err = s.finish(ctx, "update", out, err)
	if err != nil || !out.Applied() {
		var zero E
		return zero, out, err
	}
	return s.kind.clone(next), out, nil
}

// Delete removes the entity with id.
func (s *Store[E, R, P]) Delete(ctx context.Context, id string) (out Outcome, err error) {
	defer s.recoverOp(ctx, "delete", &out)

	sc, err := s.readyScope()
	if err != nil {
		return Outcome{Kind: NotApplied, Reason: err}, err
	}
	if _, ok := s.Get(id); !ok {
		return Outcome{Kind: NotApplied, Reason: common.ErrNotFound}, common.ErrNotFound
	}

	out = Outcome{Kind: AppliedLocal}
	if sc.table != nil && !common.IsLocalID(id) {
		if rerr := sc.table.Delete(ctx, id); rerr == nil {
			out = Outcome{Kind: AppliedRemote}
		} else {
			out = Outcome{Kind: AppliedLocalFallback, Reason: rerr}
		}
	}

	err = s.commit(ctx, sc, func(items []E) ([]E, error) {
		i := slices.IndexFunc(items, func(e E) bool { return s.kind.id(e) == id })
		if i < 0 {
			return nil, common.ErrNotFound
		}
		return slices.Delete(items, i, i+1), nil
	})
	return s.finish(ctx, "delete", out, err)
}
