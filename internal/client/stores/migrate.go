package stores

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/crmdesk/internal/client/localstore"
)

// Migrate runs the one-time migration for the current activation, if it has
// not been attempted yet, and reloads from the remote when rows were moved.
func (s *Store[E, R, P]) Migrate(ctx context.Context) MigrationResult {
	sc := s.scope()
	res := s.migrate(ctx, sc)
	if res.Kind == MigrationDone {
		s.load(ctx, sc)
	}
	return res
}

// Synced reports whether the migration attempt for this activation is spent.
func (s *Store[E, R, P]) Synced() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.synced
}

// migrate moves locally cached entities of the signed-in identity to an
// empty remote table. It is attempted at most once per activation and the
// attempt counts whatever its result. A non-empty remote is never touched,
// which also makes a retry after success a no-op.
func (s *Store[E, R, P]) migrate(ctx context.Context, sc scope[R]) (res MigrationResult) {
	if sc.table == nil {
		return MigrationResult{Kind: MigrationNotApplicable}
	}

	s.mu.Lock()
	if sc.gen != s.gen || s.synced {
		s.mu.Unlock()
		return MigrationResult{Kind: MigrationAlreadyAttempted}
	}
	s.synced = true
	s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			res = MigrationResult{Kind: MigrationFailed, Err: fmt.Errorf("migration: unexpected failure: %v", r)}
		}
		s.logMigration(ctx, res)
	}()

	key := s.key(sc.userID)
	local, _ := localstore.Load[E](ctx, s.deps.Cache, key)
	fromLegacy := false
	if len(local) == 0 {
		key = localstore.LegacyKey(s.kind.collection)
		local, _ = localstore.Load[E](ctx, s.deps.Cache, key)
		fromLegacy = true
	}
	if len(local) == 0 {
		return MigrationResult{Kind: MigrationNoLocalData}
	}

	existing, err := sc.table.GetAll(ctx)
	if err != nil {
		return MigrationResult{Kind: MigrationFailed, Err: err}
	}
	if len(existing) > 0 {
		return MigrationResult{Kind: MigrationRemoteNotEmpty}
	}

	rows := make([]R, 0, len(local))
	for _, e := range local {
		rows = append(rows, s.kind.toRemote(e))
	}
	created, err := sc.table.BulkCreate(ctx, rows)
	if err != nil {
		return MigrationResult{Kind: MigrationFailed, Err: err}
	}

	// the legacy entry has no owner; once moved it must not be picked up by
	// the next identity that signs in
	if fromLegacy {
		if err := s.deps.Cache.Remove(ctx, key); err != nil {
			s.log.Warn(ctx, "legacy cache entry not removed", "op", "migrate", "error", err)
		}
	}
	return MigrationResult{Kind: MigrationDone, Count: len(created)}
}

func (s *Store[E, R, P]) logMigration(ctx context.Context, res MigrationResult) {
	switch res.Kind {
	case MigrationFailed:
		s.log.Warn(ctx, "migration failed, keeping local data", "op", "migrate", "error", res.Err)
	case MigrationRemoteNotEmpty:
		s.log.Info(ctx, "migration skipped, remote already has data", "op", "migrate")
	case MigrationDone:
		s.log.Info(ctx, "migrated local data to remote", "op", "migrate", "count", res.Count)
	default:
		s.log.Debug(ctx, "migration not needed", "op", "migrate", "result", res.Kind.String())
	}
}
