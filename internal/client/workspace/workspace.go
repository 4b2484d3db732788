// Package workspace wires the client together: local cache, optional
// remote backend, auth session, the entity stores and the field schema.
package workspace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/crmdesk/internal/client/auth"
	"github.com/dmitrijs2005/crmdesk/internal/client/config"
	"github.com/dmitrijs2005/crmdesk/internal/client/fields"
	"github.com/dmitrijs2005/crmdesk/internal/client/localdb"
	"github.com/dmitrijs2005/crmdesk/internal/client/localstore"
	"github.com/dmitrijs2005/crmdesk/internal/client/remote"
	"github.com/dmitrijs2005/crmdesk/internal/client/remote/memory"
	"github.com/dmitrijs2005/crmdesk/internal/client/remote/objectstore"
	"github.com/dmitrijs2005/crmdesk/internal/client/remote/postgres"
	"github.com/dmitrijs2005/crmdesk/internal/client/repositories/cache"
	"github.com/dmitrijs2005/crmdesk/internal/client/stores"
	"github.com/dmitrijs2005/crmdesk/internal/logging"
)

// Workspace owns every long-lived client component.
type Workspace struct {
	Session      *auth.Session
	Contacts     *stores.ContactStore
	Calendars    *stores.CalendarStore
	Appointments *stores.AppointmentStore
	Fields       *fields.Store

	log         logging.Logger
	db          *sql.DB
	remote      remote.Backend
	unsubscribe func()
}

// openRemote is a seam for tests.
var openRemote = func(ctx context.Context, cfg *config.Config) (remote.Backend, error) {
	switch cfg.RemoteDriver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverPostgres:
		return postgres.Open(ctx, cfg.DatabaseDSN)
	case config.DriverS3:
		return objectstore.New(ctx, objectstore.Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	}
	return nil, fmt.Errorf("unknown remote driver %q", cfg.RemoteDriver)
}

// Open builds the workspace, restores a persisted session and activates the
// stores for it. A remote backend that cannot be reached at startup is
// logged and the workspace runs local-only.
func Open(ctx context.Context, cfg *config.Config, log logging.Logger) (*Workspace, error) {
	if log == nil {
		log = logging.Nop()
	}

	db, err := localdb.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open local cache: %w", err)
	}
	c := localstore.New(cache.NewSQLiteRepository(db), log)

	w := &Workspace{log: log, db: db}
	if cfg.RemoteEnabled() {
		b, err := openRemote(ctx, cfg)
		if err != nil {
			log.Warn(ctx, "remote backend unavailable, running local-only", "driver", cfg.RemoteDriver, "error", err)
		} else {
			w.remote = b
		}
	}

	w.Session = auth.NewSession([]byte(cfg.JWTSecret), c, w.remote != nil, log)
	deps := stores.Deps{Remote: w.remote, Auth: w.Session, Cache: c, Log: log}
	w.Contacts = stores.NewContactStore(deps, stores.BulkOptions{
		ChunkSize:  cfg.ImportChunkSize,
		ChunkPause: cfg.ImportChunkPause,
	})
	w.Calendars = stores.NewCalendarStore(deps)
	w.Appointments = stores.NewAppointmentStore(deps)
	w.Fields = fields.New(ctx, c, log)

	id, _ := w.Session.Restore(ctx)
	w.unsubscribe = w.Session.Subscribe(func(ctx context.Context, id auth.Identity, signedIn bool) {
		if !signedIn {
			id = auth.Identity{}
		}
		w.activate(ctx, id)
	})
	w.activate(ctx, id)
	return w, nil
}

// RemoteEnabled reports whether a remote backend is in use.
func (w *Workspace) RemoteEnabled() bool { return w.Session.RemoteEnabled() }

// activate re-loads every store for id. The stores are independent, so they
// load concurrently.
func (w *Workspace) activate(ctx context.Context, id auth.Identity) {
	w.log.Info(ctx, "activating workspace", "user", id.ID)
	w.each(func(s activator) { s.Activate(ctx, id) })
}

// Sync runs the pending one-time migrations and reloads every store.
func (w *Workspace) Sync(ctx context.Context) error {
	var (
		mu   sync.Mutex
		errs []error
	)
	w.each(func(s activator) {
		res := s.Migrate(ctx)
		err := res.Err
		if res.Kind != stores.MigrationDone {
			err = errors.Join(err, s.Reload(ctx))
		}
		if err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}
	})
	return errors.Join(errs...)
}

type activator interface {
	Activate(ctx context.Context, id auth.Identity)
	Migrate(ctx context.Context) stores.MigrationResult
	Reload(ctx context.Context) error
	Close()
}

func (w *Workspace) each(fn func(activator)) {
	var wg sync.WaitGroup
	for _, s := range []activator{w.Contacts, w.Calendars, w.Appointments} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(s)
		}()
	}
	wg.Wait()
}

// Close tears down the stores and releases the backends.
func (w *Workspace) Close() error {
	if w.unsubscribe != nil {
		w.unsubscribe()
	}
	w.each(func(s activator) { s.Close() })

	var errs []error
	if w.remote != nil {
		errs = append(errs, w.remote.Close())
	}
	errs = append(errs, w.db.Close())
	return errors.Join(errs...)
}
