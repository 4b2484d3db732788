// Package postgres is the remote backend on a hosted Postgres database.
// Every statement is filtered by user_id, which is how the per-user row
// policy of the hosted store is enforced here.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/crmdesk/internal/client/models"
	"github.com/dmitrijs2005/crmdesk/internal/client/remote"
	"github.com/dmitrijs2005/crmdesk/internal/client/remote/postgres/migrations"
	"github.com/dmitrijs2005/crmdesk/internal/dbx"
)

// Backend implements remote.Backend over database/sql.
type Backend struct {
	db     *sql.DB
	ownsDB bool
}

var _ remote.Backend = (*Backend)(nil)

// RunMigrations brings the remote schema up to date.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	return dbx.Migrate(ctx, db, migrations.Migrations, "pgx")
}

// Open connects to dsn through the pgx stdlib driver and migrates the
// schema. The returned Backend closes the pool on Close.
func Open(ctx context.Context, dsn string) (*Backend, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Backend{db: db, ownsDB: true}, nil
}

// New wraps an existing pool. Close leaves it open.
func New(db *sql.DB) *Backend {
	return &Backend{db: db}
}

func (b *Backend) Contacts(userID string) remote.Table[models.ContactRow] {
	return &table[models.ContactRow]{db: b.db, userID: userID, s: contactSchema}
}

func (b *Backend) Calendars(userID string) remote.Table[models.CalendarRow] {
	return &table[models.CalendarRow]{db: b.db, userID: userID, s: calendarSchema}
}

func (b *Backend) Appointments(userID string) remote.Table[models.AppointmentRow] {
	return &table[models.AppointmentRow]{db: b.db, userID: userID, s: appointmentSchema}
}

func (b *Backend) Close() error {
	if b.ownsDB {
		return b.db.Close()
	}
	return nil
}
