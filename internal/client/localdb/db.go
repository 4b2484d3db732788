// Package localdb opens the SQLite database that backs the local cache.
package localdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/crmdesk/internal/client/migrations"
	"github.com/dmitrijs2005/crmdesk/internal/dbx"
	"github.com/dmitrijs2005/crmdesk/internal/filex"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// RunMigrations brings the local schema up to date.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	return dbx.Migrate(ctx, db, migrations.Migrations, "sqlite3")
}

// Open opens (creating if needed) the SQLite database at dsn and migrates it.
// ":memory:" is accepted for tests.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if _, err := filex.EnsureParentDir(dsn); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	// an in-memory database lives and dies with its single connection
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
