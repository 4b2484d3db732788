package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/crmdesk/internal/client/remote"
	"github.com/dmitrijs2005/crmdesk/internal/dbx"
)

type scanner interface {
	Scan(dest ...any) error
}

// schema describes how one row type maps onto its table.
type schema[R remote.Row] struct {
	table   string
	columns remote.Columns
	jsonb   map[string]bool
	// values returns the writable columns of r in columns order.
	values func(r R) []any
	scan   func(sc scanner) (R, error)
}

func (s schema[R]) selectList() string {
	return "id::text, user_id, " + strings.Join(s.columns, ", ") + ", created_at, updated_at"
}

func (s schema[R]) arg(col string, v any) (any, error) {
	if !s.jsonb[col] || v == nil {
		return v, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s.%s: %w", s.table, col, err)
	}
	if string(b) == "null" {
		return nil, nil
	}
	return string(b), nil
}

type table[R remote.Row] struct {
	db     *sql.DB
	userID string
	s      schema[R]
}

func (t *table[R]) GetAll(ctx context.Context) ([]R, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1 ORDER BY created_at, id`, t.s.selectList(), t.s.table)
	rows, err := t.db.QueryContext(ctx, query, t.userID)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", t.s.table, err)
	}
	defer rows.Close()

	out := []R{}
	for rows.Next() {
		r, err := t.s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.s.table, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", t.s.table, err)
	}
	return out, nil
}

func (t *table[R]) insert(ctx context.Context, db dbx.DBTX, r R) (R, error) {
	var zero R

	placeholders := make([]string, 0, len(t.s.columns)+1)
	args := make([]any, 0, len(t.s.columns)+1)
	placeholders = append(placeholders, "$1")
	args = append(args, t.userID)

	for i, v := range t.s.values(r) {
		a, err := t.s.arg(t.s.columns[i], v)
		if err != nil {
			return zero, err
		}
		args = append(args, a)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}

	query := fmt.Sprintf(`INSERT INTO %s (user_id, %s) VALUES (%s) RETURNING %s`,
		t.s.table, strings.Join(t.s.columns, ", "), strings.Join(placeholders, ", "), t.s.selectList())

	out, err := t.s.scan(db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return zero, fmt.Errorf("insert %s: %w", t.s.table, err)
	}
	return out, nil
}

func (t *table[R]) Create(ctx context.Context, r R) (R, error) {
	return t.insert(ctx, t.db, r)
}

// BulkCreate inserts all rows in one transaction: either every row is
// created or none is.
func (t *table[R]) BulkCreate(ctx context.Context, rows []R) ([]R, error) {
	if len(rows) == 0 {
		return []R{}, nil
	}
	return dbx.WithTxValue(ctx, t.db, func(ctx context.Context, tx dbx.DBTX) ([]R, error) {
		out := make([]R, 0, len(rows))
		for _, r := range rows {
			created, err := t.insert(ctx, tx, r)
			if err != nil {
				return nil, err
			}
			out = append(out, created)
		}
		return out, nil
	})
}

func (t *table[R]) Update(ctx context.Context, id string, patch remote.Patch) (R, error) {
	var zero R
	if err := patch.Validate(t.s.columns); err != nil {
		return zero, err
	}

	args := []any{t.userID, id}
	sets := make([]string, 0, len(patch)+1)
	for _, col := range patch.SortedKeys(t.s.columns) {
		a, err := t.s.arg(col, patch[col])
		if err != nil {
			return zero, err
		}
		args = append(args, a)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	sets = append(sets, "updated_at = now()")

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE user_id = $1 AND id::text = $2 RETURNING %s`,
		t.s.table, strings.Join(sets, ", "), t.s.selectList())

	out, err := t.s.scan(t.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return zero, remote.ErrNotFound
	}
	if err != nil {
		return zero, fmt.Errorf("update %s: %w", t.s.table, err)
	}
	return out, nil
}

func (t *table[R]) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND id::text = $2`, t.s.table)
	res, err := t.db.ExecContext(ctx, query, t.userID, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", t.s.table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return remote.ErrNotFound
	}
	return nil
}
