// Package remote is the CRUD facade over the hosted per-user store.
//
// Every operation returns a value and an error, and exactly one of them is
// meaningful. A nil Backend means remote sync is not configured; callers
// branch on that rather than on error content.
package remote

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/crmdesk/internal/client/models"
	"github.com/dmitrijs2005/crmdesk/internal/common"
)

var (
	// ErrNotFound is returned by Update and Delete for an id the user does
	// not own. It matches common.ErrNotFound.
	ErrNotFound = fmt.Errorf("remote row %w", common.ErrNotFound)

	// ErrUnknownColumn rejects a Patch naming a column outside the table.
	ErrUnknownColumn = errors.New("unknown column")
)

// Row is a remote record.
type Row interface {
	RowID() string
}

// Table is one collection of one user.
//
// Create and BulkCreate ignore any id in the input: ids and timestamps are
// assigned by the backend.
type Table[R Row] interface {
	GetAll(ctx context.Context) ([]R, error)
	Create(ctx context.Context, row R) (R, error)
	Update(ctx context.Context, id string, patch Patch) (R, error)
	Delete(ctx context.Context, id string) error
	BulkCreate(ctx context.Context, rows []R) ([]R, error)
}

// Backend hands out per-user tables.
type Backend interface {
	Contacts(userID string) Table[models.ContactRow]
	Calendars(userID string) Table[models.CalendarRow]
	Appointments(userID string) Table[models.AppointmentRow]
	Close() error
}

// Patch is a partial row keyed by column name.
type Patch map[string]any

// Columns lists the writable columns of a table in a fixed order.
type Columns []string

func (c Columns) Has(name string) bool {
	return slices.Contains(c, name)
}

// Validate rejects columns that are not in allowed.
func (p Patch) Validate(allowed Columns) error {
	for col := range p {
		if !allowed.Has(col) {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}
	}
	return nil
}

// SortedKeys returns the patch columns in allowed order, so generated SQL is
// deterministic.
func (p Patch) SortedKeys(allowed Columns) []string {
	out := make([]string, 0, len(p))
	for _, col := range allowed {
		if _, ok := p[col]; ok {
			out = append(out, col)
		}
	}
	return out
}

// Collection names, shared with the local cache keys.
const (
	CollectionContacts     = "contacts"
	CollectionCalendars    = "calendars"
	CollectionAppointments = "appointments"
)

var (
	ContactColumns = Columns{
		"name", "first_name", "last_name", "email", "phone", "contact_type", "tags",
		"initials", "avatar_color", "time_zone", "dnd_all_channels", "custom_fields",
	}
	CalendarColumns = Columns{
		"name", "description", "color", "is_active", "settings",
	}
	AppointmentColumns = Columns{
		"title", "description", "start_time", "end_time", "status",
		"contact_id", "calendar_id", "location",
	}
)
