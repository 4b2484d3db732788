package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/crmdesk/internal/client/models"
	"github.com/dmitrijs2005/crmdesk/internal/client/remote"
)

var (
	contactCols = []string{
		"id", "user_id", "name", "first_name", "last_name", "email", "phone", "contact_type", "tags",
		"initials", "avatar_color", "time_zone", "dnd_all_channels", "custom_fields", "created_at", "updated_at",
	}
	calendarCols = []string{
		"id", "user_id", "name", "description", "color", "is_active", "settings", "created_at", "updated_at",
	}
	appointmentCols = []string{
		"id", "user_id", "title", "description", "start_time", "end_time", "status",
		"contact_id", "calendar_id", "location", "created_at", "updated_at",
	}
	ts = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
)

func str(s string) *string { return &s }

func newBackendWithMock(t *testing.T) (*Backend, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db), mock, db
}

func TestContacts_GetAll_FiltersByUserAndDecodes(t *testing.T) {
	b, mock, _ := newBackendWithMock(t)

	rows := sqlmock.NewRows(contactCols).
		AddRow("c-1", "u1", "Ada Lovelace", "Ada", "Lovelace", "ada@x.com", nil, "customer",
			[]byte(`["vip"]`), "AL", "#6366f1", "UTC", true, []byte(`{"era":"victorian"}`), ts, ts).
		AddRow("c-2", "u1", "Bare", nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, ts, ts)
	mock.ExpectQuery(`(?s)^SELECT\s+id::text,\s*user_id,\s*name,.*FROM\s+contacts\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER BY created_at, id$`).
		WithArgs("u1").
		WillReturnRows(rows)

	got, err := b.Contacts("u1").GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Ada", *got[0].FirstName)
	assert.Nil(t, got[0].Phone)
	assert.Equal(t, []string{"vip"}, got[0].Tags)
	assert.JSONEq(t, `"victorian"`, string(got[0].CustomFields["era"]))
	assert.True(t, *got[0].DNDAllChannels)

	assert.Nil(t, got[1].FirstName)
	assert.Nil(t, got[1].Tags)
	assert.Nil(t, got[1].CustomFields)
	assert.Nil(t, got[1].DNDAllChannels)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContacts_GetAll_QueryError(t *testing.T) {
	b, mock, _ := newBackendWithMock(t)
	mock.ExpectQuery(`FROM\s+contacts`).WillReturnError(errors.New("db down"))

	_, err := b.Contacts("u1").GetAll(context.Background())
	require.ErrorContains(t, err, "select contacts: db down")
}

func TestCalendars_Create_InsertsWithUserAndJSONSettings(t *testing.T) {
	b, mock, _ := newBackendWithMock(t)

	active := true
	dur := 45
	in := models.CalendarRow{
		ID:       "local_ignored",
		Name:     "Sales",
		Color:    str("#3b82f6"),
		IsActive: &active,
		Settings: &models.CalendarSettingsRow{Type: str("personal"), Duration: &dur},
	}

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+calendars\s*\(user_id,\s*name,\s*description,\s*color,\s*is_active,\s*settings\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)\s*RETURNING\s+id::text`).
		WithArgs("u1", "Sales", nil, "#3b82f6", true, `{"type":"personal","duration":45}`).
		WillReturnRows(sqlmock.NewRows(calendarCols).
			AddRow("cal-1", "u1", "Sales", nil, "#3b82f6", true, []byte(`{"type":"personal","duration":45}`), ts, ts))

	got, err := b.Calendars("u1").Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "cal-1", got.ID)
	assert.Equal(t, 45, *got.Settings.Duration)
	assert.Nil(t, got.Description)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointments_Update_BuildsSetClauseInColumnOrder(t *testing.T) {
	b, mock, _ := newBackendWithMock(t)
	end := ts.Add(time.Hour)

	mock.ExpectQuery(`(?s)^UPDATE\s+appointments\s+SET\s+end_time\s*=\s*\$3,\s*status\s*=\s*\$4,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+id::text\s*=\s*\$2\s+RETURNING`).
		WithArgs("u1", "a-1", end, "confirmed").
		WillReturnRows(sqlmock.NewRows(appointmentCols).
			AddRow("a-1", "u1", "Demo", nil, ts, end, "confirmed", nil, "cal-1", nil, ts, ts))

	got, err := b.Appointments("u1").Update(context.Background(), "a-1",
		remote.Patch{"status": "confirmed", "end_time": end})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", *got.Status)
	assert.Nil(t, got.ContactID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotFoundAndUnknownColumn(t *testing.T) {
	b, mock, _ := newBackendWithMock(t)

	mock.ExpectQuery(`UPDATE\s+contacts`).WithArgs("u1", "nope", "x").
		WillReturnRows(sqlmock.NewRows(contactCols))

	_, err := b.Contacts("u1").Update(context.Background(), "nope", remote.Patch{"email": "x"})
	require.ErrorIs(t, err, remote.ErrNotFound)

	_, err = b.Contacts("u1").Update(context.Background(), "c-1", remote.Patch{"user_id": "u2"})
	require.ErrorIs(t, err, remote.ErrUnknownColumn)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		b, mock, _ := newBackendWithMock(t)
		mock.ExpectExec(`^DELETE\s+FROM\s+contacts\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+id::text\s*=\s*\$2$`).
			WithArgs("u1", "c-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, b.Contacts("u1").Delete(context.Background(), "c-1"))
	})

	t.Run("other user's row", func(t *testing.T) {
		b, mock, _ := newBackendWithMock(t)
		mock.ExpectExec(`DELETE\s+FROM\s+contacts`).
			WithArgs("u2", "c-1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		require.ErrorIs(t, b.Contacts("u2").Delete(context.Background(), "c-1"), remote.ErrNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		b, mock, _ := newBackendWithMock(t)
		mock.ExpectExec(`DELETE`).WillReturnError(errors.New("boom"))
		require.ErrorContains(t, b.Contacts("u1").Delete(context.Background(), "c-1"), "delete contacts: boom")
	})
}

func contactInsertRow(id string) *sqlmock.Rows {
	return sqlmock.NewRows(contactCols).
		AddRow(id, "u1", "n", nil, nil, nil, nil, nil, []byte(`[]`), nil, nil, nil, nil, []byte(`{}`), ts, ts)
}

func TestBulkCreate_CommitsAllInOneTransaction(t *testing.T) {
	b, mock, _ := newBackendWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT\s+INTO\s+contacts`).WillReturnRows(contactInsertRow("c-1"))
	mock.ExpectQuery(`INSERT\s+INTO\s+contacts`).WillReturnRows(contactInsertRow("c-2"))
	mock.ExpectCommit()

	got, err := b.Contacts("u1").BulkCreate(context.Background(), []models.ContactRow{{Name: "a"}, {Name: "b"}})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c-2", got[1].ID)
	assert.Equal(t, []string{}, got[0].Tags)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkCreate_RollsBackOnError(t *testing.T) {
	b, mock, _ := newBackendWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT\s+INTO\s+contacts`).WillReturnRows(contactInsertRow("c-1"))
	mock.ExpectQuery(`INSERT\s+INTO\s+contacts`).WillReturnError(errors.New("constraint"))
	mock.ExpectRollback()

	got, err := b.Contacts("u1").BulkCreate(context.Background(), []models.ContactRow{{Name: "a"}, {Name: "b"}})
	require.ErrorContains(t, err, "insert contacts: constraint")
	assert.Nil(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkCreate_EmptyIsNoop(t *testing.T) {
	b, mock, _ := newBackendWithMock(t)

	got, err := b.Appointments("u1").BulkCreate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClose_OnlyOwnedPool(t *testing.T) {
	b, mock, _ := newBackendWithMock(t)
	require.NoError(t, b.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}
