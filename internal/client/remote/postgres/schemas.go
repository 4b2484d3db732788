package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/crmdesk/internal/client/models"
	"github.com/dmitrijs2005/crmdesk/internal/client/remote"
)

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullBool(nb sql.NullBool) *bool {
	if !nb.Valid {
		return nil
	}
	b := nb.Bool
	return &b
}

func decodeJSON(col string, raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", col, err)
	}
	return nil
}

var contactSchema = schema[models.ContactRow]{
	table:   remote.CollectionContacts,
	columns: remote.ContactColumns,
	jsonb:   map[string]bool{"tags": true, "custom_fields": true},
	values: func(r models.ContactRow) []any {
		return []any{
			r.Name, r.FirstName, r.LastName, r.Email, r.Phone, r.ContactType, r.Tags,
			r.Initials, r.AvatarColor, r.TimeZone, r.DNDAllChannels, r.CustomFields,
		}
	},
	scan: func(sc scanner) (models.ContactRow, error) {
		var (
			r                                models.ContactRow
			first, last, email, phone, ctype sql.NullString
			initials, color, tz              sql.NullString
			dnd                              sql.NullBool
			tags, custom                     []byte
		)
		err := sc.Scan(&r.ID, &r.UserID, &r.Name, &first, &last, &email, &phone, &ctype, &tags,
			&initials, &color, &tz, &dnd, &custom, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return r, err
		}
		r.FirstName, r.LastName = nullString(first), nullString(last)
		r.Email, r.Phone = nullString(email), nullString(phone)
		r.ContactType, r.Initials = nullString(ctype), nullString(initials)
		r.AvatarColor, r.TimeZone = nullString(color), nullString(tz)
		r.DNDAllChannels = nullBool(dnd)
		if err := decodeJSON("tags", tags, &r.Tags); err != nil {
			return r, err
		}
		return r, decodeJSON("custom_fields", custom, &r.CustomFields)
	},
}

var calendarSchema = schema[models.CalendarRow]{
	table:   remote.CollectionCalendars,
	columns: remote.CalendarColumns,
	jsonb:   map[string]bool{"settings": true},
	values: func(r models.CalendarRow) []any {
		return []any{r.Name, r.Description, r.Color, r.IsActive, r.Settings}
	},
	scan: func(sc scanner) (models.CalendarRow, error) {
		var (
			r                  models.CalendarRow
			description, color sql.NullString
			active             sql.NullBool
			settings           []byte
		)
		err := sc.Scan(&r.ID, &r.UserID, &r.Name, &description, &color, &active, &settings,
			&r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return r, err
		}
		r.Description, r.Color = nullString(description), nullString(color)
		r.IsActive = nullBool(active)
		return r, decodeJSON("settings", settings, &r.Settings)
	},
}

var appointmentSchema = schema[models.AppointmentRow]{
	table:   remote.CollectionAppointments,
	columns: remote.AppointmentColumns,
	values: func(r models.AppointmentRow) []any {
		return []any{
			r.Title, r.Description, r.StartTime, r.EndTime, r.Status,
			r.ContactID, r.CalendarID, r.Location,
		}
	},
	scan: func(sc scanner) (models.AppointmentRow, error) {
		var (
			r                                      models.AppointmentRow
			description, status, contact, location sql.NullString
		)
		err := sc.Scan(&r.ID, &r.UserID, &r.Title, &description, &r.StartTime, &r.EndTime, &status,
			&contact, &r.CalendarID, &location, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return r, err
		}
		r.Description, r.Status = nullString(description), nullString(status)
		r.ContactID, r.Location = nullString(contact), nullString(location)
		return r, nil
	},
}
