package stores

import (
	"context"
	"time"

	"github.com/dmitrijs2005/crmdesk/internal/client/mappers"
	"github.com/dmitrijs2005/crmdesk/internal/client/models"
	"github.com/dmitrijs2005/crmdesk/internal/client/remote"
)

// CalendarStore keeps calendars in creation order.
type CalendarStore struct {
	*Store[models.Calendar, models.CalendarRow, models.CalendarPatch]
}

// DefaultCalendar is the calendar a fresh local workspace starts with.
func DefaultCalendar(now time.Time) models.Calendar {
	return models.Calendar{
		ID:       "local_default_calendar",
		Name:     "General",
		Color:    mappers.DefaultCalendarColor,
		IsActive: true,
		Settings: models.CalendarSettings{
			Type:         mappers.DefaultCalendarType,
			StaffIDs:     []string{},
			Duration:     mappers.DefaultCalendarDuration,
			Availability: models.Availability{},
		},
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

var calendarKind = kind[models.Calendar, models.CalendarRow, models.CalendarPatch]{
	collection: remote.CollectionCalendars,
	table: func(b remote.Backend, userID string) remote.Table[models.CalendarRow] {
		return b.Calendars(userID)
	},
	toApp:         mappers.CalendarToApp,
	toRemote:      mappers.CalendarToRemote,
	patchToRemote: mappers.CalendarPatchToRemote,
	applyPatch:    models.CalendarPatch.Apply,
	prepare:       mappers.NewCalendar,
	id:            func(c models.Calendar) string { return c.ID },
	localize: func(c models.Calendar, id string, now time.Time) models.Calendar {
		c.ID, c.CreatedAt, c.UpdatedAt = id, now, now
		return c
	},
	clone: models.Calendar.Clone,
	insert: func(items []models.Calendar, c models.Calendar) []models.Calendar {
		return append(items, c)
	},
	seed: func(now time.Time) []models.Calendar {
		return []models.Calendar{DefaultCalendar(now)}
	},
}

func NewCalendarStore(deps Deps) *CalendarStore {
	return &CalendarStore{Store: newStore(calendarKind, deps)}
}

// SetActive switches a calendar on or off for booking.
func (s *CalendarStore) SetActive(ctx context.Context, id string, active bool) (models.Calendar, Outcome, error) {
	return s.Update(ctx, id, models.CalendarPatch{IsActive: &active})
}

// Active returns the calendars open for booking.
func (s *CalendarStore) Active() []models.Calendar {
	return s.Filter(func(c models.Calendar) bool { return c.IsActive })
}
