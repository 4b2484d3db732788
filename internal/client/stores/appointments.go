package stores

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/crmdesk/internal/client/mappers"
	"github.com/dmitrijs2005/crmdesk/internal/client/models"
	"github.com/dmitrijs2005/crmdesk/internal/client/remote"
)

// ErrInvalidStatus rejects an unknown appointment status.
var ErrInvalidStatus = errors.New("invalid appointment status")

// AppointmentStore keeps appointments sorted by start time.
type AppointmentStore struct {
	*Store[models.Appointment, models.AppointmentRow, models.AppointmentPatch]
}

func byStart(items []models.Appointment) {
	sortStableBy(items, func(a, b models.Appointment) int { return a.Start.Compare(b.Start) })
}

var appointmentKind = kind[models.Appointment, models.AppointmentRow, models.AppointmentPatch]{
	collection: remote.CollectionAppointments,
	table: func(b remote.Backend, userID string) remote.Table[models.AppointmentRow] {
		return b.Appointments(userID)
	},
	toApp:         mappers.AppointmentToApp,
	toRemote:      mappers.AppointmentToRemote,
	patchToRemote: mappers.AppointmentPatchToRemote,
	applyPatch:    models.AppointmentPatch.Apply,
	prepare:       mappers.NewAppointment,
	id:            func(a models.Appointment) string { return a.ID },
	localize: func(a models.Appointment, id string, now time.Time) models.Appointment {
		a.ID, a.CreatedAt, a.UpdatedAt = id, now, now
		return a
	},
	clone: models.Appointment.Clone,
	insert: func(items []models.Appointment, a models.Appointment) []models.Appointment {
		items = append(items, a)
		byStart(items)
		return items
	},
	order:   byStart,
	reorder: byStart,
	seed:    func(time.Time) []models.Appointment { return []models.Appointment{} },
}

func NewAppointmentStore(deps Deps) *AppointmentStore {
	return &AppointmentStore{Store: newStore(appointmentKind, deps)}
}

// ForContact returns the appointments linked to contactID.
func (s *AppointmentStore) ForContact(contactID string) []models.Appointment {
	return s.Filter(func(a models.Appointment) bool { return a.ContactID == contactID })
}

// ForCalendar returns the appointments booked on calendarID.
func (s *AppointmentStore) ForCalendar(calendarID string) []models.Appointment {
	return s.Filter(func(a models.Appointment) bool { return a.CalendarID == calendarID })
}

// Between returns the appointments starting in [from, to).
func (s *AppointmentStore) Between(from, to time.Time) []models.Appointment {
	return s.Filter(func(a models.Appointment) bool {
		return !a.Start.Before(from) && a.Start.Before(to)
	})
}

// SetStatus moves an appointment to status.
func (s *AppointmentStore) SetStatus(ctx context.Context, id string, status models.AppointmentStatus) (models.Appointment, Outcome, error) {
	if !status.Valid() {
		err := fmt.Errorf("%w: %q", ErrInvalidStatus, status)
		return models.Appointment{}, Outcome{Kind: NotApplied, Reason: err}, err
	}
	return s.Update(ctx, id, models.AppointmentPatch{Status: &status})
}
