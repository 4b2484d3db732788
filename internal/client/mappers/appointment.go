package mappers

import (
	"github.com/dmitrijs2005/crmdesk/internal/client/models"
	"github.com/dmitrijs2005/crmdesk/internal/client/remote"
)

func AppointmentToApp(r models.AppointmentRow) models.Appointment {
	return models.Appointment{
		ID:          r.ID,
		Title:       r.Title,
		Description: deref(r.Description, ""),
		Start:       r.StartTime,
		End:         r.EndTime,
		Status:      models.AppointmentStatus(orDefault(deref(r.Status, ""), string(DefaultStatus))),
		ContactID:   deref(r.ContactID, ""),
		CalendarID:  r.CalendarID,
		Location:    deref(r.Location, ""),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func AppointmentToRemote(a models.Appointment) models.AppointmentRow {
	return models.AppointmentRow{
		ID:          a.ID,
		Title:       a.Title,
		Description: ref(a.Description),
		StartTime:   a.Start,
		EndTime:     a.End,
		Status:      ref(string(a.Status)),
		ContactID:   contactRef(a.ContactID),
		CalendarID:  a.CalendarID,
		Location:    ref(a.Location),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// contactRef maps "no contact" to NULL.
func contactRef(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

func AppointmentPatchToRemote(p models.AppointmentPatch) remote.Patch {
	out := remote.Patch{}
	putIf(out, "title", p.Title)
	putIf(out, "description", p.Description)
	putIf(out, "start_time", p.Start)
	putIf(out, "end_time", p.End)
	if p.Status != nil {
		out["status"] = string(*p.Status)
	}
	if p.ContactID != nil {
		out["contact_id"] = contactRef(*p.ContactID)
	}
	putIf(out, "calendar_id", p.CalendarID)
	putIf(out, "location", p.Location)
	return out
}

// NewAppointment fills defaulted fields of an appointment submitted for
// creation.
func NewAppointment(in models.Appointment) models.Appointment {
	in.Status = orDefault(in.Status, DefaultStatus)
	return in
}
