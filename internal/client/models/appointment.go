package models

import "time"

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Appointment is the application shape of an appointment. An empty
// ContactID means the appointment is not linked to a contact.
type Appointment struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Start       time.Time         `json:"startTime"`
	End         time.Time         `json:"endTime"`
	Status      AppointmentStatus `json:"status"`
	ContactID   string            `json:"contactId"`
	CalendarID  string            `json:"calendarId"`
	Location    string            `json:"location"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func (a Appointment) Clone() Appointment { return a }

// AppointmentRow is the remote shape of an appointment.
type AppointmentRow struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id,omitempty"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      *string   `json:"status"`
	ContactID   *string   `json:"contact_id"`
	CalendarID  string    `json:"calendar_id"`
	Location    *string   `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (r AppointmentRow) RowID() string { return r.ID }

// AppointmentPatch is a partial update. A non-nil ContactID pointing at ""
// unlinks the contact.
type AppointmentPatch struct {
	Title       *string
	Description *string
	Start       *time.Time
	End         *time.Time
	Status      *AppointmentStatus
	ContactID   *string
	CalendarID  *string
	Location    *string
}

func (p AppointmentPatch) Apply(a Appointment) Appointment {
	setIf(&a.Title, p.Title)
	setIf(&a.Description, p.Description)
	setIf(&a.Start, p.Start)
	setIf(&a.End, p.End)
	setIf(&a.Status, p.Status)
	setIf(&a.ContactID, p.ContactID)
	setIf(&a.CalendarID, p.CalendarID)
	setIf(&a.Location, p.Location)
	return a
}
