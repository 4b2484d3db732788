package models

import "time"

// CalendarType is how a calendar assigns appointments to staff.
type CalendarType string

const (
	CalendarPersonal    CalendarType = "personal"
	CalendarRoundRobin  CalendarType = "round_robin"
	CalendarCollective  CalendarType = "collective"
	CalendarClass       CalendarType = "class"
	CalendarServiceMenu CalendarType = "service_menu"
)

// TimeSlot is an availability window in "HH:MM" local time.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Availability maps a lower-case weekday name to its open slots.
type Availability map[string][]TimeSlot

func (a Availability) Clone() Availability {
	out := make(Availability, len(a))
	for day, slots := range a {
		out[day] = append([]TimeSlot{}, slots...)
	}
	return out
}

// CalendarSettings is the booking configuration of a calendar.
type CalendarSettings struct {
	Type          CalendarType `json:"type"`
	StaffIDs      []string     `json:"staffIds"`
	GroupID       string       `json:"groupId"`
	LocationType  string       `json:"locationType"`
	LocationValue string       `json:"locationValue"`
	// Duration is the default slot length in minutes.
	Duration     int          `json:"duration"`
	Availability Availability `json:"availability"`
}

// Calendar is the application shape of a calendar.
type Calendar struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Color       string           `json:"color"`
	IsActive    bool             `json:"isActive"`
	Settings    CalendarSettings `json:"settings"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func (c Calendar) Clone() Calendar {
	c.Settings.StaffIDs = cloneStrings(c.Settings.StaffIDs)
	c.Settings.Availability = c.Settings.Availability.Clone()
	return c
}

// CalendarSettingsRow is the settings document as stored remotely. Every
// field may be absent.
type CalendarSettingsRow struct {
	Type          *string      `json:"type,omitempty"`
	StaffIDs      []string     `json:"staffIds,omitempty"`
	GroupID       *string      `json:"groupId,omitempty"`
	LocationType  *string      `json:"locationType,omitempty"`
	LocationValue *string      `json:"locationValue,omitempty"`
	Duration      *int         `json:"duration,omitempty"`
	Availability  Availability `json:"availability,omitempty"`
}

// CalendarRow is the remote shape of a calendar.
type CalendarRow struct {
	ID          string               `json:"id"`
	UserID      string               `json:"user_id,omitempty"`
	Name        string               `json:"name"`
	Description *string              `json:"description"`
	Color       *string              `json:"color"`
	IsActive    *bool                `json:"is_active"`
	Settings    *CalendarSettingsRow `json:"settings"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func (r CalendarRow) RowID() string { return r.ID }

// CalendarPatch is a partial update. Settings replaces the whole settings
// document when non-nil.
type CalendarPatch struct {
	Name        *string
	Description *string
	Color       *string
	IsActive    *bool
	Settings    *CalendarSettings
}

func (p CalendarPatch) Apply(c Calendar) Calendar {
	c = c.Clone()
	setIf(&c.Name, p.Name)
	setIf(&c.Description, p.Description)
	setIf(&c.Color, p.Color)
	setIf(&c.IsActive, p.IsActive)
	if p.Settings != nil {
		c.Settings = Calendar{Settings: *p.Settings}.Clone().Settings
	}
	return c
}
