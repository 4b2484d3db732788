package mappers

import "github.com/dmitrijs2005/crmdesk/internal/client/models"

// Defaults substituted for absent remote fields.
const (
	DefaultAvatarColor      = "#6366f1"
	DefaultCalendarColor    = "#3b82f6"
	DefaultCalendarType     = models.CalendarPersonal
	DefaultCalendarDuration = 30
	DefaultStatus           = models.StatusScheduled
	DefaultContactType      = models.ContactTypeLead
	DefaultTimeZone         = "UTC"
)

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

func ref[T any](v T) *T { return &v }

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
