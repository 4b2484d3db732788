package mappers

import (
	"github.com/dmitrijs2005/crmdesk/internal/client/models"
	"github.com/dmitrijs2005/crmdesk/internal/client/remote"
)

func CalendarToApp(r models.CalendarRow) models.Calendar {
	s := models.CalendarSettingsRow{}
	if r.Settings != nil {
		s = *r.Settings
	}
	return models.Calendar{
		ID:          r.ID,
		Name:        r.Name,
		Description: deref(r.Description, ""),
		Color:       orDefault(deref(r.Color, ""), DefaultCalendarColor),
		IsActive:    deref(r.IsActive, true),
		Settings: models.CalendarSettings{
			Type:          models.CalendarType(orDefault(deref(s.Type, ""), string(DefaultCalendarType))),
			StaffIDs:      append([]string{}, s.StaffIDs...),
			GroupID:       deref(s.GroupID, ""),
			LocationType:  deref(s.LocationType, ""),
			LocationValue: deref(s.LocationValue, ""),
			Duration:      orDefault(deref(s.Duration, 0), DefaultCalendarDuration),
			Availability:  s.Availability.Clone(),
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func CalendarToRemote(c models.Calendar) models.CalendarRow {
	return models.CalendarRow{
		ID:          c.ID,
		Name:        c.Name,
		Description: ref(c.Description),
		Color:       ref(c.Color),
		IsActive:    ref(c.IsActive),
		Settings:    settingsToRemote(c.Settings),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func settingsToRemote(s models.CalendarSettings) *models.CalendarSettingsRow {
	return &models.CalendarSettingsRow{
		Type:          ref(string(s.Type)),
		StaffIDs:      append([]string{}, s.StaffIDs...),
		GroupID:       ref(s.GroupID),
		LocationType:  ref(s.LocationType),
		LocationValue: ref(s.LocationValue),
		Duration:      ref(s.Duration),
		Availability:  s.Availability.Clone(),
	}
}

func CalendarPatchToRemote(p models.CalendarPatch) remote.Patch {
	out := remote.Patch{}
	putIf(out, "name", p.Name)
	putIf(out, "description", p.Description)
	putIf(out, "color", p.Color)
	putIf(out, "is_active", p.IsActive)
	if p.Settings != nil {
		out["settings"] = settingsToRemote(*p.Settings)
	}
	return out
}

// NewCalendar fills defaulted fields of a calendar submitted for creation.
func NewCalendar(in models.Calendar) models.Calendar {
	c := in.Clone()
	c.Color = orDefault(c.Color, DefaultCalendarColor)
	c.Settings.Type = orDefault(c.Settings.Type, DefaultCalendarType)
	c.Settings.Duration = orDefault(c.Settings.Duration, DefaultCalendarDuration)
	return c
}
