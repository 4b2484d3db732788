package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/crmdesk/internal/client/models"
)

// timeLayout is how appointment times are entered and shown.
const timeLayout = "2006-01-02 15:04"

// Calendars lists calendars.
func (a *App) Calendars(ctx context.Context) error {
	list := a.ws.Calendars.Items()
	if len(list) == 0 {
		a.printf("No calendars\n")
		return nil
	}
	for _, c := range list {
		state := "active"
		if !c.IsActive {
			state = "inactive"
		}
		a.printf("%-40s  %-20s %-12s %3d min  %s\n", c.ID, c.Name, c.Settings.Type, c.Settings.Duration, state)
	}
	return nil
}

// AddCalendar prompts for a calendar.
func (a *App) AddCalendar(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Calendar name", a.out)
	if err != nil {
		return err
	}
	if name == "" {
		a.printf("Name is required\n")
		return fmt.Errorf("calendar name is required")
	}
	kind, err := getSimpleText(a.reader, "Type (personal, round_robin, collective, class, service_menu)", a.out)
	if err != nil {
		return err
	}
	minutes, err := getSimpleText(a.reader, "Slot duration in minutes", a.out)
	if err != nil {
		return err
	}

	c := models.Calendar{Name: name, IsActive: true}
	c.Settings.Type = models.CalendarType(strings.TrimSpace(kind))
	if minutes != "" {
		d, err := strconv.Atoi(minutes)
		if err != nil || d <= 0 {
			a.printf("Duration must be a positive number\n")
			return fmt.Errorf("bad duration %q", minutes)
		}
		c.Settings.Duration = d
	}

	created, out, err := a.ws.Calendars.Create(ctx, c)
	if err != nil {
		a.printf("Calendar not saved: %v\n", err)
		return err
	}
	a.report(fmt.Sprintf("calendar %s (%s)", created.Name, created.ID), out)
	return nil
}

// Appointments lists appointments; an optional argument restricts the list
// to one contact.
func (a *App) Appointments(ctx context.Context, args []string) error {
	list := a.ws.Appointments.Items()
	if len(args) > 0 {
		list = a.ws.Appointments.ForContact(args[0])
	}
	if len(list) == 0 {
		a.printf("No appointments\n")
		return nil
	}
	for _, ap := range list {
		a.printf("%-40s  %s-%s  %-10s %s\n", ap.ID,
			ap.Start.Local().Format(timeLayout), ap.End.Local().Format("15:04"), ap.Status, ap.Title)
	}
	return nil
}

// Book prompts for an appointment. The calendar defaults to the first
// active one and the length to its slot duration.
func (a *App) Book(ctx context.Context) error {
	active := a.ws.Calendars.Active()
	if len(active) == 0 {
		a.printf("No active calendar, add one with addcalendar\n")
		return fmt.Errorf("no active calendar")
	}

	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	when, err := getSimpleText(a.reader, "Start ("+timeLayout+")", a.out)
	if err != nil {
		return err
	}
	start, err := time.ParseInLocation(timeLayout, when, time.Local)
	if err != nil {
		a.printf("Bad time, expected %s\n", timeLayout)
		return err
	}
	calID, err := getSimpleText(a.reader, fmt.Sprintf("Calendar id [%s]", active[0].ID), a.out)
	if err != nil {
		return err
	}
	cal := active[0]
	if calID != "" {
		c, ok := a.ws.Calendars.Get(calID)
		if !ok {
			a.printf("No calendar %s\n", calID)
			return fmt.Errorf("calendar %s not found", calID)
		}
		cal = c
	}
	contactID, err := getSimpleText(a.reader, "Contact id (optional)", a.out)
	if err != nil {
		return err
	}

	ap := models.Appointment{
		Title:      title,
		Start:      start.UTC(),
		End:        start.UTC().Add(time.Duration(cal.Settings.Duration) * time.Minute),
		ContactID:  contactID,
		CalendarID: cal.ID,
	}
	created, out, err := a.ws.Appointments.Create(ctx, ap)
	if err != nil {
		a.printf("Appointment not saved: %v\n", err)
		return err
	}
	a.report(fmt.Sprintf("appointment %s (%s)", created.Title, created.ID), out)
	return nil
}
