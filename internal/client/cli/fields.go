package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/crmdesk/internal/client/fields"
)

// Fields prints the contact form schema.
func (a *App) Fields(ctx context.Context) error {
	for _, f := range a.ws.Fields.Get() {
		flags := []string{}
		if f.IsSystem {
			flags = append(flags, "system")
		}
		if f.Required {
			flags = append(flags, "required")
		}
		if !f.Visible {
			flags = append(flags, "hidden")
		}
		a.printf("%3d  %-16s %-20s %-9s %s\n", f.Order, f.ID, f.Label, f.Type, strings.Join(flags, ","))
	}
	return nil
}

// AddField prompts for a custom field.
func (a *App) AddField(ctx context.Context) error {
	label, err := getSimpleText(a.reader, "Field label", a.out)
	if err != nil {
		return err
	}
	kind, err := getSimpleText(a.reader, "Type (text, email, phone, select, date, checkbox, file, custom)", a.out)
	if err != nil {
		return err
	}
	e := fields.Entry{Label: label, Type: fields.Type(kind), Visible: true}
	if e.Type == fields.TypeSelect {
		opts, err := getSimpleText(a.reader, "Options (comma separated)", a.out)
		if err != nil {
			return err
		}
		e.Options = splitList(opts)
	}

	added, err := a.ws.Fields.AddCustom(ctx, e)
	if err != nil {
		a.printf("Field not added: %v\n", err)
		return err
	}
	a.printf("Added field %s\n", added.ID)
	return nil
}

// DelField removes the custom field given as the first argument.
func (a *App) DelField(ctx context.Context, args []string) error {
	id, err := a.idArg(args, "Field id")
	if err != nil {
		return err
	}
	ok, err := a.ws.Fields.DeleteCustom(ctx, id)
	if err != nil {
		a.printf("Field not removed: %v\n", err)
		return err
	}
	if !ok {
		a.printf("%s is a system field or does not exist\n", id)
		return nil
	}
	a.printf("Removed field %s\n", id)
	return nil
}
