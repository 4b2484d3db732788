package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/crmdesk/internal/client/importer"
	"github.com/dmitrijs2005/crmdesk/internal/client/models"
)

// Contacts lists contacts. Arguments are a free-text query; a "#tag"
// argument filters by tag.
func (a *App) Contacts(ctx context.Context, args []string) error {
	var query []string
	tag := ""
	for _, arg := range args {
		if t, ok := strings.CutPrefix(arg, "#"); ok {
			tag = t
			continue
		}
		query = append(query, arg)
	}

	list := a.ws.Contacts.Search(strings.Join(query, " "), tag)
	if len(list) == 0 {
		a.printf("No contacts\n")
		return nil
	}
	for _, c := range list {
		a.printf("%-40s  %-3s %-24s %-24s %s\n", c.ID, c.Initials, c.Name, c.Email, strings.Join(c.Tags, ","))
	}
	return nil
}

// AddContact prompts for a contact, including the custom fields of the
// current field schema.
func (a *App) AddContact(ctx context.Context) error {
	var c models.Contact
	prompts := []struct {
		label string
		dst   *string
	}{
		{"First name", &c.FirstName},
		{"Last name", &c.LastName},
		{"Email", &c.Email},
		{"Phone", &c.Phone},
	}
	for _, p := range prompts {
		v, err := getSimpleText(a.reader, p.label, a.out)
		if err != nil {
			return err
		}
		*p.dst = v
	}
	if c.FirstName == "" {
		a.printf("First name is required\n")
		return errors.New("first name is required")
	}

	tags, err := getSimpleText(a.reader, "Tags (comma separated)", a.out)
	if err != nil {
		return err
	}
	c.Tags = splitList(tags)

	c.CustomFields = models.CustomFields{}
	for _, f := range a.ws.Fields.Visible() {
		if f.IsSystem {
			continue
		}
		v, err := getSimpleText(a.reader, f.Label, a.out)
		if err != nil {
			return err
		}
		if v != "" {
			c.CustomFields.SetString(f.ID, v)
		}
	}

	created, out, err := a.ws.Contacts.Create(ctx, c)
	if err != nil {
		a.printf("Contact not saved: %v\n", err)
		return err
	}
	a.report(fmt.Sprintf("contact %s (%s)", created.Name, created.ID), out)
	return nil
}

// EditContact changes name, email, phone or tags of the contact given as
// the first argument. Empty answers keep the current value.
func (a *App) EditContact(ctx context.Context, args []string) error {
	id, err := a.idArg(args, "Contact id")
	if err != nil {
		return err
	}
	cur, ok := a.ws.Contacts.Get(id)
	if !ok {
		a.printf("No contact %s\n", id)
		return fmt.Errorf("contact %s not found", id)
	}

	var p models.ContactPatch
	ask := func(label, current string, dst **string) error {
		v, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", label, current), a.out)
		if err != nil {
			return err
		}
		if v != "" && v != current {
			*dst = &v
		}
		return nil
	}
	if err := ask("First name", cur.FirstName, &p.FirstName); err != nil {
		return err
	}
	if err := ask("Last name", cur.LastName, &p.LastName); err != nil {
		return err
	}
	if err := ask("Email", cur.Email, &p.Email); err != nil {
		return err
	}
	if err := ask("Phone", cur.Phone, &p.Phone); err != nil {
		return err
	}
	tags, err := getSimpleText(a.reader, fmt.Sprintf("Tags [%s]", strings.Join(cur.Tags, ",")), a.out)
	if err != nil {
		return err
	}
	if tags != "" {
		p.Tags = splitList(tags)
	}

	updated, out, err := a.ws.Contacts.Update(ctx, id, p)
	if err != nil {
		a.printf("Contact not updated: %v\n", err)
		return err
	}
	a.report("contact "+updated.Name, out)
	return nil
}

// DeleteContact removes the contact given as the first argument.
func (a *App) DeleteContact(ctx context.Context, args []string) error {
	id, err := a.idArg(args, "Contact id")
	if err != nil {
		return err
	}
	out, err := a.ws.Contacts.Delete(ctx, id)
	if err != nil {
		a.printf("Contact not deleted: %v\n", err)
		return err
	}
	a.report("contact deleted", out)
	return nil
}

// Import bulk-loads contacts from a CSV or vCard file, printing progress.
func (a *App) Import(ctx context.Context, args []string) error {
	path, err := a.idArg(args, "File to import (.csv or .vcf)")
	if err != nil {
		return err
	}
	contacts, err := importer.ParseFile(path)
	if err != nil {
		a.printf("Import failed: %v\n", err)
		return err
	}

	n, err := a.ws.Contacts.BulkImport(ctx, contacts, func(p int) {
		a.printf("\rimporting... %3d%%", p)
	})
	a.printf("\n")
	if err != nil {
		a.printf("Import stopped after %d contacts: %v\n", n, err)
		return err
	}
	a.printf("Imported %d contacts\n", n)
	return nil
}

// idArg returns args[0] or prompts for it.
func (a *App) idArg(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	v, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", errors.New("nothing entered")
	}
	return v, nil
}
