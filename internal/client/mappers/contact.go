package mappers

import (
	"strings"
	"unicode"

	"github.com/dmitrijs2005/crmdesk/internal/client/models"
	"github.com/dmitrijs2005/crmdesk/internal/client/remote"
)

// ContactToApp maps a remote row to a contact.
func ContactToApp(r models.ContactRow) models.Contact {
	c := models.Contact{
		ID:             r.ID,
		Name:           r.Name,
		FirstName:      deref(r.FirstName, ""),
		LastName:       deref(r.LastName, ""),
		Email:          deref(r.Email, ""),
		Phone:          deref(r.Phone, ""),
		ContactType:    models.ContactType(orDefault(deref(r.ContactType, ""), string(DefaultContactType))),
		Tags:           append([]string{}, r.Tags...),
		Initials:       deref(r.Initials, ""),
		AvatarColor:    orDefault(deref(r.AvatarColor, ""), DefaultAvatarColor),
		TimeZone:       orDefault(deref(r.TimeZone, ""), DefaultTimeZone),
		DNDAllChannels: deref(r.DNDAllChannels, false),
		CustomFields:   r.CustomFields.Clone(),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if c.Name == "" {
		c.Name = DisplayName(c.FirstName, c.LastName)
	}
	if c.Initials == "" {
		c.Initials = Initials(c.FirstName, c.LastName, c.Name)
	}
	return c
}

// ContactToRemote maps a contact to a remote row.
func ContactToRemote(c models.Contact) models.ContactRow {
	return models.ContactRow{
		ID:             c.ID,
		Name:           c.Name,
		FirstName:      ref(c.FirstName),
		LastName:       ref(c.LastName),
		Email:          ref(c.Email),
		Phone:          ref(c.Phone),
		ContactType:    ref(string(c.ContactType)),
		Tags:           append([]string{}, c.Tags...),
		Initials:       ref(c.Initials),
		AvatarColor:    ref(c.AvatarColor),
		TimeZone:       ref(c.TimeZone),
		DNDAllChannels: ref(c.DNDAllChannels),
		CustomFields:   c.CustomFields.Clone(),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ContactPatchToRemote maps the set fields of p to columns.
func ContactPatchToRemote(p models.ContactPatch) remote.Patch {
	out := remote.Patch{}
	putIf(out, "name", p.Name)
	putIf(out, "first_name", p.FirstName)
	putIf(out, "last_name", p.LastName)
	putIf(out, "email", p.Email)
	putIf(out, "phone", p.Phone)
	if p.ContactType != nil {
		out["contact_type"] = string(*p.ContactType)
	}
	if p.Tags != nil {
		out["tags"] = append([]string{}, p.Tags...)
	}
	putIf(out, "initials", p.Initials)
	putIf(out, "avatar_color", p.AvatarColor)
	putIf(out, "time_zone", p.TimeZone)
	putIf(out, "dnd_all_channels", p.DNDAllChannels)
	if p.CustomFields != nil {
		out["custom_fields"] = p.CustomFields.Clone()
	}
	return out
}

// NewContact fills the derived and defaulted fields of a contact submitted
// for creation. A bare Name is split into first and last name.
func NewContact(in models.Contact) models.Contact {
	c := in.Clone()
	if c.FirstName == "" && c.LastName == "" && c.Name != "" {
		parts := strings.Fields(c.Name)
		c.FirstName = parts[0]
		c.LastName = strings.Join(parts[1:], " ")
	}
	if c.Name == "" {
		c.Name = DisplayName(c.FirstName, c.LastName)
	}
	if c.Initials == "" {
		c.Initials = Initials(c.FirstName, c.LastName, c.Name)
	}
	c.ContactType = orDefault(c.ContactType, DefaultContactType)
	c.AvatarColor = orDefault(c.AvatarColor, DefaultAvatarColor)
	c.TimeZone = orDefault(c.TimeZone, DefaultTimeZone)
	return c
}

// CompleteContactPatch adds the derived fields a name change implies: the
// display name (unless p sets it) and the initials (unless p sets them).
func CompleteContactPatch(current models.Contact, p models.ContactPatch) models.ContactPatch {
	if !p.TouchesName() {
		return p
	}
	next := p.Apply(current)
	if p.Name == nil && (p.FirstName != nil || p.LastName != nil) {
		if n := DisplayName(next.FirstName, next.LastName); n != "" {
			p.Name = ref(n)
			next.Name = n
		}
	}
	if p.Initials == nil {
		p.Initials = ref(Initials(next.FirstName, next.LastName, next.Name))
	}
	return p
}

// DisplayName joins the non-empty name parts.
func DisplayName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

// Initials returns the upper-cased first letters of first and last name.
// Without name parts it uses the first letters of the first and last word
// of name, or the first two letters of a single-word name.
func Initials(first, last, name string) string {
	var out []rune
	if r, ok := firstLetter(first); ok {
		out = append(out, r)
	}
	if r, ok := firstLetter(last); ok {
		out = append(out, r)
	}
	if len(out) == 0 {
		words := strings.Fields(name)
		switch {
		case len(words) >= 2:
			for _, w := range []string{words[0], words[len(words)-1]} {
				if r, ok := firstLetter(w); ok {
					out = append(out, r)
				}
			}
		case len(words) == 1:
			out = []rune(words[0])
			if len(out) > 2 {
				out = out[:2]
			}
		}
	}
	return strings.ToUpper(string(out))
}

func firstLetter(s string) (rune, bool) {
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsSpace(r) {
			continue
		}
		return r, true
	}
	return 0, false
}

func putIf[T any](p remote.Patch, col string, v *T) {
	if v != nil {
		p[col] = *v
	}
}
