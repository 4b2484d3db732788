package models

import (
	"slices"
	"time"
)

// ContactType classifies a contact in the sales funnel.
type ContactType string

const (
	ContactTypeLead     ContactType = "lead"
	ContactTypeCustomer ContactType = "customer"
	ContactTypePartner  ContactType = "partner"
	ContactTypeVendor   ContactType = "vendor"
)

// Contact is the application shape of a contact.
type Contact struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	FirstName      string       `json:"firstName"`
	LastName       string       `json:"lastName"`
	Email          string       `json:"email"`
	Phone          string       `json:"phone"`
	ContactType    ContactType  `json:"contactType"`
	Tags           []string     `json:"tags"`
	Initials       string       `json:"initials"`
	AvatarColor    string       `json:"avatarColor"`
	TimeZone       string       `json:"timeZone"`
	DNDAllChannels bool         `json:"dndAllChannels"`
	CustomFields   CustomFields `json:"customFields"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// Clone returns a deep copy of c.
func (c Contact) Clone() Contact {
	c.Tags = cloneStrings(c.Tags)
	c.CustomFields = c.CustomFields.Clone()
	return c
}

// HasTag reports whether c carries tag (case-sensitive).
func (c Contact) HasTag(tag string) bool {
	return slices.Contains(c.Tags, tag)
}

// ContactRow is the remote shape of a contact. Pointer fields are nullable
// columns.
type ContactRow struct {
	ID             string       `json:"id"`
	UserID         string       `json:"user_id,omitempty"`
	Name           string       `json:"name"`
	FirstName      *string      `json:"first_name"`
	LastName       *string      `json:"last_name"`
	Email          *string      `json:"email"`
	Phone          *string      `json:"phone"`
	ContactType    *string      `json:"contact_type"`
	Tags           []string     `json:"tags"`
	Initials       *string      `json:"initials"`
	AvatarColor    *string      `json:"avatar_color"`
	TimeZone       *string      `json:"time_zone"`
	DNDAllChannels *bool        `json:"dnd_all_channels"`
	CustomFields   CustomFields `json:"custom_fields"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (r ContactRow) RowID() string { return r.ID }

// ContactPatch is a partial update. Nil fields are left unchanged.
type ContactPatch struct {
	Name           *string
	FirstName      *string
	LastName       *string
	Email          *string
	Phone          *string
	ContactType    *ContactType
	Tags           []string
	Initials       *string
	AvatarColor    *string
	TimeZone       *string
	DNDAllChannels *bool
	CustomFields   CustomFields
}

// TouchesName reports whether p changes any name part.
func (p ContactPatch) TouchesName() bool {
	return p.Name != nil || p.FirstName != nil || p.LastName != nil
}

// Apply returns c with p applied. Tags and CustomFields replace the old
// values wholesale when non-nil.
func (p ContactPatch) Apply(c Contact) Contact {
	c = c.Clone()
	setIf(&c.Name, p.Name)
	setIf(&c.FirstName, p.FirstName)
	setIf(&c.LastName, p.LastName)
	setIf(&c.Email, p.Email)
	setIf(&c.Phone, p.Phone)
	setIf(&c.ContactType, p.ContactType)
	if p.Tags != nil {
		c.Tags = cloneStrings(p.Tags)
	}
	setIf(&c.Initials, p.Initials)
	setIf(&c.AvatarColor, p.AvatarColor)
	setIf(&c.TimeZone, p.TimeZone)
	setIf(&c.DNDAllChannels, p.DNDAllChannels)
	if p.CustomFields != nil {
		c.CustomFields = p.CustomFields.Clone()
	}
	return c
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
