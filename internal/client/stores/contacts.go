package stores

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/crmdesk/internal/client/mappers"
	"github.com/dmitrijs2005/crmdesk/internal/client/models"
	"github.com/dmitrijs2005/crmdesk/internal/client/remote"
)

// ContactStore keeps contacts newest first and supports bulk import.
type ContactStore struct {
	*Store[models.Contact, models.ContactRow, models.ContactPatch]
	bulk BulkOptions
}

var contactKind = kind[models.Contact, models.ContactRow, models.ContactPatch]{
	collection: remote.CollectionContacts,
	table: func(b remote.Backend, userID string) remote.Table[models.ContactRow] {
		return b.Contacts(userID)
	},
	toApp:         mappers.ContactToApp,
	toRemote:      mappers.ContactToRemote,
	patchToRemote: mappers.ContactPatchToRemote,
	applyPatch:    models.ContactPatch.Apply,
	prepare:       mappers.NewContact,
	completePatch: mappers.CompleteContactPatch,
	id:            func(c models.Contact) string { return c.ID },
	localize: func(c models.Contact, id string, now time.Time) models.Contact {
		c.ID, c.CreatedAt, c.UpdatedAt = id, now, now
		return c
	},
	clone: models.Contact.Clone,
	insert: func(items []models.Contact, c models.Contact) []models.Contact {
		return append([]models.Contact{c}, items...)
	},
	order: func(items []models.Contact) {
		sortStableBy(items, func(a, b models.Contact) int { return b.CreatedAt.Compare(a.CreatedAt) })
	},
	seed: func(time.Time) []models.Contact { return []models.Contact{} },
}

func NewContactStore(deps Deps, bulk BulkOptions) *ContactStore {
	return &ContactStore{Store: newStore(contactKind, deps), bulk: bulk}
}

// BulkImport adds contacts in chunks, reporting progress after each chunk.
// See bulkInsert for the consistency rules.
func (s *ContactStore) BulkImport(ctx context.Context, in []models.Contact, progress Progress) (int, error) {
	return s.bulkInsert(ctx, in, s.bulk, progress)
}

// Search returns contacts whose name, email, phone or tags contain query
// (case-insensitive) and that carry tag when tag is not empty.
func (s *ContactStore) Search(query, tag string) []models.Contact {
	q := strings.ToLower(strings.TrimSpace(query))
	return s.Filter(func(c models.Contact) bool {
		if tag != "" && !c.HasTag(tag) {
			return false
		}
		if q == "" {
			return true
		}
		for _, field := range append([]string{c.Name, c.FirstName, c.LastName, c.Email, c.Phone}, c.Tags...) {
			if strings.Contains(strings.ToLower(field), q) {
				return true
			}
		}
		return false
	})
}
