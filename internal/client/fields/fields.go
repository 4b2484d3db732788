// Package fields manages the contact form schema: an ordered list of system
// and user-defined fields kept in the local cache only.
package fields

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/crmdesk/internal/client/localstore"
	"github.com/dmitrijs2005/crmdesk/internal/common"
	"github.com/dmitrijs2005/crmdesk/internal/logging"
)

// CacheKey is the global cache entry holding the schema.
const CacheKey = "field_config"

// PrimaryID is the field every schema must contain.
const PrimaryID = "firstName"

// Type is the input kind of a field.
type Type string

const (
	TypeText     Type = "text"
	TypeEmail    Type = "email"
	TypePhone    Type = "phone"
	TypeSelect   Type = "select"
	TypeDate     Type = "date"
	TypeCheckbox Type = "checkbox"
	TypeFile     Type = "file"
	TypeCustom   Type = "custom"
)

// Valid reports whether t is a known field type.
func (t Type) Valid() bool {
	switch t {
	case TypeText, TypeEmail, TypePhone, TypeSelect, TypeDate, TypeCheckbox, TypeFile, TypeCustom:
		return true
	}
	return false
}

// Entry describes one form field.
type Entry struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Type     Type     `json:"type"`
	Required bool     `json:"required"`
	Visible  bool     `json:"visible"`
	Order    int      `json:"order"`
	IsSystem bool     `json:"isSystem"`
	Options  []string `json:"options,omitempty"`
}

func (e Entry) clone() Entry {
	if e.Options != nil {
		e.Options = slices.Clone(e.Options)
	}
	return e
}

// Defaults returns the schema a fresh install starts with.
func Defaults() []Entry {
	return []Entry{
		{ID: PrimaryID, Label: "First Name", Type: TypeText, Required: true, Visible: true, Order: 1, IsSystem: true},
		{ID: "lastName", Label: "Last Name", Type: TypeText, Visible: true, Order: 2, IsSystem: true},
		{ID: "email", Label: "Email", Type: TypeEmail, Visible: true, Order: 3, IsSystem: true},
		{ID: "phone", Label: "Phone", Type: TypePhone, Visible: true, Order: 4, IsSystem: true},
		{ID: "contactType", Label: "Contact Type", Type: TypeSelect, Visible: true, Order: 5, IsSystem: true,
			Options: []string{"lead", "customer", "partner", "vendor"}},
		{ID: "tags", Label: "Tags", Type: TypeText, Visible: true, Order: 6, IsSystem: true},
		{ID: "timeZone", Label: "Time Zone", Type: TypeText, Visible: false, Order: 7, IsSystem: true},
	}
}

// Store holds the schema. It is safe for concurrent use.
type Store struct {
	cache *localstore.Adapter
	log   logging.Logger

	mu      sync.Mutex
	entries []Entry
}

// New loads the schema from cache, falling back to Defaults when nothing
// usable is stored.
func New(ctx context.Context, cache *localstore.Adapter, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	s := &Store{cache: cache, log: log.With("collection", CacheKey)}

	entries, ok := localstore.Load[Entry](ctx, cache, CacheKey)
	if ok && len(entries) > 0 {
		norm, err := normalize(entries)
		if err == nil {
			s.entries = norm
			return s
		}
		s.log.Warn(ctx, "stored field schema rejected, using defaults", "error", err)
	}
	s.entries = Defaults()
	return s
}

// Get returns the schema sorted by order; ties keep insertion order.
func (s *Store) Get() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sorted(s.entries)
}

// Visible returns the visible fields in display order.
func (s *Store) Visible() []Entry {
	out := s.Get()
	return slices.DeleteFunc(out, func(e Entry) bool { return !e.Visible })
}

// Replace swaps the whole schema. The primary field is re-added or
// re-flagged if entries dropped or weakened it.
func (s *Store) Replace(ctx context.Context, entries []Entry) error {
	norm, err := normalize(entries)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(ctx, norm)
}

// AddCustom appends a user-defined field after every existing one. An empty
// ID is derived from the label.
func (s *Store) AddCustom(ctx context.Context, e Entry) (Entry, error) {
	e = e.clone()
	e.IsSystem = false
	if e.Type == "" {
		e.Type = TypeText
	}
	if !e.Type.Valid() {
		return Entry{}, fmt.Errorf("field %q: unknown type %q", e.Label, e.Type)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = s.uniqueIDLocked(e.Label)
	}
	if s.indexLocked(e.ID) >= 0 {
		return Entry{}, fmt.Errorf("%w: %s", common.ErrDuplicateField, e.ID)
	}

	maxOrder := 0
	for _, x := range s.entries {
		maxOrder = max(maxOrder, x.Order)
	}
	e.Order = maxOrder + 1

	next := append(cloneAll(s.entries), e)
	if err := s.commitLocked(ctx, next); err != nil {
		return Entry{}, err
	}
	return e.clone(), nil
}

// DeleteCustom removes a user-defined field. System fields and unknown ids
// are left alone and reported as false.
func (s *Store) DeleteCustom(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 || s.entries[i].IsSystem {
		return false, nil
	}
	next := slices.Delete(cloneAll(s.entries), i, i+1)
	if err := s.commitLocked(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// Reset restores Defaults.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(ctx, Defaults())
}

func (s *Store) commitLocked(ctx context.Context, next []Entry) error {
	if err := localstore.Save(ctx, s.cache, CacheKey, next); err != nil {
		s.log.Error(ctx, "field schema not persisted", "error", err)
		return fmt.Errorf("persist field schema: %w", err)
	}
	s.entries = next
	return nil
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.entries, func(e Entry) bool { return e.ID == id })
}

func (s *Store) uniqueIDLocked(label string) string {
	base := slug(label)
	if base == "" {
		return "field_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}
	id := base
	for n := 2; s.indexLocked(id) >= 0; n++ {
		id = fmt.Sprintf("%s%d", base, n)
	}
	return id
}

// slug turns "Lead source" into "leadSource".
func slug(label string) string {
	var b strings.Builder
	upper := false
	for _, r := range strings.TrimSpace(label) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if b.Len() == 0 {
				if unicode.IsDigit(r) {
					b.WriteString("f")
				}
				b.WriteRune(unicode.ToLower(r))
			} else if upper {
				b.WriteRune(unicode.ToUpper(r))
			} else {
				b.WriteRune(r)
			}
			upper = false
		default:
			upper = b.Len() > 0
		}
	}
	return b.String()
}

// normalize validates ids and makes sure the primary field exists with its
// fixed flags.
func normalize(in []Entry) ([]Entry, error) {
	out := make([]Entry, 0, len(in)+1)
	seen := make(map[string]bool, len(in))
	for _, e := range in {
		if e.ID == "" {
			return nil, fmt.Errorf("field %q has no id", e.Label)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("%w: %s", common.ErrDuplicateField, e.ID)
		}
		seen[e.ID] = true
		e = e.clone()
		if e.ID == PrimaryID {
			e.IsSystem, e.Required, e.Visible = true, true, true
		}
		out = append(out, e)
	}
	if !seen[PrimaryID] {
		primary := Defaults()[0]
		for _, e := range out {
			primary.Order = min(primary.Order, e.Order-1)
		}
		out = append([]Entry{primary}, out...)
	}
	return out, nil
}

func sorted(in []Entry) []Entry {
	out := cloneAll(in)
	slices.SortStableFunc(out, func(a, b Entry) int { return a.Order - b.Order })
	return out
}

func cloneAll(in []Entry) []Entry {
	out := make([]Entry, len(in))
	for i, e := range in {
		out[i] = e.clone()
	}
	return out
}
