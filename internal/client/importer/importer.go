// Package importer turns contact exports into contacts ready for
// ContactStore.BulkImport.
package importer

import (
	"errors"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/crmdesk/internal/client/models"
)

// ErrUnsupportedFormat is returned by ParseFile for unknown extensions.
var ErrUnsupportedFormat = errors.New("unsupported import format")

// ErrEmpty is returned when an export holds no contacts.
var ErrEmpty = errors.New("no contacts found")

// Format is an export format.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatVCard Format = "vcard"
)

// DetectFormat picks the format from a file name.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".vcf", ".vcard":
		return FormatVCard, nil
	}
	return "", ErrUnsupportedFormat
}

// splitTags accepts "a; b", "a,b" and "a b" lists.
func splitTags(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || unicode.IsSpace(r)
	})
	tags := make([]string, 0, len(parts))
	seen := map[string]bool{}
	for _, p := range parts {
		if p != "" && !seen[p] {
			seen[p] = true
			tags = append(tags, p)
		}
	}
	return tags
}

func isEmpty(c models.Contact) bool {
	return c.Name == "" && c.FirstName == "" && c.LastName == "" && c.Email == "" && c.Phone == ""
}
