package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/crmdesk/internal/client/models"
)

// bom prefixes the first header of exports from some spreadsheet tools.
const bom = "\ufeff"

// column is a known contact attribute.
type column int

const (
	colCustom column = iota
	colFirstName
	colLastName
	colName
	colEmail
	colPhone
	colTags
	colContactType
	colTimeZone
)

var headerAliases = map[string]column{
	"firstname":    colFirstName,
	"givenname":    colFirstName,
	"lastname":     colLastName,
	"surname":      colLastName,
	"familyname":   colLastName,
	"name":         colName,
	"fullname":     colName,
	"email":        colEmail,
	"emailaddress": colEmail,
	"phone":        colPhone,
	"phonenumber":  colPhone,
	"mobile":       colPhone,
	"tags":         colTags,
	"labels":       colTags,
	"contacttype":  colContactType,
	"type":         colContactType,
	"timezone":     colTimeZone,
}

// normalizeHeader maps "First Name", "first_name" and "firstName" alike.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, bom)))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

// ParseCSV reads contacts from a CSV export with a header row. Headers are
// matched case-insensitively; unknown columns become custom fields keyed by
// the trimmed header. Rows without any name, email or phone are skipped.
func ParseCSV(r io.Reader) ([]models.Contact, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := make([]column, len(header))
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(strings.TrimPrefix(h, bom))
		cols[i] = headerAliases[normalizeHeader(h)]
	}

	var out []models.Contact
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		c := models.Contact{CustomFields: models.CustomFields{}}
		for i, v := range rec {
			if i >= len(cols) {
				break
			}
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			switch cols[i] {
			case colFirstName:
				c.FirstName = v
			case colLastName:
				c.LastName = v
			case colName:
				c.Name = v
			case colEmail:
				c.Email = v
			case colPhone:
				c.Phone = v
			case colTags:
				c.Tags = splitTags(v)
			case colContactType:
				c.ContactType = models.ContactType(strings.ToLower(v))
			case colTimeZone:
				c.TimeZone = v
			default:
				if names[i] != "" {
					c.CustomFields.SetString(names[i], v)
				}
			}
		}
		if isEmpty(c) {
			continue
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}
