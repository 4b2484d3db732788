package importer

import (
	"fmt"
	"os"

	"github.com/dmitrijs2005/crmdesk/internal/client/models"
)

// ParseFile reads the export at path, choosing the parser by extension.
func ParseFile(path string) ([]models.Contact, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch format {
	case FormatVCard:
		return ParseVCard(f)
	default:
		return ParseCSV(f)
	}
}
