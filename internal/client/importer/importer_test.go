package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/crmdesk/internal/client/models"
)

func TestParseCSV(t *testing.T) {
	in := "First Name,last_name,EMAIL,Phone,Tags,Type,Company\n" +
		"Ada,Lovelace,ada@x.com,+44 1,\"vip; math\",Customer,Analytical Engines\n" +
		",,,,,,\n" +
		"Grace,,grace@navy.mil,,,,\n"

	got, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 2)

	want := models.Contact{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@x.com",
		Phone:        "+44 1",
		Tags:         []string{"vip", "math"},
		ContactType:  models.ContactTypeCustomer,
		CustomFields: models.CustomFields{},
	}
	want.CustomFields.SetString("Company", "Analytical Engines")
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Errorf("contact mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Grace", got[1].FirstName)
	assert.Empty(t, got[1].CustomFields)
}

func TestParseCSV_FullNameColumnAndShortRows(t *testing.T) {
	in := "name,email,notes\nAda Lovelace,ada@x.com\n"
	got, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ada Lovelace", got[0].Name)
	assert.Equal(t, "ada@x.com", got[0].Email)
}

func TestParseCSV_Empty(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = ParseCSV(strings.NewReader("name,email\n"))
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestParseCSV_Malformed(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("name\n\"unterminated\n"))
	assert.Error(t, err)
}

const cards = "BEGIN:VCARD\r\n" +
	"VERSION:3.0\r\n" +
	"FN:Ada Lovelace\r\n" +
	"N:Lovelace;Ada;;;\r\n" +
	"EMAIL;TYPE=home:ada@home.org\r\n" +
	"EMAIL;TYPE=work,pref:ada@x.com\r\n" +
	"TEL;TYPE=cell:+44 1\r\n" +
	"CATEGORIES:vip,math\\,logic\r\n" +
	"NOTE:First programmer\\, probably.\r\n" +
	"END:VCARD\r\n" +
	"BEGIN:VCARD\r\n" +
	"VERSION:4.0\r\n" +
	"FN:Grace\r\n" +
	"  Hopper\r\n" +
	"item1.TEL:tel:+1-555\r\n" +
	"END:VCARD\r\n"

func TestParseVCard(t *testing.T) {
	got, err := ParseVCard(strings.NewReader(cards))
	require.NoError(t, err)

	want := []models.Contact{
		{
			Name:      "Ada Lovelace",
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@x.com",
			Phone:     "+44 1",
			Tags:      []string{"vip", "math,logic"},
		},
		{Name: "Grace Hopper", Phone: "+1-555"},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("contacts mismatch (-want +got):\n%s", diff)
	}
}

func TestParseVCard_Errors(t *testing.T) {
	_, err := ParseVCard(strings.NewReader("BEGIN:VCARD\nFN:Ada\n"))
	assert.Error(t, err)

	_, err = ParseVCard(strings.NewReader("END:VCARD\n"))
	assert.Error(t, err)

	_, err = ParseVCard(strings.NewReader("BEGIN:VCARD\nVERSION:3.0\nEND:VCARD\n"))
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "contacts.CSV")
	require.NoError(t, os.WriteFile(csvPath, []byte("name\nAda Lovelace\n"), 0o600))
	vcfPath := filepath.Join(dir, "contacts.vcf")
	require.NoError(t, os.WriteFile(vcfPath, []byte(cards), 0o600))

	got, err := ParseFile(csvPath)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = ParseFile(vcfPath)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = ParseFile(filepath.Join(dir, "contacts.xlsx"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ParseFile(filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
