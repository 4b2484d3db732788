package importer

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/crmdesk/internal/client/models"
)

// ParseVCard reads contacts from a vCard 3.0 or 4.0 stream. FN, N, EMAIL,
// TEL and CATEGORIES are recognised; the first EMAIL and TEL win.
func ParseVCard(r io.Reader) ([]models.Contact, error) {
	lines, err := unfold(r)
	if err != nil {
		return nil, fmt.Errorf("read vcard: %w", err)
	}

	var (
		out  []models.Contact
		cur  *models.Contact
		line int
	)
	for _, l := range lines {
		line++
		name, params, value, ok := splitProperty(l)
		if !ok {
			continue
		}
		switch {
		case name == "BEGIN" && strings.EqualFold(value, "VCARD"):
			cur = &models.Contact{}
		case name == "END" && strings.EqualFold(value, "VCARD"):
			if cur == nil {
				return nil, fmt.Errorf("vcard line %d: END without BEGIN", line)
			}
			if !isEmpty(*cur) {
				out = append(out, *cur)
			}
			cur = nil
		case cur == nil:
			continue
		case name == "FN":
			cur.Name = unescape(value)
		case name == "N":
			parts := splitUnescaped(value, ';')
			if len(parts) > 0 {
				cur.LastName = parts[0]
			}
			if len(parts) > 1 {
				cur.FirstName = parts[1]
			}
		case name == "EMAIL":
			if cur.Email == "" || preferred(params) {
				cur.Email = unescape(value)
			}
		case name == "TEL":
			if cur.Phone == "" || preferred(params) {
				cur.Phone = strings.TrimPrefix(unescape(value), "tel:")
			}
		case name == "CATEGORIES":
			for _, tag := range splitUnescaped(value, ',') {
				if tag != "" {
					cur.Tags = append(cur.Tags, tag)
				}
			}
		}
	}
	if cur != nil {
		return nil, fmt.Errorf("vcard: unterminated card")
	}
	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}

// unfold joins continuation lines (those starting with a space or tab).
func unfold(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		l := strings.TrimRight(sc.Text(), "\r")
		if (strings.HasPrefix(l, " ") || strings.HasPrefix(l, "\t")) && len(lines) > 0 {
			lines[len(lines)-1] += l[1:]
			continue
		}
		lines = append(lines, l)
	}
	return lines, sc.Err()
}

// splitProperty splits "item1.EMAIL;TYPE=work:ada@x.com" into the upper-cased
// property name, its parameters and the raw value.
func splitProperty(l string) (name string, params []string, value string, ok bool) {
	head, value, ok := strings.Cut(l, ":")
	if !ok {
		return "", nil, "", false
	}
	parts := strings.Split(head, ";")
	name = strings.ToUpper(strings.TrimSpace(parts[0]))
	if _, after, grouped := strings.Cut(name, "."); grouped {
		name = after
	}
	return name, parts[1:], strings.TrimSpace(value), true
}

func preferred(params []string) bool {
	for _, p := range params {
		p = strings.ToUpper(p)
		if p == "PREF" || p == "PREF=1" || (strings.HasPrefix(p, "TYPE=") && strings.Contains(p, "PREF")) {
			return true
		}
	}
	return false
}

func unescape(s string) string {
	return strings.NewReplacer(`\n`, "\n", `\N`, "\n", `\,`, ",", `\;`, ";", `\\`, `\`).Replace(s)
}

// splitUnescaped splits on sep unless it is backslash-escaped, then
// unescapes and trims each part. Empty parts are kept positionally.
func splitUnescaped(s string, sep byte) []string {
	var (
		parts []string
		b     strings.Builder
	)
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s):
			b.WriteByte(s[i])
			b.WriteByte(s[i+1])
			i++
		case s[i] == sep:
			parts = append(parts, strings.TrimSpace(unescape(b.String())))
			b.Reset()
		default:
			b.WriteByte(s[i])
		}
	}
	parts = append(parts, strings.TrimSpace(unescape(b.String())))
	return parts
}
