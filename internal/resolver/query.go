package resolver

import (
	"strings"
)

// reserved lists the lucene query syntax characters MusicBrainz search treats specially.
const reserved = `+-&|!(){}[]^"~*?:\/`

// Cleaner rewrites a field value before it is placed in a query.
type Cleaner func(string) string

// Escape prefixes every reserved character with a backslash.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(reserved, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Strip deletes every reserved character.
func Strip(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(reserved, r) {
			return -1
		}
		return r
	}, s)
}

// BuildQuery builds `artist:"<artist>" AND recording:"<title>"` with both fields passed through clean.
//
// Fields that are blank after cleaning are left out. Returns "" when both are blank.
func BuildQuery(artist, title string, clean Cleaner) string {
	var clauses []string
	if a := strings.TrimSpace(clean(artist)); a != "" {
		clauses = append(clauses, `artist:"`+a+`"`)
	}
	if t := strings.TrimSpace(clean(title)); t != "" {
		clauses = append(clauses, `recording:"`+t+`"`)
	}
	return strings.Join(clauses, " AND ")
}

// FreeText joins artist and title into an unfielded query, reserved characters removed.
func FreeText(artist, title string) string {
	return strings.Join(strings.Fields(Strip(artist+" "+title)), " ")
}
