package index

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RemoveDiacritics removes diacritical marks from a string (e.g., "Jiří" -> "Jiri").
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// NormalizeName normalizes a display name for comparison (lowercase, no diacritics).
func NormalizeName(name string) string {
	return strings.ToLower(RemoveDiacritics(name))
}

// FilterByName returns the records whose display name contains the query,
// compared case- and diacritic-insensitively. An empty query returns all
// records.
func FilterByName(records []FaceRecord, query string) []FaceRecord {
	if query == "" {
		return records
	}
	q := NormalizeName(query)
	filtered := make([]FaceRecord, 0, len(records))
	for _, rec := range records {
		if strings.Contains(NormalizeName(rec.Name), q) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}
