package core

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// HeaderIndex maps normalized column names to their position in a row.
type HeaderIndex map[string]int

// MakeHeaderIndex creates a HeaderIndex from a header row.
// Keys are folded (case, accents, underscores) so "Inclusion_Date" and
// "inclusion date" address the same column. The first occurrence of a
// duplicated column wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := headerKey(h)
		if key == "" {
			continue
		}
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return idx
}

// Value returns the trimmed cell for col, or "" when the column is unknown
// or the row is shorter than the header. Quotes inside the field are data
// and are returned as is.
func (h HeaderIndex) Value(row []string, col string) string {
	pos, ok := h[col]
	if !ok || pos >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[pos])
}

// Has reports whether the header contains col.
func (h HeaderIndex) Has(col string) bool {
	_, ok := h[col]
	return ok
}

// hasAny reports whether at least one of cols is present.
func (h HeaderIndex) hasAny(cols []string) bool {
	for _, c := range cols {
		if h.Has(c) {
			return true
		}
	}
	return false
}

func headerKey(s string) string {
	s = strings.ReplaceAll(CleanCell(s), "_", " ")
	return foldText(s)
}

// CleanCell removes common spreadsheet artifacts from a header cell:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

// foldText strips diacritics, collapses whitespace and lower-cases s.
// "  José   da SILVA " becomes "jose da silva".
func foldText(s string) string {
	// Chains are stateful, so each call builds its own.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.Join(strings.Fields(out), " "))
}

// placeholders are spreadsheet fillers that mean "no value".
var placeholders = map[string]bool{
	"null":      true,
	"undefined": true,
	"***":       true,
	"-":         true,
	"n/a":       true,
}

// isPlaceholder reports whether s is blank or a sentinel for absence.
func isPlaceholder(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "" || placeholders[s]
}

// onlyDigits returns the ASCII digits of s in order.
func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// collapseSpaces trims s and joins internal whitespace runs with one space.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
