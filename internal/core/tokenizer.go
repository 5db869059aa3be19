package core

// tokenizer.go splits decoded text into rows of fields.
//
// encoding/csv is not used because operator files are not RFC 4180: quotes
// may open mid-field, rows have ragged lengths, and blank or delimiter-only
// lines must vanish instead of producing empty records.

import "strings"

// DefaultDelimiter separates fields when none is configured.
const DefaultDelimiter = ';'

// Tokenize converts text into rows of trimmed fields.
//
// Inside quotes, a doubled quote is a literal quote and every other character,
// including delimiters and line breaks, is data. Outside quotes, a quote opens
// a quoted section, delim ends the field, and "\n" or "\r\n" ends the row.
// Rows whose fields are all blank are dropped.
func Tokenize(text string, delim rune) [][]string {
	if delim == 0 {
		delim = DefaultDelimiter
	}

	var (
		rows     [][]string
		row      []string
		field    strings.Builder
		inQuotes bool
	)

	endField := func() {
		row = append(row, strings.TrimSpace(field.String()))
		field.Reset()
	}
	endRow := func() {
		endField()
		if !isBlankRow(row) {
			rows = append(rows, row)
		}
		row = nil
	}

	src := []rune(text)
	for i := 0; i < len(src); i++ {
		c := src[i]

		if inQuotes {
			switch {
			case c == '"' && i+1 < len(src) && src[i+1] == '"':
				field.WriteRune('"')
				i++
			case c == '"':
				inQuotes = false
			default:
				field.WriteRune(c)
			}
			continue
		}

		switch {
		case c == '"':
			inQuotes = true
		case c == delim:
			endField()
		case c == '\n':
			endRow()
		case c == '\r' && i+1 < len(src) && src[i+1] == '\n':
			endRow()
			i++
		default:
			field.WriteRune(c)
		}
	}

	if field.Len() > 0 || len(row) > 0 {
		endRow()
	}

	return rows
}

// isBlankRow reports whether every field of row is empty.
func isBlankRow(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// DetectDelimiter guesses the field delimiter from the first line of text.
// Characters inside quoted cells are not counted. Semicolon wins ties and is
// returned when no candidate appears.
func DetectDelimiter(text string) rune {
	counts := make(map[rune]int, 3)
	inQuotes := false
	for _, r := range text {
		if r == '"' {
			inQuotes = !inQuotes
			continue
		}
		if inQuotes {
			continue
		}
		switch r {
		case '\n':
			return pickDelimiter(counts)
		case ';', ',', '\t':
			counts[r]++
		}
	}
	return pickDelimiter(counts)
}

func pickDelimiter(counts map[rune]int) rune {
	best, bestCount := DefaultDelimiter, counts[DefaultDelimiter]
	for _, d := range []rune{',', '\t'} {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best
}
