package core

// convert.go normalizes raw cell text into canonical typed values.
//
// These functions handle the messy reality of operator spreadsheets:
//   - CPF/CNPJ numbers with or without punctuation, or with a dot where the
//     check-digit dash belongs
//   - Brazilian currency ("R$ 1.234,56") and plain decimals ("69.61")
//   - Dates as dd/mm/yyyy text or as spreadsheet serial numbers
//   - Placeholder cells such as "null", "undefined" or "***"
//
// None of them fail: unusable input degrades to absence ("" or Valid=false).
// Whether absence is acceptable is decided by the row validator.

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would result in dates more than this many years in the future
// are assumed to be in the previous century.
var TwoDigitYearPivot = 20

const isoDate = "2006-01-02"

// serialEpoch is day zero of spreadsheet serial dates. It sits two days
// before 1900-01-01 to absorb the 1900 leap-year bug spreadsheets inherited.
var serialEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// maxSerial is 9999-12-31.
const maxSerial = 2958465

const (
	cpfDigits  = 11
	cpfMaxLen  = 14
	cnpjDigits = 14
	cnpjMaxLen = 18
)

// NormalizeCPF returns the canonical "000.000.000-00" form of a CPF, or ""
// for placeholders.
func NormalizeCPF(s string) string {
	return normalizeIdentifier(s, cpfDigits, cpfMaxLen, func(d string) string {
		return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
	})
}

// NormalizeCNPJ returns the canonical "00.000.000/0000-00" form of a CNPJ,
// or "" for placeholders.
func NormalizeCNPJ(s string) string {
	return normalizeIdentifier(s, cnpjDigits, cnpjMaxLen, func(d string) string {
		return d[0:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:14]
	})
}

// normalizeIdentifier formats s when it holds exactly `digits` digits.
// Otherwise it repairs a dot used in place of the check-digit dash and clamps
// the result to maxLen characters.
func normalizeIdentifier(s string, digits, maxLen int, format func(string) string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\u00a0', '"', '\'':
			return -1
		}
		return r
	}, s)
	if isPlaceholder(s) {
		return ""
	}

	if d := onlyDigits(s); len(d) == digits {
		return format(d)
	}

	if n := len(s); n >= 3 && s[n-3] == '.' {
		s = s[:n-3] + "-" + s[n-2:]
	}

	if r := []rune(s); len(r) > maxLen {
		s = string(r[:maxLen])
	}
	return s
}

// NormalizePhone formats Brazilian phone numbers as "(00) 0000-0000" or
// "(00) 00000-0000". A leading country code 55 is dropped. Numbers of any
// other length are returned as bare digits.
func NormalizePhone(s string) string {
	if isPlaceholder(s) {
		return ""
	}

	d := onlyDigits(s)
	if len(d) > 11 && strings.HasPrefix(d, "55") {
		d = d[2:]
	}

	switch len(d) {
	case 10:
		return fmt.Sprintf("(%s) %s-%s", d[:2], d[2:6], d[6:])
	case 11:
		return fmt.Sprintf("(%s) %s-%s", d[:2], d[2:7], d[7:])
	default:
		return d
	}
}

// NormalizeLocaleDate converts "d/m/yyyy" text to "yyyy-mm-dd".
// Two-digit years follow TwoDigitYearPivot. ISO dates pass through unchanged.
// Returns "" for anything that is not a real calendar date.
func NormalizeLocaleDate(s string) string {
	s = strings.TrimSpace(s)
	if isPlaceholder(s) {
		return ""
	}

	if t, err := time.Parse(isoDate, s); err == nil {
		return t.Format(isoDate)
	}

	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return ""
	}

	// Tolerate a trailing time: "05/01/2026 00:00:00".
	yearPart := strings.TrimSpace(parts[2])
	if i := strings.IndexAny(yearPart, " T"); i >= 0 {
		yearPart = yearPart[:i]
	}

	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return ""
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return ""
	}
	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return ""
	}

	if len(yearPart) == 2 {
		year = expandTwoDigitYear(year)
	}

	if year < 1 || year > 9999 || month < 1 || month > 12 || day < 1 {
		return ""
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return ""
	}

	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func expandTwoDigitYear(yy int) int {
	year := 2000 + yy
	if year > time.Now().Year()+TwoDigitYearPivot {
		year -= 100
	}
	return year
}

// NormalizeSerialDate converts a spreadsheet serial number to "yyyy-mm-dd"
// by adding serial days to the 1899-12-30 epoch, so serial 1 is 1899-12-31.
// Values containing a slash (or already ISO) are handed to
// NormalizeLocaleDate. The fractional time of day is ignored.
func NormalizeSerialDate(s string) string {
	s = strings.TrimSpace(s)
	if isPlaceholder(s) {
		return ""
	}
	if strings.Contains(s, "/") {
		return NormalizeLocaleDate(s)
	}

	serial, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return NormalizeLocaleDate(s)
	}
	if math.IsNaN(serial) || serial < 0 || serial > maxSerial {
		return ""
	}

	// AddDate in whole days: serial*86400s overflows time.Duration for late dates.
	return serialEpoch.AddDate(0, 0, int(math.Floor(serial))).Format(isoDate)
}

// ToPgDate converts a "yyyy-mm-dd" string to pgtype.Date.
// Returns invalid for empty or malformed input.
func ToPgDate(iso string) pgtype.Date {
	t, err := time.Parse(isoDate, strings.TrimSpace(iso))
	if err != nil {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: t, Valid: true}
}

// ToPgText converts a string to pgtype.Text.
// Returns invalid if the string is empty or only whitespace.
func ToPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ParseCurrency converts locale-formatted money to pgtype.Numeric.
//
// A comma is the decimal marker and dots are thousands separators:
// "1.234,56" is 1234.56 and "69,61" is 69.61. Without a comma, a single dot
// followed by other than three digits is read as a decimal point, so raw
// spreadsheet values like "69.61" survive. Currency symbols, spaces and the
// accounting negative "(123,45)" are accepted.
func ParseCurrency(s string) pgtype.Numeric {
	s = strings.TrimSpace(s)
	if isPlaceholder(s) {
		return pgtype.Numeric{Valid: false}
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = strings.NewReplacer("R$", "", "$", "", "\u20ac", "", " ", "", "\u00a0", "").Replace(s)
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = s[1:]
	}

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else if dotsAreThousands(s) {
		s = strings.ReplaceAll(s, ".", "")
	}

	if negative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return pgtype.Numeric{Valid: false}
	}

	var n pgtype.Numeric
	if err := n.Scan(s); err != nil {
		return pgtype.Numeric{Valid: false}
	}
	return n
}

// ParseDecimal converts a raw spreadsheet number such as "1234.125" to
// pgtype.Numeric. The dot is always the decimal point. Values that are not
// plain decimals, like a text cell holding "1.234,56", go through
// ParseCurrency.
func ParseDecimal(s string) pgtype.Numeric {
	s = strings.TrimSpace(s)
	if !numericRegex.MatchString(s) {
		return ParseCurrency(s)
	}

	var n pgtype.Numeric
	if err := n.Scan(s); err != nil {
		return pgtype.Numeric{Valid: false}
	}
	return n
}

// dotsAreThousands reports whether the dots in a comma-free amount group
// thousands ("1.234", "1.234.567") rather than mark decimals ("69.61").
func dotsAreThousands(s string) bool {
	switch strings.Count(s, ".") {
	case 0:
		return false
	case 1:
		return len(s)-strings.IndexByte(s, '.')-1 == 3
	default:
		return true
	}
}

// NumericFloat returns n as float64 and whether it was valid.
func NumericFloat(n pgtype.Numeric) (float64, bool) {
	if !n.Valid {
		return 0, false
	}
	f, err := n.Float64Value()
	if err != nil || !f.Valid {
		return 0, false
	}
	return f.Float64, true
}

// ParseBool interprets yes/no style cells. Blank and placeholder cells return
// def. The second result is false when s was not recognized, in which case
// def is also returned.
func ParseBool(s string, def bool) (bool, bool) {
	v := foldText(s)
	if isPlaceholder(v) {
		return def, true
	}

	switch v {
	case "true", "t", "yes", "y", "1", "sim", "s", "x", "active", "ativo":
		return true, true
	case "false", "f", "no", "n", "0", "nao", "inactive", "inativo":
		return false, true
	default:
		return def, false
	}
}

// statusAliases maps Portuguese labels used in legacy exports.
var statusAliases = map[string]Status{
	"ativo":      StatusActive,
	"pendente":   StatusPending,
	"suspenso":   StatusSuspended,
	"perdido":    StatusLost,
	"encerrado":  StatusEnded,
	"finalizado": StatusEnded,
}

// ParseStatus matches s case- and accent-insensitively against Statuses.
// Blank input is StatusActive. Unrecognized input is StatusActive with ok=false.
func ParseStatus(s string) (Status, bool) {
	v := foldText(s)
	if isPlaceholder(v) {
		return StatusActive, true
	}
	for _, st := range Statuses {
		if v == string(st) {
			return st, true
		}
	}
	if st, ok := statusAliases[v]; ok {
		return st, true
	}
	return StatusActive, false
}

// MatchTerminationReason maps free text onto TerminationReasons.
//
// It tries an exact accent-insensitive match (MatchExact), then a substring
// match in either direction (MatchPartial), and otherwise returns ReasonOther
// with MatchFallback. Blank input returns "" with MatchNone.
func MatchTerminationReason(s string) (TerminationReason, MatchKind) {
	v := foldText(s)
	if isPlaceholder(v) {
		return "", MatchNone
	}

	for _, r := range TerminationReasons {
		if foldText(string(r)) == v {
			return r, MatchExact
		}
	}
	for _, r := range TerminationReasons {
		k := foldText(string(r))
		if strings.Contains(k, v) || strings.Contains(v, k) {
			return r, MatchPartial
		}
	}
	return ReasonOther, MatchFallback
}

// ParseValidityYear reads a four-digit year between 1900 and 2200.
// Spreadsheet values such as "2026.0" are accepted.
func ParseValidityYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if isPlaceholder(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	year := int(f)
	if year < 1900 || year > 2200 {
		return 0, false
	}
	return year, true
}
