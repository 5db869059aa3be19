package core

// validation.go turns one raw row into one RowOutcome.
//
// The steps run in a fixed order and stop at the first fatal problem:
//
//  1. organization  (fatal when unresolved)
//  2. manager       (fatal when unresolved)
//  3. coordinator   (warning when unresolved)
//  4. support staff accounts (warning, falls back to organization defaults)
//  5. name present  (fatal when blank)
//  6. status and active flag; terminal statuses force active=false
//  7. remaining scalar fields, which can only warn
//
// A rejected row carries no record, so nothing computed before the fatal
// step leaks into the accepted set.

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// RowOutcome is the result for one input row: either Accepted with a record,
// or Rejected with at least one error. Warnings may accompany both.
type RowOutcome struct {
	RowNumber int
	Warnings  []string

	record *Record
	errors []string
}

// Accepted builds a successful outcome.
func Accepted(rowNumber int, rec Record, warnings []string) RowOutcome {
	rec.RowNumber = rowNumber
	return RowOutcome{RowNumber: rowNumber, Warnings: warnings, record: &rec}
}

// Rejected builds a failed outcome. An empty errs still rejects the row.
func Rejected(rowNumber int, errs []string, warnings []string) RowOutcome {
	if len(errs) == 0 {
		errs = []string{"row rejected"}
	}
	return RowOutcome{RowNumber: rowNumber, Warnings: warnings, errors: errs}
}

// Record returns the accepted record, if any.
func (o RowOutcome) Record() (Record, bool) {
	if o.record == nil {
		return Record{}, false
	}
	return *o.record, true
}

// OK reports whether the row was accepted.
func (o RowOutcome) OK() bool {
	return o.record != nil
}

// Errors returns the fatal errors of a rejected row.
func (o RowOutcome) Errors() []string {
	return o.errors
}

// MarshalJSON renders the outcome for preview responses.
func (o RowOutcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		RowNumber int      `json:"rowNumber"`
		Record    *Record  `json:"record"`
		Errors    []string `json:"errors"`
		Warnings  []string `json:"warnings"`
	}{
		RowNumber: o.RowNumber,
		Record:    o.record,
		Errors:    nonNil(o.errors),
		Warnings:  nonNil(o.Warnings),
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// RowValidator validates rows of one file against one reference snapshot.
type RowValidator struct {
	headerIdx HeaderIndex
	resolver  *Resolver
	today     time.Time

	// parseAmount reads money cells. Workbooks carry raw numbers, so
	// UseRawNumbers swaps in ParseDecimal.
	parseAmount func(string) pgtype.Numeric
}

// NewRowValidator creates a validator. today fills in a missing inclusion date.
func NewRowValidator(headerIdx HeaderIndex, resolver *Resolver, today time.Time) *RowValidator {
	return &RowValidator{
		headerIdx:   headerIdx,
		resolver:    resolver,
		today:       today,
		parseAmount: ParseCurrency,
	}
}

// UseRawNumbers makes v read amounts as plain decimals, the form numeric
// workbook cells take. It returns v.
func (v *RowValidator) UseRawNumbers() *RowValidator {
	v.parseAmount = ParseDecimal
	return v
}

// ValidateRow resolves and normalizes a single row.
// rowNumber is the row's 1-based position in the file, header included.
func (v *RowValidator) ValidateRow(row []string, rowNumber int) RowOutcome {
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}
	note := func(r Resolution) {
		if r.Note != "" {
			warnings = append(warnings, r.Note)
		}
	}
	get := func(col string) string {
		return v.headerIdx.Value(row, col)
	}

	// 1. Organization
	org := v.resolver.Organization(get(ColOrganization))
	if !org.Resolved() {
		return Rejected(rowNumber, []string{org.Note}, warnings)
	}
	note(org)

	// 2. Manager
	mgr := v.resolver.Manager(org.ID, get(ColManager))
	if !mgr.Resolved() {
		return Rejected(rowNumber, []string{mgr.Note}, warnings)
	}
	note(mgr)

	// 3. Coordinator
	// Unlike a manager, a coordinator is optional, so a blank cell leaves it
	// unset with no fallback and no warning.
	var coordinator uuid.NullUUID
	if name := get(ColCoordinator); !isPlaceholder(name) {
		c := v.resolver.Coordinator(mgr.ID, name)
		coordinator = c.NullID()
		note(c)
	}

	// 4. Support staff
	orgRec, _ := v.resolver.OrganizationByID(org.ID)
	analyst := v.resolver.Account(get(ColAnalystEmail), orgRec.DefaultAnalystID)
	note(analyst)
	consultant := v.resolver.Account(get(ColConsultantEmail), orgRec.DefaultConsultantID)
	note(consultant)

	// 5. Name
	name := collapseSpaces(get(ColName))
	if isPlaceholder(name) {
		return Rejected(rowNumber, []string{"name is blank"}, warnings)
	}

	// 6. Status and active flag
	rawStatus := get(ColStatus)
	status, ok := ParseStatus(rawStatus)
	if !ok {
		warn("status %q not recognized; recorded as %s", rawStatus, status)
	}
	rawActive := get(ColActive)
	active, ok := ParseBool(rawActive, true)
	if !ok {
		warn("active flag %q not recognized; recorded as %t", rawActive, active)
	}
	if status.Terminal() {
		active = false
	}

	rec := Record{
		OrganizationID: org.ID,
		ManagerID:      mgr.ID,
		CoordinatorID:  coordinator,
		AnalystID:      analyst.NullID(),
		ConsultantID:   consultant.NullID(),
		Name:           name,
		Status:         status,
		Active:         active,
	}

	// 7. Remaining scalars
	rec.CPF = ToPgText(NormalizeCPF(get(ColCPF)))
	rec.CNPJ = ToPgText(NormalizeCNPJ(get(ColCNPJ)))
	rec.Role = ToPgText(collapseSpaces(get(ColRole)))
	rec.Phone = ToPgText(NormalizePhone(get(ColPhone)))
	rec.Notes = ToPgText(get(ColNotes))

	rawInclusion := get(ColInclusionDate)
	rec.InclusionDate = ToPgDate(NormalizeSerialDate(rawInclusion))
	if !rec.InclusionDate.Valid {
		if !isPlaceholder(rawInclusion) {
			warn("inclusion date %q not recognized; using import date", rawInclusion)
		}
		rec.InclusionDate = ToPgDate(v.today.Format(isoDate))
	}

	rawYear := get(ColValidityYear)
	year, ok := ParseValidityYear(rawYear)
	if !ok {
		if !isPlaceholder(rawYear) {
			warn("validity year %q not recognized; using inclusion year", rawYear)
		}
		year = rec.InclusionDate.Time.Year()
	}
	rec.ValidityYear = year

	if raw := get(ColTerminationReason); !isPlaceholder(raw) {
		reason, kind := MatchTerminationReason(raw)
		if kind == MatchFallback {
			warn("termination reason %q not recognized; recorded as %s", raw, reason)
		}
		rec.TerminationReason = ToPgText(string(reason))
	}

	if raw := get(ColTerminationDate); !isPlaceholder(raw) {
		rec.TerminationDate = ToPgDate(NormalizeSerialDate(raw))
		if !rec.TerminationDate.Valid {
			warn("termination date %q not recognized", raw)
		}
	}

	if raw := get(ColMonthlyAmount); !isPlaceholder(raw) {
		rec.MonthlyAmount = v.parseAmount(raw)
		if !rec.MonthlyAmount.Valid {
			warn("monthly amount %q not recognized", raw)
		}
	}
	if raw := get(ColAnnualAmount); !isPlaceholder(raw) {
		rec.AnnualAmount = v.parseAmount(raw)
		if !rec.AnnualAmount.Valid {
			warn("annual amount %q not recognized", raw)
		}
	}

	if raw := get(ColEmail); !isPlaceholder(raw) {
		email := strings.ToLower(raw)
		if strings.Contains(email, "@") {
			rec.Email = ToPgText(email)
		} else {
			warn("email %q is not an email address", raw)
		}
	}

	return Accepted(rowNumber, rec, warnings)
}
