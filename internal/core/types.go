package core

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Status is the lifecycle state of a roster record.
type Status string

const (
	StatusActive    Status = "active"
	StatusPending   Status = "pending"
	StatusSuspended Status = "suspended"
	StatusLost      Status = "lost"
	StatusEnded     Status = "ended"
)

// Statuses lists every accepted status in display order.
var Statuses = []Status{StatusActive, StatusPending, StatusSuspended, StatusLost, StatusEnded}

// Terminal reports whether the status closes the record.
// Records with a terminal status are never active.
func (s Status) Terminal() bool {
	return s == StatusLost || s == StatusEnded
}

// TerminationReason is the closed set of reasons a record can be ended for.
type TerminationReason string

const (
	ReasonResignation TerminationReason = "Resignation"
	ReasonDismissal   TerminationReason = "Dismissal"
	ReasonRetirement  TerminationReason = "Retirement"
	ReasonDeath       TerminationReason = "Death"
	ReasonContractEnd TerminationReason = "Contract End"
	ReasonTransfer    TerminationReason = "Transfer"
	ReasonPrice       TerminationReason = "Price"
	ReasonOther       TerminationReason = "Other"
)

// TerminationReasons is the canonical list, in match priority order.
var TerminationReasons = []TerminationReason{
	ReasonResignation,
	ReasonDismissal,
	ReasonRetirement,
	ReasonDeath,
	ReasonContractEnd,
	ReasonTransfer,
	ReasonPrice,
	ReasonOther,
}

// Column keys as produced by MakeHeaderIndex.
const (
	ColOrganization      = "organization"
	ColManager           = "manager"
	ColCoordinator       = "coordinator"
	ColName              = "name"
	ColCPF               = "cpf"
	ColCNPJ              = "cnpj"
	ColRole              = "role"
	ColValidityYear      = "validity year"
	ColInclusionDate     = "inclusion date"
	ColStatus            = "status"
	ColActive            = "active"
	ColTerminationReason = "termination reason"
	ColTerminationDate   = "termination date"
	ColMonthlyAmount     = "monthly amount"
	ColAnnualAmount      = "annual amount"
	ColPhone             = "phone"
	ColEmail             = "email"
	ColAnalystEmail      = "analyst email"
	ColConsultantEmail   = "consultant email"
	ColNotes             = "notes"
)

// ExpectedColumns is the documented header of an import file, in template order.
// Extra columns are ignored; missing optional columns take per-field defaults.
var ExpectedColumns = []string{
	"Organization",
	"Manager",
	"Coordinator",
	"Name",
	"CPF",
	"CNPJ",
	"Role",
	"Validity Year",
	"Inclusion Date",
	"Status",
	"Active",
	"Termination Reason",
	"Termination Date",
	"Monthly Amount",
	"Annual Amount",
	"Phone",
	"Email",
	"Analyst Email",
	"Consultant Email",
	"Notes",
}

// requiredColumns must appear in the header for the file to be readable at all.
var requiredColumns = []string{ColOrganization, ColManager, ColName}

// Record is a fully resolved and normalized roster row, ready for storage.
type Record struct {
	RowNumber         int            `json:"rowNumber"`
	OrganizationID    uuid.UUID      `json:"organizationId"`
	ManagerID         uuid.UUID      `json:"managerId"`
	CoordinatorID     uuid.NullUUID  `json:"coordinatorId"`
	AnalystID         uuid.NullUUID  `json:"analystId"`
	ConsultantID      uuid.NullUUID  `json:"consultantId"`
	Name              string         `json:"name"`
	CPF               pgtype.Text    `json:"cpf"`
	CNPJ              pgtype.Text    `json:"cnpj"`
	Role              pgtype.Text    `json:"role"`
	ValidityYear      int            `json:"validityYear"`
	InclusionDate     pgtype.Date    `json:"inclusionDate"`
	Status            Status         `json:"status"`
	Active            bool           `json:"active"`
	TerminationReason pgtype.Text    `json:"terminationReason"`
	TerminationDate   pgtype.Date    `json:"terminationDate"`
	MonthlyAmount     pgtype.Numeric `json:"monthlyAmount"`
	AnnualAmount      pgtype.Numeric `json:"annualAmount"`
	Phone             pgtype.Text    `json:"phone"`
	Email             pgtype.Text    `json:"email"`
	Notes             pgtype.Text    `json:"notes"`
}
