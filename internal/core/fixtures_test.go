package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	orgAcme  = uuid.MustParse("0a000000-0000-0000-0000-000000000001")
	orgBeta  = uuid.MustParse("0a000000-0000-0000-0000-000000000002")
	orgDelta = uuid.MustParse("0a000000-0000-0000-0000-000000000003")

	mgrBruno    = uuid.MustParse("0b000000-0000-0000-0000-000000000001")
	mgrAnaSilva = uuid.MustParse("0b000000-0000-0000-0000-000000000002")
	mgrAnaSouza = uuid.MustParse("0b000000-0000-0000-0000-000000000003")
	mgrMarta    = uuid.MustParse("0b000000-0000-0000-0000-000000000004")

	coordOld   = uuid.MustParse("0c000000-0000-0000-0000-000000000001")
	coordPaulo = uuid.MustParse("0c000000-0000-0000-0000-000000000002")

	accAnalyst    = uuid.MustParse("0d000000-0000-0000-0000-000000000001")
	accConsultant = uuid.MustParse("0d000000-0000-0000-0000-000000000002")
	accOther      = uuid.MustParse("0d000000-0000-0000-0000-000000000003")
)

var testToday = time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

// testReference is shared by resolver, validation, preview and service tests.
//
// Acme has an inactive manager listed first, then two managers sharing the
// first name "Ana". Delta has no managers at all.
func testReference() *ReferenceDataset {
	return &ReferenceDataset{
		Organizations: []Organization{
			{
				ID:               orgAcme,
				Name:             "Acme Ltda",
				DefaultAnalystID: uuid.NullUUID{UUID: accAnalyst, Valid: true},
			},
			{ID: orgBeta, Name: "Beta Saúde"},
			{ID: orgDelta, Name: "Delta"},
		},
		Managers: []Manager{
			{ID: mgrBruno, OrganizationID: orgAcme, Name: "Bruno Costa", Active: false},
			{ID: mgrAnaSilva, OrganizationID: orgAcme, Name: "Ana Silva", Active: true},
			{ID: mgrAnaSouza, OrganizationID: orgAcme, Name: "Ana Souza", Active: true},
			{ID: mgrMarta, OrganizationID: orgBeta, Name: "Marta Reis", Active: true},
		},
		Coordinators: []Coordinator{
			{ID: coordOld, ManagerID: mgrAnaSilva, Name: "Olga Prado", Active: false},
			{ID: coordPaulo, ManagerID: mgrAnaSilva, Name: "Paulo Dias", Active: true},
		},
		Accounts: []Account{
			{ID: accAnalyst, Email: "analyst@acme.com", Name: "Alice", Role: RoleAnalyst},
			{ID: accConsultant, Email: "Consultant@Acme.com", Name: "Carla", Role: RoleConsultant},
			{ID: accOther, Email: "other@acme.com", Name: "Otto", Role: RoleAnalyst},
		},
	}
}

const testHeader = "Organization;Manager;Coordinator;Name;CPF;Status;Active;Inclusion Date;Monthly Amount;Analyst Email;Notes"

// testFile joins a header and data lines into a semicolon-delimited file.
func testFile(lines ...string) []byte {
	return []byte(strings.Join(append([]string{testHeader}, lines...), "\n") + "\n")
}
