package core

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestResolver_Organization(t *testing.T) {
	r := NewResolver(testReference())

	tests := []struct {
		name     string
		query    string
		wantID   uuid.UUID
		wantKind MatchKind
		wantNote string
	}{
		{name: "exact", query: "Acme Ltda", wantID: orgAcme, wantKind: MatchExact},
		{name: "case and spacing", query: "  acme   LTDA ", wantID: orgAcme, wantKind: MatchExact},
		{name: "accents ignored", query: "Beta Saude", wantID: orgBeta, wantKind: MatchExact},
		{
			name:     "first word prefix",
			query:    "Acme Corp",
			wantID:   orgAcme,
			wantKind: MatchPartial,
			wantNote: `organization "Acme Corp" matched approximately to "Acme Ltda"`,
		},
		{name: "unknown", query: "Gamma", wantKind: MatchNone, wantNote: `organization "Gamma" not found`},
		{name: "blank", query: "  ", wantKind: MatchNone, wantNote: "organization is blank"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Organization(tt.query)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantID, got.ID)
			assert.Equal(t, tt.wantNote, got.Note)
		})
	}
}

func TestResolver_ManagerTieBreak(t *testing.T) {
	r := NewResolver(&ReferenceDataset{
		Organizations: []Organization{{ID: orgAcme, Name: "Acme"}},
		Managers: []Manager{
			{ID: mgrAnaSilva, OrganizationID: orgAcme, Name: "Ana Silva", Active: true},
			{ID: mgrAnaSouza, OrganizationID: orgAcme, Name: "Ana Souza", Active: true},
		},
	})

	partial := r.Manager(orgAcme, "Ana")
	assert.Equal(t, mgrAnaSilva, partial.ID, "first candidate in dataset order wins")
	assert.Equal(t, MatchPartial, partial.Kind)
	assert.NotEmpty(t, partial.Note)

	exact := r.Manager(orgAcme, "Ana Souza")
	assert.Equal(t, mgrAnaSouza, exact.ID)
	assert.Equal(t, MatchExact, exact.Kind)
	assert.Empty(t, exact.Note)
}

func TestResolver_Manager(t *testing.T) {
	r := NewResolver(testReference())

	tests := []struct {
		name     string
		org      uuid.UUID
		query    string
		wantID   uuid.UUID
		wantKind MatchKind
		wantNote string
	}{
		{name: "exact", org: orgAcme, query: "ana souza", wantID: mgrAnaSouza, wantKind: MatchExact},
		{name: "exact inactive still matches", org: orgAcme, query: "Bruno Costa", wantID: mgrBruno, wantKind: MatchExact},
		{
			name:     "fallback skips inactive",
			org:      orgAcme,
			query:    "Zeca",
			wantID:   mgrAnaSilva,
			wantKind: MatchFallback,
			wantNote: `manager "Zeca" not found; using first active manager "Ana Silva"`,
		},
		{
			name:     "blank falls back",
			org:      orgAcme,
			query:    "",
			wantID:   mgrAnaSilva,
			wantKind: MatchFallback,
			wantNote: `manager not provided; using first active manager "Ana Silva"`,
		},
		{
			name:     "scoped to organization",
			org:      orgAcme,
			query:    "Marta Reis",
			wantID:   mgrAnaSilva,
			wantKind: MatchFallback,
			wantNote: `manager "Marta Reis" not found; using first active manager "Ana Silva"`,
		},
		{name: "other organization", org: orgBeta, query: "Marta Reis", wantID: mgrMarta, wantKind: MatchExact},
		{name: "empty scope", org: orgDelta, query: "Ana", wantKind: MatchNone, wantNote: `manager "Ana" not found`},
		{name: "empty scope blank", org: orgDelta, query: "", wantKind: MatchNone, wantNote: "manager is blank"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Manager(tt.org, tt.query)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantID, got.ID)
			assert.Equal(t, tt.wantNote, got.Note)
		})
	}
}

func TestResolver_Coordinator(t *testing.T) {
	r := NewResolver(testReference())

	got := r.Coordinator(mgrAnaSilva, "Paulo")
	assert.Equal(t, coordPaulo, got.ID)
	assert.Equal(t, MatchPartial, got.Kind)

	got = r.Coordinator(mgrAnaSilva, "Nobody Here")
	assert.Equal(t, coordPaulo, got.ID, "falls back to first active coordinator")
	assert.Equal(t, MatchFallback, got.Kind)

	got = r.Coordinator(mgrAnaSouza, "Paulo Dias")
	assert.False(t, got.Resolved(), "coordinators are scoped to their manager")
	assert.False(t, got.NullID().Valid)
	assert.Equal(t, `coordinator "Paulo Dias" not found`, got.Note)
}

func TestResolver_Account(t *testing.T) {
	r := NewResolver(testReference())
	fallback := uuid.NullUUID{UUID: accOther, Valid: true}

	tests := []struct {
		name     string
		email    string
		fallback uuid.NullUUID
		wantID   uuid.UUID
		wantKind MatchKind
		wantNote string
	}{
		{name: "exact", email: "analyst@acme.com", fallback: fallback, wantID: accAnalyst, wantKind: MatchExact},
		{name: "case insensitive", email: " CONSULTANT@acme.COM ", wantID: accConsultant, wantKind: MatchExact},
		{name: "blank uses fallback silently", email: "", fallback: fallback, wantID: accOther, wantKind: MatchFallback},
		{
			name:     "unknown uses fallback with note",
			email:    "ghost@acme.com",
			fallback: fallback,
			wantID:   accOther,
			wantKind: MatchFallback,
			wantNote: `account "ghost@acme.com" not found; using organization default`,
		},
		{
			name:     "unknown without fallback",
			email:    "ghost@acme.com",
			wantKind: MatchNone,
			wantNote: `account "ghost@acme.com" not found`,
		},
		{name: "blank without fallback", email: "", wantKind: MatchNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Account(tt.email, tt.fallback)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantID, got.ID)
			assert.Equal(t, tt.wantNote, got.Note)
		})
	}
}

func TestResolver_NilDataset(t *testing.T) {
	r := NewResolver(nil)
	assert.False(t, r.Organization("Acme").Resolved())
	_, ok := r.OrganizationByID(orgAcme)
	assert.False(t, ok)
}

func TestMatchKind_String(t *testing.T) {
	assert.Equal(t, "exact", MatchExact.String())
	assert.Equal(t, "partial", MatchPartial.String())
	assert.Equal(t, "fallback", MatchFallback.String())
	assert.Equal(t, "none", MatchNone.String())
}
