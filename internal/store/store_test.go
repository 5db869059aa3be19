package store

import (
	"strings"
	"testing"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRow_MatchesColumns(t *testing.T) {
	rec := core.Record{
		RowNumber:      7,
		OrganizationID: uuid.New(),
		ManagerID:      uuid.New(),
		CoordinatorID:  uuid.NullUUID{UUID: uuid.New(), Valid: true},
		Name:           "Maria Souza",
		CPF:            core.ToPgText("123.456.789-01"),
		ValidityYear:   2026,
		InclusionDate:  core.ToPgDate("2026-01-05"),
		Status:         core.StatusEnded,
		MonthlyAmount:  core.ParseCurrency("1.234,56"),
	}

	row := recordRow(rec)
	require.Len(t, row, len(memberColumns))

	byName := make(map[string]any, len(row))
	for i, col := range memberColumns {
		byName[col] = row[i]
	}

	assert.Equal(t, rec.OrganizationID, byName["organization_id"])
	assert.Equal(t, rec.ManagerID, byName["manager_id"])
	assert.Equal(t, rec.CoordinatorID, byName["coordinator_id"])
	assert.Equal(t, uuid.NullUUID{}, byName["analyst_id"])
	assert.Equal(t, "Maria Souza", byName["name"])
	assert.Equal(t, rec.CPF, byName["cpf"])
	assert.Equal(t, int32(2026), byName["validity_year"])
	assert.Equal(t, "ended", byName["status"])
	assert.Equal(t, false, byName["active"])
	assert.Equal(t, rec.MonthlyAmount, byName["monthly_amount"])
	assert.Equal(t, int32(7), byName["source_row"])
}

func TestSchema_DeclaresEveryColumn(t *testing.T) {
	s := New(nil, "roster_members")
	schema := s.Schema()

	assert.NotContains(t, schema, "{{members}}")
	assert.Contains(t, schema, `CREATE TABLE IF NOT EXISTS "roster_members"`)
	for _, col := range memberColumns {
		assert.True(t, strings.Contains(schema, "\n    "+col+" "), "schema lacks column %s", col)
	}
}

func TestNew_DefaultTable(t *testing.T) {
	s := New(nil, "")
	assert.Equal(t, `"members"`, s.members.Sanitize())
}
