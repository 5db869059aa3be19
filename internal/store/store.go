// Package store persists roster records in PostgreSQL and serves the
// reference dataset imports are reconciled against.
package store

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/logging"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed schema.sql
var schemaSQL string

// DB is the subset of *pgxpool.Pool the store needs.
type DB interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	Begin(context.Context) (pgx.Tx, error)
}

// Store implements core.ReferenceSource and core.RecordSink.
type Store struct {
	db      DB
	members pgx.Identifier
}

var (
	_ core.ReferenceSource = (*Store)(nil)
	_ core.RecordSink      = (*Store)(nil)
)

// New creates a Store writing imported records into membersTable.
func New(db DB, membersTable string) *Store {
	if membersTable == "" {
		membersTable = "members"
	}
	return &Store{db: db, members: pgx.Identifier{membersTable}}
}

// memberColumns is the COPY column list, in the order recordRow emits values.
var memberColumns = []string{
	"organization_id",
	"manager_id",
	"coordinator_id",
	"analyst_id",
	"consultant_id",
	"name",
	"cpf",
	"cnpj",
	"role",
	"validity_year",
	"inclusion_date",
	"status",
	"active",
	"termination_reason",
	"termination_date",
	"monthly_amount",
	"annual_amount",
	"phone",
	"email",
	"notes",
	"source_row",
}

// Schema returns the DDL for all tables, with the members table renamed.
func (s *Store) Schema() string {
	return strings.ReplaceAll(schemaSQL, "{{members}}", s.members.Sanitize())
}

// EnsureSchema creates missing tables.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, s.Schema()); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const (
	queryOrganizations = `SELECT id, name, default_analyst_id, default_consultant_id
		FROM organizations ORDER BY created_at, id`
	queryManagers = `SELECT id, organization_id, name, active
		FROM managers ORDER BY created_at, id`
	queryCoordinators = `SELECT id, manager_id, name, active
		FROM coordinators ORDER BY created_at, id`
	queryAccounts = `SELECT id, email, name, role
		FROM accounts ORDER BY created_at, id`
)

// LoadReference reads a fresh snapshot of all reference tables.
// Rows come back in insertion order, which is the order fuzzy matches
// break ties by.
func (s *Store) LoadReference(ctx context.Context) (*core.ReferenceDataset, error) {
	var (
		ref core.ReferenceDataset
		err error
	)

	if ref.Organizations, err = collect[core.Organization](ctx, s.db, queryOrganizations); err != nil {
		return nil, fmt.Errorf("load organizations: %w", err)
	}
	if ref.Managers, err = collect[core.Manager](ctx, s.db, queryManagers); err != nil {
		return nil, fmt.Errorf("load managers: %w", err)
	}
	if ref.Coordinators, err = collect[core.Coordinator](ctx, s.db, queryCoordinators); err != nil {
		return nil, fmt.Errorf("load coordinators: %w", err)
	}
	if ref.Accounts, err = collect[core.Account](ctx, s.db, queryAccounts); err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}

	logging.FromContext(ctx).Debug("reference loaded",
		"organizations", len(ref.Organizations),
		"managers", len(ref.Managers),
		"coordinators", len(ref.Coordinators),
		"accounts", len(ref.Accounts),
	)
	return &ref, nil
}

func collect[T any](ctx context.Context, db DB, sql string) ([]T, error) {
	rows, err := db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[T])
}

// InsertRecords copies records into the members table inside one
// transaction. Either every record is stored or none is.
func (s *Store) InsertRecords(ctx context.Context, records []core.Record) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op after commit

	n, err := tx.CopyFrom(ctx, s.members, memberColumns, pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
		return recordRow(records[i]), nil
	}))
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", s.members.Sanitize(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	logging.FromContext(ctx).Info("records stored", "table", s.members.Sanitize(), "count", n)
	return n, nil
}

// recordRow flattens a record into COPY values matching memberColumns.
func recordRow(r core.Record) []any {
	return []any{
		r.OrganizationID,
		r.ManagerID,
		r.CoordinatorID,
		r.AnalystID,
		r.ConsultantID,
		r.Name,
		r.CPF,
		r.CNPJ,
		r.Role,
		int32(r.ValidityYear),
		r.InclusionDate,
		string(r.Status),
		r.Active,
		r.TerminationReason,
		r.TerminationDate,
		r.MonthlyAmount,
		r.AnnualAmount,
		r.Phone,
		r.Email,
		r.Notes,
		int32(r.RowNumber),
	}
}
