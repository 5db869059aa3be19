package core

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Account roles.
const (
	RoleAnalyst    = "analyst"
	RoleConsultant = "consultant"
)

// Organization is a client organization rows are filed under.
// The default account ids stand in when a row names no usable account.
type Organization struct {
	ID                  uuid.UUID
	Name                string
	DefaultAnalystID    uuid.NullUUID
	DefaultConsultantID uuid.NullUUID
}

// Manager belongs to exactly one organization.
type Manager struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Active         bool
}

// Coordinator belongs to exactly one manager.
type Coordinator struct {
	ID        uuid.UUID
	ManagerID uuid.UUID
	Name      string
	Active    bool
}

// Account is a staff login, matched by email.
type Account struct {
	ID    uuid.UUID
	Email string
	Name  string
	Role  string
}

// ReferenceDataset is the read-only snapshot rows are reconciled against.
// It is loaded once per import run and never modified by this package.
type ReferenceDataset struct {
	Organizations []Organization
	Managers      []Manager
	Coordinators  []Coordinator
	Accounts      []Account
}

// ReferenceSource supplies a fresh ReferenceDataset for each import run.
type ReferenceSource interface {
	LoadReference(ctx context.Context) (*ReferenceDataset, error)
}

// StaticReference serves a fixed dataset. Used by the CLI and tests.
type StaticReference struct {
	Dataset *ReferenceDataset
}

// LoadReference implements ReferenceSource.
func (s StaticReference) LoadReference(context.Context) (*ReferenceDataset, error) {
	if s.Dataset == nil {
		return nil, ErrNoReference
	}
	return s.Dataset, nil
}

// referenceFile is the YAML layout accepted by LoadReferenceYAML.
type referenceFile struct {
	Organizations []struct {
		ID                string `yaml:"id"`
		Name              string `yaml:"name"`
		DefaultAnalyst    string `yaml:"default_analyst"`
		DefaultConsultant string `yaml:"default_consultant"`
	} `yaml:"organizations"`
	Managers []struct {
		ID           string `yaml:"id"`
		Organization string `yaml:"organization"`
		Name         string `yaml:"name"`
		Active       *bool  `yaml:"active"`
	} `yaml:"managers"`
	Coordinators []struct {
		ID      string `yaml:"id"`
		Manager string `yaml:"manager"`
		Name    string `yaml:"name"`
		Active  *bool  `yaml:"active"`
	} `yaml:"coordinators"`
	Accounts []struct {
		ID    string `yaml:"id"`
		Email string `yaml:"email"`
		Name  string `yaml:"name"`
		Role  string `yaml:"role"`
	} `yaml:"accounts"`
}

// LoadReferenceYAML reads a reference dataset from YAML:
//
//	organizations:
//	  - id: 7c1e...
//	    name: Acme
//	    default_analyst: 0b9a...
//	managers:
//	  - id: 51f0...
//	    organization: 7c1e...
//	    name: Ana Silva
//	    active: true
//
// Managers and coordinators are active unless active: false is given.
func LoadReferenceYAML(r io.Reader) (*ReferenceDataset, error) {
	var f referenceFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode reference yaml: %w", err)
	}

	var (
		ref  ReferenceDataset
		errs []error
	)
	parse := func(what, s string) uuid.UUID {
		id, err := uuid.Parse(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s id %q: %w", what, s, err))
		}
		return id
	}
	parseOptional := func(what, s string) uuid.NullUUID {
		if s == "" {
			return uuid.NullUUID{}
		}
		return uuid.NullUUID{UUID: parse(what, s), Valid: true}
	}
	active := func(b *bool) bool { return b == nil || *b }

	for _, o := range f.Organizations {
		ref.Organizations = append(ref.Organizations, Organization{
			ID:                  parse("organization", o.ID),
			Name:                o.Name,
			DefaultAnalystID:    parseOptional("default analyst", o.DefaultAnalyst),
			DefaultConsultantID: parseOptional("default consultant", o.DefaultConsultant),
		})
	}
	for _, m := range f.Managers {
		ref.Managers = append(ref.Managers, Manager{
			ID:             parse("manager", m.ID),
			OrganizationID: parse("manager organization", m.Organization),
			Name:           m.Name,
			Active:         active(m.Active),
		})
	}
	for _, c := range f.Coordinators {
		ref.Coordinators = append(ref.Coordinators, Coordinator{
			ID:        parse("coordinator", c.ID),
			ManagerID: parse("coordinator manager", c.Manager),
			Name:      c.Name,
			Active:    active(c.Active),
		})
	}
	for _, a := range f.Accounts {
		ref.Accounts = append(ref.Accounts, Account{
			ID:    parse("account", a.ID),
			Email: a.Email,
			Name:  a.Name,
			Role:  a.Role,
		})
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("reference yaml: %w", errors.Join(errs...))
	}
	return &ref, nil
}
