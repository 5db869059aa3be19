package core

// resolver.go resolves free-text references into reference dataset ids.
//
// Every name lookup applies the same staged policy to its scope:
//
//  1. Exact match on the folded name (accents stripped, case and spacing
//     ignored). No message.
//  2. Partial match: the first word of the query is a prefix of the
//     candidate's folded name. The first candidate in dataset order wins.
//  3. Fallback (managers and coordinators only): the first active member of
//     the scope.
//  4. Unresolved.
//
// Accounts are matched by email only, falling back to the organization's
// default account.

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MatchKind tags how a value was resolved.
type MatchKind int

const (
	MatchNone     MatchKind = iota // nothing matched
	MatchExact                     // full folded match
	MatchPartial                   // first-word prefix or substring match
	MatchFallback                  // default substituted
)

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchPartial:
		return "partial"
	case MatchFallback:
		return "fallback"
	default:
		return "none"
	}
}

// Resolution is the outcome of one lookup.
// Note is empty for exact matches and for silent fallbacks; otherwise it
// explains the approximation or the failure and is meant for the operator.
type Resolution struct {
	ID   uuid.UUID
	Name string
	Kind MatchKind
	Note string
}

// Resolved reports whether an id was produced.
func (r Resolution) Resolved() bool {
	return r.Kind != MatchNone
}

// NullID returns the id as a uuid.NullUUID, invalid when unresolved.
func (r Resolution) NullID() uuid.NullUUID {
	if !r.Resolved() {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: r.ID, Valid: true}
}

type candidate struct {
	id     uuid.UUID
	name   string
	key    string
	active bool
}

// Resolver answers lookups against one ReferenceDataset.
// Build it once per run; it is safe for concurrent reads.
type Resolver struct {
	orgs         []candidate
	orgByID      map[uuid.UUID]Organization
	managers     map[uuid.UUID][]candidate // by organization
	coordinators map[uuid.UUID][]candidate // by manager
	accounts     map[string]Account        // by lower-cased email
}

// NewResolver indexes ref, preserving dataset order within every scope.
func NewResolver(ref *ReferenceDataset) *Resolver {
	r := &Resolver{
		orgByID:      make(map[uuid.UUID]Organization),
		managers:     make(map[uuid.UUID][]candidate),
		coordinators: make(map[uuid.UUID][]candidate),
		accounts:     make(map[string]Account),
	}
	if ref == nil {
		return r
	}

	for _, o := range ref.Organizations {
		r.orgs = append(r.orgs, candidate{id: o.ID, name: o.Name, key: foldText(o.Name), active: true})
		r.orgByID[o.ID] = o
	}
	for _, m := range ref.Managers {
		r.managers[m.OrganizationID] = append(r.managers[m.OrganizationID],
			candidate{id: m.ID, name: m.Name, key: foldText(m.Name), active: m.Active})
	}
	for _, c := range ref.Coordinators {
		r.coordinators[c.ManagerID] = append(r.coordinators[c.ManagerID],
			candidate{id: c.ID, name: c.Name, key: foldText(c.Name), active: c.Active})
	}
	for _, a := range ref.Accounts {
		key := strings.ToLower(strings.TrimSpace(a.Email))
		if _, dup := r.accounts[key]; key != "" && !dup {
			r.accounts[key] = a
		}
	}
	return r
}

// Organization resolves an organization by name. There is no fallback.
func (r *Resolver) Organization(name string) Resolution {
	return matchName("organization", name, r.orgs, false)
}

// OrganizationByID returns the organization record for id.
func (r *Resolver) OrganizationByID(id uuid.UUID) (Organization, bool) {
	o, ok := r.orgByID[id]
	return o, ok
}

// Manager resolves a manager among the managers of orgID, falling back to
// the first active one.
func (r *Resolver) Manager(orgID uuid.UUID, name string) Resolution {
	return matchName("manager", name, r.managers[orgID], true)
}

// Coordinator resolves a coordinator among the coordinators of managerID,
// falling back to the first active one.
func (r *Resolver) Coordinator(managerID uuid.UUID, name string) Resolution {
	return matchName("coordinator", name, r.coordinators[managerID], true)
}

// Account resolves a staff account by email. A blank email silently yields
// fallback; an unknown email yields fallback with a note. Without a valid
// fallback the result is unresolved.
func (r *Resolver) Account(email string, fallback uuid.NullUUID) Resolution {
	key := strings.ToLower(strings.TrimSpace(email))
	if !isPlaceholder(key) {
		if a, ok := r.accounts[key]; ok {
			return Resolution{ID: a.ID, Name: a.Email, Kind: MatchExact}
		}
	}

	var note string
	if !isPlaceholder(key) {
		note = fmt.Sprintf("account %q not found", email)
		if fallback.Valid {
			note += "; using organization default"
		}
	}
	if fallback.Valid {
		return Resolution{ID: fallback.UUID, Kind: MatchFallback, Note: note}
	}
	return Resolution{Kind: MatchNone, Note: note}
}

func matchName(entity, query string, cands []candidate, fallback bool) Resolution {
	key := foldText(query)

	if key != "" {
		for _, c := range cands {
			if c.key == key {
				return Resolution{ID: c.id, Name: c.name, Kind: MatchExact}
			}
		}

		first := strings.Fields(key)[0]
		for _, c := range cands {
			if strings.HasPrefix(c.key, first) {
				return Resolution{
					ID:   c.id,
					Name: c.name,
					Kind: MatchPartial,
					Note: fmt.Sprintf("%s %q matched approximately to %q", entity, query, c.name),
				}
			}
		}
	}

	if fallback {
		for _, c := range cands {
			if c.active {
				note := fmt.Sprintf("%s %q not found; using first active %s %q", entity, query, entity, c.name)
				if key == "" {
					note = fmt.Sprintf("%s not provided; using first active %s %q", entity, entity, c.name)
				}
				return Resolution{ID: c.id, Name: c.name, Kind: MatchFallback, Note: note}
			}
		}
	}

	if key == "" {
		return Resolution{Kind: MatchNone, Note: fmt.Sprintf("%s is blank", entity)}
	}
	return Resolution{Kind: MatchNone, Note: fmt.Sprintf("%s %q not found", entity, query)}
}
