// Package search builds structured predicates from untrusted request
// parameters. A predicate is plain data (an AND of OR-groups); nothing in it
// is ever interpreted as pattern syntax, so user input cannot change matching
// semantics no matter what characters it contains.
package search

import (
	"strings"

	"github.com/google/uuid"
)

type ClauseKind int

const (
	// ContainsFold matches when the field contains the value, case-insensitive.
	ContainsFold ClauseKind = iota
	// IDEquals matches when the record id equals the value exactly.
	IDEquals
	// ActiveEquals matches on the boolean active flag.
	ActiveEquals
)

type Clause struct {
	Kind   ClauseKind
	Field  string
	Value  string
	Active bool
}

// Condition is an OR-group: it holds when any clause holds.
type Condition struct {
	Any []Clause
}

// Predicate is an AND of conditions. The zero value matches everything.
type Predicate struct {
	All []Condition
}

// Params are the raw request parameters. All three are untrusted and optional.
type Params struct {
	Query  string
	Filter string
	Active string
}

// Build assembles a predicate from raw params over the given field sets.
// Query ORs across queryFields (plus an exact-id clause when the term is a
// valid uuid); filter ORs across filterFields; active adds an equality term.
// Empty input degrades to a match-everything predicate, never an error.
func Build(queryFields, filterFields []string, p Params) Predicate {
	var pred Predicate

	if p.Query != "" {
		var cond Condition
		if uuid.Validate(p.Query) == nil {
			cond.Any = append(cond.Any, Clause{Kind: IDEquals, Value: p.Query})
		}
		for _, f := range queryFields {
			cond.Any = append(cond.Any, Clause{Kind: ContainsFold, Field: f, Value: p.Query})
		}
		pred.All = append(pred.All, cond)
	}

	if p.Filter != "" {
		var cond Condition
		for _, f := range filterFields {
			cond.Any = append(cond.Any, Clause{Kind: ContainsFold, Field: f, Value: p.Filter})
		}
		pred.All = append(pred.All, cond)
	}

	if p.Active != "" {
		pred.All = append(pred.All, Condition{Any: []Clause{
			{Kind: ActiveEquals, Active: p.Active == "true"},
		}})
	}

	return pred
}

// Document is the flat view of a record that a predicate evaluates against.
type Document struct {
	ID     string
	Fields map[string]string
	Active bool
}

// Matches reports whether the document satisfies the predicate. This is the
// reference semantics; the postgres layer translates the same predicate to
// parameterized SQL.
func (p Predicate) Matches(d Document) bool {
	for _, cond := range p.All {
		if !cond.matches(d) {
			return false
		}
	}
	return true
}

func (c Condition) matches(d Document) bool {
	for _, cl := range c.Any {
		switch cl.Kind {
		case IDEquals:
			if d.ID == cl.Value {
				return true
			}
		case ContainsFold:
			v, ok := d.Fields[cl.Field]
			if ok && containsFold(v, cl.Value) {
				return true
			}
		case ActiveEquals:
			if d.Active == cl.Active {
				return true
			}
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
