// Package spans composes the framework into a span-query target: a
// restrictive validator, a field-unification processor, and builders that
// compile term and OR trees into positional span queries.
//
// The specialization narrows the accepted grammar by rejecting tree shapes in
// a processor, not by constraining the syntax parser: the full classic
// grammar still parses, and anything outside term/field/OR fails validation
// with a per-construct diagnostic.
package spans

import (
	"strings"

	"github.com/nlstn/go-queryparser/builders"
)

// Query is a built span query. Beyond the framework-level canonical string it
// renders relative to a field: ToString omits the field qualifier of clauses
// whose field matches the given one, following the usual query-rendering
// convention.
type Query interface {
	builders.Query
	ToString(field string) string
}

// TermQuery matches a single term at its positions in one field.
type TermQuery struct {
	FieldName string
	Term      string
}

func (q *TermQuery) String() string { return q.ToString("") }

func (q *TermQuery) ToString(field string) string {
	if q.FieldName == field {
		return q.Term
	}
	return q.FieldName + ":" + q.Term
}

// OrQuery matches spans of any of its clauses. Clause order is preserved
// exactly as built; clauses are never sorted or deduplicated.
type OrQuery struct {
	Clauses []Query
}

func (q *OrQuery) String() string { return q.ToString("") }

func (q *OrQuery) ToString(field string) string {
	parts := make([]string, len(q.Clauses))
	for i, c := range q.Clauses {
		parts[i] = c.ToString(field)
	}
	return "spanOr([" + strings.Join(parts, ", ") + "])"
}
