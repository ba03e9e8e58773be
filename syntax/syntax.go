// Package syntax turns raw query text into an initial query-node tree.
//
// The Parser interface is the contract any grammar must satisfy to feed the
// processing pipeline; ClassicParser is the grammar shipped with this module.
package syntax

import (
	"fmt"

	"github.com/nlstn/go-queryparser/nodes"
)

// Parser converts query text into the root of an initial node tree. The
// default field is applied to every clause that carries no explicit field
// qualifier.
type Parser interface {
	Parse(queryText, defaultField string) (nodes.Node, error)
}

// SyntaxError reports malformed query text. It carries the rune offset and
// the offending token so callers can point at the problem.
type SyntaxError struct {
	Query   string
	Pos     int
	Token   string
	Message string
}

func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("syntax error at position %d: %s", e.Pos, e.Message)
	}
	return fmt.Sprintf("syntax error at position %d near %q: %s", e.Pos, e.Token, e.Message)
}
