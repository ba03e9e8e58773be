package spans

import (
	"errors"
	"fmt"

	"github.com/nlstn/go-queryparser/builders"
	"github.com/nlstn/go-queryparser/nodes"
	"github.com/nlstn/go-queryparser/processors"
)

var errEmptyFieldGroup = errors.New("field node has no clauses")

// NewRegistry creates a builder registry compiling validated trees into span
// queries. Only the variants the Validator admits are registered; anything
// else failing the build with an UnknownNodeTypeError indicates the validator
// was skipped or misordered.
func NewRegistry() *builders.Registry {
	reg := builders.NewRegistry()
	reg.Register(nodes.KindTerm, buildTerm)
	reg.Register(nodes.KindField, buildField)
	reg.Register(nodes.KindOr, buildOr)
	return reg
}

// NewPipelineStages returns the span processing stages in their required
// order: validation first, then field unification before building.
func NewPipelineStages() []processors.Processor {
	return []processors.Processor{NewValidator(), NewUniqueFieldProcessor()}
}

func buildTerm(node nodes.Node, _ []builders.Query) (builders.Query, error) {
	term, ok := node.(*nodes.TermNode)
	if !ok {
		return nil, fmt.Errorf("term builder got %T for node %q", node, node.CanonicalString())
	}
	return &TermQuery{FieldName: term.Field(), Term: term.Text()}, nil
}

func buildField(node nodes.Node, children []builders.Query) (builders.Query, error) {
	field, ok := node.(*nodes.FieldNode)
	if !ok {
		return nil, fmt.Errorf("field builder got %T for node %q", node, node.CanonicalString())
	}
	switch len(children) {
	case 0:
		return nil, fmt.Errorf("%w: %q", errEmptyFieldGroup, field.CanonicalString())
	case 1:
		return children[0], nil
	default:
		return wrapClauses(children)
	}
}

func buildOr(_ nodes.Node, children []builders.Query) (builders.Query, error) {
	return wrapClauses(children)
}

// wrapClauses asserts that every built child is a span query and combines
// them, preserving child order.
func wrapClauses(children []builders.Query) (builders.Query, error) {
	clauses := make([]Query, len(children))
	for i, c := range children {
		sq, ok := c.(Query)
		if !ok {
			return nil, fmt.Errorf("clause %d is not a span query (got %T)", i, c)
		}
		clauses[i] = sq
	}
	return &OrQuery{Clauses: clauses}, nil
}
