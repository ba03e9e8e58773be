// Package fts compiles validated query trees into database full-text-search
// match expressions. It is the second builder target of this module: the same
// tree that builds into span queries builds into SQLite FTS5/FTS4 MATCH
// syntax or PostgreSQL websearch_to_tsquery syntax by swapping the registry,
// with no change to parsing or processing.
package fts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nlstn/go-queryparser/builders"
	"github.com/nlstn/go-queryparser/nodes"
)

// Dialect selects the match-expression syntax a registry produces.
type Dialect string

const (
	// DialectFTS5 targets SQLite FTS5 MATCH syntax (AND/OR/NOT, phrases,
	// prefix queries, column filters).
	DialectFTS5 Dialect = "fts5"
	// DialectFTS4 targets SQLite FTS3/FTS4 MATCH syntax. NOT clauses are
	// silently dropped; the positive clauses still participate.
	DialectFTS4 Dialect = "fts4"
	// DialectWebsearch targets PostgreSQL websearch_to_tsquery syntax.
	DialectWebsearch Dialect = "websearch"
)

var (
	errUnsupportedWildcard = errors.New("only trailing-* prefix patterns are supported")
	errWildcardDialect     = errors.New("wildcard queries require the FTS5 dialect")
)

// MatchQuery is one built match-expression fragment.
type MatchQuery struct {
	expr    string
	dialect Dialect
	leaf    bool // term or phrase; decides whether NOT needs parentheses
}

func (q *MatchQuery) String() string { return q.expr }

// Dialect returns the syntax the expression is written in.
func (q *MatchQuery) Dialect() Dialect { return q.dialect }

// NewRegistry creates a builder registry producing match expressions in the
// given dialect.
func NewRegistry(d Dialect) *builders.Registry {
	reg := builders.NewRegistry()
	reg.Register(nodes.KindTerm, func(n nodes.Node, _ []builders.Query) (builders.Query, error) {
		term, ok := n.(*nodes.TermNode)
		if !ok {
			return nil, unexpectedNode("term", n)
		}
		return &MatchQuery{expr: term.Text(), dialect: d, leaf: true}, nil
	})
	reg.Register(nodes.KindPhrase, func(n nodes.Node, _ []builders.Query) (builders.Query, error) {
		phrase, ok := n.(*nodes.PhraseNode)
		if !ok {
			return nil, unexpectedNode("phrase", n)
		}
		return buildPhrase(d, phrase.Text()), nil
	})
	reg.Register(nodes.KindWildcard, func(n nodes.Node, _ []builders.Query) (builders.Query, error) {
		wildcard, ok := n.(*nodes.WildcardNode)
		if !ok {
			return nil, unexpectedNode("wildcard", n)
		}
		return buildWildcard(d, wildcard.Pattern())
	})
	reg.Register(nodes.KindOr, func(_ nodes.Node, children []builders.Query) (builders.Query, error) {
		return combine(d, children, or), nil
	})
	reg.Register(nodes.KindAnd, func(_ nodes.Node, children []builders.Query) (builders.Query, error) {
		return combine(d, children, and), nil
	})
	reg.Register(nodes.KindNot, func(_ nodes.Node, children []builders.Query) (builders.Query, error) {
		return buildNot(d, children)
	})
	reg.Register(nodes.KindGroup, func(_ nodes.Node, children []builders.Query) (builders.Query, error) {
		if len(children) == 1 {
			return children[0], nil
		}
		return combine(d, children, and), nil
	})
	reg.Register(nodes.KindField, func(n nodes.Node, children []builders.Query) (builders.Query, error) {
		field, ok := n.(*nodes.FieldNode)
		if !ok {
			return nil, unexpectedNode("field", n)
		}
		return buildFieldScope(d, field.Field(), children)
	})
	return reg
}

func unexpectedNode(builder string, n nodes.Node) error {
	return fmt.Errorf("%s builder got %T for node %q", builder, n, n.CanonicalString())
}

func buildPhrase(d Dialect, text string) *MatchQuery {
	switch d {
	case DialectWebsearch:
		// websearch_to_tsquery phrases must not contain embedded quotes.
		return &MatchQuery{expr: `"` + strings.ReplaceAll(text, `"`, ``) + `"`, dialect: d, leaf: true}
	default:
		return &MatchQuery{expr: `"` + strings.ReplaceAll(text, `"`, `""`) + `"`, dialect: d, leaf: true}
	}
}

func buildWildcard(d Dialect, pattern string) (*MatchQuery, error) {
	if d != DialectFTS5 {
		return nil, errWildcardDialect
	}
	prefix := strings.TrimSuffix(pattern, "*")
	if strings.ContainsAny(prefix, "*?") {
		return nil, fmt.Errorf("%w: %q", errUnsupportedWildcard, pattern)
	}
	return &MatchQuery{expr: prefix + "*", dialect: d, leaf: true}, nil
}

type combinator int

const (
	and combinator = iota
	or
)

// combine joins child fragments with the dialect's conjunction or
// disjunction, skipping fragments a lossy dialect emptied out.
func combine(d Dialect, children []builders.Query, c combinator) *MatchQuery {
	var parts []string
	for _, child := range children {
		if expr := child.String(); expr != "" {
			parts = append(parts, expr)
		}
	}
	if len(parts) == 0 {
		return &MatchQuery{dialect: d}
	}
	if len(parts) == 1 {
		return &MatchQuery{expr: parts[0], dialect: d, leaf: isLeaf(children)}
	}
	var expr string
	switch {
	case c == or && d == DialectWebsearch:
		expr = strings.Join(parts, " or ")
	case c == or:
		expr = "(" + strings.Join(parts, " OR ") + ")"
	case d == DialectFTS5:
		expr = strings.Join(parts, " AND ")
	default:
		// FTS3/4 and websearch express AND as adjacency.
		expr = strings.Join(parts, " ")
	}
	return &MatchQuery{expr: expr, dialect: d}
}

func isLeaf(children []builders.Query) bool {
	if len(children) != 1 {
		return false
	}
	mq, ok := children[0].(*MatchQuery)
	return ok && mq.leaf
}

func buildNot(d Dialect, children []builders.Query) (builders.Query, error) {
	if len(children) != 1 {
		return nil, fmt.Errorf("NOT expects exactly one clause, got %d", len(children))
	}
	child, ok := children[0].(*MatchQuery)
	if !ok {
		return nil, fmt.Errorf("NOT clause is not a match query (got %T)", children[0])
	}
	switch d {
	case DialectFTS4:
		// FTS3/4 cannot express NOT; drop the negated clause.
		return &MatchQuery{dialect: d}, nil
	case DialectWebsearch:
		if child.leaf {
			return &MatchQuery{expr: "-" + child.expr, dialect: d}, nil
		}
		return &MatchQuery{expr: "-(" + child.expr + ")", dialect: d}, nil
	default:
		if child.leaf {
			return &MatchQuery{expr: "NOT " + child.expr, dialect: d}, nil
		}
		return &MatchQuery{expr: "NOT (" + child.expr + ")", dialect: d}, nil
	}
}

// buildFieldScope applies an FTS5 column filter; the other dialects match
// across all indexed columns and ignore the field qualifier.
func buildFieldScope(d Dialect, field string, children []builders.Query) (builders.Query, error) {
	inner := combine(d, children, and)
	if d != DialectFTS5 || inner.expr == "" {
		return inner, nil
	}
	return &MatchQuery{expr: field + " : (" + inner.expr + ")", dialect: d}, nil
}
