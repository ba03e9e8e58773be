package nodes

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

func fieldPrefix(field string) string {
	if field == "" {
		return ""
	}
	return field + ":"
}

func joinCanonical(children []Node, sep string) string {
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = c.CanonicalString()
	}
	return strings.Join(parts, sep)
}

// TermNode is a single term, optionally qualified with a field name.
type TermNode struct {
	Base
	field string
	text  string
}

// NewTerm creates a detached term node.
func NewTerm(field, text string) *TermNode {
	return &TermNode{field: field, text: text}
}

func (n *TermNode) Kind() Kind            { return KindTerm }
func (n *TermNode) Field() string         { return n.field }
func (n *TermNode) SetField(field string) { n.field = field }
func (n *TermNode) Text() string          { return n.text }

func (n *TermNode) CanonicalString() string {
	return fieldPrefix(n.field) + n.text
}

// FieldNode scopes its children to one field name. A bare field node has no
// children and carries the field name only.
type FieldNode struct {
	Base
	field string
}

// NewField creates a field node adopting the given children.
func NewField(field string, children ...Node) *FieldNode {
	n := &FieldNode{field: field}
	adopt(n, children)
	return n
}

func (n *FieldNode) Kind() Kind            { return KindField }
func (n *FieldNode) Field() string         { return n.field }
func (n *FieldNode) SetField(field string) { n.field = field }

func (n *FieldNode) CanonicalString() string {
	if len(n.children) == 0 {
		return n.field + ":"
	}
	return n.field + ":(" + joinCanonical(n.children, " ") + ")"
}

// OrNode is an n-ary disjunction. Both explicit OR and implicit adjacency
// under a default-OR operator produce this variant; clause order is preserved.
type OrNode struct {
	Base
}

// NewOr creates an OR node adopting the given clauses in order.
func NewOr(clauses ...Node) *OrNode {
	n := &OrNode{}
	adopt(n, clauses)
	return n
}

func (n *OrNode) Kind() Kind { return KindOr }

func (n *OrNode) CanonicalString() string {
	return "(" + joinCanonical(n.children, " OR ") + ")"
}

// AndNode is an n-ary conjunction produced by an explicit AND operator.
type AndNode struct {
	Base
}

// NewAnd creates an AND node adopting the given clauses in order.
func NewAnd(clauses ...Node) *AndNode {
	n := &AndNode{}
	adopt(n, clauses)
	return n
}

func (n *AndNode) Kind() Kind { return KindAnd }

func (n *AndNode) CanonicalString() string {
	return "(" + joinCanonical(n.children, " AND ") + ")"
}

// NotNode negates its single child.
type NotNode struct {
	Base
}

// NewNot creates a NOT node over operand.
func NewNot(operand Node) *NotNode {
	n := &NotNode{}
	adopt(n, []Node{operand})
	return n
}

func (n *NotNode) Kind() Kind { return KindNot }

func (n *NotNode) CanonicalString() string {
	if len(n.children) == 0 {
		return "NOT"
	}
	return "NOT " + n.children[0].CanonicalString()
}

// GroupNode preserves explicit parentheses from the query text.
type GroupNode struct {
	Base
}

// NewGroup creates a group node around child.
func NewGroup(child Node) *GroupNode {
	n := &GroupNode{}
	adopt(n, []Node{child})
	return n
}

func (n *GroupNode) Kind() Kind { return KindGroup }

func (n *GroupNode) CanonicalString() string {
	// A lone boolean child already renders parenthesized; adding another
	// layer would make the canonical form grow on every parse round-trip.
	if len(n.children) == 1 {
		switch n.children[0].Kind() {
		case KindOr, KindAnd, KindGroup:
			return n.children[0].CanonicalString()
		}
	}
	return "(" + joinCanonical(n.children, " ") + ")"
}

// PhraseNode is a quoted phrase, optionally qualified with a field name.
type PhraseNode struct {
	Base
	field string
	text  string
}

// NewPhrase creates a detached phrase node.
func NewPhrase(field, text string) *PhraseNode {
	return &PhraseNode{field: field, text: text}
}

func (n *PhraseNode) Kind() Kind            { return KindPhrase }
func (n *PhraseNode) Field() string         { return n.field }
func (n *PhraseNode) SetField(field string) { n.field = field }
func (n *PhraseNode) Text() string          { return n.text }

func (n *PhraseNode) CanonicalString() string {
	return fieldPrefix(n.field) + `"` + n.text + `"`
}

// WildcardNode is a term containing * or ? wildcards.
type WildcardNode struct {
	Base
	field   string
	pattern string
}

// NewWildcard creates a detached wildcard node.
func NewWildcard(field, pattern string) *WildcardNode {
	return &WildcardNode{field: field, pattern: pattern}
}

func (n *WildcardNode) Kind() Kind            { return KindWildcard }
func (n *WildcardNode) Field() string         { return n.field }
func (n *WildcardNode) SetField(field string) { n.field = field }
func (n *WildcardNode) Pattern() string       { return n.pattern }

func (n *WildcardNode) CanonicalString() string {
	return fieldPrefix(n.field) + n.pattern
}

// FuzzyNode is a term with a fuzzy-match suffix (term~0.8).
type FuzzyNode struct {
	Base
	field      string
	text       string
	similarity float64
}

// NewFuzzy creates a detached fuzzy node.
func NewFuzzy(field, text string, similarity float64) *FuzzyNode {
	return &FuzzyNode{field: field, text: text, similarity: similarity}
}

func (n *FuzzyNode) Kind() Kind            { return KindFuzzy }
func (n *FuzzyNode) Field() string         { return n.field }
func (n *FuzzyNode) SetField(field string) { n.field = field }
func (n *FuzzyNode) Text() string          { return n.text }
func (n *FuzzyNode) Similarity() float64   { return n.similarity }

func (n *FuzzyNode) CanonicalString() string {
	return fieldPrefix(n.field) + n.text + "~" + strconv.FormatFloat(n.similarity, 'g', -1, 64)
}

// BoostNode multiplies the score of its single child (child^2).
type BoostNode struct {
	Base
	boost float64
}

// NewBoost creates a boost node over child.
func NewBoost(child Node, boost float64) *BoostNode {
	n := &BoostNode{boost: boost}
	adopt(n, []Node{child})
	return n
}

func (n *BoostNode) Kind() Kind     { return KindBoost }
func (n *BoostNode) Boost() float64 { return n.boost }

func (n *BoostNode) CanonicalString() string {
	inner := ""
	if len(n.children) > 0 {
		inner = n.children[0].CanonicalString()
	}
	return inner + "^" + strconv.FormatFloat(n.boost, 'g', -1, 64)
}

// RangeNode is a numeric range query. Bounds are arbitrary-precision decimals
// so that large integer and high-precision literals survive parsing intact.
type RangeNode struct {
	Base
	field          string
	lower, upper   decimal.Decimal
	lowerInclusive bool
	upperInclusive bool
}

// NewRange creates a detached range node.
func NewRange(field string, lower, upper decimal.Decimal, lowerInclusive, upperInclusive bool) *RangeNode {
	return &RangeNode{
		field:          field,
		lower:          lower,
		upper:          upper,
		lowerInclusive: lowerInclusive,
		upperInclusive: upperInclusive,
	}
}

func (n *RangeNode) Kind() Kind             { return KindRange }
func (n *RangeNode) Field() string          { return n.field }
func (n *RangeNode) SetField(field string)  { n.field = field }
func (n *RangeNode) Lower() decimal.Decimal { return n.lower }
func (n *RangeNode) Upper() decimal.Decimal { return n.upper }
func (n *RangeNode) LowerInclusive() bool   { return n.lowerInclusive }
func (n *RangeNode) UpperInclusive() bool   { return n.upperInclusive }

func (n *RangeNode) CanonicalString() string {
	open, closing := "{", "}"
	if n.lowerInclusive {
		open = "["
	}
	if n.upperInclusive {
		closing = "]"
	}
	return fieldPrefix(n.field) + open + n.lower.String() + " TO " + n.upper.String() + closing
}
