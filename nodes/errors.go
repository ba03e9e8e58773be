package nodes

import "fmt"

// CycleError reports an Attach or Replace call that would make a node an
// ancestor of itself. The trees involved are left unchanged.
type CycleError struct {
	// Node is the subtree root whose attachment was rejected.
	Node Node
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("attaching %q would create a cycle", e.Node.CanonicalString())
}

// Construct names a query construct in validation diagnostics, so that a
// caller can tell a rejected wildcard from a rejected range.
type Construct string

const (
	ConstructWildcard Construct = "wildcard"
	ConstructRange    Construct = "range"
	ConstructPhrase   Construct = "phrase"
	ConstructBoost    Construct = "boost"
	ConstructFuzzy    Construct = "fuzzy"
	ConstructGroup    Construct = "parenthesized group"
	ConstructAnd      Construct = "explicit AND"
	ConstructNot      Construct = "NOT"
)

// QueryNodeError reports a node shape that a validating processor does not
// support. It carries the offending node and the construct it represents.
type QueryNodeError struct {
	Construct Construct
	Node      Node
}

func (e *QueryNodeError) Error() string {
	return fmt.Sprintf("unsupported query construct %s: %q", e.Construct, e.Node.CanonicalString())
}
