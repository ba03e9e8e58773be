// Package nodes defines the query-node tree that the whole parsing front end
// operates on: the syntax parser produces it, processors rewrite it, and
// builders compile it into a concrete query object.
//
// A tree is a finite, acyclic structure of tagged variants. Every node knows
// its ordered children and holds a non-owning back-reference to its parent.
// A node belongs to at most one parent at a time; Attach moves a node by
// detaching it from its previous parent first.
package nodes

// Kind identifies a node variant. It is an open set: packages that introduce
// new variants declare their own Kind values.
type Kind string

// Kinds of the variants declared in this package.
const (
	KindTerm     Kind = "term"
	KindField    Kind = "field"
	KindOr       Kind = "or"
	KindAnd      Kind = "and"
	KindNot      Kind = "not"
	KindGroup    Kind = "group"
	KindPhrase   Kind = "phrase"
	KindWildcard Kind = "wildcard"
	KindFuzzy    Kind = "fuzzy"
	KindBoost    Kind = "boost"
	KindRange    Kind = "range"
)

// Node is one node of the query tree.
//
// Implementations embed Base, which provides the parent/children bookkeeping
// and ties the implementation into the tree operations of this package.
type Node interface {
	// Kind returns the variant identity used for builder dispatch.
	Kind() Kind

	// Children returns the ordered child list. The returned slice must not
	// be modified; use Attach, Detach and Replace to restructure a tree.
	Children() []Node

	// Parent returns the node this node is currently attached to, or nil.
	Parent() Node

	// CanonicalString renders the node (and its subtree) in the canonical
	// textual form used for equality checks and diagnostics.
	CanonicalString() string

	links() *Base
}

// FieldableNode is implemented by every variant that carries a field name.
// Processors such as field unification operate on this interface instead of
// switching over concrete variants.
type FieldableNode interface {
	Node
	Field() string
	SetField(field string)
}

// Base holds the tree links every node variant embeds.
type Base struct {
	parent   Node
	children []Node
}

// Children returns the ordered child list.
func (b *Base) Children() []Node { return b.children }

// Parent returns the current parent node, or nil for a detached node or root.
func (b *Base) Parent() Node { return b.parent }

func (b *Base) links() *Base { return b }

// adopt detaches each child from its previous parent and appends it under
// parent. Used by the variant constructors; callers restructuring an existing
// tree go through Attach.
func adopt(parent Node, children []Node) {
	for _, c := range children {
		if c == nil {
			continue
		}
		Detach(c)
		pl := parent.links()
		pl.children = append(pl.children, c)
		c.links().parent = parent
	}
}

// Equal reports whether two trees are behaviorally equal, defined as having
// equal canonical renderings.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.CanonicalString() == b.CanonicalString()
}
