// Package builders converts a validated query-node tree into a concrete query
// object.
//
// A Registry maps each node variant to a builder function; a TreeBuilder
// drives a bottom-up walk over the tree, building every child before its
// parent and dispatching on the node's Kind. Builders are pure: they read the
// node and the already-built children, and never touch the tree. All tree
// rewriting belongs in the processor pipeline, which is what lets the same
// tree compile to different target representations by swapping only the
// registry.
package builders

import (
	"errors"
	"fmt"

	"github.com/nlstn/go-queryparser/nodes"
)

// Query is a built query fragment. The only behavior the framework requires
// of it is a canonical textual rendering; concrete registries return richer
// types underneath.
type Query interface {
	String() string
}

// Builder synthesizes a query fragment from a node and the fragments already
// built for its children, in child order. Builders must not mutate the tree.
type Builder func(node nodes.Node, children []Query) (Query, error)

// Registry maps node variants to builders.
type Registry struct {
	builders map[nodes.Kind]Builder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[nodes.Kind]Builder)}
}

// Register associates a builder with a node variant. Re-registering a variant
// overwrites the previous builder.
func (r *Registry) Register(kind nodes.Kind, b Builder) {
	r.builders[kind] = b
}

// Lookup returns the builder registered for kind.
func (r *Registry) Lookup(kind nodes.Kind) (Builder, bool) {
	b, ok := r.builders[kind]
	return b, ok
}

// UnknownNodeTypeError reports a node variant that reached the builder with
// no registered builder: the pipeline produced, or left in place, a variant
// the registry does not know.
type UnknownNodeTypeError struct {
	Kind nodes.Kind
	Node nodes.Node
}

func (e *UnknownNodeTypeError) Error() string {
	return fmt.Sprintf("no builder registered for node type %q (node %q)", e.Kind, e.Node.CanonicalString())
}

var errNilRoot = errors.New("cannot build a nil tree")

// TreeBuilder walks a tree bottom-up and dispatches each node to its
// registered builder.
type TreeBuilder struct {
	registry *Registry
}

// NewTreeBuilder creates a tree builder over the given registry.
func NewTreeBuilder(registry *Registry) *TreeBuilder {
	return &TreeBuilder{registry: registry}
}

// Registry returns the registry the builder dispatches through.
func (t *TreeBuilder) Registry() *Registry { return t.registry }

// Build builds the whole tree and returns the root's result. Any node without
// a registered builder, at any depth, fails the build with an
// *UnknownNodeTypeError.
func (t *TreeBuilder) Build(root nodes.Node) (Query, error) {
	if root == nil {
		return nil, errNilRoot
	}
	return t.buildNode(root)
}

func (t *TreeBuilder) buildNode(n nodes.Node) (Query, error) {
	children := n.Children()
	built := make([]Query, len(children))
	for i, c := range children {
		q, err := t.buildNode(c)
		if err != nil {
			return nil, err
		}
		built[i] = q
	}
	b, ok := t.registry.Lookup(n.Kind())
	if !ok {
		return nil, &UnknownNodeTypeError{Kind: n.Kind(), Node: n}
	}
	return b(n, built)
}
