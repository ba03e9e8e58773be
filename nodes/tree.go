package nodes

import (
	"errors"
	"fmt"
	"iter"
)

var (
	errNilNode       = errors.New("node must not be nil")
	errIndexRange    = errors.New("child index out of range")
	errNoParent      = errors.New("node has no parent")
	errChildNotFound = errors.New("node is not a child of its recorded parent")
)

// Attach inserts child at index among parent's children. If child is already
// attached somewhere else it is detached first, so a node is never a child of
// two parents; when moving a child under its current parent, index refers to
// the positions remaining after the removal. Attaching a node above itself is
// rejected with a *CycleError and leaves both trees unchanged.
func Attach(parent, child Node, index int) error {
	if parent == nil || child == nil {
		return errNilNode
	}
	for n := parent; n != nil; n = n.Parent() {
		if n.links() == child.links() {
			return &CycleError{Node: child}
		}
	}
	pl := parent.links()
	max := len(pl.children)
	// A same-parent move removes the child before re-inserting it, so there
	// is one position fewer to insert at.
	if cp := child.links().parent; cp != nil && cp.links() == pl {
		max--
	}
	if index < 0 || index > max {
		return fmt.Errorf("%w: %d with %d children", errIndexRange, index, max)
	}
	Detach(child)
	pl.children = append(pl.children, nil)
	copy(pl.children[index+1:], pl.children[index:])
	pl.children[index] = child
	child.links().parent = parent
	return nil
}

// Detach removes node from its parent's child list and clears the parent
// reference. The node's own children are untouched: the subtree moves as a
// unit. Detaching an already-detached node is a no-op.
func Detach(node Node) {
	if node == nil {
		return
	}
	parent := node.links().parent
	if parent == nil {
		return
	}
	pl := parent.links()
	for i, c := range pl.children {
		if c.links() == node.links() {
			pl.children = append(pl.children[:i], pl.children[i+1:]...)
			break
		}
	}
	node.links().parent = nil
}

// Replace substitutes newSubtree for oldNode at the same position under the
// same parent. oldNode must currently be attached. The substitution is atomic:
// on any error neither tree is modified.
func Replace(oldNode, newSubtree Node) error {
	if oldNode == nil || newSubtree == nil {
		return errNilNode
	}
	if oldNode.links() == newSubtree.links() {
		return nil
	}
	parent := oldNode.links().parent
	if parent == nil {
		return errNoParent
	}
	for n := parent; n != nil; n = n.Parent() {
		if n.links() == newSubtree.links() {
			return &CycleError{Node: newSubtree}
		}
	}
	pl := parent.links()
	index := -1
	for i, c := range pl.children {
		if c.links() == oldNode.links() {
			index = i
			break
		}
	}
	if index < 0 {
		return errChildNotFound
	}
	Detach(newSubtree)
	pl.children[index] = newSubtree
	newSubtree.links().parent = parent
	oldNode.links().parent = nil
	return nil
}

// PreOrder returns a lazy, restartable pre-order traversal of the tree rooted
// at root. Ranging over the sequence again restarts from the root.
func PreOrder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		var walk func(n Node) bool
		walk = func(n Node) bool {
			if !yield(n) {
				return false
			}
			for _, c := range n.Children() {
				if !walk(c) {
					return false
				}
			}
			return true
		}
		if root != nil {
			walk(root)
		}
	}
}
