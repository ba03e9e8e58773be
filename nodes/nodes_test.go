package nodes

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Attach / Detach: tree structure invariants
// ---------------------------------------------------------------------------

func TestAttach_InsertsAtIndex(t *testing.T) {
	or := NewOr(NewTerm("f", "a"), NewTerm("f", "c"))
	b := NewTerm("f", "b")

	if err := Attach(or, b, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := or.CanonicalString(); got != "(f:a OR f:b OR f:c)" {
		t.Errorf("expected middle insertion, got %q", got)
	}
	if b.Parent() != Node(or) {
		t.Error("expected parent back-reference to be set")
	}
}

func TestAttach_DetachesFromPreviousParent(t *testing.T) {
	term := NewTerm("f", "x")
	first := NewOr(term)
	second := NewOr()

	if err := Attach(second, term, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first.Children()) != 0 {
		t.Errorf("expected node to leave its old parent, old parent still has %d children", len(first.Children()))
	}
	if len(second.Children()) != 1 {
		t.Fatalf("expected node under new parent, got %d children", len(second.Children()))
	}
	if term.Parent() != Node(second) {
		t.Error("expected parent reference to point at the new parent")
	}
}

func TestAttach_RejectsCycle(t *testing.T) {
	inner := NewOr(NewTerm("f", "a"))
	outer := NewOr(inner)

	err := Attach(inner, outer, 0)
	if err == nil {
		t.Fatal("expected cycle error")
	}
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected *CycleError, got %T", err)
	}
	// Tree must be unchanged.
	if got := outer.CanonicalString(); got != "((f:a))" {
		t.Errorf("tree changed after rejected attach: %q", got)
	}
}

func TestAttach_RejectsSelf(t *testing.T) {
	or := NewOr(NewTerm("f", "a"))
	var cycleErr *CycleError
	if err := Attach(or, or, 0); !errors.As(err, &cycleErr) {
		t.Fatalf("expected *CycleError attaching a node to itself, got %v", err)
	}
}

func TestAttach_IndexOutOfRange(t *testing.T) {
	or := NewOr(NewTerm("f", "a"))
	if err := Attach(or, NewTerm("f", "b"), 5); err == nil {
		t.Error("expected error for index past the child list")
	}
	if err := Attach(or, NewTerm("f", "b"), -1); err == nil {
		t.Error("expected error for negative index")
	}
}

func TestAttach_MovesChildToLastPositionUnderSameParent(t *testing.T) {
	a := NewTerm("f", "a")
	or := NewOr(a, NewTerm("f", "b"), NewTerm("f", "c"))

	if err := Attach(or, a, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := or.CanonicalString(); got != "(f:b OR f:c OR f:a)" {
		t.Errorf("expected child moved to the end, got %q", got)
	}
	if a.Parent() != Node(or) {
		t.Error("expected moved child to stay attached to its parent")
	}
	// The pre-move child count is not a valid insert position for a
	// same-parent move; it must fail cleanly.
	if err := Attach(or, a, 3); !errors.Is(err, errIndexRange) {
		t.Errorf("expected index range error, got %v", err)
	}
	if got := or.CanonicalString(); got != "(f:b OR f:c OR f:a)" {
		t.Errorf("tree changed after rejected attach: %q", got)
	}
}

func TestDetach_SubtreeMovesAsUnit(t *testing.T) {
	leaf := NewTerm("f", "deep")
	group := NewGroup(leaf)
	root := NewOr(group, NewTerm("f", "other"))

	Detach(group)

	if group.Parent() != nil {
		t.Error("expected cleared parent reference")
	}
	if len(root.Children()) != 1 {
		t.Errorf("expected one remaining child, got %d", len(root.Children()))
	}
	if leaf.Parent() != Node(group) {
		t.Error("expected detached subtree to keep its own children")
	}
}

func TestDetach_NoParentIsNoop(t *testing.T) {
	term := NewTerm("f", "a")
	Detach(term) // must not panic
	if term.Parent() != nil {
		t.Error("expected nil parent")
	}
}

// ---------------------------------------------------------------------------
// Replace
// ---------------------------------------------------------------------------

func TestReplace_SamePositionSameParent(t *testing.T) {
	old := NewTerm("f", "old")
	root := NewOr(NewTerm("f", "a"), old, NewTerm("f", "c"))
	replacement := NewOr(NewTerm("f", "x"), NewTerm("f", "y"))

	if err := Replace(old, replacement); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := root.CanonicalString(); got != "(f:a OR (f:x OR f:y) OR f:c)" {
		t.Errorf("unexpected tree after replace: %q", got)
	}
	if old.Parent() != nil {
		t.Error("expected replaced node to be detached")
	}
	if replacement.Parent() != Node(root) {
		t.Error("expected replacement to be attached to the old parent")
	}
}

func TestReplace_DetachedNodeFails(t *testing.T) {
	if err := Replace(NewTerm("f", "a"), NewTerm("f", "b")); err == nil {
		t.Error("expected error replacing a node without a parent")
	}
}

func TestReplace_RejectsCycle(t *testing.T) {
	leaf := NewTerm("f", "a")
	root := NewOr(NewGroup(leaf))

	var cycleErr *CycleError
	if err := Replace(leaf, root); !errors.As(err, &cycleErr) {
		t.Fatalf("expected *CycleError, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// PreOrder traversal
// ---------------------------------------------------------------------------

func TestPreOrder_Order(t *testing.T) {
	//        or
	//      /    \
	//   group    c
	//     |
	//     b
	b := NewTerm("f", "b")
	group := NewGroup(b)
	c := NewTerm("f", "c")
	root := NewOr(group, c)

	var kinds []Kind
	for n := range PreOrder(root) {
		kinds = append(kinds, n.Kind())
	}
	want := []Kind{KindOr, KindGroup, KindTerm, KindTerm}
	if len(kinds) != len(want) {
		t.Fatalf("expected %d nodes, got %d", len(want), len(kinds))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], kinds[i])
		}
	}
}

func TestPreOrder_Restartable(t *testing.T) {
	root := NewOr(NewTerm("f", "a"), NewTerm("f", "b"))

	seq := PreOrder(root)
	first, second := 0, 0
	for range seq {
		first++
	}
	for range seq {
		second++
	}
	if first != 3 || second != 3 {
		t.Errorf("expected 3 nodes on both passes, got %d and %d", first, second)
	}
}

func TestPreOrder_EarlyStop(t *testing.T) {
	root := NewOr(NewTerm("f", "a"), NewTerm("f", "b"), NewTerm("f", "c"))
	count := 0
	for range PreOrder(root) {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("expected traversal to stop after 2 nodes, visited %d", count)
	}
}

// ---------------------------------------------------------------------------
// Canonical rendering and equality
// ---------------------------------------------------------------------------

func TestCanonicalString_Variants(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"term with field", NewTerm("title", "go"), "title:go"},
		{"term without field", NewTerm("", "go"), "go"},
		{"bare field", NewField("title"), "title:"},
		{"field group", NewField("title", NewTerm("", "a"), NewTerm("", "b")), "title:(a b)"},
		{"or", NewOr(NewTerm("f", "a"), NewTerm("f", "b")), "(f:a OR f:b)"},
		{"and", NewAnd(NewTerm("f", "a"), NewTerm("f", "b")), "(f:a AND f:b)"},
		{"not", NewNot(NewTerm("f", "a")), "NOT f:a"},
		{"group", NewGroup(NewTerm("f", "a")), "(f:a)"},
		{"phrase", NewPhrase("f", "hello world"), `f:"hello world"`},
		{"wildcard", NewWildcard("f", "te*t"), "f:te*t"},
		{"fuzzy", NewFuzzy("f", "roam", 0.8), "f:roam~0.8"},
		{"boost", NewBoost(NewTerm("f", "a"), 2), "f:a^2"},
		{
			"inclusive range",
			NewRange("price", decimal.NewFromInt(1), decimal.NewFromInt(10), true, true),
			"price:[1 TO 10]",
		},
		{
			"exclusive range",
			NewRange("price", decimal.NewFromInt(1), decimal.NewFromInt(10), false, false),
			"price:{1 TO 10}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.CanonicalString(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	a := NewOr(NewTerm("f", "x"), NewTerm("f", "y"))
	b := NewOr(NewTerm("f", "x"), NewTerm("f", "y"))
	c := NewOr(NewTerm("f", "y"), NewTerm("f", "x"))

	if !Equal(a, b) {
		t.Error("expected structurally identical trees to be equal")
	}
	if Equal(a, c) {
		t.Error("expected differently ordered trees to be unequal")
	}
	if !Equal(nil, nil) {
		t.Error("expected two nil trees to be equal")
	}
	if Equal(a, nil) {
		t.Error("expected tree and nil to be unequal")
	}
}
