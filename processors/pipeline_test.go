package processors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nlstn/go-queryparser/config"
	"github.com/nlstn/go-queryparser/nodes"
)

// rewriteFields sets every field-bearing node's field to the given name.
func rewriteFields(field string) Processor {
	return Func{
		StageName: "rewrite-fields",
		Fn: func(_ context.Context, _ *config.Handler, root nodes.Node) (nodes.Node, error) {
			for n := range nodes.PreOrder(root) {
				if f, ok := n.(nodes.FieldableNode); ok {
					f.SetField(field)
				}
			}
			return root, nil
		},
	}
}

// rejectFieldsOtherThan fails on the first field-bearing node whose field
// differs from the given name.
func rejectFieldsOtherThan(field string) Processor {
	return Func{
		StageName: "reject-foreign-fields",
		Fn: func(_ context.Context, _ *config.Handler, root nodes.Node) (nodes.Node, error) {
			for n := range nodes.PreOrder(root) {
				if f, ok := n.(nodes.FieldableNode); ok && f.Field() != field {
					return nil, fmt.Errorf("unexpected field %q", f.Field())
				}
			}
			return root, nil
		},
	}
}

func configured(stages ...Processor) *Pipeline {
	p := NewPipeline(stages...)
	p.SetHandler(config.NewHandler())
	return p
}

// ---------------------------------------------------------------------------
// Configuration state
// ---------------------------------------------------------------------------

func TestProcess_WithoutHandlerFails(t *testing.T) {
	p := NewPipeline()
	_, err := p.Process(context.Background(), nodes.NewTerm("f", "a"))
	if err == nil {
		t.Fatal("expected error running an unconfigured pipeline")
	}
	if !errors.Is(err, ErrPipelineNotConfigured) {
		t.Errorf("expected ErrPipelineNotConfigured, got %v", err)
	}
	var confErr *config.ConfigurationError
	if !errors.As(err, &confErr) {
		t.Errorf("expected a *config.ConfigurationError, got %T", err)
	}
}

func TestProcess_EmptyPipelineReturnsInput(t *testing.T) {
	p := configured()
	root := nodes.NewTerm("f", "a")
	out, err := p.Process(context.Background(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != nodes.Node(root) {
		t.Error("expected the input tree back unchanged")
	}
}

// ---------------------------------------------------------------------------
// Ordering is semantically significant
// ---------------------------------------------------------------------------

func TestProcess_OrderDependence(t *testing.T) {
	makeTree := func() nodes.Node {
		return nodes.NewOr(nodes.NewTerm("a", "t1"), nodes.NewTerm("b", "t2"))
	}

	// rewrite before reject: succeeds, every field is "X" by the time the
	// validator runs.
	p := configured(rewriteFields("X"), rejectFieldsOtherThan("X"))
	if _, err := p.Process(context.Background(), makeTree()); err != nil {
		t.Errorf("expected [rewrite, reject] to succeed, got %v", err)
	}

	// reject before rewrite: fails on the original field names.
	p = configured(rejectFieldsOtherThan("X"), rewriteFields("X"))
	if _, err := p.Process(context.Background(), makeTree()); err == nil {
		t.Error("expected [reject, rewrite] to fail on foreign fields")
	}
}

// ---------------------------------------------------------------------------
// Fail-fast propagation
// ---------------------------------------------------------------------------

func TestProcess_FailFast(t *testing.T) {
	stageErr := errors.New("stage exploded")
	ran := false

	p := configured(
		Func{StageName: "boom", Fn: func(context.Context, *config.Handler, nodes.Node) (nodes.Node, error) {
			return nil, stageErr
		}},
		Func{StageName: "after", Fn: func(_ context.Context, _ *config.Handler, root nodes.Node) (nodes.Node, error) {
			ran = true
			return root, nil
		}},
	)

	out, err := p.Process(context.Background(), nodes.NewTerm("f", "a"))
	if !errors.Is(err, stageErr) {
		t.Fatalf("expected the stage error to propagate, got %v", err)
	}
	if out != nil {
		t.Error("expected no tree on failure")
	}
	if ran {
		t.Error("expected later stages to be skipped after a failure")
	}
}

func TestProcess_NilTreeFromStageFails(t *testing.T) {
	p := configured(Func{StageName: "nil-tree", Fn: func(context.Context, *config.Handler, nodes.Node) (nodes.Node, error) {
		return nil, nil
	}})
	if _, err := p.Process(context.Background(), nodes.NewTerm("f", "a")); err == nil {
		t.Error("expected error for a stage returning a nil tree without an error")
	}
}

func TestProcess_StagesShareHandler(t *testing.T) {
	key := config.NewKey[string]("handoff")
	p := configured(
		Func{StageName: "writer", Fn: func(_ context.Context, h *config.Handler, root nodes.Node) (nodes.Node, error) {
			config.Set(h, key, "from-writer")
			return root, nil
		}},
		Func{StageName: "reader", Fn: func(_ context.Context, h *config.Handler, root nodes.Node) (nodes.Node, error) {
			v, err := config.Get(h, key)
			if err != nil {
				return nil, err
			}
			if v != "from-writer" {
				return nil, fmt.Errorf("unexpected value %q", v)
			}
			return root, nil
		}},
	)
	if _, err := p.Process(context.Background(), nodes.NewTerm("f", "a")); err != nil {
		t.Errorf("expected stages to share one handler, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Stage list manipulation
// ---------------------------------------------------------------------------

func TestStageListOperations(t *testing.T) {
	a := Func{StageName: "a", Fn: passthrough}
	b := Func{StageName: "b", Fn: passthrough}
	c := Func{StageName: "c", Fn: passthrough}

	p := NewPipeline(a, c)
	if err := p.InsertAt(1, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStageNames(t, p, "a", "b", "c")

	if err := p.RemoveAt(0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStageNames(t, p, "b", "c")

	if err := p.ReplaceAt(1, a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStageNames(t, p, "b", "a")

	if err := p.InsertAt(5, c); err == nil {
		t.Error("expected error inserting out of range")
	}
	if err := p.RemoveAt(-1); err == nil {
		t.Error("expected error removing out of range")
	}
	if err := p.ReplaceAt(2, c); err == nil {
		t.Error("expected error replacing out of range")
	}
}

func passthrough(_ context.Context, _ *config.Handler, root nodes.Node) (nodes.Node, error) {
	return root, nil
}

func assertStageNames(t *testing.T, p *Pipeline, want ...string) {
	t.Helper()
	stages := p.Stages()
	if len(stages) != len(want) {
		t.Fatalf("expected %d stages, got %d", len(want), len(stages))
	}
	for i, name := range want {
		if stages[i].Name() != name {
			t.Errorf("stage %d: expected %q, got %q", i, name, stages[i].Name())
		}
	}
}
