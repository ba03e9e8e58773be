// Package processors implements the staged tree-rewriting engine that sits
// between the syntax parser and the tree builder.
//
// A Pipeline holds an ordered list of processors and the one config.Handler
// they all share. Stage order is caller-controlled and semantically
// significant: a validator must run before a rewrite that relies on a valid
// shape, and field unification must run before building. The pipeline imposes
// no ordering of its own.
package processors

import (
	"context"
	"fmt"

	"github.com/nlstn/go-queryparser/config"
	"github.com/nlstn/go-queryparser/nodes"
)

// Processor is one pipeline stage. A stage receives the shared config handler
// and the current tree, and returns a tree: the same one, a mutated version,
// or a full replacement. On error the pipeline discards whatever the stage
// returned, so a failing stage never leaks a partial rewrite.
//
// Stages must not keep per-parse state on themselves; a stage instance may be
// reused across sequential parses only if it is stateless between calls.
type Processor interface {
	// Name identifies the stage in errors and traces.
	Name() string

	Process(ctx context.Context, handler *config.Handler, root nodes.Node) (nodes.Node, error)
}

// ErrPipelineNotConfigured is returned by Process when no config handler has
// been attached to the pipeline.
var ErrPipelineNotConfigured = &config.ConfigurationError{
	Reason: "pipeline has no config handler; call SetHandler before Process",
}

// Pipeline is an ordered sequence of processors sharing one config handler.
// The zero value is unusable; construct with NewPipeline.
type Pipeline struct {
	handler *config.Handler
	stages  []Processor
}

// NewPipeline creates a pipeline over the given stages, in order. The
// pipeline still needs a handler via SetHandler before it can run.
func NewPipeline(stages ...Processor) *Pipeline {
	return &Pipeline{stages: stages}
}

// SetHandler attaches the config handler shared by every stage.
func (p *Pipeline) SetHandler(h *config.Handler) { p.handler = h }

// Handler returns the attached config handler, or nil.
func (p *Pipeline) Handler() *config.Handler { return p.handler }

// Len returns the number of stages.
func (p *Pipeline) Len() int { return len(p.stages) }

// Stages returns a copy of the stage list.
func (p *Pipeline) Stages() []Processor {
	out := make([]Processor, len(p.stages))
	copy(out, p.stages)
	return out
}

// Append adds stages at the end of the pipeline.
func (p *Pipeline) Append(stages ...Processor) {
	p.stages = append(p.stages, stages...)
}

// InsertAt inserts stage before position index.
func (p *Pipeline) InsertAt(index int, stage Processor) error {
	if index < 0 || index > len(p.stages) {
		return fmt.Errorf("insert index %d out of range for %d stages", index, len(p.stages))
	}
	p.stages = append(p.stages, nil)
	copy(p.stages[index+1:], p.stages[index:])
	p.stages[index] = stage
	return nil
}

// RemoveAt removes the stage at position index.
func (p *Pipeline) RemoveAt(index int) error {
	if index < 0 || index >= len(p.stages) {
		return fmt.Errorf("remove index %d out of range for %d stages", index, len(p.stages))
	}
	p.stages = append(p.stages[:index], p.stages[index+1:]...)
	return nil
}

// ReplaceAt overwrites the stage at position index.
func (p *Pipeline) ReplaceAt(index int, stage Processor) error {
	if index < 0 || index >= len(p.stages) {
		return fmt.Errorf("replace index %d out of range for %d stages", index, len(p.stages))
	}
	p.stages[index] = stage
	return nil
}

// Process runs every stage in list order. Each stage receives the output tree
// of the previous stage; the first stage receives root. The first stage error
// aborts the whole pipeline and propagates to the caller, with no partial
// application of later stages.
func (p *Pipeline) Process(ctx context.Context, root nodes.Node) (nodes.Node, error) {
	if p.handler == nil {
		return nil, ErrPipelineNotConfigured
	}
	current := root
	for _, stage := range p.stages {
		next, err := stage.Process(ctx, p.handler, current)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", stage.Name(), err)
		}
		if next == nil {
			return nil, fmt.Errorf("processor %s returned a nil tree", stage.Name())
		}
		current = next
	}
	return current, nil
}
