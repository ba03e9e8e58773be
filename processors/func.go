package processors

import (
	"context"

	"github.com/nlstn/go-queryparser/config"
	"github.com/nlstn/go-queryparser/nodes"
)

// Func adapts a plain function into a Processor. Handy for small one-off
// stages and for tests.
type Func struct {
	// StageName identifies the stage in errors and traces.
	StageName string
	Fn        func(ctx context.Context, handler *config.Handler, root nodes.Node) (nodes.Node, error)
}

func (f Func) Name() string {
	if f.StageName == "" {
		return "func"
	}
	return f.StageName
}

func (f Func) Process(ctx context.Context, handler *config.Handler, root nodes.Node) (nodes.Node, error) {
	return f.Fn(ctx, handler, root)
}
