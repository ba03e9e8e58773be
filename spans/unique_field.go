package spans

import (
	"context"

	"github.com/nlstn/go-queryparser/config"
	"github.com/nlstn/go-queryparser/nodes"
)

// UniqueField forces every field-bearing node onto one field, producing
// deterministic single-field queries from multi-field input text. An empty
// value leaves the per-node field names as the syntax parser attached them.
var UniqueField = config.NewKey[string]("unique field")

// UniqueFieldProcessor rewrites every field-bearing node to the UniqueField
// attribute. The attribute must be registered on the handler before the stage
// runs (Bootstrap registers an empty default), and an empty value makes the
// stage a no-op.
type UniqueFieldProcessor struct{}

// NewUniqueFieldProcessor creates the field-unification stage.
func NewUniqueFieldProcessor() *UniqueFieldProcessor { return &UniqueFieldProcessor{} }

func (p *UniqueFieldProcessor) Name() string { return "unique-field" }

func (p *UniqueFieldProcessor) Process(_ context.Context, handler *config.Handler, root nodes.Node) (nodes.Node, error) {
	field, err := config.Get(handler, UniqueField)
	if err != nil {
		return nil, err
	}
	if field == "" {
		return root, nil
	}
	for n := range nodes.PreOrder(root) {
		if fieldable, ok := n.(nodes.FieldableNode); ok {
			fieldable.SetField(field)
		}
	}
	return root, nil
}

// Bootstrap registers the defaults of every attribute the span stages read.
// Call it once on the handler a span pipeline is configured with.
func Bootstrap(handler *config.Handler) {
	if !config.Has(handler, UniqueField) {
		config.Set(handler, UniqueField, "")
	}
}
