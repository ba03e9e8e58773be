package spans

import (
	"context"

	"github.com/nlstn/go-queryparser/config"
	"github.com/nlstn/go-queryparser/nodes"
)

// Validator rejects every node variant span building does not support.
// Allowed: term, field, and OR (explicit or implicit) nodes. The first
// unsupported node fails the stage with a *nodes.QueryNodeError naming the
// construct, so callers can give targeted feedback.
type Validator struct{}

// NewValidator creates the span validator stage.
func NewValidator() *Validator { return &Validator{} }

func (v *Validator) Name() string { return "span-validator" }

func (v *Validator) Process(_ context.Context, _ *config.Handler, root nodes.Node) (nodes.Node, error) {
	for n := range nodes.PreOrder(root) {
		switch n.Kind() {
		case nodes.KindTerm, nodes.KindField, nodes.KindOr:
			continue
		default:
			return nil, &nodes.QueryNodeError{Construct: constructFor(n.Kind()), Node: n}
		}
	}
	return root, nil
}

func constructFor(kind nodes.Kind) nodes.Construct {
	switch kind {
	case nodes.KindWildcard:
		return nodes.ConstructWildcard
	case nodes.KindRange:
		return nodes.ConstructRange
	case nodes.KindPhrase:
		return nodes.ConstructPhrase
	case nodes.KindBoost:
		return nodes.ConstructBoost
	case nodes.KindFuzzy:
		return nodes.ConstructFuzzy
	case nodes.KindGroup:
		return nodes.ConstructGroup
	case nodes.KindAnd:
		return nodes.ConstructAnd
	case nodes.KindNot:
		return nodes.ConstructNot
	default:
		return nodes.Construct(kind)
	}
}
