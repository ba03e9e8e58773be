// Package queryparser turns free-form search text into executable query
// objects.
//
// The front end runs three sequential stages. A syntax parser reads the raw
// text into a tree of query nodes, a processor pipeline validates and
// rewrites that tree under a shared configuration, and a tree builder
// dispatches on node kinds to produce the final query value. The stages share
// nothing except the tree flowing between them; a Parser performs no internal
// concurrency and is safe for concurrent use only when its pipeline stages
// are stateless.
//
// The subpackages are usable on their own. nodes defines the tree, config the
// typed attribute handler, processors the pipeline, builders the dispatch
// layer, and syntax the classic search-box grammar. spans and fts are two
// complete back ends: spans compiles to proximity span queries, fts to SQL
// full-text MATCH expressions.
package queryparser

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nlstn/go-queryparser/builders"
	"github.com/nlstn/go-queryparser/config"
	"github.com/nlstn/go-queryparser/internal/observability"
	"github.com/nlstn/go-queryparser/nodes"
	"github.com/nlstn/go-queryparser/processors"
	"github.com/nlstn/go-queryparser/spans"
	"github.com/nlstn/go-queryparser/syntax"
)

// Parser wires the three stages together behind one call.
type Parser struct {
	syntaxParser syntax.Parser
	pipeline     *processors.Pipeline
	treeBuilder  *builders.TreeBuilder
	handler      *config.Handler
	logger       *slog.Logger
	obs          *observability.Config
}

// New creates a Parser from the given options. Defaults: the classic syntax
// parser, an empty pipeline, an empty builder registry and a fresh config
// handler. A parser without a registry entry for every produced node kind
// fails at Parse time with an UnknownNodeTypeError, not at construction.
func New(opts ...Option) *Parser {
	s := newSettings()
	for _, opt := range opts {
		opt(s)
	}

	p := &Parser{
		syntaxParser: s.syntaxParser,
		handler:      s.handler,
		logger:       s.logger,
		obs:          observability.NewConfig(s.obsOptions...),
	}
	if p.syntaxParser == nil {
		p.syntaxParser = syntax.NewClassicParser()
	}
	if p.handler == nil {
		p.handler = config.NewHandler()
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}

	p.pipeline = processors.NewPipeline(s.stages...)
	p.pipeline.SetHandler(p.handler)

	registry := s.registry
	if registry == nil {
		registry = builders.NewRegistry()
	}
	p.treeBuilder = builders.NewTreeBuilder(registry)
	return p
}

// NewSpanParser creates a Parser assembled for the span back end: classic
// syntax, the span validation and field-unification stages, the span builder
// registry, and a handler bootstrapped with the span defaults.
func NewSpanParser(opts ...Option) *Parser {
	base := []Option{
		WithStages(spans.NewPipelineStages()...),
		WithRegistry(spans.NewRegistry()),
	}
	p := New(append(base, opts...)...)
	spans.Bootstrap(p.handler)
	return p
}

// Handler returns the config handler shared by the pipeline stages. Set
// attributes on it before calling Parse.
func (p *Parser) Handler() *config.Handler { return p.handler }

// Pipeline returns the processor pipeline for stage inspection and reordering.
func (p *Parser) Pipeline() *processors.Pipeline { return p.pipeline }

// Parse runs query through syntax parsing, the processor pipeline and the
// tree builder, in that order. defaultField scopes clauses that carry no
// explicit field qualifier. Errors from any stage propagate unchanged apart
// from the pipeline's per-stage wrapping.
func (p *Parser) Parse(ctx context.Context, query, defaultField string) (builders.Query, error) {
	if defaultField == "" && config.Has(p.handler, config.DefaultField) {
		defaultField, _ = config.Get(p.handler, config.DefaultField)
	}
	p.applySyntaxAttributes()

	start := time.Now()
	ctx, span := p.obs.Tracer().StartParse(ctx, query, defaultField)

	result, err := p.parse(ctx, query, defaultField)

	p.obs.Metrics().RecordParse(ctx, time.Since(start), err == nil)
	if err != nil {
		p.obs.Metrics().RecordError(ctx, errorKind(err))
		p.logger.DebugContext(ctx, "parse failed",
			slog.String("query", query),
			slog.String("error", err.Error()))
	}
	observability.EndSpan(span, err)
	return result, err
}

func (p *Parser) parse(ctx context.Context, query, defaultField string) (builders.Query, error) {
	sctx, span := p.obs.Tracer().StartSyntax(ctx)
	timing := observability.StartTiming(sctx, "syntax")
	root, err := p.syntaxParser.Parse(query, defaultField)
	timing.Stop()
	observability.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	pctx, span := p.obs.Tracer().StartProcess(ctx, p.pipeline.Len())
	timing = observability.StartTiming(pctx, "process")
	processed, err := p.pipeline.Process(pctx, root)
	timing.Stop()
	observability.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	bctx, span := p.obs.Tracer().StartBuild(ctx)
	timing = observability.StartTiming(bctx, "build")
	built, err := p.treeBuilder.Build(processed)
	timing.Stop()
	observability.EndSpan(span, err)
	if err != nil {
		return nil, err
	}
	return built, nil
}

// applySyntaxAttributes copies grammar attributes registered on the handler
// onto the classic parser, so the handler stays the single place to configure
// an invocation. Custom syntax parsers manage their own configuration.
func (p *Parser) applySyntaxAttributes() {
	cp, ok := p.syntaxParser.(*syntax.ClassicParser)
	if !ok {
		return
	}
	if config.Has(p.handler, config.DefaultOperator) {
		cp.DefaultOperator, _ = config.Get(p.handler, config.DefaultOperator)
	}
	if config.Has(p.handler, config.AllowLeadingWildcard) {
		cp.AllowLeadingWildcard, _ = config.Get(p.handler, config.AllowLeadingWildcard)
	}
	if config.Has(p.handler, config.FuzzyMinSimilarity) {
		cp.FuzzyMinSimilarity, _ = config.Get(p.handler, config.FuzzyMinSimilarity)
	}
}

// errorKind maps an error to its taxonomy bucket for the error counter.
func errorKind(err error) string {
	var (
		syntaxErr  *syntax.SyntaxError
		configErr  *config.ConfigurationError
		nodeErr    *nodes.QueryNodeError
		cycleErr   *nodes.CycleError
		unknownErr *builders.UnknownNodeTypeError
	)
	switch {
	case errors.As(err, &syntaxErr):
		return "syntax"
	case errors.As(err, &configErr):
		return "configuration"
	case errors.As(err, &nodeErr):
		return "validation"
	case errors.As(err, &cycleErr):
		return "cycle"
	case errors.As(err, &unknownErr):
		return "unknown_node"
	default:
		return "other"
	}
}
