package observability

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer wraps an OpenTelemetry tracer with span helpers for the three
// stages of a parse-and-build invocation.
type Tracer struct {
	tracer      trace.Tracer
	serviceName string
}

// NewTracer creates a new Tracer using the given TracerProvider.
func NewTracer(tp trace.TracerProvider, serviceName string) *Tracer {
	return &Tracer{
		tracer:      tp.Tracer(TracerName),
		serviceName: serviceName,
	}
}

// StartSpan starts a new span with the given name and attributes.
func (t *Tracer) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartParse starts the span covering a whole parse-and-build invocation.
// Each invocation gets a fresh UUID so log lines and child spans can be
// correlated outside the trace backend.
func (t *Tracer) StartParse(ctx context.Context, query, defaultField string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "queryparser.parse", trace.WithAttributes(
		attribute.String(AttrParseID, uuid.NewString()),
		QueryTextAttr(query),
		DefaultFieldAttr(defaultField),
	))
}

// StartSyntax starts the span for the syntax-parsing stage.
func (t *Tracer) StartSyntax(ctx context.Context) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "queryparser.syntax")
}

// StartProcess starts the span for the processor pipeline.
func (t *Tracer) StartProcess(ctx context.Context, stageCount int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "queryparser.process", trace.WithAttributes(
		attribute.Int(AttrStageCount, stageCount),
	))
}

// StartBuild starts the span for the tree-building stage.
func (t *Tracer) StartBuild(ctx context.Context) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "queryparser.build")
}

// RecordError records an error on the span and marks it failed.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// EndSpan ends the span, recording err if non-nil.
func EndSpan(span trace.Span, err error) {
	RecordError(span, err)
	span.End()
}
