package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(
		WithServiceName("test-service"),
		WithServerTiming(),
	)

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected service name 'test-service', got '%s'", cfg.ServiceName)
	}
	if !cfg.EnableServerTiming {
		t.Error("expected server timing to be enabled")
	}
	if cfg.Tracer() == nil {
		t.Error("expected noop tracer when no provider is configured")
	}
	if cfg.Metrics() == nil {
		t.Error("expected noop metrics when no provider is configured")
	}
}

func TestNewConfigWithProviders(t *testing.T) {
	cfg := NewConfig(
		WithTracerProvider(tracenoop.NewTracerProvider()),
		WithMeterProvider(noop.NewMeterProvider()),
		WithServiceName("test-service"),
	)

	if cfg.Tracer() == nil {
		t.Error("expected tracer to be initialized")
	}
	if cfg.Metrics() == nil {
		t.Error("expected metrics to be initialized")
	}
}

func TestNoopTracerSpans(t *testing.T) {
	tracer := NewNoopTracer()
	ctx := context.Background()

	// Span helpers must not panic without a real provider.
	ctx, span := tracer.StartParse(ctx, "field:term", "field")
	EndSpan(span, nil)

	ctx, span = tracer.StartSyntax(ctx)
	EndSpan(span, errors.New("boom"))

	ctx, span = tracer.StartProcess(ctx, 2)
	RecordError(span, errors.New("stage failed"))
	span.End()

	_, span = tracer.StartBuild(ctx)
	span.End()
}

func TestNoopMetricsRecord(t *testing.T) {
	m := NewNoopMetrics()
	ctx := context.Background()

	m.RecordParse(ctx, 5*time.Millisecond, true)
	m.RecordParse(ctx, time.Millisecond, false)
	m.RecordStage(ctx, "validator", time.Millisecond)
	m.RecordError(ctx, "syntax")
}

func TestServerTimingWithoutCollector(t *testing.T) {
	// No timing collector in the context: metric is a no-op and Stop is safe.
	metric := StartTiming(context.Background(), "syntax")
	metric.Stop()

	metric = StartTimingWithDesc(context.Background(), "build", "tree build")
	metric.Stop()

	var nilMetric *TimingMetric
	nilMetric.Stop()
}
