package observability

import (
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// NewNoopTracer creates a tracer that produces no-op spans.
// Used when tracing is not configured.
func NewNoopTracer() *Tracer {
	return NewTracer(tracenoop.NewTracerProvider(), "")
}

// NewNoopMetrics creates metrics backed by no-op instruments.
// Used when metrics collection is not configured.
func NewNoopMetrics() *Metrics {
	return NewMetrics(metricnoop.NewMeterProvider())
}
