package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the parser-specific metric instruments.
type Metrics struct {
	parseDuration metric.Float64Histogram
	parseCount    metric.Int64Counter
	stageDuration metric.Float64Histogram
	errorCount    metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with the given MeterProvider.
func NewMetrics(mp metric.MeterProvider) *Metrics {
	meter := mp.Meter(MeterName)
	m := &Metrics{}

	// Note: errors from meter instrument creation are unlikely in practice
	// and would only occur with invalid parameters. We use explicit checks
	// to satisfy the linter while continuing with partial metrics on error.
	var err error

	m.parseDuration, err = meter.Float64Histogram(
		"queryparser.parse.duration",
		metric.WithDescription("Duration of parse-and-build invocations in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		m.parseDuration, _ = meter.Float64Histogram("queryparser.parse.duration")
	}

	m.parseCount, err = meter.Int64Counter(
		"queryparser.parse.count",
		metric.WithDescription("Total number of parse-and-build invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		m.parseCount, _ = meter.Int64Counter("queryparser.parse.count")
	}

	m.stageDuration, err = meter.Float64Histogram(
		"queryparser.stage.duration",
		metric.WithDescription("Duration of individual pipeline stages in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		m.stageDuration, _ = meter.Float64Histogram("queryparser.stage.duration")
	}

	m.errorCount, err = meter.Int64Counter(
		"queryparser.error.count",
		metric.WithDescription("Total number of failed invocations by error kind"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		m.errorCount, _ = meter.Int64Counter("queryparser.error.count")
	}

	return m
}

// RecordParse records a completed parse-and-build invocation.
func (m *Metrics) RecordParse(ctx context.Context, duration time.Duration, succeeded bool) {
	attrs := metric.WithAttributes(attribute.Bool("search.succeeded", succeeded))
	m.parseDuration.Record(ctx, float64(duration.Microseconds())/1000.0, attrs)
	m.parseCount.Add(ctx, 1, attrs)
}

// RecordStage records the duration of one pipeline stage.
func (m *Metrics) RecordStage(ctx context.Context, stage string, duration time.Duration) {
	m.stageDuration.Record(ctx, float64(duration.Microseconds())/1000.0,
		metric.WithAttributes(StageNameAttr(stage)))
}

// RecordError records a failed invocation by error kind.
func (m *Metrics) RecordError(ctx context.Context, kind string) {
	m.errorCount.Add(ctx, 1, metric.WithAttributes(ErrorKindAttr(kind)))
}
