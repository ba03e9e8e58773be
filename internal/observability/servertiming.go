package observability

import (
	"context"

	servertiming "github.com/mitchellh/go-server-timing"
)

// TimingMetric wraps a server-timing metric for one parse stage.
type TimingMetric struct {
	metric *servertiming.Metric
}

// Stop stops the timing metric.
func (m *TimingMetric) Stop() {
	if m != nil && m.metric != nil {
		m.metric.Stop()
	}
}

// StartTiming starts a Server-Timing metric with the given name. When the
// request context carries no timing header collector, the returned metric is
// a no-op.
func StartTiming(ctx context.Context, name string) *TimingMetric {
	timing := servertiming.FromContext(ctx)
	if timing == nil {
		return &TimingMetric{}
	}
	return &TimingMetric{
		metric: timing.NewMetric(name).Start(),
	}
}

// StartTimingWithDesc starts a Server-Timing metric with a name and a
// human-readable description shown in browser dev tools.
func StartTimingWithDesc(ctx context.Context, name, description string) *TimingMetric {
	timing := servertiming.FromContext(ctx)
	if timing == nil {
		return &TimingMetric{}
	}
	return &TimingMetric{
		metric: timing.NewMetric(name).WithDesc(description).Start(),
	}
}
