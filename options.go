package queryparser

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/nlstn/go-queryparser/builders"
	"github.com/nlstn/go-queryparser/config"
	"github.com/nlstn/go-queryparser/internal/observability"
	"github.com/nlstn/go-queryparser/processors"
	"github.com/nlstn/go-queryparser/syntax"
)

type settings struct {
	syntaxParser syntax.Parser
	stages       []processors.Processor
	registry     *builders.Registry
	handler      *config.Handler
	logger       *slog.Logger
	obsOptions   []observability.Option
}

func newSettings() *settings {
	return &settings{}
}

// Option configures a Parser at construction time.
type Option func(*settings)

// WithSyntaxParser replaces the classic syntax parser with a custom one.
func WithSyntaxParser(p syntax.Parser) Option {
	return func(s *settings) { s.syntaxParser = p }
}

// WithStages sets the processor pipeline stages, in order.
func WithStages(stages ...processors.Processor) Option {
	return func(s *settings) { s.stages = append(s.stages, stages...) }
}

// WithRegistry sets the builder registry used by the tree builder.
func WithRegistry(r *builders.Registry) Option {
	return func(s *settings) { s.registry = r }
}

// WithHandler supplies a pre-populated config handler instead of a fresh one.
func WithHandler(h *config.Handler) Option {
	return func(s *settings) { s.handler = h }
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithTracerProvider enables tracing with the given provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *settings) {
		s.obsOptions = append(s.obsOptions, observability.WithTracerProvider(tp))
	}
}

// WithMeterProvider enables metrics collection with the given provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *settings) {
		s.obsOptions = append(s.obsOptions, observability.WithMeterProvider(mp))
	}
}

// WithServiceName sets the service name attached to traces and metrics.
func WithServiceName(name string) Option {
	return func(s *settings) {
		s.obsOptions = append(s.obsOptions, observability.WithServiceName(name))
	}
}

// WithServerTiming enables Server-Timing response headers when parsing inside
// an HTTP request wrapped by the server-timing middleware.
func WithServerTiming() Option {
	return func(s *settings) {
		s.obsOptions = append(s.obsOptions, observability.WithServerTiming())
	}
}
