// Package observability provides OpenTelemetry-based instrumentation for the
// query parsing front end.
//
// It supports distributed tracing, metrics collection, and Server-Timing
// response headers for the demo server.
//
// All observability features are opt-in. When not configured, no-op
// implementations are used with zero performance overhead.
package observability

import "go.opentelemetry.io/otel/attribute"

// Instrumentation identity constants
const (
	// TracerName is the instrumentation name for tracing.
	TracerName = "github.com/nlstn/go-queryparser"
	// MeterName is the instrumentation name for metrics.
	MeterName = "github.com/nlstn/go-queryparser"
)

// Semantic attribute keys following OpenTelemetry conventions.
const (
	// Query attributes
	AttrParseID      = "search.parse_id"
	AttrQueryText    = "search.query"
	AttrDefaultField = "search.default_field"
	AttrNodeCount    = "search.node_count"

	// Pipeline attributes
	AttrStageName  = "search.stage"
	AttrStageCount = "search.stage_count"

	// Build attributes
	AttrTargetKind = "search.target"

	// Error attributes
	AttrErrorKind = "search.error_kind"
)

// QueryTextAttr creates a query-text attribute.
func QueryTextAttr(query string) attribute.KeyValue {
	return attribute.String(AttrQueryText, query)
}

// DefaultFieldAttr creates a default-field attribute.
func DefaultFieldAttr(field string) attribute.KeyValue {
	return attribute.String(AttrDefaultField, field)
}

// StageNameAttr creates a pipeline-stage attribute.
func StageNameAttr(name string) attribute.KeyValue {
	return attribute.String(AttrStageName, name)
}

// ErrorKindAttr creates an error-kind attribute.
func ErrorKindAttr(kind string) attribute.KeyValue {
	return attribute.String(AttrErrorKind, kind)
}
