package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// StringMetricsMeterName is the name used for the string store metrics meter
	StringMetricsMeterName = "github.com/stacklok/string-analyzer-server/strings"
)

// Outcome labels recorded for service operations
const (
	OutcomeSuccess  = "success"
	OutcomeConflict = "conflict"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// StringMetrics holds the OpenTelemetry instruments for the string service
type StringMetrics struct {
	stringsTotal    metric.Int64Gauge
	operationsTotal metric.Int64Counter
	nlQueriesTotal  metric.Int64Counter
}

// NewStringMetrics creates a new StringMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewStringMetrics(provider metric.MeterProvider) (*StringMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(StringMetricsMeterName)

	stringsTotal, err := meter.Int64Gauge(
		"string_analyzer_strings_total",
		metric.WithDescription("Number of strings currently stored"),
		metric.WithUnit("{string}"),
	)
	if err != nil {
		return nil, err
	}

	operationsTotal, err := meter.Int64Counter(
		"string_analyzer_operations_total",
		metric.WithDescription("Total number of string service operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	nlQueriesTotal, err := meter.Int64Counter(
		"string_analyzer_nl_queries_total",
		metric.WithDescription("Total number of natural language queries received"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return nil, err
	}

	return &StringMetrics{
		stringsTotal:    stringsTotal,
		operationsTotal: operationsTotal,
		nlQueriesTotal:  nlQueriesTotal,
	}, nil
}

// RecordStringsTotal records the current number of stored strings
func (m *StringMetrics) RecordStringsTotal(ctx context.Context, count int64) {
	if m == nil || m.stringsTotal == nil {
		return
	}

	m.stringsTotal.Record(ctx, count)
}

// RecordOperation counts a completed service operation and its outcome
func (m *StringMetrics) RecordOperation(ctx context.Context, operation, outcome string) {
	if m == nil || m.operationsTotal == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	}

	m.operationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordNaturalLanguageQuery counts a natural language query by whether it was understood
func (m *StringMetrics) RecordNaturalLanguageQuery(ctx context.Context, parsed bool) {
	if m == nil || m.nlQueriesTotal == nil {
		return
	}

	m.nlQueriesTotal.Add(ctx, 1, metric.WithAttributes(attribute.Bool("parsed", parsed)))
}
