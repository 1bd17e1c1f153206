package telemetry

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// HTTPMetricsMeterName is the name used for the HTTP metrics meter
	HTTPMetricsMeterName = "github.com/stacklok/string-analyzer-server/http"

	unknownRoute = "unknown_route"
)

// Operation names recorded on request spans and metrics
const (
	OperationCreateString            = "create_string"
	OperationGetString               = "get_string"
	OperationDeleteString            = "delete_string"
	OperationListStrings             = "list_strings"
	OperationFilterByNaturalLanguage = "filter_by_natural_language"
	OperationOther                   = "other"
)

// HTTPMetrics holds the per-request instruments of the analyzer API
type HTTPMetrics struct {
	requestDuration metric.Float64Histogram
	requestsTotal   metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
}

// NewHTTPMetrics registers the request instruments on provider.
// A nil provider returns nil, which Middleware treats as disabled.
func NewHTTPMetrics(provider metric.MeterProvider) (*HTTPMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(HTTPMetricsMeterName)

	requestDuration, err := meter.Float64Histogram(
		"string_analyzer_http_request_duration_seconds",
		metric.WithDescription("Duration of string analyzer API requests in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1),
	)
	if err != nil {
		return nil, err
	}

	requestsTotal, err := meter.Int64Counter(
		"string_analyzer_http_requests_total",
		metric.WithDescription("Total number of string analyzer API requests by operation"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"string_analyzer_http_active_requests",
		metric.WithDescription("Number of in-flight string analyzer API requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{
		requestDuration: requestDuration,
		requestsTotal:   requestsTotal,
		activeRequests:  activeRequests,
	}, nil
}

// Middleware records duration and count per method, route, operation and status.
func (m *HTTPMetrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The request context may be cancelled once ServeHTTP returns.
		ctx := r.Context()
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		m.activeRequests.Add(ctx, 1)
		next.ServeHTTP(ww, r)
		m.activeRequests.Add(ctx, -1)

		route := routePattern(r)
		attrs := metric.WithAttributes(
			attribute.String("method", r.Method),
			attribute.String("route", route),
			attribute.String("operation", operationName(r.Method, route)),
			attribute.String("status_code", strconv.Itoa(ww.Status())),
		)
		m.requestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
		m.requestsTotal.Add(ctx, 1, attrs)
	})
}

// MetricsMiddleware builds the request metrics middleware for provider.
func MetricsMiddleware(provider metric.MeterProvider) (func(http.Handler) http.Handler, error) {
	metrics, err := NewHTTPMetrics(provider)
	if err != nil {
		return nil, err
	}
	return metrics.Middleware, nil
}

// routePattern returns the chi pattern of a routed request, keeping path
// parameters such as the analyzed string out of metric labels and span names.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.RoutePattern() == "" {
		return unknownRoute
	}
	return rctx.RoutePattern()
}

// operationName maps a routed request onto the analyzer operation it invokes
func operationName(method, route string) string {
	switch strings.TrimSuffix(route, "/") {
	case "/strings":
		switch method {
		case http.MethodPost:
			return OperationCreateString
		case http.MethodGet:
			return OperationListStrings
		}
	case "/strings/filter-by-natural-language":
		if method == http.MethodGet {
			return OperationFilterByNaturalLanguage
		}
	case "/strings/{value}":
		switch method {
		case http.MethodGet:
			return OperationGetString
		case http.MethodDelete:
			return OperationDeleteString
		}
	}
	return OperationOther
}
