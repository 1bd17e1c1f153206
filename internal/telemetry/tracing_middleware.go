// Package telemetry provides OpenTelemetry instrumentation for the string analyzer server.
package telemetry

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/string-analyzer-server/internal/analyzer"
	"github.com/stacklok/string-analyzer-server/internal/api/common"
	"github.com/stacklok/string-analyzer-server/internal/nlquery"
	analyzerotel "github.com/stacklok/string-analyzer-server/internal/otel"
)

const (
	// TracerName is the name used for the HTTP tracer
	TracerName = "github.com/stacklok/string-analyzer-server/http"

	// MaxUserAgentLength caps the user agent recorded on request spans
	MaxUserAgentLength = 256

	// AttrOperation names the analyzer operation a request was routed to
	AttrOperation = attribute.Key("string_analyzer.operation")
)

// untracedPaths are polled by orchestrators and carry no analyzer work
var untracedPaths = map[string]bool{
	"/health":    true,
	"/readiness": true,
	"/metrics":   true,
}

// TracingMiddleware creates HTTP middleware that opens one server span per
// analyzer request. Spans are named after the chi route and carry the content
// hash of the addressed string and the rules matched by natural-language queries.
// A nil provider yields a pass-through middleware.
func TracingMiddleware(provider trace.TracerProvider) func(http.Handler) http.Handler {
	if provider == nil {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	tracer := provider.Tracer(TracerName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if untracedPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			// Renamed to the route pattern once chi has routed the request.
			ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.URLPath(r.URL.Path),
					semconv.UserAgentOriginal(truncateUserAgent(r.UserAgent())),
				),
			)
			defer span.End()

			r = r.WithContext(ctx)
			next.ServeHTTP(ww, r)

			route := routePattern(r)
			operation := operationName(r.Method, route)
			span.SetName(r.Method + " " + route)
			span.SetAttributes(
				semconv.HTTPRouteKey.String(route),
				AttrOperation.String(operation),
				semconv.HTTPResponseStatusCode(ww.Status()),
			)
			span.SetAttributes(operationAttributes(r, operation)...)

			// Client errors are expected outcomes of validation and lookups.
			if ww.Status() >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(ww.Status()))
			} else if ww.Status() < http.StatusBadRequest {
				span.SetStatus(codes.Ok, "")
			}
		})
	}
}

// operationAttributes derives the business attributes for a routed request
func operationAttributes(r *http.Request, operation string) []attribute.KeyValue {
	switch operation {
	case OperationGetString, OperationDeleteString:
		value, err := common.GetAndValidateURLParam(r, "value")
		if err != nil {
			return nil
		}
		return []attribute.KeyValue{analyzerotel.AttrStringID.String(analyzer.ContentHash(value))}
	case OperationFilterByNaturalLanguage:
		query := r.URL.Query().Get("query")
		attrs := []attribute.KeyValue{analyzerotel.AttrQuery.String(query)}
		if interpretation, err := nlquery.Interpret(query); err == nil {
			attrs = append(attrs, analyzerotel.AttrQueryMatched.StringSlice(interpretation.Rules))
		}
		return attrs
	}
	return nil
}

func truncateUserAgent(ua string) string {
	if len(ua) > MaxUserAgentLength {
		return ua[:MaxUserAgentLength]
	}
	return ua
}
