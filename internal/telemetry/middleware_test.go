package telemetry_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/stacklok/string-analyzer-server/internal/telemetry"
)

// newMeteredServer returns the API wrapped in the request metrics middleware and the reader collecting them
func newMeteredServer(t *testing.T) (http.Handler, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	mw, err := telemetry.MetricsMiddleware(mp)
	require.NoError(t, err)
	return newAnalyzerServer(t, mw), reader
}

func collectHTTPMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, scope := range rm.ScopeMetrics {
		if scope.Scope.Name != telemetry.HTTPMetricsMeterName {
			continue
		}
		for _, m := range scope.Metrics {
			if m.Name == name {
				return m.Data
			}
		}
	}
	require.FailNow(t, "metric not recorded", name)
	return nil
}

// requestCounts keys string_analyzer_http_requests_total by operation and status code
func requestCounts(t *testing.T, reader *sdkmetric.ManualReader) map[[2]string]int64 {
	t.Helper()
	sum, ok := collectHTTPMetric(t, reader, "string_analyzer_http_requests_total").(metricdata.Sum[int64])
	require.True(t, ok)

	counts := make(map[[2]string]int64)
	for _, dp := range sum.DataPoints {
		op, _ := dp.Attributes.Value(attribute.Key("operation"))
		status, _ := dp.Attributes.Value(attribute.Key("status_code"))
		counts[[2]string{op.AsString(), status.AsString()}] += dp.Value
	}
	return counts
}

func TestMetricsMiddleware_CountsRequestsPerOperation(t *testing.T) {
	t.Parallel()

	h, reader := newMeteredServer(t)

	require.Equal(t, http.StatusCreated, serve(h, http.MethodPost, "/strings", `{"value":"racecar"}`).Code)
	require.Equal(t, http.StatusConflict, serve(h, http.MethodPost, "/strings", `{"value":"racecar"}`).Code)
	require.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/strings/racecar", "").Code)
	require.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, "/strings/noon", "").Code)
	require.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/strings?word_count=1", "").Code)
	require.Equal(t, http.StatusOK,
		serve(h, http.MethodGet, "/strings/filter-by-natural-language?query=palindromic+strings", "").Code)
	require.Equal(t, http.StatusNoContent, serve(h, http.MethodDelete, "/strings/racecar", "").Code)

	assert.Equal(t, map[[2]string]int64{
		{telemetry.OperationCreateString, "201"}:            1,
		{telemetry.OperationCreateString, "409"}:            1,
		{telemetry.OperationGetString, "200"}:               1,
		{telemetry.OperationGetString, "404"}:               1,
		{telemetry.OperationListStrings, "200"}:             1,
		{telemetry.OperationFilterByNaturalLanguage, "200"}: 1,
		{telemetry.OperationDeleteString, "204"}:            1,
	}, requestCounts(t, reader))
}

func TestMetricsMiddleware_RouteLabelHidesStringValues(t *testing.T) {
	t.Parallel()

	h, reader := newMeteredServer(t)

	for _, value := range []string{"racecar", "noon", "level%20up"} {
		require.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, "/strings/"+value, "").Code)
	}

	hist, ok := collectHTTPMetric(t, reader, "string_analyzer_http_request_duration_seconds").(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1, "every lookup shares one route series")

	route, _ := hist.DataPoints[0].Attributes.Value(attribute.Key("route"))
	assert.Equal(t, "/strings/{value}", route.AsString())
	assert.Equal(t, uint64(3), hist.DataPoints[0].Count)
}

func TestMetricsMiddleware_ActiveRequestsSettle(t *testing.T) {
	t.Parallel()

	h, reader := newMeteredServer(t)
	require.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/strings", "").Code)

	active, ok := collectHTTPMetric(t, reader, "string_analyzer_http_active_requests").(metricdata.Sum[int64])
	require.True(t, ok)
	require.NotEmpty(t, active.DataPoints)
	for _, dp := range active.DataPoints {
		assert.Zero(t, dp.Value)
	}
}

func TestMetricsMiddleware_DisabledProviders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		provider func() (func(http.Handler) http.Handler, error)
	}{
		{
			name:     "nil provider",
			provider: func() (func(http.Handler) http.Handler, error) { return telemetry.MetricsMiddleware(nil) },
		},
		{
			name: "noop provider",
			provider: func() (func(http.Handler) http.Handler, error) {
				return telemetry.MetricsMiddleware(noop.NewMeterProvider())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mw, err := tt.provider()
			require.NoError(t, err)

			h := newAnalyzerServer(t, mw)
			assert.Equal(t, http.StatusCreated, serve(h, http.MethodPost, "/strings", `{"value":"noon"}`).Code)
			assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/strings/noon", "").Code)
		})
	}
}
