package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		prefixed string
		plain    string
		want     slog.Level
	}{
		{name: "unset defaults to info", want: slog.LevelInfo},
		{name: "prefixed debug", prefixed: "debug", want: slog.LevelDebug},
		{name: "prefixed wins over plain", prefixed: "error", plain: "debug", want: slog.LevelError},
		{name: "plain fallback", plain: "WARN", want: slog.LevelWarn},
		{name: "warning alias", plain: "warning", want: slog.LevelWarn},
		{name: "invalid value", prefixed: "loud", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STRING_ANALYZER_LOG_LEVEL", tt.prefixed)
			t.Setenv("LOG_LEVEL", tt.plain)

			assert.Equal(t, tt.want, getLogLevel())
		})
	}
}

func TestTraceHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(&traceHandler{Handler: slog.NewJSONHandler(&buf, nil)}).With("component", "test")

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	logger.InfoContext(ctx, "with span")
	logger.InfoContext(context.Background(), "without span")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var withSpan, withoutSpan map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &withSpan))
	require.NoError(t, json.Unmarshal(lines[1], &withoutSpan))

	assert.Equal(t, span.SpanContext().TraceID().String(), withSpan["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), withSpan["span_id"])
	assert.Equal(t, "test", withSpan["component"])
	assert.NotContains(t, withoutSpan, "trace_id")
}
