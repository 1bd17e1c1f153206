package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/stacklok/string-analyzer-server/internal/versions"
)

func decodeTelemetry(t *testing.T, doc string) *Config {
	t.Helper()
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(doc), &cfg))
	return &cfg
}

func TestConfig_ResolvedSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		doc              string
		expectedService  string
		expectedVersion  string
		expectedEndpoint string
		expectedInsecure bool
		expectedSampling float64
		expectedExporter string
	}{
		{
			name:             "empty block falls back to analyzer defaults",
			doc:              `enabled: true`,
			expectedService:  DefaultServiceName,
			expectedVersion:  versions.Version,
			expectedEndpoint: DefaultEndpoint,
			expectedSampling: DefaultSampling,
			expectedExporter: MetricsExporterOTLP,
		},
		{
			name: "local collector with full sampling",
			doc: `
enabled: true
serviceName: string-analyzer-dev
serviceVersion: 0.4.0
endpoint: otel-collector:4318
insecure: true
tracing:
  enabled: true
  sampling: 1.0
metrics:
  enabled: true
`,
			expectedService:  "string-analyzer-dev",
			expectedVersion:  "0.4.0",
			expectedEndpoint: "otel-collector:4318",
			expectedInsecure: true,
			expectedSampling: 1.0,
			expectedExporter: MetricsExporterOTLP,
		},
		{
			name: "prometheus scraping with sparse tracing",
			doc: `
enabled: true
tracing:
  enabled: true
  sampling: 0.01
metrics:
  enabled: true
  exporter: prometheus
`,
			expectedService:  DefaultServiceName,
			expectedVersion:  versions.Version,
			expectedEndpoint: DefaultEndpoint,
			expectedSampling: 0.01,
			expectedExporter: MetricsExporterPrometheus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := decodeTelemetry(t, tt.doc)

			require.NoError(t, cfg.Validate())
			assert.Equal(t, tt.expectedService, cfg.GetServiceName())
			assert.Equal(t, tt.expectedVersion, cfg.GetServiceVersion())
			assert.Equal(t, tt.expectedEndpoint, cfg.GetEndpoint())
			assert.Equal(t, tt.expectedInsecure, cfg.GetInsecure())
			assert.Equal(t, tt.expectedSampling, cfg.Tracing.GetSampling())
			assert.Equal(t, tt.expectedExporter, cfg.Metrics.GetExporter())
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		doc            string
		expectedErrors []string
	}{
		{
			name: "disabled telemetry skips nested validation",
			doc: `
enabled: false
tracing: {enabled: true, sampling: 7}
metrics: {enabled: true, exporter: statsd}
`,
		},
		{
			name: "disabled signals skip their own validation",
			doc: `
enabled: true
tracing: {enabled: false, sampling: -1}
metrics: {enabled: false, exporter: statsd}
`,
		},
		{
			name: "zero sampling would drop every analyzer span",
			doc: `
enabled: true
tracing: {enabled: true, sampling: 0}
`,
			expectedErrors: []string{"tracing: sampling must be greater than 0.0"},
		},
		{
			name: "sampling above one",
			doc: `
enabled: true
tracing: {enabled: true, sampling: 1.1}
`,
			expectedErrors: []string{"tracing: sampling must be greater than 0.0 and at most 1.0"},
		},
		{
			name: "unknown exporter",
			doc: `
enabled: true
metrics: {enabled: true, exporter: statsd}
`,
			expectedErrors: []string{`metrics: exporter must be "otlp" or "prometheus", got "statsd"`},
		},
		{
			name: "both signals invalid are reported together",
			doc: `
enabled: true
tracing: {enabled: true, sampling: -0.5}
metrics: {enabled: true, exporter: zipkin}
`,
			expectedErrors: []string{"tracing:", `got "zipkin"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := decodeTelemetry(t, tt.doc).Validate()

			if len(tt.expectedErrors) == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, msg := range tt.expectedErrors {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}

func TestConfig_NilSections(t *testing.T) {
	t.Parallel()

	var cfg *Config
	require.NoError(t, cfg.Validate())

	var tracing *TracingConfig
	require.NoError(t, tracing.Validate())
	assert.Equal(t, DefaultSampling, tracing.GetSampling())

	var metrics *MetricsConfig
	require.NoError(t, metrics.Validate())
	assert.Equal(t, MetricsExporterOTLP, metrics.GetExporter())
}
