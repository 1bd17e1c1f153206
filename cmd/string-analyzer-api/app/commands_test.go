package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/stacklok/string-analyzer-server/internal/analyzer"
	"github.com/stacklok/string-analyzer-server/internal/versions"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	names := make([]string, 0, len(cmd.Commands()))
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "version", "analyze", "validate-config"})
}

func TestVersionCmd_JSON(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "version", "--format", "json")
	require.NoError(t, err)

	var info versions.VersionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestAnalyzeCmd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		decode     func([]byte, any) error
		wantErr    bool
		errContain string
	}{
		{
			name:   "default json output",
			args:   []string{"analyze", "Racecar"},
			decode: json.Unmarshal,
		},
		{
			name:   "yaml output",
			args:   []string{"analyze", "Racecar", "--format", "yaml"},
			decode: yaml.Unmarshal,
		},
		{
			name:       "unsupported format",
			args:       []string{"analyze", "Racecar", "--format", "xml"},
			wantErr:    true,
			errContain: "unsupported format",
		},
		{
			name:       "empty value",
			args:       []string{"analyze", ""},
			wantErr:    true,
			errContain: "value cannot be empty",
		},
		{
			name:    "missing value",
			args:    []string{"analyze"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := execute(t, tt.args...)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errContain != "" {
					assert.Contains(t, err.Error(), tt.errContain)
				}
				return
			}

			require.NoError(t, err)

			var record analyzer.StringRecord
			require.NoError(t, tt.decode([]byte(out), &record))
			assert.Equal(t, "Racecar", record.Value)
			assert.Equal(t, analyzer.ContentHash("Racecar"), record.ID)
			assert.True(t, record.Properties.IsPalindrome)
			assert.Equal(t, 7, record.Properties.Length)
			assert.Equal(t, 2, record.Properties.CharacterFrequency["a"])
		})
	}
}

func TestValidateConfigCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	valid := filepath.Join(dir, "valid.yaml")
	require.NoError(t, os.WriteFile(valid, []byte(`serviceName: checked
server:
  address: ":9000"
cors:
  allowedOrigins: ["*"]
telemetry:
  enabled: true
  metrics:
    enabled: true
    exporter: prometheus
`), 0o600))

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte(`cors:
  allowedOrigins: []
`), 0o600))

	out, err := execute(t, "validate-config", valid)
	require.NoError(t, err)
	assert.Contains(t, out, "Valid configuration")
	assert.Contains(t, out, "Service: checked")
	assert.Contains(t, out, "Address: :9000")
	assert.Contains(t, out, "metrics exporter: prometheus")

	_, err = execute(t, "validate-config", invalid)
	require.Error(t, err)

	_, err = execute(t, "validate-config", filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
