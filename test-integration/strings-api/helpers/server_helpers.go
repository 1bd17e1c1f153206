package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/onsi/gomega"

	analyzerapp "github.com/stacklok/string-analyzer-server/internal/app"
	"github.com/stacklok/string-analyzer-server/internal/config"
)

// ServerTestHelper manages the string analyzer API server lifecycle for testing
type ServerTestHelper struct {
	ctx        context.Context
	configPath string
	baseURL    string
	address    string
	httpClient *http.Client
	app        *analyzerapp.AnalyzerApp
}

// NewServerTestHelper creates a new server test helper listening on a free loopback port.
// configPath may be empty to run with the default configuration.
func NewServerTestHelper(ctx context.Context, configPath string) *ServerTestHelper {
	address := FreeAddress()
	return &ServerTestHelper{
		ctx:        ctx,
		configPath: configPath,
		address:    address,
		baseURL:    "http://" + address,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FreeAddress returns a loopback address whose port was free when probed
func FreeAddress() string {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	defer func() {
		_ = listener.Close()
	}()
	return listener.Addr().String()
}

// StartServer starts the string analyzer API server programmatically
func (s *ServerTestHelper) StartServer() error {
	var loaderOpts []config.Option
	if s.configPath != "" {
		loaderOpts = append(loaderOpts, config.WithConfigPath(s.configPath))
	}

	cfg, err := config.LoadConfig(loaderOpts...)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app, err := analyzerapp.NewAnalyzerApp(s.ctx,
		analyzerapp.WithConfig(cfg),
		analyzerapp.WithAddress(s.address),
	)
	if err != nil {
		return fmt.Errorf("failed to build app: %w", err)
	}

	s.app = app

	go func() {
		if err := app.Start(); err != nil {
			// The test fails when it tries to connect
			fmt.Fprintf(os.Stderr, "Server start failed: %v\n", err)
		}
	}()

	return nil
}

// StopServer gracefully stops the string analyzer API server
func (s *ServerTestHelper) StopServer() error {
	if s.app != nil {
		return s.app.Stop(5 * time.Second)
	}
	return nil
}

// WaitForServerReady waits for the server to be ready to accept requests
func (s *ServerTestHelper) WaitForServerReady(timeout time.Duration) {
	gomega.Eventually(func() error {
		resp, err := s.httpClient.Get(s.baseURL + "/health")
		if err != nil {
			return err
		}
		defer func() {
			_ = resp.Body.Close()
		}()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("server returned status %d", resp.StatusCode)
		}
		return nil
	}, timeout, 100*time.Millisecond).Should(gomega.Succeed(), "Server should be ready")
}

// CreateString makes a POST request to /strings with the given value
func (s *ServerTestHelper) CreateString(value string) (*http.Response, error) {
	body, err := json.Marshal(map[string]string{"value": value})
	if err != nil {
		return nil, err
	}
	return s.PostRaw(body)
}

// PostRaw makes a POST request to /strings with an arbitrary body
func (s *ServerTestHelper) PostRaw(body []byte) (*http.Response, error) {
	return s.httpClient.Post(s.baseURL+"/strings", "application/json", bytes.NewReader(body))
}

// GetString makes a GET request to /strings/{value}
func (s *ServerTestHelper) GetString(value string) (*http.Response, error) {
	return s.httpClient.Get(s.baseURL + "/strings/" + url.PathEscape(value))
}

// DeleteString makes a DELETE request to /strings/{value}
func (s *ServerTestHelper) DeleteString(value string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(s.ctx, http.MethodDelete, s.baseURL+"/strings/"+url.PathEscape(value), nil)
	if err != nil {
		return nil, err
	}
	return s.httpClient.Do(req)
}

// ListStrings makes a GET request to /strings with the given query parameters
func (s *ServerTestHelper) ListStrings(query url.Values) (*http.Response, error) {
	target := s.baseURL + "/strings"
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return s.httpClient.Get(target)
}

// FilterByNaturalLanguage makes a GET request to /strings/filter-by-natural-language
func (s *ServerTestHelper) FilterByNaturalLanguage(query string) (*http.Response, error) {
	return s.httpClient.Get(s.baseURL + "/strings/filter-by-natural-language?" + url.Values{"query": {query}}.Encode())
}

// Get makes a GET request to an arbitrary path
func (s *ServerTestHelper) Get(path string) (*http.Response, error) {
	return s.httpClient.Get(s.baseURL + path)
}

// GetBaseURL returns the base URL of the server
func (s *ServerTestHelper) GetBaseURL() string {
	return s.baseURL
}

// DecodeJSON reads and closes the response body and decodes it into out
func DecodeJSON(resp *http.Response, out any) {
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(resp.Body)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	gomega.Expect(json.Unmarshal(body, out)).To(gomega.Succeed(), "body: %s", string(body))
}

// WriteConfigYAML writes a YAML configuration file for testing
func WriteConfigYAML(dir, serviceName string, allowedOrigins []string, prometheus bool) string {
	configContent := fmt.Sprintf(`serviceName: %s
server:
  requestTimeout: 5s
`, serviceName)

	if len(allowedOrigins) > 0 {
		configContent += "cors:\n  allowedOrigins:\n"
		for _, origin := range allowedOrigins {
			configContent += fmt.Sprintf("    - %q\n", origin)
		}
	}

	if prometheus {
		configContent += `telemetry:
  enabled: true
  tracing:
    enabled: false
  metrics:
    enabled: true
    exporter: prometheus
`
	}

	configPath := filepath.Join(dir, "config.yaml")
	gomega.Expect(os.WriteFile(configPath, []byte(configContent), 0600)).To(gomega.Succeed())
	return configPath
}
