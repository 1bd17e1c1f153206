// Package config provides configuration loading and management for the string analyzer server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stacklok/string-analyzer-server/internal/telemetry"
)

const (
	// EnvPrefix is the prefix of environment variables read by the server
	EnvPrefix = "STRING_ANALYZER"

	// DefaultServiceName identifies the server when no name is configured
	DefaultServiceName = "string-analyzer-api"

	// DefaultAddress is the address the HTTP server listens on
	DefaultAddress = ":8080"

	// DefaultRequestTimeout bounds the handling of a single request
	DefaultRequestTimeout = 10 * time.Second

	// DefaultReadTimeout is the HTTP server read timeout
	DefaultReadTimeout = 10 * time.Second

	// DefaultWriteTimeout is the HTTP server write timeout
	DefaultWriteTimeout = 15 * time.Second

	// DefaultIdleTimeout is the HTTP server keep-alive timeout
	DefaultIdleTimeout = 60 * time.Second
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) && !filepath.IsLocal(realPath) {
			return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	// ServiceName is the name reported by the server and its telemetry
	// Defaults to "string-analyzer-api" if not specified
	ServiceName string `yaml:"serviceName,omitempty"`

	// Server holds the HTTP server settings
	Server *ServerConfig `yaml:"server,omitempty"`

	// CORS holds cross-origin settings; CORS is disabled when nil
	CORS *CORSConfig `yaml:"cors,omitempty"`

	// Telemetry holds tracing and metrics settings; telemetry is disabled when nil
	Telemetry *telemetry.Config `yaml:"telemetry,omitempty"`
}

// ServerConfig defines HTTP server settings
type ServerConfig struct {
	// Address is the listen address (e.g. ":8080")
	Address string `yaml:"address,omitempty"`

	// RequestTimeout bounds the handling of a single request (e.g. "10s")
	RequestTimeout time.Duration `yaml:"requestTimeout,omitempty"`

	ReadTimeout  time.Duration `yaml:"readTimeout,omitempty"`
	WriteTimeout time.Duration `yaml:"writeTimeout,omitempty"`
	IdleTimeout  time.Duration `yaml:"idleTimeout,omitempty"`
}

// CORSConfig defines cross-origin resource sharing settings
type CORSConfig struct {
	// AllowedOrigins lists the origins allowed to call the API; "*" allows any
	AllowedOrigins []string `yaml:"allowedOrigins"`

	// AllowedHeaders lists extra request headers browsers may send
	AllowedHeaders []string `yaml:"allowedHeaders,omitempty"`

	// MaxAge is how long, in seconds, preflight results may be cached
	MaxAge int `yaml:"maxAge,omitempty"`
}

// Default returns the configuration used when no file is supplied
func Default() *Config {
	return &Config{
		Server: &ServerConfig{
			Address:        DefaultAddress,
			RequestTimeout: DefaultRequestTimeout,
			ReadTimeout:    DefaultReadTimeout,
			WriteTimeout:   DefaultWriteTimeout,
			IdleTimeout:    DefaultIdleTimeout,
		},
	}
}

// LoadConfig loads and parses configuration from a YAML file.
// Without a path, the default configuration is returned.
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// GetServiceName returns the service name, using the default if not specified
func (c *Config) GetServiceName() string {
	if c == nil || c.ServiceName == "" {
		return DefaultServiceName
	}
	return c.ServiceName
}

// GetServer returns the server settings with defaults filled in for unset fields
func (c *Config) GetServer() ServerConfig {
	server := *Default().Server
	if c == nil || c.Server == nil {
		return server
	}

	if c.Server.Address != "" {
		server.Address = c.Server.Address
	}
	if c.Server.RequestTimeout > 0 {
		server.RequestTimeout = c.Server.RequestTimeout
	}
	if c.Server.ReadTimeout > 0 {
		server.ReadTimeout = c.Server.ReadTimeout
	}
	if c.Server.WriteTimeout > 0 {
		server.WriteTimeout = c.Server.WriteTimeout
	}
	if c.Server.IdleTimeout > 0 {
		server.IdleTimeout = c.Server.IdleTimeout
	}
	return server
}

// Validate performs validation on the configuration and reports every problem found
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	var errs []error

	if c.Server != nil {
		if err := c.Server.validate(); err != nil {
			errs = append(errs, fmt.Errorf("server: %w", err))
		}
	}

	if c.CORS != nil {
		if err := c.CORS.validate(); err != nil {
			errs = append(errs, fmt.Errorf("cors: %w", err))
		}
	}

	if err := c.Telemetry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("telemetry: %w", err))
	}

	return errors.Join(errs...)
}

func (s *ServerConfig) validate() error {
	var errs []error

	timeouts := []struct {
		name  string
		value time.Duration
	}{
		{"requestTimeout", s.RequestTimeout},
		{"readTimeout", s.ReadTimeout},
		{"writeTimeout", s.WriteTimeout},
		{"idleTimeout", s.IdleTimeout},
	}
	for _, timeout := range timeouts {
		if timeout.value < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %s", timeout.name, timeout.value))
		}
	}

	return errors.Join(errs...)
}

func (c *CORSConfig) validate() error {
	var errs []error

	if len(c.AllowedOrigins) == 0 {
		errs = append(errs, fmt.Errorf("allowedOrigins must list at least one origin"))
	}
	for i, origin := range c.AllowedOrigins {
		if strings.TrimSpace(origin) == "" {
			errs = append(errs, fmt.Errorf("allowedOrigins[%d] must not be empty", i))
		}
	}
	if c.MaxAge < 0 {
		errs = append(errs, fmt.Errorf("maxAge must not be negative, got %d", c.MaxAge))
	}

	return errors.Join(errs...)
}
