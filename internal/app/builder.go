package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/stacklok/string-analyzer-server/internal/api"
	"github.com/stacklok/string-analyzer-server/internal/config"
	"github.com/stacklok/string-analyzer-server/internal/filtering"
	"github.com/stacklok/string-analyzer-server/internal/service"
	"github.com/stacklok/string-analyzer-server/internal/service/inmemory"
	"github.com/stacklok/string-analyzer-server/internal/telemetry"
)

// ServiceTracerName is the name of the tracer used by the string service
const ServiceTracerName = "github.com/stacklok/string-analyzer-server/service"

// AnalyzerAppOptions is a function that configures the analyzer app builder
type AnalyzerAppOptions func(*analyzerAppConfig) error

// analyzerAppConfig collects the settings and overrides used to build an AnalyzerApp
// It supports dependency injection for testing while providing sensible defaults for production
type analyzerAppConfig struct {
	config *config.Config

	// Optional component overrides (primarily for testing)
	stringService service.StringService
	filterService filtering.FilterService
	telemetry     *telemetry.Telemetry

	// HTTP server options
	address        string
	middlewares    []func(http.Handler) http.Handler
	requestTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration
}

func baseConfig(opts ...AnalyzerAppOptions) (*analyzerAppConfig, error) {
	cfg := &analyzerAppConfig{
		address:        config.DefaultAddress,
		requestTimeout: config.DefaultRequestTimeout,
		readTimeout:    config.DefaultReadTimeout,
		writeTimeout:   config.DefaultWriteTimeout,
		idleTimeout:    config.DefaultIdleTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// NewAnalyzerApp creates a new application from the given options
func NewAnalyzerApp(
	ctx context.Context,
	opts ...AnalyzerAppOptions,
) (*AnalyzerApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}

	if cfg.config == nil {
		cfg.config = config.Default()
	}

	if cfg.telemetry == nil {
		cfg.telemetry, err = telemetry.New(ctx, telemetry.WithTelemetryConfig(telemetryConfig(cfg.config)))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
		}
	}

	stringService, err := buildServiceComponents(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build service components: %w", err)
	}

	appCtx, cancel := context.WithCancel(ctx)

	httpServer, err := buildHTTPServer(appCtx, cfg, stringService)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to build HTTP server: %w", err)
	}

	return &AnalyzerApp{
		config: cfg.config,
		components: &AppComponents{
			StringService: stringService,
			Telemetry:     cfg.telemetry,
		},
		httpServer: httpServer,
		cancelFunc: cancel,
	}, nil
}

// telemetryConfig fills the telemetry service name from the root config when unset
func telemetryConfig(c *config.Config) *telemetry.Config {
	if c.Telemetry == nil {
		return nil
	}
	tc := *c.Telemetry
	if tc.ServiceName == "" {
		tc.ServiceName = c.GetServiceName()
	}
	return &tc
}

// WithConfig sets the configuration and applies its server settings
func WithConfig(c *config.Config) AnalyzerAppOptions {
	return func(cfg *analyzerAppConfig) error {
		cfg.config = c
		if c == nil {
			return nil
		}

		server := c.GetServer()
		cfg.address = server.Address
		cfg.requestTimeout = server.RequestTimeout
		cfg.readTimeout = server.ReadTimeout
		cfg.writeTimeout = server.WriteTimeout
		cfg.idleTimeout = server.IdleTimeout
		return nil
	}
}

// WithAddress sets the HTTP server address
func WithAddress(addr string) AnalyzerAppOptions {
	return func(cfg *analyzerAppConfig) error {
		if addr == "" {
			return fmt.Errorf("address cannot be empty")
		}

		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return fmt.Errorf("address is not a valid host:port: %w", err)
		}
		if port == "" {
			return fmt.Errorf("address is not a valid port: %s", addr)
		}
		switch strings.ToLower(host) {
		case "localhost":
			host = "127.0.0.1"
		case "":
			host = "0.0.0.0"
		}

		if _, err := netip.ParseAddrPort(net.JoinHostPort(host, port)); err != nil {
			return fmt.Errorf("address is not a valid port: %w", err)
		}

		cfg.address = addr
		return nil
	}
}

// WithMiddlewares sets custom HTTP middlewares
func WithMiddlewares(mw ...func(http.Handler) http.Handler) AnalyzerAppOptions {
	return func(cfg *analyzerAppConfig) error {
		cfg.middlewares = mw
		return nil
	}
}

// WithStringService allows injecting a custom string service (for testing)
func WithStringService(svc service.StringService) AnalyzerAppOptions {
	return func(cfg *analyzerAppConfig) error {
		cfg.stringService = svc
		return nil
	}
}

// WithFilterService allows injecting a custom filter engine into the default string service
func WithFilterService(fs filtering.FilterService) AnalyzerAppOptions {
	return func(cfg *analyzerAppConfig) error {
		cfg.filterService = fs
		return nil
	}
}

// WithTelemetry sets already initialized telemetry providers
func WithTelemetry(t *telemetry.Telemetry) AnalyzerAppOptions {
	return func(cfg *analyzerAppConfig) error {
		cfg.telemetry = t
		return nil
	}
}

// buildServiceComponents builds the string service with its telemetry
//
//nolint:unparam // we prefer having a similar interface
func buildServiceComponents(
	_ context.Context,
	b *analyzerAppConfig,
) (service.StringService, error) {
	if b.stringService != nil {
		return b.stringService, nil
	}

	slog.Info("Initializing service components")

	svcOpts := []inmemory.Option{}
	if b.filterService != nil {
		svcOpts = append(svcOpts, inmemory.WithFilterService(b.filterService))
	}

	if b.telemetry != nil {
		svcOpts = append(svcOpts, inmemory.WithTracer(b.telemetry.Tracer(ServiceTracerName)))

		stringMetrics, err := telemetry.NewStringMetrics(b.telemetry.MeterProvider())
		if err != nil {
			return nil, fmt.Errorf("failed to create string metrics: %w", err)
		}
		svcOpts = append(svcOpts, inmemory.WithMetrics(stringMetrics))
	}

	svc := inmemory.New(svcOpts...)
	slog.Info("Service components initialized successfully")
	return svc, nil
}

// buildHTTPServer builds the HTTP server with router and middleware.
// Every request context derives from ctx.
func buildHTTPServer(
	ctx context.Context,
	b *analyzerAppConfig,
	svc service.StringService,
) (*http.Server, error) {
	slog.Info("Initializing HTTP server")

	if b.middlewares == nil {
		b.middlewares = []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(b.requestTimeout),
			api.LoggingMiddleware,
		}
	}

	if b.config != nil && b.config.CORS != nil {
		b.middlewares = append(b.middlewares, corsMiddleware(b.config.CORS))
		slog.Info("CORS enabled", "allowed_origins", b.config.CORS.AllowedOrigins)
	}

	var serverOpts []api.ServerOption

	// Telemetry middlewares go first to observe every request
	if b.telemetry != nil {
		metricsMiddleware, err := telemetry.MetricsMiddleware(b.telemetry.MeterProvider())
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics middleware: %w", err)
		}
		b.middlewares = append([]func(http.Handler) http.Handler{
			telemetry.TracingMiddleware(b.telemetry.TracerProvider()),
			metricsMiddleware,
		}, b.middlewares...)

		if handler := b.telemetry.MetricsHandler(); handler != nil {
			serverOpts = append(serverOpts, api.WithMetricsHandler(handler))
			slog.Info("Prometheus metrics endpoint enabled", "path", "/metrics")
		}
	}

	serverOpts = append(serverOpts, api.WithMiddlewares(b.middlewares...))
	router := api.NewServer(svc, serverOpts...)

	server := &http.Server{
		Addr:         b.address,
		Handler:      router,
		ReadTimeout:  b.readTimeout,
		WriteTimeout: b.writeTimeout,
		IdleTimeout:  b.idleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	slog.Info("HTTP server configured", "address", b.address)
	return server, nil
}

// corsMiddleware builds the CORS handler for the configured origins
func corsMiddleware(c *config.CORSConfig) func(http.Handler) http.Handler {
	headers := append([]string{"Accept", "Content-Type", "X-Request-ID"}, c.AllowedHeaders...)

	return cors.Handler(cors.Options{
		AllowedOrigins: c.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: headers,
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         c.MaxAge,
	})
}
