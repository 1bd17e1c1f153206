// Package app provides application lifecycle management for the string analyzer server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/stacklok/string-analyzer-server/internal/config"
)

// AnalyzerApp encapsulates all components needed to run the string analyzer API server
// It provides lifecycle management and graceful shutdown capabilities
type AnalyzerApp struct {
	config     *config.Config
	components *AppComponents
	httpServer *http.Server

	// cancelFunc cancels the base context of every request
	cancelFunc context.CancelFunc
}

// Start starts the HTTP server.
// This method blocks until the HTTP server stops or encounters an error
func (app *AnalyzerApp) Start() error {
	slog.Info("Server listening", "address", app.httpServer.Addr)
	if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the application with the given timeout
// It shuts down the HTTP server and then flushes telemetry
func (app *AnalyzerApp) Stop(timeout time.Duration) error {
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server forced to shutdown: %w", err))
	}

	if app.cancelFunc != nil {
		app.cancelFunc()
	}

	if app.components != nil && app.components.Telemetry != nil {
		if err := app.components.Telemetry.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown telemetry: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	slog.Info("Server shutdown complete")
	return nil
}

// GetConfig returns the application configuration
func (app *AnalyzerApp) GetConfig() *config.Config {
	return app.config
}

// GetHTTPServer returns the HTTP server (useful for testing to get the actual port)
func (app *AnalyzerApp) GetHTTPServer() *http.Server {
	return app.httpServer
}
