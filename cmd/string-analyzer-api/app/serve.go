package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	analyzerapp "github.com/stacklok/string-analyzer-server/internal/app"
	"github.com/stacklok/string-analyzer-server/internal/config"
)

const defaultGracefulTimeout = 30 * time.Second

func newServeCmd(v *viper.Viper) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the string analyzer API server",
		Long: `Start the string analyzer API server.

The server keeps analyzed strings in memory. An optional configuration file (--config)
sets the listen address, timeouts, CORS and telemetry.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), v)
		},
	}

	serveCmd.Flags().String("address", "", "Address to listen on (default \":8080\")")
	serveCmd.Flags().String("config", "", "Path to configuration file (YAML format)")
	serveCmd.Flags().Duration("shutdown-timeout", defaultGracefulTimeout, "Time allowed for graceful shutdown")

	for _, name := range []string{"address", "config", "shutdown-timeout"} {
		if err := v.BindPFlag(name, serveCmd.Flags().Lookup(name)); err != nil {
			slog.Error("Failed to bind flag", "flag", name, "error", err)
		}
	}

	return serveCmd
}

// buildAppOptions loads the configuration and turns it, together with flag overrides, into app options
func buildAppOptions(v *viper.Viper) ([]analyzerapp.AnalyzerAppOptions, error) {
	var loaderOpts []config.Option
	if configPath := v.GetString("config"); configPath != "" {
		loaderOpts = append(loaderOpts, config.WithConfigPath(configPath))
	}

	cfg, err := config.LoadConfig(loaderOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	opts := []analyzerapp.AnalyzerAppOptions{analyzerapp.WithConfig(cfg)}
	if address := v.GetString("address"); address != "" {
		opts = append(opts, analyzerapp.WithAddress(address))
	}

	slog.Info("Loaded configuration",
		"config", v.GetString("config"),
		"service_name", cfg.GetServiceName())
	return opts, nil
}

func runServe(ctx context.Context, v *viper.Viper) error {
	opts, err := buildAppOptions(v)
	if err != nil {
		return err
	}

	analyzerApp, err := analyzerapp.NewAnalyzerApp(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	slog.Info("Starting string analyzer API server", "address", analyzerApp.GetHTTPServer().Addr)

	errChan := make(chan error, 1)
	go func() {
		errChan <- analyzerApp.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errChan:
		if err != nil {
			_ = analyzerApp.Stop(v.GetDuration("shutdown-timeout"))
			return err
		}
		return nil
	case <-quit:
	case <-ctx.Done():
	}

	return analyzerApp.Stop(v.GetDuration("shutdown-timeout"))
}
