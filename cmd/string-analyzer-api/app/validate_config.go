package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stacklok/string-analyzer-server/internal/config"
)

func newValidateConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-config <config-file>",
		Short: "Validate a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(config.WithConfigPath(args[0]))
			if err != nil {
				return err
			}

			server := cfg.GetServer()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "✓ Valid configuration")
			fmt.Fprintf(out, "  Service: %s\n", cfg.GetServiceName())
			fmt.Fprintf(out, "  Address: %s\n", server.Address)
			if cfg.CORS != nil {
				fmt.Fprintf(out, "  CORS origins: %v\n", cfg.CORS.AllowedOrigins)
			}
			if cfg.Telemetry != nil && cfg.Telemetry.Enabled {
				fmt.Fprintf(out, "  Telemetry: enabled (metrics exporter: %s)\n", cfg.Telemetry.Metrics.GetExporter())
			}
			return nil
		},
	}
}
