package app

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stacklok/string-analyzer-server/internal/analyzer"
)

func newAnalyzeCmd() *cobra.Command {
	analyzeCmd := &cobra.Command{
		Use:   "analyze <value>",
		Short: "Analyze a string without starting the server",
		Long: `Analyze computes the properties the server would store for a value
and prints the resulting record.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return fmt.Errorf("value cannot be empty")
			}

			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("error retrieving format flag: %w", err)
			}

			record := analyzer.Analyze(args[0])

			var output []byte
			switch format {
			case "json":
				output, err = json.MarshalIndent(record, "", "  ")
			case "yaml":
				output, err = yaml.Marshal(record)
			default:
				return fmt.Errorf("unsupported format %q: must be json or yaml", format)
			}
			if err != nil {
				return fmt.Errorf("failed to format record: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(output))
			return err
		},
	}
	analyzeCmd.Flags().String("format", "json", "Output format (json or yaml)")
	return analyzeCmd
}
