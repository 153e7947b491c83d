package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatlens/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config>",
		Short: "Validate configuration file",
		Long:  `Validate a chatlens configuration file without analyzing any chat.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(commandContext(cmd), args[0])
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			printConfigSummary(cmd.OutOrStdout(), args[0], cfg)
			return nil
		},
	}
}

func printConfigSummary(w io.Writer, path string, cfg *config.Config) {
	fmt.Fprintf(w, "Configuration valid: %s\n", path)
	fmt.Fprintf(w, "  Format: %s\n", cfg.Analysis.Format)
	fmt.Fprintf(w, "  Output: %s\n", cfg.Output.Format)
	fmt.Fprintf(w, "  Top words: %d, top users: %d\n", cfg.Analysis.TopWords, cfg.Analysis.TopUsers)
	fmt.Fprintf(w, "  Server: %s\n", cfg.Server.Addr)
	fmt.Fprintf(w, "  Webhooks: %d\n", len(cfg.Webhooks))

	if path := cfg.Analysis.StopwordsFile; path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			fmt.Fprintf(w, "  Warning: stopword list not found: %s\n", path)
		}
	}
}
