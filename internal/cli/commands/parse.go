package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatlens/internal/ingest"
	"github.com/ccollicutt/chatlens/pkg/config"
	"github.com/ccollicutt/chatlens/pkg/detector"
	"github.com/ccollicutt/chatlens/pkg/parser"
)

// ParseOptions holds command-line options for the parse command.
type ParseOptions struct {
	ConfigFile string
	Format     string
	Output     string
}

// ParseJSON is the document written by "parse -o json".
type ParseJSON struct {
	Sources  []ingest.Source  `json:"sources"`
	Stats    parser.Stats     `json:"stats"`
	Messages []parser.Message `json:"messages"`
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <chat.txt>...",
		Short: "Print the parsed message records",
		Long: `Parse one or more exported chats and print the merged records.

Output formats:
  json  - one document with sources, parse statistics and messages
  jsonl - one message per line

Example:
  chatlens parse chat.txt
  chatlens parse -o jsonl exports/ | jq .user`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Configuration file")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Export format (auto|bracketed|dashed)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "json", "Output format (json|jsonl)")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	cfg, err := config.LoadOrDefault(commandContext(cmd), opts.ConfigFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cmd.Flags().Changed("format") {
		cfg.Analysis.Format = opts.Format
	}

	logger, cleanup, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	d, err := detector.ForName(cfg.Analysis.Format)
	if err != nil {
		return err
	}

	inputs, err := ingest.ReadFiles(args)
	if err != nil {
		return err
	}
	chat := ingest.Parse(inputs, d, logger)

	switch opts.Output {
	case "json":
		err = outputParseJSON(cmd.OutOrStdout(), chat)
	case "jsonl":
		err = outputParseJSONL(cmd.OutOrStdout(), chat.Messages)
	default:
		return fmt.Errorf("unknown output format: %s (valid: json, jsonl)", opts.Output)
	}
	if err != nil {
		return err
	}

	if len(chat.Messages) == 0 {
		ExitCode = ExitNoData
	}
	return nil
}

func outputParseJSON(w io.Writer, chat *ingest.Chat) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ParseJSON{
		Sources:  chat.Sources,
		Stats:    chat.Stats,
		Messages: chat.Messages,
	})
}

func outputParseJSONL(w io.Writer, msgs []parser.Message) error {
	encoder := json.NewEncoder(w)
	for _, m := range msgs {
		if err := encoder.Encode(m); err != nil {
			return fmt.Errorf("encoding message: %w", err)
		}
	}
	return nil
}
