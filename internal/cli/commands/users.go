package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatlens/internal/ingest"
	"github.com/ccollicutt/chatlens/pkg/analyzer"
	"github.com/ccollicutt/chatlens/pkg/config"
	"github.com/ccollicutt/chatlens/pkg/detector"
)

// UsersOptions holds command-line options for the users command.
type UsersOptions struct {
	ConfigFile string
	Format     string
	Output     string
}

// UsersJSON is the document written by "users -o json".
type UsersJSON struct {
	Users     []string         `json:"users"`
	GroupChat bool             `json:"group_chat"`
	Busy      []analyzer.Count `json:"messages_per_user"`
}

// NewUsersCommand creates the users command.
func NewUsersCommand() *cobra.Command {
	opts := &UsersOptions{}

	cmd := &cobra.Command{
		Use:   "users <chat.txt>...",
		Short: "List the participants of a chat",
		Long: `List the participants of one or more exported chats.

The first entry is always "Overall", the selection that covers everyone.
Pass any other entry to "analyze --user".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUsers(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Configuration file")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Export format (auto|bracketed|dashed)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")

	return cmd
}

func runUsers(cmd *cobra.Command, args []string, opts *UsersOptions) error {
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

	users := analyzer.Users(chat.Messages)
	busy := analyzer.MostBusyUsers(chat.Messages, 0)

	switch opts.Output {
	case "text":
		outputUsersText(cmd.OutOrStdout(), users, busy.Top)
	case "json":
		if err := outputUsersJSON(cmd.OutOrStdout(), users, busy.Top); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown output format: %s (valid: text, json)", opts.Output)
	}

	if len(users) == 1 {
		ExitCode = ExitNoData
	}
	return nil
}

func outputUsersText(w io.Writer, users []string, busy []analyzer.Count) {
	counts := make(map[string]int, len(busy))
	for _, c := range busy {
		counts[c.Label] = c.Count
	}

	for _, u := range users {
		if u == analyzer.Overall {
			fmt.Fprintln(w, u)
			continue
		}
		fmt.Fprintf(w, "%s (%d messages)\n", u, counts[u])
	}
	if analyzer.IsGroupChat(users) {
		fmt.Fprintf(w, "\nGroup chat, %d participants\n", len(users)-1)
	}
}

func outputUsersJSON(w io.Writer, users []string, busy []analyzer.Count) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(UsersJSON{
		Users:     users,
		GroupChat: analyzer.IsGroupChat(users),
		Busy:      busy,
	})
}
