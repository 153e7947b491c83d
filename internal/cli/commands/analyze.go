package commands

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatlens/internal/ingest"
	"github.com/ccollicutt/chatlens/pkg/config"
	"github.com/ccollicutt/chatlens/pkg/detector"
	"github.com/ccollicutt/chatlens/pkg/output"
	"github.com/ccollicutt/chatlens/pkg/webhook"
)

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	ConfigFile string
	User       string
	Format     string
	Output     string
	Stopwords  string
	TopWords   int
	Verbose    bool
	Quiet      bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <chat.txt>...",
		Short: "Analyze exported chats",
		Long: `Parse one or more exported chats and report activity statistics.

Several exports (files, globs or directories of .txt files) are merged in
timestamp order before analysis.

Reports:
  - Message, word, media and link counts
  - Monthly and daily timelines
  - Busiest weekdays, months and a weekday/hour heatmap
  - Most active users (group chats only)
  - Most common words and emoji

Exit codes:
  0 - Analysis completed
  1 - No messages found (insufficient data)
  2 - Configuration or runtime error`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Configuration file")
	cmd.Flags().StringVarP(&opts.User, "user", "u", "", "Restrict statistics to one user (default: Overall)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Export format (auto|bracketed|dashed)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output format (text|json)")
	cmd.Flags().StringVar(&opts.Stopwords, "stopwords", "", "Stopword list, one word per line")
	cmd.Flags().IntVar(&opts.TopWords, "top-words", 0, "Number of common words to report")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include parse diagnostics and run metadata")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", string(config.WebhookTriggerOnData), "When to fire webhook (on_data|always|never)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	ctx := commandContext(cmd)
	start := time.Now()

	cfg, err := config.LoadOrDefault(ctx, opts.ConfigFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyAnalyzeFlags(cmd, cfg, opts)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid options: %w", err)
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

	a, err := newAnalyzer(cfg, logger)
	if err != nil {
		return err
	}

	result, err := a.Analyze(ctx, cfg.Analysis.User, chat.Messages)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	if cfg.Analysis.User != "" && !slices.Contains(result.Users, cfg.Analysis.User) {
		logger.Warn("user not found in chat", "user", cfg.Analysis.User, "users", result.Users[1:])
	}

	report := output.NewReport(result, output.Metadata{
		Sources:  chat.Names(),
		Format:   chat.Format(),
		Encoding: chat.Encoding(),
		Duration: time.Since(start),
		Parse:    chat.Stats,
	})

	formatter, err := output.New(cfg.Output.Format, output.FormatOptions{
		Verbose: cfg.Output.Verbose,
		Quiet:   cfg.Output.Quiet,
	})
	if err != nil {
		return err
	}

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Delivery failures are logged but never fail the analysis.
	webhook.NewClient(webhook.WithLogger(logger)).Notify(ctx, report, collectWebhooks(cfg, opts))

	if !report.HasData() {
		ExitCode = ExitNoData
	}

	return nil
}

// applyAnalyzeFlags overrides config values with flags the user set.
func applyAnalyzeFlags(cmd *cobra.Command, cfg *config.Config, opts *AnalyzeOptions) {
	flags := cmd.Flags()
	if flags.Changed("user") {
		cfg.Analysis.User = opts.User
	}
	if flags.Changed("format") {
		cfg.Analysis.Format = opts.Format
	}
	if flags.Changed("output") {
		cfg.Output.Format = opts.Output
	}
	if flags.Changed("stopwords") {
		cfg.Analysis.StopwordsFile = opts.Stopwords
	}
	if flags.Changed("top-words") {
		cfg.Analysis.TopWords = opts.TopWords
	}
	if flags.Changed("verbose") {
		cfg.Output.Verbose = opts.Verbose
	}
	if flags.Changed("quiet") {
		cfg.Output.Quiet = opts.Quiet
	}
}

// collectWebhooks merges config file webhooks with CLI webhook.
func collectWebhooks(cfg *config.Config, opts *AnalyzeOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnData
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}
