package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatlens/internal/server"
	"github.com/ccollicutt/chatlens/pkg/analyzer"
	"github.com/ccollicutt/chatlens/pkg/config"
)

// ServeOptions holds command-line options for the serve command.
type ServeOptions struct {
	ConfigFile string
	Addr       string
	EnvFile    string
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		Long: `Start an HTTP server that parses and analyzes uploaded chat exports.

Endpoints:
  GET  /health          - liveness check
  GET  /metrics         - Prometheus metrics
  POST /api/v1/analyze  - analysis report for an uploaded export
  POST /api/v1/parse    - parsed records for an uploaded export

Exports are sent as the raw request body or as the multipart field "file".

Variables from the env file (default .env) are loaded before the
configuration, so CHATLENS_* overrides can live there.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Configuration file")
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "Listen address (default :8080)")
	cmd.Flags().StringVar(&opts.EnvFile, "env-file", ".env", "Environment file to load")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return err
	}

	cfg, err := config.LoadOrDefault(commandContext(cmd), opts.ConfigFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.Addr != "" {
		cfg.Server.Addr = opts.Addr
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid options: %w", err)
		}
	}

	logger, cleanup, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	stopwords, err := analyzer.LoadStopwords(cfg.Analysis.StopwordsFile)
	if err != nil {
		return fmt.Errorf("loading stopwords: %w", err)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg,
		server.WithLogger(logger),
		server.WithVersion(Version),
		server.WithStopwords(stopwords),
	)

	fmt.Fprintf(cmd.ErrOrStderr(), "chatlens listening on %s\n", cfg.Server.Addr)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

// loadEnvFile loads path into the environment. A missing file is ignored.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading env file: %w", err)
	}
	return nil
}
