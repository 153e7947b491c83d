package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatlens/pkg/analyzer"
	"github.com/ccollicutt/chatlens/pkg/config"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// Exit codes shared by every command.
const (
	ExitOK     = 0
	ExitNoData = 1
	ExitError  = 2
)

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// setupLogging installs the configured logger as the default and returns
// its cleanup.
func setupLogging(cfg *config.Config) (*slog.Logger, func() error, error) {
	logger, cleanup, err := config.SetupLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("setting up logging: %w", err)
	}
	slog.SetDefault(logger)
	return logger, cleanup, nil
}

// newAnalyzer builds an analyzer from the analysis section, loading the
// stopword list it names.
func newAnalyzer(cfg *config.Config, logger *slog.Logger) (*analyzer.Analyzer, error) {
	stopwords, err := analyzer.LoadStopwords(cfg.Analysis.StopwordsFile)
	if err != nil {
		return nil, fmt.Errorf("loading stopwords: %w", err)
	}
	logger.Debug("stopwords loaded", "file", cfg.Analysis.StopwordsFile, "count", len(stopwords))

	opts := cfg.Analysis.AnalyzerOptions(stopwords)
	opts = append(opts, analyzer.WithLogger(logger))
	return analyzer.New(opts...), nil
}
