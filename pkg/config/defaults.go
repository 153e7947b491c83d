package config

import (
	"os"
	"time"

	"github.com/ccollicutt/chatlens/pkg/analyzer"
)

// Default values for configuration.
const (
	DefaultFormat         = "auto"
	DefaultOutputFormat   = "text"
	DefaultLogLevel       = "warn"
	DefaultServerAddr     = ":8080"
	DefaultReadTimeout    = 30 * time.Second
	DefaultWriteTimeout   = 60 * time.Second
	DefaultMaxUploadBytes = 32 << 20
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvStopwordsFile = "CHATLENS_STOPWORDS_FILE"
	EnvLogLevel      = "CHATLENS_LOG_LEVEL"
	EnvServerAddr    = "CHATLENS_SERVER_ADDR"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Format:           DefaultFormat,
			TopWords:         analyzer.DefaultTopWords,
			TopUsers:         analyzer.DefaultTopUsers,
			TopEmojis:        analyzer.DefaultTopEmojis,
			MediaPlaceholder: analyzer.DefaultMediaPlaceholder,
			IgnoredMessages:  []string{analyzer.DefaultMediaPlaceholder, analyzer.DefaultDeletedNotice},
		},
		Output: OutputConfig{
			Format: DefaultOutputFormat,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
		Server: ServerConfig{
			Addr:           DefaultServerAddr,
			ReadTimeout:    DefaultReadTimeout,
			WriteTimeout:   DefaultWriteTimeout,
			MaxUploadBytes: DefaultMaxUploadBytes,
		},
	}
}

// ApplyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvironmentOverrides() {
	if path := os.Getenv(EnvStopwordsFile); path != "" {
		c.Analysis.StopwordsFile = path
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}
	if addr := os.Getenv(EnvServerAddr); addr != "" {
		c.Server.Addr = addr
	}
}

// AnalyzerOptions translates the analysis section into analyzer options.
func (a AnalysisConfig) AnalyzerOptions(stopwords analyzer.Stopwords) []analyzer.Option {
	return []analyzer.Option{
		analyzer.WithTopWords(a.TopWords),
		analyzer.WithTopUsers(a.TopUsers),
		analyzer.WithTopEmojis(a.TopEmojis),
		analyzer.WithMediaPlaceholder(a.MediaPlaceholder),
		analyzer.WithIgnoredMessages(a.IgnoredMessages),
		analyzer.WithStopwords(stopwords),
	}
}
