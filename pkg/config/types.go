// Package config provides configuration loading and validation for chatlens.
package config

import "time"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	Analysis AnalysisConfig  `yaml:"analysis"`
	Output   OutputConfig    `yaml:"output"`
	Logging  LoggingConfig   `yaml:"logging"`
	Server   ServerConfig    `yaml:"server"`
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty" validate:"-"`
}

// AnalysisConfig controls parsing and the aggregates computed.
type AnalysisConfig struct {
	// Format forces an export format instead of detecting one.
	Format string `yaml:"format" validate:"oneof=auto bracketed dashed"`

	// User restricts the analysis to one author. Empty means everyone.
	User string `yaml:"user,omitempty"`

	TopWords  int `yaml:"top_words" validate:"gte=0"`
	TopUsers  int `yaml:"top_users" validate:"gte=0"`
	TopEmojis int `yaml:"top_emojis" validate:"gte=0"`

	// StopwordsFile has one word per line. A missing file is not an error.
	StopwordsFile string `yaml:"stopwords_file,omitempty"`

	// MediaPlaceholder is the text the exporter writes for omitted attachments.
	MediaPlaceholder string `yaml:"media_placeholder" validate:"required"`

	// IgnoredMessages are whole message texts excluded from word counts.
	IgnoredMessages []string `yaml:"ignored_messages"`
}

// OutputConfig selects the report format.
type OutputConfig struct {
	Format  string `yaml:"format" validate:"oneof=text json"`
	Verbose bool   `yaml:"verbose,omitempty"`
	Quiet   bool   `yaml:"quiet,omitempty"`
}

// LoggingConfig controls diagnostic logging. Reports always go to stdout.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`

	// File receives JSON logs in addition to the text logs on stderr.
	File string `yaml:"file,omitempty"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string        `yaml:"addr" validate:"required,hostname_port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes" validate:"gt=0"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnData fires only when at least one message was parsed (default).
	WebhookTriggerOnData WebhookTrigger = "on_data"
	// WebhookTriggerAlways fires after every analysis.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending analysis reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_data" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
