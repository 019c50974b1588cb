// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ServerConfig holds settings for the REST surface.
type ServerConfig struct {
	// Addr is the listen address (default ":8000").
	Addr string `json:"addr" yaml:"addr"`

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// PublishConfig holds settings for downstream sinks.
type PublishConfig struct {
	// SlackWebhookURL is the incoming webhook for Slack notifications.
	// Usually loaded from .secrets/slack-webhook-url.
	SlackWebhookURL string `json:"slack_webhook_url,omitempty" yaml:"slack_webhook_url,omitempty"`

	// Timeout is the HTTP timeout for publish calls.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxRetries bounds retries on rate limits and gateway errors (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// Config groups every setting docgen reads from docgen.yaml, DOCGEN_*
// environment variables, and flags.
type Config struct {
	// TemplatesDir holds <category>/<name>.md templates. When the directory
	// does not exist the embedded templates are used.
	TemplatesDir string `json:"templates_dir" yaml:"templates_dir"`

	// EvidenceFile is the evidence.yaml to register before generation.
	EvidenceFile string `json:"evidence_file,omitempty" yaml:"evidence_file,omitempty"`

	// ProfilesFile replaces the built-in court profiles when set.
	ProfilesFile string `json:"profiles_file,omitempty" yaml:"profiles_file,omitempty"`

	// Workers caps concurrent generations in a batch (default 50).
	Workers int `json:"workers" yaml:"workers"`

	// DBPath is the SQLite document history (e.g. "data/docgen.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// OutputDir receives rendered markdown files.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level" yaml:"log_level"`

	// LogFormat is text or json.
	LogFormat string `json:"log_format" yaml:"log_format"`

	// Defaults are smart-default context values (author, court, attorney...).
	Defaults map[string]string `json:"defaults,omitempty" yaml:"defaults,omitempty"`

	Server  ServerConfig  `json:"server" yaml:"server"`
	Publish PublishConfig `json:"publish" yaml:"publish"`
}
