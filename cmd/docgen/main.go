// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the docgen CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docgen/internal/logging"
	"github.com/pdiddy/docgen/internal/pipeline"
	"github.com/pdiddy/docgen/internal/secrets"
	"github.com/pdiddy/docgen/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the docgen CLI.
var rootCmd = &cobra.Command{
	Use:   "docgen",
	Short: "Template-driven document generation with evidence citations and court compliance checks",
	Long: `docgen renders documents from Markdown templates, appends exhibit
citations resolved from an evidence registry, and validates the result
against a court's formatting rules.

Templates live under templates/<category>/<name>.md; the built-in set is
used when that directory does not exist. Evidence is read from
evidence.yaml and court profiles from the built-in set or profiles_file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(viper.GetString("log_level"))
		if err != nil {
			return err
		}
		logging.Init(level, viper.GetString("log_format"), os.Stderr)

		s, err := secrets.Load(secrets.DefaultDir, logging.New("secrets"))
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logging.New("cli").Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./docgen.yaml or ~/.config/docgen/docgen.yaml)")
	flags.String("templates-dir", "templates", "template directory (<category>/<name>.md)")
	flags.String("evidence", "", "evidence registry file (YAML)")
	flags.String("profiles", "", "court profiles file (YAML); built-in profiles when empty")
	flags.String("db", "data/docgen.db", "SQLite document history")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "text", "log format: text or json")
	flags.Int("workers", pipeline.DefaultWorkers, "concurrent generations in a batch")

	bindFlag("templates_dir", "templates-dir")
	bindFlag("evidence_file", "evidence")
	bindFlag("profiles_file", "profiles")
	bindFlag("db_path", "db")
	bindFlag("log_level", "log-level")
	bindFlag("log_format", "log-format")
	bindFlag("workers", "workers")

	viper.SetDefault("output_dir", "output")
	viper.SetDefault("server.addr", ":8000")
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("publish.timeout", 10*time.Second)
	viper.SetDefault("publish.max_retries", 3)
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", flag, err))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("docgen")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "docgen"))
		}
	}

	viper.SetEnvPrefix("DOCGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig collects the effective configuration from viper. The Slack
// webhook falls back to .secrets/slack-webhook-url.
func loadConfig() types.Config {
	cfg := types.Config{
		TemplatesDir: viper.GetString("templates_dir"),
		EvidenceFile: viper.GetString("evidence_file"),
		ProfilesFile: viper.GetString("profiles_file"),
		Workers:      viper.GetInt("workers"),
		DBPath:       viper.GetString("db_path"),
		OutputDir:    viper.GetString("output_dir"),
		LogLevel:     viper.GetString("log_level"),
		LogFormat:    viper.GetString("log_format"),
		Defaults:     viper.GetStringMapString("defaults"),
		Server: types.ServerConfig{
			Addr:            viper.GetString("server.addr"),
			ShutdownTimeout: viper.GetDuration("server.shutdown_timeout"),
		},
		Publish: types.PublishConfig{
			SlackWebhookURL: viper.GetString("publish.slack_webhook_url"),
			Timeout:         viper.GetDuration("publish.timeout"),
			MaxRetries:      viper.GetInt("publish.max_retries"),
		},
	}
	if cfg.Publish.SlackWebhookURL == "" {
		cfg.Publish.SlackWebhookURL, _ = loadedSecrets.Get(secrets.SlackWebhookURL)
	}
	return cfg
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
