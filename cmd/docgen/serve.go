// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/pdiddy/docgen/internal/logging"
	"github.com/pdiddy/docgen/internal/metrics"
	"github.com/pdiddy/docgen/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the generation API over HTTP",
	Long: `Serve exposes generate, bulk, validate, and followthrough under /api/v2,
plus /health and Prometheus /metrics. Generated documents are recorded in
the history database unless --no-history is set.

The listen address comes from --addr or server.addr (default :8000).
SIGINT and SIGTERM trigger a graceful shutdown.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	noSave, _ := cmd.Flags().GetBool("no-history")

	cfg := loadConfig()
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	a, err := newApp(cfg, metrics.New(prometheus.DefaultRegisterer))
	if err != nil {
		return err
	}

	logger := logging.New("server")
	opts := []server.Option{
		server.WithVersion(version),
		server.WithGatherer(prometheus.DefaultGatherer),
	}
	if !noSave {
		store, err := a.openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, server.WithRecorder(store))
	}

	h := server.New(a.pipeline, a.templates, a.profiles, logger, opts...)
	return server.Run(cmd.Context(), cfg.Server.Addr, h.Router(), cfg.Server.ShutdownTimeout, logger)
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default server.addr)")
	serveCmd.Flags().Bool("no-history", false, "do not record documents in the history database")

	rootCmd.AddCommand(serveCmd)
}
