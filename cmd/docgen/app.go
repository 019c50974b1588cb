// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docgen/internal/docstore"
	"github.com/pdiddy/docgen/internal/draft"
	"github.com/pdiddy/docgen/internal/evidence"
	"github.com/pdiddy/docgen/internal/jurisdiction"
	"github.com/pdiddy/docgen/internal/logging"
	"github.com/pdiddy/docgen/internal/metrics"
	"github.com/pdiddy/docgen/internal/output"
	"github.com/pdiddy/docgen/internal/pipeline"
	"github.com/pdiddy/docgen/internal/templates"
	"github.com/pdiddy/docgen/pkg/types"
)

// app holds the components shared by the subcommands.
type app struct {
	cfg       types.Config
	templates *templates.Loader
	evidence  *evidence.Registry
	profiles  *jurisdiction.Registry
	pipeline  *pipeline.Pipeline
	logger    *slog.Logger
}

// newApp loads templates, evidence, and profiles per cfg. The evidence
// registry is fully populated here, before any generation starts.
func newApp(cfg types.Config, m *metrics.Metrics) (*app, error) {
	a := &app{
		cfg:       cfg,
		templates: templates.Open(cfg.TemplatesDir),
		logger:    logging.New("cli"),
	}

	a.evidence = evidence.NewRegistry()
	if cfg.EvidenceFile != "" {
		reg, err := evidence.LoadFile(cfg.EvidenceFile)
		if err != nil {
			return nil, err
		}
		a.evidence = reg
	}

	var err error
	if cfg.ProfilesFile != "" {
		a.profiles, err = jurisdiction.LoadFile(cfg.ProfilesFile)
	} else {
		a.profiles, err = jurisdiction.Defaults()
	}
	if err != nil {
		return nil, err
	}

	a.pipeline = pipeline.New(a.templates, draft.New(a.evidence), a.profiles,
		pipeline.WithDefaults(cfg.Defaults),
		pipeline.WithWorkers(cfg.Workers),
		pipeline.WithVersion(version),
		pipeline.WithLogger(logging.New("pipeline")),
		pipeline.WithMetrics(m),
	)
	a.logger.Debug("components ready",
		"templates_dir", cfg.TemplatesDir,
		"evidence", a.evidence.Len(),
		"profiles", len(a.profiles.List()),
	)
	return a, nil
}

// openStore opens the document history.
func (a *app) openStore() (*docstore.Store, error) {
	return docstore.Open(a.cfg.DBPath)
}

// publishers returns the configured destinations.
func (a *app) publishers() []output.Publisher {
	var pubs []output.Publisher
	if a.cfg.Publish.SlackWebhookURL != "" {
		pubs = append(pubs, output.NewSlackWebhook(a.cfg.Publish.SlackWebhookURL, a.cfg.Publish.Timeout, a.cfg.Publish.MaxRetries))
	}
	return pubs
}

// parseContext merges a YAML context file with key=value pairs; pairs win.
func parseContext(file string, pairs []string) (types.Context, error) {
	ctx := types.Context{}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading context file: %w", err)
		}
		if err := yaml.Unmarshal(data, &ctx); err != nil {
			return nil, fmt.Errorf("parsing context file %s: %w", file, err)
		}
	}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --set %q: want key=value", p)
		}
		ctx[strings.TrimSpace(k)] = v
	}
	return ctx, nil
}

// splitIDs splits comma-separated evidence IDs, dropping blanks.
func splitIDs(values []string) []string {
	var ids []string
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
