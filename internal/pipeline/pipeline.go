// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences template rendering, evidence drafting, and
// compliance validation into a single generate call. It is the only
// package that composes the others; each generate call is independent and
// shares nothing with its siblings except the read-only registries.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/docgen/internal/compliance"
	"github.com/pdiddy/docgen/internal/draft"
	"github.com/pdiddy/docgen/internal/logging"
	"github.com/pdiddy/docgen/internal/metrics"
	"github.com/pdiddy/docgen/internal/render"
	"github.com/pdiddy/docgen/pkg/types"
)

const (
	// DefaultWorkers caps concurrent generations in a batch.
	DefaultWorkers = 50

	generatorName = "docgen"
)

// TemplateSource loads template resources. *templates.Loader satisfies it.
type TemplateSource interface {
	Load(id string) (types.Template, error)
}

// ProfileSource resolves court profiles. *jurisdiction.Registry satisfies it.
type ProfileSource interface {
	GetProfile(id string) (types.CourtProfile, error)
}

// Request describes one document to generate.
type Request struct {
	TemplateID string        `json:"template" yaml:"template"`
	Context    types.Context `json:"context" yaml:"context"`

	// EvidenceIDs, when set, cite evidence on the rendered text as a
	// single paragraph.
	EvidenceIDs []string `json:"evidence,omitempty" yaml:"evidence,omitempty"`

	// ProfileID, when set, validates the result against that court profile.
	ProfileID string `json:"profile,omitempty" yaml:"profile,omitempty"`

	// UseTemplateProfile validates against the template's frontmatter
	// profile when ProfileID is empty.
	UseTemplateProfile bool `json:"use_template_profile,omitempty" yaml:"use_template_profile,omitempty"`
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDefaults sets smart-default context values.
func WithDefaults(defaults map[string]string) Option {
	return func(p *Pipeline) { p.defaults = defaults }
}

// WithWorkers sets the batch worker count. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithVersion sets the version stamped into document metadata.
func WithVersion(v string) Option {
	return func(p *Pipeline) { p.version = v }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// Pipeline generates documents.
type Pipeline struct {
	templates TemplateSource
	drafter   *draft.Drafter
	profiles  ProfileSource

	defaults map[string]string
	workers  int
	version  string
	now      func() time.Time
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// New returns a Pipeline over its collaborators.
func New(templates TemplateSource, drafter *draft.Drafter, profiles ProfileSource, opts ...Option) *Pipeline {
	p := &Pipeline{
		templates: templates,
		drafter:   drafter,
		profiles:  profiles,
		workers:   DefaultWorkers,
		version:   "dev",
		now:       time.Now,
		logger:    logging.New("pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Generate renders req's template, drafts citations when evidence is
// named, and validates when a profile applies. Compliance failures are
// attached as findings; only unusable inputs return an error.
func (p *Pipeline) Generate(ctx context.Context, req Request) (*types.RenderedDocument, error) {
	start := time.Now()
	doc, err := p.generate(ctx, req)

	var category string
	if doc != nil {
		category = string(doc.Category)
	}
	p.metrics.ObserveDocument(category, err == nil, time.Since(start))

	if err != nil {
		p.logger.DebugContext(ctx, "generate failed", "template", req.TemplateID, "error", err)
		return nil, err
	}
	p.logger.DebugContext(ctx, "generated",
		"template", req.TemplateID,
		"id", doc.ID,
		"profile", doc.ProfileID,
		"compliant", doc.Compliant(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return doc, nil
}

func (p *Pipeline) generate(ctx context.Context, req Request) (*types.RenderedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpl, err := p.templates.Load(req.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}

	now := p.now()
	rctx := render.Enrich(req.Context, p.defaults, now)
	content, err := render.Render(tmpl, rctx)
	if err != nil {
		return nil, fmt.Errorf("rendering: %w", err)
	}

	if len(req.EvidenceIDs) > 0 {
		if p.drafter == nil {
			return nil, fmt.Errorf("drafting: no evidence registry configured")
		}
		content, err = p.drafter.DraftParagraph(content, req.EvidenceIDs)
		if err != nil {
			return nil, fmt.Errorf("drafting: %w", err)
		}
	}

	doc := &types.RenderedDocument{
		ID:          uuid.NewString(),
		TemplateID:  tmpl.ID,
		Category:    tmpl.Category,
		Content:     content,
		Context:     rctx,
		EvidenceIDs: append([]string(nil), req.EvidenceIDs...),
		Metadata: types.Metadata{
			GeneratedAt:     now.UTC(),
			Version:         p.version,
			Generator:       generatorName,
			ContextHash:     HashContext(rctx),
			ComplianceLevel: ComplianceLevel(tmpl.ID),
		},
	}

	profileID := req.ProfileID
	if profileID == "" && req.UseTemplateProfile {
		profileID = tmpl.Profile
	}
	if profileID == "" {
		return doc, nil
	}

	profile, err := p.profiles.GetProfile(profileID)
	if err != nil {
		return nil, fmt.Errorf("validating: %w", err)
	}
	report, err := compliance.Validate(*doc, profile)
	if err != nil {
		return nil, fmt.Errorf("validating: %w", err)
	}
	doc.ProfileID = profile.ID
	doc.Findings = append(report.Findings, completeness(content))
	doc.Metadata.ComplianceLevel = profile.Name
	for _, f := range doc.Findings {
		p.metrics.ObserveFinding(string(f.Kind), f.Passed)
	}
	return doc, nil
}

// completeness flags placeholders that survived substitution, which only
// happens when a context value itself contains placeholder syntax.
func completeness(content string) types.Finding {
	f := types.Finding{Kind: types.RuleCompleteness, Rule: string(types.RuleCompleteness), Passed: true}
	left := render.Placeholders(content)
	if len(left) == 0 {
		f.Detail = "all placeholders resolved"
		return f
	}
	f.Passed = false
	f.Detail = "unresolved placeholders: " + strings.Join(left, ", ")
	return f
}

// HashContext returns a stable sha256 over the sorted key/value pairs.
func HashContext(ctx types.Context) string {
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%s\n", k, ctx[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ComplianceLevel names the standard an unvalidated document is held to,
// inferred from its template ID.
func ComplianceLevel(templateID string) string {
	id := strings.ToLower(templateID)
	switch {
	case strings.Contains(id, "federal"):
		return "Federal Court"
	case strings.Contains(id, "hawaii"), strings.Contains(id, "motion"):
		return "Hawaii Court"
	case strings.Contains(id, "evidence"):
		return "Forensic Standards"
	}
	return "Internal"
}
