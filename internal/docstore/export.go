// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docgen/pkg/types"
)

// ExportEntry is one document in an export, without its rendered content
// unless requested.
type ExportEntry struct {
	ID              string          `json:"id" yaml:"id"`
	TemplateID      string          `json:"template" yaml:"template"`
	ProfileID       string          `json:"profile,omitempty" yaml:"profile,omitempty"`
	Compliant       bool            `json:"compliant" yaml:"compliant"`
	GeneratedAt     string          `json:"generated_at" yaml:"generated_at"`
	ComplianceLevel string          `json:"compliance_level" yaml:"compliance_level"`
	ContextHash     string          `json:"context_hash" yaml:"context_hash"`
	Findings        []types.Finding `json:"findings,omitempty" yaml:"findings,omitempty"`
	Content         string          `json:"content,omitempty" yaml:"content,omitempty"`
}

// ExportYAML writes the matching history to w as YAML.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer, opts QueryOptions, withContent bool) error {
	entries, err := s.exportEntries(ctx, opts, withContent)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ExportJSON writes the matching history to w as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer, opts QueryOptions, withContent bool) error {
	entries, err := s.exportEntries(ctx, opts, withContent)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func (s *Store) exportEntries(ctx context.Context, opts QueryOptions, withContent bool) ([]ExportEntry, error) {
	if opts.Limit == 0 {
		opts.Limit = -1
	}
	docs, err := s.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(docs))
	for i, d := range docs {
		entries[i] = ExportEntry{
			ID:              d.ID,
			TemplateID:      d.TemplateID,
			ProfileID:       d.ProfileID,
			Compliant:       d.Compliant(),
			GeneratedAt:     d.Metadata.GeneratedAt.UTC().Format(timeLayout),
			ComplianceLevel: d.Metadata.ComplianceLevel,
			ContextHash:     d.Metadata.ContextHash,
			Findings:        d.Findings,
		}
		if withContent {
			entries[i].Content = d.Content
		}
	}
	return entries, nil
}
