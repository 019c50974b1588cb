// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package draft composes prose with exhibit citations resolved from an
// evidence registry.
//
// A drafted paragraph ends in one citation group:
//
//	(Ex. A, pp. 1-3, 7; B, pp. 12)
//
// The group is a pure function of the paragraph text, the cited IDs, and
// the registry contents, so regenerating a paragraph reproduces it exactly.
package draft

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/docgen/pkg/types"
)

// ErrEvidenceRequired is returned in require-citation mode when a paragraph
// cites nothing.
var ErrEvidenceRequired = errors.New("evidence required")

// paragraphSeparator joins drafted paragraphs in DraftDocument.
const paragraphSeparator = "\n\n"

// Resolver looks up evidence sources. *evidence.Registry satisfies it.
type Resolver interface {
	Get(id string) (types.EvidenceSource, error)
}

// Option configures a Drafter.
type Option func(*Drafter)

// WithRequireCitation makes uncited paragraphs an error.
func WithRequireCitation() Option {
	return func(d *Drafter) { d.requireCitation = true }
}

// Drafter appends citation groups to paragraphs.
type Drafter struct {
	resolver        Resolver
	requireCitation bool
}

// New returns a Drafter that resolves evidence through r.
func New(r Resolver, opts ...Option) *Drafter {
	d := &Drafter{resolver: r}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DraftParagraph appends the citation group for ids to text. With no ids
// it returns text unchanged. Every id is resolved before anything is
// formatted; one unknown id fails the whole call.
func (d *Drafter) DraftParagraph(text string, ids []string) (string, error) {
	if len(ids) == 0 {
		if d.requireCitation {
			return "", fmt.Errorf("%w: %s", ErrEvidenceRequired, preview(text))
		}
		return text, nil
	}

	sources := make([]types.EvidenceSource, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		src, err := d.resolver.Get(id)
		if err != nil {
			return "", fmt.Errorf("resolving citation: %w", err)
		}
		sources = append(sources, src)
	}

	group := FormatCitation(sources)
	if text == "" {
		return group, nil
	}
	return text + " " + group, nil
}

// Draft drafts a single DraftedParagraph.
func (d *Drafter) Draft(p types.DraftedParagraph) (string, error) {
	return d.DraftParagraph(p.Text, p.EvidenceIDs)
}

// DraftDocument drafts every paragraph and joins them with blank lines.
func (d *Drafter) DraftDocument(paragraphs []types.DraftedParagraph) (string, error) {
	out := make([]string, 0, len(paragraphs))
	for i, p := range paragraphs {
		text, err := d.Draft(p)
		if err != nil {
			return "", fmt.Errorf("paragraph %d: %w", i+1, err)
		}
		out = append(out, text)
	}
	return strings.Join(out, paragraphSeparator), nil
}

// FormatCitation renders one citation group for sources, in order. Only
// the first entry carries the "Ex." prefix.
func FormatCitation(sources []types.EvidenceSource) string {
	parts := make([]string, 0, len(sources))
	for _, src := range sources {
		cite := src.Exhibit
		if len(src.Pages) > 0 {
			cite += ", pp. " + FormatPages(src.Pages)
		}
		parts = append(parts, cite)
	}
	return "(Ex. " + strings.Join(parts, "; ") + ")"
}

// preview shortens text for error messages.
func preview(text string) string {
	const max = 50
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
