// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Category groups templates by audience.
type Category string

const (
	CategoryLegal     Category = "legal"
	CategoryTechnical Category = "technical"
	CategoryProject   Category = "project"
)

// Template is a text resource with named placeholders. The core never
// mutates it.
type Template struct {
	// ID is the slash-separated path without extension (e.g. "legal/motion-stay").
	ID       string   `json:"id" yaml:"id"`
	Category Category `json:"category" yaml:"category"`

	// Title and Description come from optional frontmatter.
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Profile is the court profile applied when a request names none.
	Profile string `json:"profile,omitempty" yaml:"profile,omitempty"`

	// Body is the raw text with placeholders, frontmatter stripped.
	Body string `json:"body" yaml:"-"`
}

// Context maps placeholder names to their substitution values.
type Context map[string]string

// Clone returns a copy of c. A nil context clones to an empty one.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Metadata describes how a document was produced.
type Metadata struct {
	GeneratedAt     time.Time `json:"generated_at" yaml:"generated_at"`
	Version         string    `json:"version" yaml:"version"`
	Generator       string    `json:"generator" yaml:"generator"`
	ContextHash     string    `json:"context_hash" yaml:"context_hash"`
	ComplianceLevel string    `json:"compliance_level" yaml:"compliance_level"`
}

// RenderedDocument is the output of a generation request.
type RenderedDocument struct {
	ID          string    `json:"id" yaml:"id"`
	TemplateID  string    `json:"template" yaml:"template"`
	Category    Category  `json:"category" yaml:"category"`
	Content     string    `json:"content" yaml:"content"`
	Context     Context   `json:"context" yaml:"context"`
	EvidenceIDs []string  `json:"evidence,omitempty" yaml:"evidence,omitempty"`
	ProfileID   string    `json:"profile,omitempty" yaml:"profile,omitempty"`
	Findings    []Finding `json:"findings,omitempty" yaml:"findings,omitempty"`
	Metadata    Metadata  `json:"metadata" yaml:"metadata"`
}

// Validated reports whether the document went through compliance validation.
func (d *RenderedDocument) Validated() bool {
	return d.ProfileID != ""
}

// Compliant reports whether every attached finding passed.
func (d *RenderedDocument) Compliant() bool {
	return AllPassed(d.Findings)
}
