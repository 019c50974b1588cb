// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output delivers rendered documents: Markdown files with a
// metadata header on disk, and publishers that announce them elsewhere.
package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docgen/pkg/types"
)

const headerDelim = "---\n"

// Header is the frontmatter written ahead of a saved document.
type Header struct {
	ID          string    `yaml:"id"`
	Template    string    `yaml:"template"`
	Generated   time.Time `yaml:"generated"`
	Version     string    `yaml:"version"`
	Compliance  string    `yaml:"compliance"`
	ContextHash string    `yaml:"context_hash"`
	Profile     string    `yaml:"profile,omitempty"`
	Validated   bool      `yaml:"validated"`
	Compliant   *bool     `yaml:"compliant,omitempty"`
}

// HeaderFor builds the header for doc. Compliant is only set for
// validated documents.
func HeaderFor(doc *types.RenderedDocument) Header {
	h := Header{
		ID:          doc.ID,
		Template:    doc.TemplateID,
		Generated:   doc.Metadata.GeneratedAt.UTC(),
		Version:     doc.Metadata.Version,
		Compliance:  doc.Metadata.ComplianceLevel,
		ContextHash: doc.Metadata.ContextHash,
		Profile:     doc.ProfileID,
		Validated:   doc.Validated(),
	}
	if h.Validated {
		ok := doc.Compliant()
		h.Compliant = &ok
	}
	return h
}

// WriteMarkdown writes doc's header followed by its content.
func WriteMarkdown(w io.Writer, doc *types.RenderedDocument) error {
	data, err := yaml.Marshal(HeaderFor(doc))
	if err != nil {
		return fmt.Errorf("marshaling header: %w", err)
	}
	var b bytes.Buffer
	b.WriteString(headerDelim)
	b.Write(data)
	b.WriteString(headerDelim)
	b.WriteString("\n")
	b.WriteString(doc.Content)
	if !strings.HasSuffix(doc.Content, "\n") {
		b.WriteString("\n")
	}
	_, err = w.Write(b.Bytes())
	return err
}

// SaveMarkdown writes doc into dir and returns the file path. The name is
// derived from the template ID and the first eight characters of the
// document ID so repeated generations do not collide.
func SaveMarkdown(dir string, doc *types.RenderedDocument) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, FileName(doc))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteMarkdown(f, doc); err != nil {
		f.Close()
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return path, nil
}

// FileName returns the Markdown file name for doc.
func FileName(doc *types.RenderedDocument) string {
	name := strings.ReplaceAll(doc.TemplateID, "/", "-")
	if name == "" {
		name = "document"
	}
	id := doc.ID
	if len(id) > 8 {
		id = id[:8]
	}
	if id != "" {
		name += "-" + id
	}
	return name + ".md"
}

// ParseMarkdown splits a saved document into its header and content.
// Text without a header is returned whole with ok false.
func ParseMarkdown(data []byte) (h Header, content string, ok bool, err error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	if !strings.HasPrefix(text, headerDelim) {
		return Header{}, text, false, nil
	}
	rest := text[len(headerDelim):]
	end := strings.Index(rest, "\n"+headerDelim)
	if end < 0 {
		return Header{}, text, false, nil
	}
	if err := yaml.Unmarshal([]byte(rest[:end+1]), &h); err != nil {
		return Header{}, "", false, fmt.Errorf("parsing header: %w", err)
	}
	content = strings.TrimPrefix(rest[end+1+len(headerDelim):], "\n")
	return h, content, true, nil
}
