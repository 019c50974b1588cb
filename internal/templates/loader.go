// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package templates loads template resources from a filesystem. A template
// with ID "legal/motion-stay" lives at legal/motion-stay.md and may begin
// with YAML frontmatter:
//
//	---
//	title: Motion for Stay
//	profile: hi_family
//	---
//
// Loaded templates are cached; a Loader is safe for concurrent use.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docgen/pkg/types"
)

const templateExt = ".md"

var (
	// ErrTemplateNotFound is returned when no resource exists for an ID.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidTemplate is returned when a resource exists but cannot be parsed.
	ErrInvalidTemplate = errors.New("invalid template")
)

//go:embed builtin
var builtinFS embed.FS

// frontmatter holds the optional YAML header of a template file.
type frontmatter struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Category    types.Category `yaml:"category"`
	Profile     string         `yaml:"profile"`
}

// Loader reads and caches templates from an fs.FS.
type Loader struct {
	fsys fs.FS

	mu    sync.RWMutex
	cache map[string]types.Template
}

// NewLoader returns a Loader reading from fsys.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys, cache: make(map[string]types.Template)}
}

// Builtin returns a Loader over the templates compiled into the binary.
func Builtin() *Loader {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		panic(fmt.Sprintf("builtin templates: %v", err))
	}
	return NewLoader(sub)
}

// Open returns a Loader over dir, or the built-in templates when dir is
// empty or does not exist.
func Open(dir string) *Loader {
	if dir == "" {
		return Builtin()
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return Builtin()
	}
	return NewLoader(os.DirFS(dir))
}

// Load returns the template with the given ID.
func (l *Loader) Load(id string) (types.Template, error) {
	l.mu.RLock()
	t, ok := l.cache[id]
	l.mu.RUnlock()
	if ok {
		return t, nil
	}

	name := id + templateExt
	if id == "" || !fs.ValidPath(name) {
		return types.Template{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, id)
	}
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.Template{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, id)
		}
		return types.Template{}, fmt.Errorf("reading template %s: %w", id, err)
	}

	t, err = parse(id, string(data))
	if err != nil {
		return types.Template{}, err
	}

	l.mu.Lock()
	l.cache[id] = t
	l.mu.Unlock()
	return t, nil
}

// Catalog lists every template ID grouped by category, sorted.
func (l *Loader) Catalog() (map[types.Category][]string, error) {
	catalog := make(map[types.Category][]string)
	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != templateExt {
			return nil
		}
		id := strings.TrimSuffix(p, templateExt)
		t, err := l.Load(id)
		if err != nil {
			return err
		}
		catalog[t.Category] = append(catalog[t.Category], id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	for _, ids := range catalog {
		sort.Strings(ids)
	}
	return catalog, nil
}

func parse(id, raw string) (types.Template, error) {
	t := types.Template{ID: id, Body: raw}

	var fm frontmatter
	if body, header, ok := splitFrontmatter(raw); ok {
		if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
			return types.Template{}, fmt.Errorf("%w: %s frontmatter: %v", ErrInvalidTemplate, id, err)
		}
		t.Body = body
		t.Title = fm.Title
		t.Description = fm.Description
		t.Profile = fm.Profile
	}

	t.Category = fm.Category
	if t.Category == "" {
		t.Category = categoryFor(id)
	}
	switch t.Category {
	case types.CategoryLegal, types.CategoryTechnical, types.CategoryProject:
	default:
		return types.Template{}, fmt.Errorf("%w: %s has no known category", ErrInvalidTemplate, id)
	}
	return t, nil
}

// splitFrontmatter separates a leading "---" block from the body.
func splitFrontmatter(raw string) (body, header string, ok bool) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	if !strings.HasPrefix(raw, "---\n") {
		return raw, "", false
	}
	rest := raw[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return raw, "", false
	}
	header = rest[:end]
	body = strings.TrimPrefix(rest[end+len("\n---"):], "\n")
	return body, header, true
}

// categoryFor derives the category from the first path segment. Evidence
// templates are legal documents.
func categoryFor(id string) types.Category {
	first, _, _ := strings.Cut(id, "/")
	switch first {
	case "legal", "evidence":
		return types.CategoryLegal
	case "technical":
		return types.CategoryTechnical
	case "project":
		return types.CategoryProject
	}
	return ""
}
