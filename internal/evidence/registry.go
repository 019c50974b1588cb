// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package evidence stores citable evidence sources keyed by identifier.
//
// A Registry is populated once at the start of a drafting session and is
// read-only afterwards. It takes no locks: callers must finish every
// Register call before sharing the registry across goroutines. Concurrent
// Get and List calls on a registry nobody writes to are safe.
package evidence

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docgen/pkg/types"
)

var (
	// ErrDuplicateIdentifier is returned when registering an ID twice.
	ErrDuplicateIdentifier = errors.New("duplicate evidence identifier")

	// ErrUnknownEvidence is returned when an ID is not registered.
	ErrUnknownEvidence = errors.New("unknown evidence")

	// ErrInvalidSource is returned for sources that can never be cited.
	ErrInvalidSource = errors.New("invalid evidence source")
)

// Registry maps evidence identifiers to sources.
type Registry struct {
	sources map[string]types.EvidenceSource
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]types.EvidenceSource)}
}

// Register adds src. The registry keeps its own copy.
func (r *Registry) Register(src types.EvidenceSource) error {
	if err := validateSource(src); err != nil {
		return err
	}
	if _, ok := r.sources[src.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateIdentifier, src.ID)
	}
	r.sources[src.ID] = src.Clone()
	return nil
}

// Get returns a copy of the source registered under id.
func (r *Registry) Get(id string) (types.EvidenceSource, error) {
	src, ok := r.sources[id]
	if !ok {
		return types.EvidenceSource{}, fmt.Errorf("%w: %q", ErrUnknownEvidence, id)
	}
	return src.Clone(), nil
}

// List returns the registered identifiers in sorted order.
func (r *Registry) List() []string {
	ids := make([]string, 0, len(r.sources))
	for id := range r.sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered sources.
func (r *Registry) Len() int {
	return len(r.sources)
}

func validateSource(src types.EvidenceSource) error {
	if src.ID == "" {
		return fmt.Errorf("%w: empty identifier", ErrInvalidSource)
	}
	if src.Exhibit == "" {
		return fmt.Errorf("%w: %q has no exhibit label", ErrInvalidSource, src.ID)
	}
	for _, p := range src.Pages {
		if p <= 0 {
			return fmt.Errorf("%w: %q has non-positive page %d", ErrInvalidSource, src.ID, p)
		}
	}
	return nil
}

// LoadFile reads an evidence.yaml file and registers every source in it.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading evidence file: %w", err)
	}
	var file types.EvidenceFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing evidence file: %w", err)
	}

	reg := NewRegistry()
	for _, src := range file.Sources {
		if err := reg.Register(src); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}
	return reg, nil
}
