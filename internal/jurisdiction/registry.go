// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package jurisdiction holds per-court compliance profiles. Profiles are
// static configuration: they are loaded once at startup and never change,
// so a Registry is safe for concurrent reads.
package jurisdiction

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docgen/pkg/types"
)

// ErrUnknownJurisdiction is returned when a profile ID is not loaded.
var ErrUnknownJurisdiction = errors.New("unknown jurisdiction")

//go:embed profiles.yaml
var defaultProfiles []byte

// Registry maps profile IDs to court profiles.
type Registry struct {
	profiles map[string]types.CourtProfile
}

// New builds a registry from profiles. Duplicate or empty IDs are rejected.
func New(profiles []types.CourtProfile) (*Registry, error) {
	r := &Registry{profiles: make(map[string]types.CourtProfile, len(profiles))}
	for _, p := range profiles {
		if p.ID == "" {
			return nil, fmt.Errorf("profile %q has no id", p.Name)
		}
		if _, ok := r.profiles[p.ID]; ok {
			return nil, fmt.Errorf("duplicate profile %q", p.ID)
		}
		r.profiles[p.ID] = cloneProfile(p)
	}
	return r, nil
}

// Defaults returns the built-in hi_family, cand, and ca9 profiles.
func Defaults() (*Registry, error) {
	return parse(defaultProfiles)
}

// LoadFile reads profiles from a YAML file with the same schema as the
// built-in profiles.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profiles: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Registry, error) {
	var file types.ProfilesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing profiles: %w", err)
	}
	return New(file.Profiles)
}

// GetProfile returns the profile registered under id.
func (r *Registry) GetProfile(id string) (types.CourtProfile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return types.CourtProfile{}, fmt.Errorf("%w: %q", ErrUnknownJurisdiction, id)
	}
	return cloneProfile(p), nil
}

// List returns every profile sorted by ID.
func (r *Registry) List() []types.CourtProfile {
	out := make([]types.CourtProfile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, cloneProfile(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func cloneProfile(p types.CourtProfile) types.CourtProfile {
	p.Rules = append([]types.Rule(nil), p.Rules...)
	return p
}
