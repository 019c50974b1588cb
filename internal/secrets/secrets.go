// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads publisher credentials from a directory of plain-text
// files. The filename is the key and the trimmed contents are the value.
package secrets

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Known keys.
const (
	SlackWebhookURL = "slack-webhook-url"
	NotionToken     = "notion-token"
	AsanaToken      = "asana-token"
)

// DefaultDir is the secrets directory relative to the working directory.
const DefaultDir = ".secrets"

// ErrMissing is returned by Require when a key is absent.
var ErrMissing = errors.New("missing secret")

// Secrets maps key names to values.
type Secrets map[string]string

// Get returns the value for key and whether it was present.
func (s Secrets) Get(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}

// Require returns the value for key or an error naming the file to create.
func (s Secrets) Require(key string) (string, error) {
	if v, ok := s[key]; ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: create %s/%s", ErrMissing, DefaultDir, key)
}

// Load reads every regular, non-hidden file in dir. A missing directory
// yields an empty set. Unreadable or empty files are skipped; unreadable
// ones are logged at warn level.
func Load(dir string, logger *slog.Logger) (Secrets, error) {
	if logger == nil {
		logger = slog.Default()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", "key", name, "error", err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			out[name] = value
		}
	}
	return out, nil
}
