// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docgen/internal/logging"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Secrets
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, SlackWebhookURL, "  https://hooks.slack.test/T000/B000  \n")
				writeFile(t, dir, NotionToken, "secret_abc\n")
				return dir
			},
			want: Secrets{
				SlackWebhookURL: "https://hooks.slack.test/T000/B000",
				NotionToken:     "secret_abc",
			},
		},
		{
			name: "missing directory is empty",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Secrets{},
		},
		{
			name: "skips empty files dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, AsanaToken, "1/2345")
				writeFile(t, dir, "empty-key", "  \n\t")
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden", "secret")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
				return dir
			},
			want: Secrets{AsanaToken: "1/2345"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), logging.Discard())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadNotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	writeFile(t, filepath.Dir(path), "file", "x")
	_, err := Load(path, logging.Discard())
	assert.Error(t, err)
}

func TestRequire(t *testing.T) {
	s := Secrets{SlackWebhookURL: "https://hooks.slack.test/x"}

	v, err := s.Require(SlackWebhookURL)
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.slack.test/x", v)

	_, err = s.Require(NotionToken)
	assert.ErrorIs(t, err, ErrMissing)
	assert.Contains(t, err.Error(), ".secrets/notion-token")

	_, ok := s.Get(AsanaToken)
	assert.False(t, ok)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
