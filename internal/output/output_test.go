// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docgen/internal/httputil"
	"github.com/pdiddy/docgen/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

func testDoc() *types.RenderedDocument {
	return &types.RenderedDocument{
		ID:         "0f8fad5b-d9cb-469f-a165-70867728950e",
		TemplateID: "legal/motion-stay",
		Category:   types.CategoryLegal,
		Content:    "# MOTION FOR STAY\n\nBody (Ex. A, pp. 1-3)",
		ProfileID:  "hi_family",
		Findings: []types.Finding{
			{Kind: types.RulePageLimit, Rule: "memorandum-page-limit", Passed: true},
			{Kind: types.RuleRequiredSection, Rule: "verification", Passed: false},
		},
		Metadata: types.Metadata{
			GeneratedAt:     time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC),
			Version:         "1.2.0",
			Generator:       "docgen",
			ContextHash:     "abc123",
			ComplianceLevel: "Hawaii Family Court",
		},
	}
}

func TestWriteAndParseMarkdown(t *testing.T) {
	doc := testDoc()
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, doc))

	out := buf.String()
	assert.True(t, len(out) > 4 && out[:4] == "---\n")
	assert.Contains(t, out, "template: legal/motion-stay\n")
	assert.Contains(t, out, "compliant: false\n")

	h, content, ok, err := ParseMarkdown(buf.Bytes())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, doc.Content+"\n", content)
	assert.Equal(t, HeaderFor(doc), h)
}

func TestHeaderUnvalidated(t *testing.T) {
	doc := testDoc()
	doc.ProfileID = ""
	doc.Findings = nil

	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, doc))
	assert.Contains(t, buf.String(), "validated: false\n")
	assert.NotContains(t, buf.String(), "compliant:")
}

func TestParseMarkdownWithoutHeader(t *testing.T) {
	_, content, ok, err := ParseMarkdown([]byte("plain text"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "plain text", content)

	_, _, _, err = ParseMarkdown([]byte("---\nid: [oops\n---\nbody"))
	assert.Error(t, err)
}

func TestSaveMarkdown(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	path, err := SaveMarkdown(dir, testDoc())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "legal-motion-stay-0f8fad5b.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Body (Ex. A, pp. 1-3)")
}

func TestNotice(t *testing.T) {
	doc := testDoc()
	assert.Equal(t, "New document generated: legal/motion-stay (Hawaii Family Court), 1 finding(s) failed for hi_family", Notice(doc))

	doc.Findings[1].Passed = true
	assert.Equal(t, "New document generated: legal/motion-stay (Hawaii Family Court), compliant with hi_family", Notice(doc))

	doc.ProfileID = ""
	assert.Equal(t, "New document generated: legal/motion-stay (Hawaii Family Court)", Notice(doc))
}

func TestSlackWebhookPublish(t *testing.T) {
	var got map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	p := NewSlackWebhook(ts.URL, time.Second, 1)
	assert.Equal(t, "slack", p.Name())
	require.NoError(t, p.Publish(context.Background(), testDoc()))
	assert.Contains(t, got["text"], "legal/motion-stay")
}

func TestSlackWebhookRetriesThenFails(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("invalid_token"))
	}))
	defer ts.Close()

	var p Publisher = NewSlackWebhook(ts.URL, time.Second, 2)
	err := p.Publish(context.Background(), testDoc())
	require.ErrorIs(t, err, ErrPublish)
	assert.Contains(t, err.Error(), "invalid_token")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
