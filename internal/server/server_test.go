// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docgen/internal/draft"
	"github.com/pdiddy/docgen/internal/evidence"
	"github.com/pdiddy/docgen/internal/jurisdiction"
	"github.com/pdiddy/docgen/internal/logging"
	"github.com/pdiddy/docgen/internal/metrics"
	"github.com/pdiddy/docgen/internal/pipeline"
	"github.com/pdiddy/docgen/internal/templates"
	"github.com/pdiddy/docgen/pkg/types"
)

type memRecorder struct {
	mu   sync.Mutex
	docs []*types.RenderedDocument
	err  error
}

func (m *memRecorder) Save(_ context.Context, doc *types.RenderedDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = append(m.docs, doc)
	return m.err
}

func (m *memRecorder) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs)
}

func newTestServer(t *testing.T) (*httptest.Server, *memRecorder) {
	t.Helper()
	loader := templates.NewLoader(fstest.MapFS{
		"legal/motion.md":           {Data: []byte("Case {case}, grounds: {grounds}")},
		"legal/reply-brief.md":      {Data: []byte("Reply in {case}")},
		"legal/generic-response.md": {Data: []byte("Response in {case}")},
		"project/status.md":         {Data: []byte("Status: {status}")},
	})
	reg := evidence.NewRegistry()
	require.NoError(t, reg.Register(types.EvidenceSource{ID: "a", Exhibit: "A", Pages: []int{1, 2}}))
	profiles, err := jurisdiction.Defaults()
	require.NoError(t, err)

	promReg := prometheus.NewRegistry()
	p := pipeline.New(loader, draft.New(reg), profiles,
		pipeline.WithLogger(logging.Discard()),
		pipeline.WithMetrics(metrics.New(promReg)),
	)
	rec := &memRecorder{}
	h := New(p, loader, profiles, logging.Discard(),
		WithRecorder(rec), WithGatherer(promReg), WithVersion("1.0.0"))

	ts := httptest.NewServer(h.Router())
	t.Cleanup(ts.Close)
	return ts, rec
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "1.0.0", body["version"])
}

func TestTemplatesAndProfiles(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v2/templates")
	require.NoError(t, err)
	defer resp.Body.Close()
	catalog := decodeBody[map[string][]string](t, resp)
	assert.Contains(t, catalog["legal"], "legal/motion")
	assert.Equal(t, []string{"project/status"}, catalog["project"])

	resp2, err := http.Get(ts.URL + "/api/v2/profiles")
	require.NoError(t, err)
	defer resp2.Body.Close()
	profiles := decodeBody[[]types.CourtProfile](t, resp2)
	assert.Len(t, profiles, 3)

	resp3, err := http.Get(ts.URL + "/api/v2/profiles/ca9")
	require.NoError(t, err)
	defer resp3.Body.Close()
	assert.Equal(t, http.StatusOK, resp3.StatusCode)

	resp4, err := http.Get(ts.URL + "/api/v2/profiles/nowhere")
	require.NoError(t, err)
	defer resp4.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp4.StatusCode)
}

func TestGenerate(t *testing.T) {
	ts, rec := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/v2/generate", pipeline.Request{
		TemplateID:  "legal/motion",
		Context:     types.Context{"case": "24-001", "grounds": "harm"},
		EvidenceIDs: []string{"a"},
		ProfileID:   "cand",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc := decodeBody[types.RenderedDocument](t, resp)
	assert.Equal(t, "Case 24-001, grounds: harm (Ex. A, pp. 1-2)", doc.Content)
	assert.Equal(t, "cand", doc.ProfileID)
	assert.True(t, doc.Compliant())
	assert.Equal(t, 1, rec.count())
}

func TestGenerateErrors(t *testing.T) {
	ts, rec := newTestServer(t)
	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing key",
			body:       pipeline.Request{TemplateID: "legal/motion", Context: types.Context{"case": "1"}},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "missing_context_key",
		},
		{
			name:       "unknown template",
			body:       pipeline.Request{TemplateID: "legal/none"},
			wantStatus: http.StatusNotFound,
			wantError:  "template_not_found",
		},
		{
			name:       "unknown evidence",
			body:       pipeline.Request{TemplateID: "project/status", Context: types.Context{"status": "ok"}, EvidenceIDs: []string{"zz"}},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "unknown_evidence",
		},
		{
			name:       "unknown field",
			body:       map[string]any{"template": "project/status", "bogus": true},
			wantStatus: http.StatusBadRequest,
			wantError:  "bad_request",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/api/v2/generate", tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body := decodeBody[errorBody](t, resp)
			assert.Equal(t, tt.wantError, body.Error)
		})
	}
	assert.Equal(t, 0, rec.count())

	resp := postJSON(t, ts.URL+"/api/v2/generate", pipeline.Request{TemplateID: "legal/motion", Context: types.Context{"case": "1"}})
	body := decodeBody[errorBody](t, resp)
	assert.Equal(t, "grounds", body.Key)
}

func TestBulk(t *testing.T) {
	ts, rec := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/v2/bulk", BulkRequest{Requests: []pipeline.Request{
		{TemplateID: "project/status", Context: types.Context{"status": "green"}},
		{TemplateID: "project/status"},
		{TemplateID: "legal/reply-brief", Context: types.Context{"case": "9"}},
	}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[BulkResponse](t, resp)
	assert.Equal(t, 2, body.Succeeded)
	assert.Equal(t, 1, body.Failed)
	require.Len(t, body.Results, 3)
	assert.Equal(t, "Status: green", body.Results[0].Document.Content)
	assert.Contains(t, body.Results[1].Error, "status")
	assert.Nil(t, body.Results[1].Document)
	assert.Equal(t, "Reply in 9", body.Results[2].Document.Content)
	assert.Equal(t, 2, rec.count())
}

func TestBulkLimits(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/v2/bulk", BulkRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/v2/bulk", BulkRequest{Requests: make([]pipeline.Request, MaxBulkRequests+1)})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestValidate(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/v2/validate", ValidateRequest{
		Content: "# MOTION\n\nSee (Ex. A, pp. 1-2).\n\n# VERIFICATION\n\nTrue.",
		Profile: "hi_family",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Profile   string          `json:"profile"`
		Findings  []types.Finding `json:"findings"`
		Compliant bool            `json:"compliant"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "hi_family", body.Profile)
	assert.True(t, body.Compliant, "%+v", body.Findings)
	assert.Len(t, body.Findings, 3)

	resp = postJSON(t, ts.URL+"/api/v2/validate", ValidateRequest{Content: "  ", Profile: "cand"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/v2/validate", ValidateRequest{Content: "text", Profile: "nowhere"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFollowThrough(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/v2/followthrough", FollowThroughRequest{
		Type: "reply", DocumentType: "motion", Context: types.Context{"case": "24-7"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := decodeBody[types.RenderedDocument](t, resp)
	assert.Equal(t, "legal/reply-brief", doc.TemplateID)
	assert.Equal(t, "Reply in 24-7", doc.Content)

	resp = postJSON(t, ts.URL+"/api/v2/followthrough", FollowThroughRequest{Type: "response", DocumentType: "unknown", Context: types.Context{"case": "1"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc = decodeBody[types.RenderedDocument](t, resp)
	assert.Equal(t, templates.GenericResponse, doc.TemplateID)

	resp = postJSON(t, ts.URL+"/api/v2/followthrough", FollowThroughRequest{Type: "reply"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	postJSON(t, ts.URL+"/api/v2/generate", pipeline.Request{TemplateID: "project/status", Context: types.Context{"status": "ok"}})

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), `docgen_documents_total{category="project",outcome="ok"} 1`)
}

func TestRecorderFailureDoesNotFailRequest(t *testing.T) {
	ts, rec := newTestServer(t)
	rec.mu.Lock()
	rec.err = errors.New("disk full")
	rec.mu.Unlock()
	resp := postJSON(t, ts.URL+"/api/v2/generate", pipeline.Request{TemplateID: "project/status", Context: types.Context{"status": "ok"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClassify(t *testing.T) {
	status, body := classify(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal", body.Error)
}
