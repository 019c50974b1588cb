// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pdiddy/docgen/internal/compliance"
	"github.com/pdiddy/docgen/internal/evidence"
	"github.com/pdiddy/docgen/internal/jurisdiction"
	"github.com/pdiddy/docgen/internal/pipeline"
	"github.com/pdiddy/docgen/internal/render"
	"github.com/pdiddy/docgen/internal/templates"
	"github.com/pdiddy/docgen/pkg/types"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Key     string `json:"key,omitempty"`
}

// BulkRequest is the /bulk request body.
type BulkRequest struct {
	Requests []pipeline.Request `json:"requests"`
}

// BulkItem is one entry of a /bulk response, in request order.
type BulkItem struct {
	Index    int                     `json:"index"`
	Document *types.RenderedDocument `json:"document,omitempty"`
	Error    string                  `json:"error,omitempty"`
}

// BulkResponse is the /bulk response body.
type BulkResponse struct {
	Succeeded int        `json:"succeeded"`
	Failed    int        `json:"failed"`
	Results   []BulkItem `json:"results"`
}

// ValidateRequest is the /validate request body.
type ValidateRequest struct {
	Content string `json:"content"`
	Profile string `json:"profile"`
}

// FollowThroughRequest is the /followthrough request body.
type FollowThroughRequest struct {
	Type         string        `json:"type"`
	DocumentType string        `json:"document_type"`
	Context      types.Context `json:"context"`
	Profile      string        `json:"profile,omitempty"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": h.version,
	})
}

func (h *Handler) handleTemplates(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.catalog.Catalog()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog)
}

func (h *Handler) handleProfiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.profiles.List())
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.GetProfile(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if !h.decode(w, r, &req) {
		return
	}
	h.generate(w, r, req)
}

func (h *Handler) handleFollowThrough(w http.ResponseWriter, r *http.Request) {
	var req FollowThroughRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Type == "" || req.DocumentType == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad_request", Message: "type and document_type are required"})
		return
	}
	h.generate(w, r, pipeline.Request{
		TemplateID: templates.FollowThrough(req.Type, req.DocumentType),
		Context:    req.Context,
		ProfileID:  req.Profile,
	})
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request, req pipeline.Request) {
	doc, err := h.generator.Generate(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.record(r, doc)
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) handleBulk(w http.ResponseWriter, r *http.Request) {
	var req BulkRequest
	if !h.decode(w, r, &req) {
		return
	}
	if len(req.Requests) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad_request", Message: "requests must not be empty"})
		return
	}
	if len(req.Requests) > MaxBulkRequests {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:   "bad_request",
			Message: fmt.Sprintf("at most %d requests per call", MaxBulkRequests),
		})
		return
	}

	res := h.generator.GenerateBatch(r.Context(), req.Requests, io.Discard)
	out := BulkResponse{Succeeded: res.Succeeded, Failed: res.Failed, Results: make([]BulkItem, len(res.Results))}
	for i, item := range res.Results {
		out.Results[i] = BulkItem{Index: item.Index, Document: item.Document}
		if item.Err != nil {
			out.Results[i].Error = item.Err.Error()
			continue
		}
		h.record(r, item.Document)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if !h.decode(w, r, &req) {
		return
	}
	profile, err := h.profiles.GetProfile(req.Profile)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	report, err := compliance.Validate(types.RenderedDocument{Content: req.Content}, profile)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		compliance.Report
		Compliant bool `json:"compliant"`
	}{report, report.Compliant()})
}

// record saves doc when a recorder is configured. Storage failures are
// logged and do not fail the request.
func (h *Handler) record(r *http.Request, doc *types.RenderedDocument) {
	if h.recorder == nil || doc == nil {
		return
	}
	if err := h.recorder.Save(r.Context(), doc); err != nil {
		h.logger.ErrorContext(r.Context(), "saving document",
			"request_id", chimw.GetReqID(r.Context()),
			"id", doc.ID,
			"error", err,
		)
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		h.logger.WarnContext(r.Context(), "invalid request body",
			"request_id", chimw.GetReqID(r.Context()),
			"path", r.URL.Path,
			"error", err.Error(),
		)
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad_request", Message: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// fail maps a pipeline error onto a status code and error envelope.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			"request_id", chimw.GetReqID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		body.Message = "internal error"
	}
	writeJSON(w, status, body)
}

func classify(err error) (int, errorBody) {
	body := errorBody{Message: err.Error()}

	var missing *render.MissingContextKeyError
	switch {
	case errors.As(err, &missing):
		body.Error = "missing_context_key"
		body.Key = missing.Key
		return http.StatusUnprocessableEntity, body
	case errors.Is(err, templates.ErrTemplateNotFound):
		body.Error = "template_not_found"
		return http.StatusNotFound, body
	case errors.Is(err, jurisdiction.ErrUnknownJurisdiction):
		body.Error = "unknown_jurisdiction"
		return http.StatusNotFound, body
	case errors.Is(err, evidence.ErrUnknownEvidence):
		body.Error = "unknown_evidence"
		return http.StatusUnprocessableEntity, body
	case errors.Is(err, compliance.ErrValidationInput):
		body.Error = "invalid_validation_input"
		return http.StatusUnprocessableEntity, body
	case errors.Is(err, templates.ErrInvalidTemplate):
		body.Error = "invalid_template"
		return http.StatusInternalServerError, body
	}
	body.Error = "internal"
	return http.StatusInternalServerError, body
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
