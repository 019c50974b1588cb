// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the document pipeline over HTTP. Handlers decode
// requests, call the pipeline, and encode results; they hold no document
// logic of their own.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pdiddy/docgen/internal/pipeline"
	"github.com/pdiddy/docgen/pkg/types"
)

const (
	// MaxBulkRequests bounds a single /bulk call.
	MaxBulkRequests = 1000

	maxBodyBytes   = 8 << 20
	requestTimeout = 2 * time.Minute
)

// Generator runs document requests. *pipeline.Pipeline satisfies it.
type Generator interface {
	Generate(ctx context.Context, req pipeline.Request) (*types.RenderedDocument, error)
	GenerateBatch(ctx context.Context, reqs []pipeline.Request, w io.Writer) pipeline.BatchResult
}

// Catalog lists templates. *templates.Loader satisfies it.
type Catalog interface {
	Catalog() (map[types.Category][]string, error)
}

// Profiles lists and resolves court profiles. *jurisdiction.Registry satisfies it.
type Profiles interface {
	List() []types.CourtProfile
	GetProfile(id string) (types.CourtProfile, error)
}

// Recorder persists generated documents. *docstore.Store satisfies it.
type Recorder interface {
	Save(ctx context.Context, doc *types.RenderedDocument) error
}

// Handler serves the docgen API.
type Handler struct {
	generator Generator
	catalog   Catalog
	profiles  Profiles
	recorder  Recorder
	gatherer  prometheus.Gatherer
	logger    *slog.Logger
	version   string
}

// Option configures a Handler.
type Option func(*Handler)

// WithRecorder saves every generated document.
func WithRecorder(r Recorder) Option {
	return func(h *Handler) { h.recorder = r }
}

// WithGatherer serves /metrics from g instead of the default registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(h *Handler) { h.gatherer = g }
}

// WithVersion reports v from /health.
func WithVersion(v string) Option {
	return func(h *Handler) { h.version = v }
}

// New creates a Handler.
func New(gen Generator, catalog Catalog, profiles Profiles, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		generator: gen,
		catalog:   catalog,
		profiles:  profiles,
		logger:    logger,
		gatherer:  prometheus.DefaultGatherer,
		version:   "dev",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v2", func(api chi.Router) {
		api.Use(chimw.Timeout(requestTimeout))
		api.Get("/templates", h.handleTemplates)
		api.Get("/profiles", h.handleProfiles)
		api.Get("/profiles/{id}", h.handleProfile)
		api.Post("/generate", h.handleGenerate)
		api.Post("/bulk", h.handleBulk)
		api.Post("/validate", h.handleValidate)
		api.Post("/followthrough", h.handleFollowThrough)
	})
}

// Router returns a chi router with the standard middleware and every route.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(h.logger))
	h.Register(r)
	return r
}

// requestLogger logs one line per request at info level.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", chimw.GetReqID(r.Context()),
			)
		})
	}
}

// Run serves handler on addr until ctx is cancelled, then shuts down,
// waiting up to shutdownTimeout for in-flight requests.
func Run(ctx context.Context, addr string, handler http.Handler, shutdownTimeout time.Duration, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", shutdownTimeout)
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
