// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/docgen/pkg/types"
)

// Result is the outcome of one request in a batch.
type Result struct {
	Index    int                     `json:"index"`
	Request  Request                 `json:"request"`
	Document *types.RenderedDocument `json:"document,omitempty"`
	Err      error                   `json:"-"`
}

// BatchResult holds the outcome of a bulk generation run. Results are in
// request order regardless of completion order.
type BatchResult struct {
	Results   []Result
	Succeeded int
	Failed    int
}

// Total returns the number of requests processed.
func (r BatchResult) Total() int {
	return r.Succeeded + r.Failed
}

// HasFailures reports whether any request failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Documents returns the successfully generated documents in request order.
func (r BatchResult) Documents() []*types.RenderedDocument {
	var docs []*types.RenderedDocument
	for _, res := range r.Results {
		if res.Document != nil {
			docs = append(docs, res.Document)
		}
	}
	return docs
}

// GenerateBatch runs every request on a fixed-size worker pool. A failing
// request is recorded in its Result and never stops its siblings. One
// status line per request is written to w as it completes, followed by a
// summary.
func (p *Pipeline) GenerateBatch(ctx context.Context, reqs []Request, w io.Writer) BatchResult {
	p.metrics.ObserveBatch(len(reqs))
	results := make([]Result, len(reqs))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			doc, err := p.Generate(gctx, req)
			results[i] = Result{Index: i, Request: req, Document: doc, Err: err}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fmt.Fprintf(w, "failed:    [%d] %s (%v)\n", i, req.TemplateID, err)
			} else {
				fmt.Fprintf(w, "generated: [%d] %s %s\n", i, req.TemplateID, doc.ID)
			}
			// Failures are isolated per request; the group never cancels.
			return nil
		})
	}
	_ = g.Wait()

	var out BatchResult
	out.Results = results
	for _, r := range results {
		if r.Err != nil {
			out.Failed++
		} else {
			out.Succeeded++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d generated, %d failed (total: %d)\n",
		out.Succeeded, out.Failed, out.Total())
	return out
}
