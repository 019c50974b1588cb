// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/docgen/internal/httputil"
	"github.com/pdiddy/docgen/pkg/types"
)

// ErrPublish is returned when a destination rejects a document.
var ErrPublish = errors.New("publish failed")

// Publisher announces a generated document to an external destination.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, doc *types.RenderedDocument) error
}

// SlackWebhook posts a short notice to a Slack incoming webhook.
type SlackWebhook struct {
	URL        string
	Client     *http.Client
	MaxRetries int
}

// NewSlackWebhook returns a publisher for url. A zero timeout uses 10s.
func NewSlackWebhook(url string, timeout time.Duration, maxRetries int) *SlackWebhook {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SlackWebhook{
		URL:        url,
		Client:     &http.Client{Timeout: timeout},
		MaxRetries: maxRetries,
	}
}

// Name identifies the destination in logs.
func (s *SlackWebhook) Name() string { return "slack" }

// Publish sends the notice. Rate limits and gateway errors are retried.
func (s *SlackWebhook) Publish(ctx context.Context, doc *types.RenderedDocument) error {
	payload, err := json.Marshal(map[string]string{"text": Notice(doc)})
	if err != nil {
		return fmt.Errorf("marshaling slack payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := httputil.DoWithRetry(ctx, client, req, s.MaxRetries)
	if err != nil {
		return fmt.Errorf("posting to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: slack returned %d: %s", ErrPublish, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// Notice is the one-line announcement for doc.
func Notice(doc *types.RenderedDocument) string {
	msg := fmt.Sprintf("New document generated: %s (%s)", doc.TemplateID, doc.Metadata.ComplianceLevel)
	if !doc.Validated() {
		return msg
	}
	failed := 0
	for _, f := range doc.Findings {
		if !f.Passed {
			failed++
		}
	}
	if failed == 0 {
		return msg + fmt.Sprintf(", compliant with %s", doc.ProfileID)
	}
	return msg + fmt.Sprintf(", %d finding(s) failed for %s", failed, doc.ProfileID)
}
