// Package similarity implements the HTTP client for the similarity and
// embedding-readiness backend.
package similarity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fedvid/fedvid/internal/domain/match"
	"github.com/fedvid/fedvid/internal/usecase/crossmodal"
)

// Compile-time checks against the cross-modal contracts.
var (
	_ crossmodal.SimilaritySearcher = (*Client)(nil)
	_ crossmodal.ReadinessEnsurer   = (*Client)(nil)
)

// DefaultPollInterval is the wait between readiness polls.
const DefaultPollInterval = 2 * time.Second

// Client talks to the similarity/readiness backend.
type Client struct {
	baseURL      string
	apiKey       string
	httpc        *http.Client
	pollInterval time.Duration
}

// New creates a similarity client.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:      baseURL,
		apiKey:       apiKey,
		httpc:        &http.Client{},
		pollInterval: DefaultPollInterval,
	}
}

// WithHTTPClient overrides the underlying HTTP client (tests).
func (c *Client) WithHTTPClient(httpc *http.Client) *Client {
	c.httpc = httpc
	return c
}

// WithPollInterval overrides the readiness poll interval (tests).
func (c *Client) WithPollInterval(d time.Duration) *Client {
	if d > 0 {
		c.pollInterval = d
	}
	return c
}

type similarityRequest struct {
	SourceEntity    string `json:"source_entity"`
	SourcePartition string `json:"source_partition"`
	TargetPartition string `json:"target_partition"`
}

type scoredDTO struct {
	EntityID string  `json:"entity_id"`
	Score    float64 `json:"score"`
}

type similarityResponse struct {
	Matches []scoredDTO `json:"matches"`
}

type readinessRequest struct {
	SourceEntity    string   `json:"source_entity"`
	SourcePartition string   `json:"source_partition"`
	TargetPartition string   `json:"target_partition"`
	Candidates      []string `json:"candidates"`
}

type readinessResponse struct {
	Processed int  `json:"processed"`
	Total     int  `json:"total"`
	Success   bool `json:"success"`
}

// SearchText runs the text-derived similarity search against the target partition.
func (c *Client) SearchText(ctx context.Context, src crossmodal.Source) ([]crossmodal.Scored, error) {
	return c.search(ctx, "/v1/similarity/text", src)
}

// SearchVideo runs the video-derived similarity search against the target partition.
func (c *Client) SearchVideo(ctx context.Context, src crossmodal.Source) ([]crossmodal.Scored, error) {
	return c.search(ctx, "/v1/similarity/video", src)
}

func (c *Client) search(ctx context.Context, path string, src crossmodal.Source) ([]crossmodal.Scored, error) {
	body := similarityRequest{
		SourceEntity:    src.EntityID,
		SourcePartition: src.Partition,
		TargetPartition: src.TargetPartition,
	}

	var resp similarityResponse
	if err := c.post(ctx, path, body, &resp); err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	scored := make([]crossmodal.Scored, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		scored = append(scored, crossmodal.Scored{EntityID: m.EntityID, Score: m.Score})
	}
	return scored, nil
}

// EnsureReady asks the backend to embed the source and all candidates, polling
// until every candidate is processed or the backend reports failure. The call
// is idempotent on the backend side: already-embedded entities are no-ops.
func (c *Client) EnsureReady(
	ctx context.Context, src crossmodal.Source, candidates []string,
	progress func(match.ReadinessState),
) (match.ReadinessState, error) {
	body := readinessRequest{
		SourceEntity:    src.EntityID,
		SourcePartition: src.Partition,
		TargetPartition: src.TargetPartition,
		Candidates:      candidates,
	}

	for {
		var resp readinessResponse
		if err := c.post(ctx, "/v1/readiness/ensure", body, &resp); err != nil {
			return match.ReadinessState{}, fmt.Errorf("ensure readiness: %w", err)
		}

		state := match.ReadinessState{
			Processed: resp.Processed,
			Total:     resp.Total,
			Success:   resp.Success,
		}
		if progress != nil {
			progress(state)
		}

		if !state.Success || state.Processed >= state.Total {
			return state, nil
		}

		select {
		case <-ctx.Done():
			return state, fmt.Errorf("readiness poll: %w", ctx.Err())
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
