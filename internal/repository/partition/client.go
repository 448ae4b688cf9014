// Package partition implements the HTTP client for one content partition's
// search backend.
package partition

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fedvid/fedvid/internal/domain"
	"github.com/fedvid/fedvid/internal/usecase/aggregate"
)

// Compile-time check: Client implements the partition contract.
var _ aggregate.PartitionClient = (*Client)(nil)

// Client is a stateless request/response client for one partition backend.
// The caller owns retry and timeout policy via the request context.
type Client struct {
	name    string
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// New creates a partition client.
func New(name, baseURL, apiKey string) *Client {
	return &Client{
		name:    name,
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{},
	}
}

// WithHTTPClient overrides the underlying HTTP client (tests).
func (c *Client) WithHTTPClient(httpc *http.Client) *Client {
	c.httpc = httpc
	return c
}

// Name returns the partition id this client serves.
func (c *Client) Name() string { return c.name }

// Search runs the initial query against the partition.
func (c *Client) Search(ctx context.Context, q aggregate.Query) (aggregate.Page, error) {
	body := searchRequest{Kind: string(q.Kind), Value: q.Value, PageSize: q.PageSize}

	var resp pageResponse
	if err := c.post(ctx, "/v1/search", body, &resp); err != nil {
		return aggregate.Page{}, fmt.Errorf("partition %s: search: %w: %w", c.name, domain.ErrPartitionUnavailable, err)
	}
	return resp.toDomain(c.name), nil
}

// Continue fetches the next page for a stored continuation token.
func (c *Client) Continue(ctx context.Context, token string) (aggregate.Page, error) {
	body := continueRequest{ContinuationToken: token}

	var resp pageResponse
	if err := c.post(ctx, "/v1/search/continue", body, &resp); err != nil {
		return aggregate.Page{}, fmt.Errorf("partition %s: continue: %w: %w", c.name, domain.ErrPartitionUnavailable, err)
	}
	return resp.toDomain(c.name), nil
}

// Detail fetches per-entity display metadata.
func (c *Client) Detail(ctx context.Context, entityID string) (aggregate.Detail, error) {
	var resp detailResponse
	path := "/v1/entities/" + url.PathEscape(entityID)
	if err := c.get(ctx, path, &resp); err != nil {
		return aggregate.Detail{}, fmt.Errorf("partition %s: %w: %w", c.name, domain.ErrDetailFetch, err)
	}
	return aggregate.Detail{Width: resp.Width, Height: resp.Height, Title: resp.Title}, nil
}

// ListEntities enumerates entity ids of the partition, capped at limit.
func (c *Client) ListEntities(ctx context.Context, limit int) ([]string, error) {
	var resp entitiesResponse
	path := "/v1/entities?limit=" + strconv.Itoa(limit)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("partition %s: list entities: %w", c.name, err)
	}
	return resp.IDs, nil
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
	return c.send(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
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
