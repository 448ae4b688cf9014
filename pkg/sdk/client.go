// Package sdk is the in-process entry point to the federated search engine:
// it wires partition and similarity clients plus the aggregation session
// without the HTTP transport.
package sdk

import (
	"context"
	"errors"

	"github.com/fedvid/fedvid/internal/domain/hit"
	"github.com/fedvid/fedvid/internal/domain/match"
	"github.com/fedvid/fedvid/internal/repository/partition"
	"github.com/fedvid/fedvid/internal/repository/similarity"
	"github.com/fedvid/fedvid/internal/usecase/aggregate"
	"github.com/fedvid/fedvid/internal/usecase/crossmodal"
)

// Re-exported domain types for SDK consumers.
type (
	// Hit is one ranked search result.
	Hit = hit.Hit
	// Format is the derived display format facet.
	Format = hit.Format
	// Match is one cross-modal similarity result.
	Match = match.Match
	// ReadinessState reports embedding readiness progress.
	ReadinessState = match.ReadinessState
	// QueryKind selects the query modality.
	QueryKind = aggregate.QueryKind
)

// Query modality values.
const (
	KindText  = aggregate.KindText
	KindImage = aggregate.KindImage
	KindVideo = aggregate.KindVideo
)

// PartitionAll selects hits from every partition when filtering results.
const PartitionAll = aggregate.PartitionAll

// Client is the fedvid SDK entry point. It owns one aggregation session;
// each Search supersedes the previous query.
type Client struct {
	session  *aggregate.Session
	matcher  *crossmodal.Service
	pageSize int
}

// New creates a fedvid Client.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.partitions) == 0 {
		return nil, errors.New("fedvid: at least one partition required (use WithPartition)")
	}

	clients := make([]*partition.Client, 0, len(cfg.partitions))
	for _, p := range cfg.partitions {
		clients = append(clients, partition.New(p.name, p.baseURL, p.apiKey))
	}
	registry := partition.NewRegistry(clients...)

	session := aggregate.NewSession(registry.Clients(), registry, cfg.logger)
	if cfg.requestTimeout > 0 {
		session = session.WithRequestTimeout(cfg.requestTimeout)
	}

	c := &Client{session: session}

	if cfg.similarityURL != "" {
		simClient := similarity.New(cfg.similarityURL, cfg.similarityKey)
		c.matcher = crossmodal.New(simClient, simClient, registry, cfg.logger)
		if cfg.maxCandidates > 0 {
			c.matcher = c.matcher.WithMaxCandidates(cfg.maxCandidates)
		}
	}

	c.pageSize = cfg.pageSize
	return c, nil
}

// Search starts a new query across all partitions, superseding the previous
// one, and returns the ranked hits.
func (c *Client) Search(ctx context.Context, kind QueryKind, value string) ([]Hit, error) {
	return c.session.Start(ctx, aggregate.Query{Kind: kind, Value: value, PageSize: c.pageSize})
}

// Continue loads the next page from every partition that still has one.
func (c *Client) Continue(ctx context.Context) ([]Hit, error) {
	return c.session.Continue(ctx)
}

// Results returns the current ranked hits filtered by partition and formats.
func (c *Client) Results(partitionID string, formats []Format) []Hit {
	return c.session.Results(partitionID, formats)
}

// HasMore reports whether any partition has more pages.
func (c *Client) HasMore() bool {
	return c.session.HasMore()
}

// Clear resets the session and discards in-flight responses.
func (c *Client) Clear() {
	c.session.Clear()
}

// Match finds entities in targetPartition most similar to the reference
// video, combining text- and video-derived similarity. Requires
// WithSimilarity. progress may be nil.
func (c *Client) Match(
	ctx context.Context, sourceEntity, sourcePartition, targetPartition string,
	progress func(ReadinessState),
) ([]Match, ReadinessState, error) {
	if c.matcher == nil {
		return nil, ReadinessState{}, errors.New("fedvid: similarity backend not configured (use WithSimilarity)")
	}
	src := crossmodal.Source{
		EntityID:        sourceEntity,
		Partition:       sourcePartition,
		TargetPartition: targetPartition,
	}
	return c.matcher.Match(ctx, src, progress)
}
