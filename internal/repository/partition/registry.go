package partition

import (
	"context"
	"fmt"

	"github.com/fedvid/fedvid/internal/domain"
	"github.com/fedvid/fedvid/internal/usecase/aggregate"
)

// Registry routes per-entity calls to the owning partition's client.
// It implements detail fetching for the aggregation session and candidate
// listing for cross-modal matching.
type Registry struct {
	clients map[string]*Client
}

// NewRegistry creates a registry over the given clients, keyed by name.
func NewRegistry(clients ...*Client) *Registry {
	m := make(map[string]*Client, len(clients))
	for _, c := range clients {
		m[c.Name()] = c
	}
	return &Registry{clients: m}
}

// Clients returns the partition clients keyed by partition id, typed for the
// aggregation session.
func (r *Registry) Clients() map[string]aggregate.PartitionClient {
	out := make(map[string]aggregate.PartitionClient, len(r.clients))
	for name, c := range r.clients {
		out[name] = c
	}
	return out
}

// FetchDetail fetches per-entity detail metadata from the owning partition.
func (r *Registry) FetchDetail(ctx context.Context, entityID, partition string) (aggregate.Detail, error) {
	c, ok := r.clients[partition]
	if !ok {
		return aggregate.Detail{}, fmt.Errorf("%w: %s", domain.ErrUnknownPartition, partition)
	}
	return c.Detail(ctx, entityID)
}

// ListCandidates enumerates entity ids of the given partition.
func (r *Registry) ListCandidates(ctx context.Context, partition string, limit int) ([]string, error) {
	c, ok := r.clients[partition]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownPartition, partition)
	}
	return c.ListEntities(ctx, limit)
}

// Has reports whether a partition id is configured.
func (r *Registry) Has(partition string) bool {
	_, ok := r.clients[partition]
	return ok
}
