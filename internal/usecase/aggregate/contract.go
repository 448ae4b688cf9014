package aggregate

import (
	"context"

	"github.com/fedvid/fedvid/internal/domain/hit"
)

// QueryKind selects the query modality.
type QueryKind string

// Query modalities.
const (
	KindText  QueryKind = "text"
	KindImage QueryKind = "image"
	KindVideo QueryKind = "video"
)

// Query is the payload fanned out to every partition.
type Query struct {
	Kind     QueryKind
	Value    string
	PageSize int
}

// Page is one partition's response page. An empty ContinuationToken marks
// the partition as exhausted.
type Page struct {
	Hits              []hit.Hit
	ContinuationToken string
	TotalCount        int
}

// PartitionClient is the request/response interface to one partition's search
// backend. Calls are stateless from the caller's perspective; retry policy,
// if any, belongs to the backend.
type PartitionClient interface {
	Search(ctx context.Context, q Query) (Page, error)
	Continue(ctx context.Context, token string) (Page, error)
}

// Detail is the per-entity metadata used for display and the format facet.
type Detail struct {
	Width  int
	Height int
	Title  string
}

// DetailFetcher fetches per-entity detail metadata. A fetch failure is
// isolated to the hit; it never fails the round.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, entityID, partition string) (Detail, error)
}
