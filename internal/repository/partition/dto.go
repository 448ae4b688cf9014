package partition

import (
	"github.com/fedvid/fedvid/internal/domain/hit"
	"github.com/fedvid/fedvid/internal/domain/tier"
	"github.com/fedvid/fedvid/internal/usecase/aggregate"
)

// Wire types for the partition backend API.

type searchRequest struct {
	Kind     string `json:"kind"`
	Value    string `json:"value"`
	PageSize int    `json:"page_size,omitempty"`
}

type continueRequest struct {
	ContinuationToken string `json:"continuation_token"`
}

type rangeDTO struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type hitDTO struct {
	EntityID   string            `json:"entity_id"`
	Score      float64           `json:"score"`
	Confidence string            `json:"confidence"`
	Range      rangeDTO          `json:"range"`
	Meta       map[string]string `json:"meta,omitempty"`
}

type pageResponse struct {
	Hits              []hitDTO `json:"hits"`
	ContinuationToken string   `json:"continuation_token"`
	TotalCount        int      `json:"total_count"`
}

type detailResponse struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Title  string `json:"title"`
}

type entitiesResponse struct {
	IDs []string `json:"ids"`
}

func (p pageResponse) toDomain(partitionName string) aggregate.Page {
	hits := make([]hit.Hit, 0, len(p.Hits))
	for _, d := range p.Hits {
		hits = append(hits, hit.New(
			d.EntityID, partitionName, d.Score,
			tier.Parse(d.Confidence),
			hit.TemporalRange{Start: d.Range.Start, End: d.Range.End},
			d.Meta,
		))
	}
	return aggregate.Page{
		Hits:              hits,
		ContinuationToken: p.ContinuationToken,
		TotalCount:        p.TotalCount,
	}
}
