package crossmodal

import (
	"context"

	"github.com/fedvid/fedvid/internal/domain/match"
)

// Source identifies the reference video and the partition pair of a match run.
type Source struct {
	EntityID        string
	Partition       string
	TargetPartition string
}

// Scored is one raw entry of a single similarity ranking.
type Scored struct {
	EntityID string
	Score    float64
}

// SimilaritySearcher runs the two independently-scored similarity searches
// against the target partition: one derived from the reference video's text,
// one from its own embedding.
type SimilaritySearcher interface {
	SearchText(ctx context.Context, src Source) ([]Scored, error)
	SearchVideo(ctx context.Context, src Source) ([]Scored, error)
}

// ReadinessEnsurer guarantees usable similarity vectors exist for the source
// entity and every candidate target before matching runs. Idempotent:
// repeated calls on already-embedded entities are no-ops that still report
// success. progress, when non-nil, receives incremental states.
type ReadinessEnsurer interface {
	EnsureReady(
		ctx context.Context, src Source, candidates []string,
		progress func(match.ReadinessState),
	) (match.ReadinessState, error)
}

// CandidateLister enumerates entity ids of the target partition.
type CandidateLister interface {
	ListCandidates(ctx context.Context, partition string, limit int) ([]string, error)
}
