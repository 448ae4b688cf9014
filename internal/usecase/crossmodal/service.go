// Package crossmodal matches a reference video in one partition against the
// entities of the other partition by combining two independently-scored
// similarity searches into one boosted, tiered ranking.
package crossmodal

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fedvid/fedvid/internal/domain"
	"github.com/fedvid/fedvid/internal/domain/match"
	"github.com/fedvid/fedvid/internal/metrics"
)

// DefaultMaxCandidates caps the candidate set passed to the readiness gate.
const DefaultMaxCandidates = 500

// Service runs cross-modal matching: readiness gate, then the two similarity
// searches in parallel, then the combine.
type Service struct {
	sim           SimilaritySearcher
	gate          ReadinessEnsurer
	candidates    CandidateLister
	logger        *zap.Logger
	maxCandidates int
}

// New creates a cross-modal match service.
func New(sim SimilaritySearcher, gate ReadinessEnsurer, candidates CandidateLister, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sim:           sim,
		gate:          gate,
		candidates:    candidates,
		logger:        logger,
		maxCandidates: DefaultMaxCandidates,
	}
}

// WithMaxCandidates configures the candidate cap.
func (s *Service) WithMaxCandidates(n int) *Service {
	if n > 0 {
		s.maxCandidates = n
	}
	return s
}

// Match finds the entities in the target partition most similar to the
// reference video. When the readiness precondition fails, it returns zero
// matches and domain.ErrNotReady rather than partial ones; the combine is
// never run over incomplete embeddings.
func (s *Service) Match(
	ctx context.Context, src Source, progress func(match.ReadinessState),
) ([]match.Match, match.ReadinessState, error) {
	cands, err := s.candidates.ListCandidates(ctx, src.TargetPartition, s.maxCandidates)
	if err != nil {
		return nil, match.ReadinessState{}, fmt.Errorf("list candidates: %w", err)
	}

	state, err := s.gate.EnsureReady(ctx, src, cands, progress)
	if err != nil {
		return nil, state, fmt.Errorf("ensure readiness: %w", err)
	}
	if !state.Success {
		s.logger.Warn("embedding readiness precondition failed",
			zap.String("source", src.EntityID),
			zap.String("target_partition", src.TargetPartition),
			zap.Int("processed", state.Processed),
			zap.Int("total", state.Total),
		)
		return nil, state, domain.ErrNotReady
	}

	var textResults, videoResults []Scored
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if textResults, err = s.sim.SearchText(gctx, src); err != nil {
			return fmt.Errorf("text similarity search: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if videoResults, err = s.sim.SearchVideo(gctx, src); err != nil {
			return fmt.Errorf("video similarity search: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, state, err
	}

	matches := Combine(textResults, videoResults)
	for _, m := range matches {
		metrics.CrossModalMatchesTotal.WithLabelValues(string(m.Origin())).Inc()
	}

	s.logger.Info("cross-modal match complete",
		zap.String("source", src.EntityID),
		zap.String("target_partition", src.TargetPartition),
		zap.Int("text_results", len(textResults)),
		zap.Int("video_results", len(videoResults)),
		zap.Int("matches", len(matches)),
	)

	return matches, state, nil
}
