// Package aggregate implements the federated search engine: one session per
// user query fans out to every partition, joins the responses, merges and
// deduplicates hits, and ranks them for display.
package aggregate

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fedvid/fedvid/internal/domain"
	"github.com/fedvid/fedvid/internal/domain/hit"
	"github.com/fedvid/fedvid/internal/domain/page"
	"github.com/fedvid/fedvid/internal/domain/resultset"
	"github.com/fedvid/fedvid/internal/metrics"
)

// State is the session lifecycle state.
type State string

// Session states.
const (
	StateIdle        State = "idle"
	StateDispatching State = "dispatching"
	StateMerging     State = "merging"
	StateRanking     State = "ranking"
	StateReady       State = "ready"
)

// DefaultRequestTimeout bounds a single partition request. A timed-out
// partition contributes zero hits for the round and keeps its stored token.
const DefaultRequestTimeout = 10 * time.Second

// Session owns the combined state of one user query across all partitions:
// aggregated hits, per-partition pagination, and the display ranking.
// All mutations are serialized; concurrent partition requests are joined
// before any mutation happens. A newer query supersedes in-flight responses
// of an older one via the session version.
type Session struct {
	clients    map[string]PartitionClient
	details    DetailFetcher
	logger     *zap.Logger
	reqTimeout time.Duration

	mu      sync.Mutex
	version uint64
	state   State
	set     *resultset.Set
	pages   *page.State
	ranked  []hit.Hit
	cancel  context.CancelFunc
}

// NewSession creates an idle session over the given partition clients.
// details may be nil to skip per-hit enrichment.
func NewSession(clients map[string]PartitionClient, details DetailFetcher, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		clients:    clients,
		details:    details,
		logger:     logger,
		reqTimeout: DefaultRequestTimeout,
		state:      StateIdle,
		set:        resultset.New(),
		pages:      page.NewState(),
	}
}

// WithRequestTimeout configures the per-partition request timeout.
func (s *Session) WithRequestTimeout(d time.Duration) *Session {
	if d > 0 {
		s.reqTimeout = d
	}
	return s
}

// Start begins a new query, discarding all state of the previous one and
// cancelling its in-flight requests. It dispatches the initial round to every
// partition, joins, merges, enriches, and ranks. Returns the ranked hits.
func (s *Session) Start(ctx context.Context, q Query) ([]hit.Hit, error) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.version++
	v := s.version
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.set = resultset.New()
	s.pages = page.NewState()
	s.ranked = nil
	s.state = StateDispatching
	s.mu.Unlock()
	// Released once the round completes; Clear and a newer Start may fire it
	// again to abort in-flight requests, which is a no-op by then.
	defer cancel()

	calls := make(map[string]partitionCall, len(s.clients))
	for name, client := range s.clients {
		client := client
		calls[name] = func(ctx context.Context) (Page, error) {
			return client.Search(ctx, q)
		}
	}

	responses := s.dispatch(runCtx, "search", calls)
	return s.applyRound(runCtx, v, responses, true)
}

// Continue runs one continuation round over the partitions whose stored
// token is still live. Exhausted partitions are not queried again.
func (s *Session) Continue(ctx context.Context) ([]hit.Hit, error) {
	s.mu.Lock()
	if s.state == StateIdle {
		s.mu.Unlock()
		return nil, domain.ErrNoActiveQuery
	}
	pending := s.pages.NeedingContinuation()
	if len(pending) == 0 {
		ranked := copyHits(s.ranked)
		s.mu.Unlock()
		return ranked, nil
	}
	v := s.version
	if s.cancel != nil {
		s.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state = StateDispatching
	s.mu.Unlock()
	defer cancel()

	calls := make(map[string]partitionCall, len(pending))
	for name, token := range pending {
		client, ok := s.clients[name]
		if !ok {
			continue
		}
		client, token := client, token
		calls[name] = func(ctx context.Context) (Page, error) {
			return client.Continue(ctx, token)
		}
	}

	responses := s.dispatch(runCtx, "continue", calls)
	return s.applyRound(runCtx, v, responses, false)
}

// Clear resets the session to idle, cancelling any in-flight requests.
// Responses from the cleared query are discarded on arrival.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.version++
	s.state = StateIdle
	s.set = resultset.New()
	s.pages = page.NewState()
	s.ranked = nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// HasMore reports whether any partition still has a live continuation token.
func (s *Session) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pages.HasMore()
}

// Results returns the ranked hits restricted by partition and format facet.
// Filtering never re-dispatches and never mutates the aggregated set.
func (s *Session) Results(partition string, formats []hit.Format) []hit.Hit {
	s.mu.Lock()
	ranked := copyHits(s.ranked)
	s.mu.Unlock()
	return Filter(ranked, partition, formats)
}

// TotalFor returns the result total for a partition: the backend-declared
// count when one was recorded, else the currently visible count.
func (s *Session) TotalFor(partition string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if total, ok := s.pages.Total(partition); ok {
		return total
	}
	return s.set.CountFor(partition)
}

// Partitions returns the configured partition ids.
func (s *Session) Partitions() []string {
	names := make([]string, 0, len(s.clients))
	for name := range s.clients {
		names = append(names, name)
	}
	return names
}

type partitionCall func(ctx context.Context) (Page, error)

type partitionResponse struct {
	partition string
	page      Page
	err       error
}

// dispatch fans the calls out in parallel and joins all of them before
// returning. Responses are appended in completion order; failures are
// carried through for applyRound to absorb.
func (s *Session) dispatch(ctx context.Context, kind string, calls map[string]partitionCall) []partitionResponse {
	var (
		mu        sync.Mutex
		responses = make([]partitionResponse, 0, len(calls))
	)

	g, gctx := errgroup.WithContext(ctx)
	for name, call := range calls {
		name, call := name, call
		g.Go(func() error {
			reqCtx, cancel := context.WithTimeout(gctx, s.reqTimeout)
			defer cancel()

			start := time.Now()
			pg, err := call(reqCtx)
			metrics.PartitionRequestDuration.WithLabelValues(name, kind).Observe(time.Since(start).Seconds())

			status := "ok"
			if err != nil {
				status = "error"
			}
			metrics.PartitionRequestsTotal.WithLabelValues(name, kind, status).Inc()

			mu.Lock()
			responses = append(responses, partitionResponse{partition: name, page: pg, err: err})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // per-partition failures are absorbed, never propagated

	return responses
}

// applyRound merges the joined responses into the aggregated set, records
// pagination state, enriches new hits with detail metadata, and re-ranks.
// A round whose version is stale by the time it joins is discarded whole.
func (s *Session) applyRound(
	ctx context.Context, v uint64, responses []partitionResponse, initial bool,
) ([]hit.Hit, error) {
	type newHit struct {
		idx       int
		entityID  string
		partition string
	}

	s.mu.Lock()
	if v != s.version {
		s.mu.Unlock()
		metrics.StaleResponsesTotal.Inc()
		return nil, domain.ErrStaleResponse
	}
	s.state = StateMerging

	var added []newHit
	for _, r := range responses {
		if r.err != nil {
			// Absorbed: zero hits this round, stored token untouched so a
			// future trigger can retry.
			s.logger.Warn("partition unavailable for round",
				zap.String("partition", r.partition),
				zap.Error(r.err),
			)
			continue
		}

		idxs := s.set.Merge(r.page.Hits)
		metrics.MergedHitsTotal.WithLabelValues(r.partition).Add(float64(len(idxs)))
		for _, i := range idxs {
			h := s.set.At(i)
			added = append(added, newHit{idx: i, entityID: h.EntityID(), partition: h.Partition()})
		}

		if initial {
			s.pages.RecordInitial(r.partition, r.page.ContinuationToken, r.page.TotalCount)
		} else {
			s.pages.RecordContinuation(r.partition, r.page.ContinuationToken)
		}
	}
	s.mu.Unlock()

	if s.details != nil && len(added) > 0 {
		details := make([]Detail, len(added))
		fetched := make([]bool, len(added))

		g, gctx := errgroup.WithContext(ctx)
		for i, nh := range added {
			i, nh := i, nh
			g.Go(func() error {
				d, err := s.details.FetchDetail(gctx, nh.entityID, nh.partition)
				if err != nil {
					// Isolated: the hit stays with minimal fields.
					s.logger.Debug("detail fetch failed",
						zap.String("entity", nh.entityID),
						zap.String("partition", nh.partition),
						zap.Error(err),
					)
					return nil
				}
				details[i] = d
				fetched[i] = true
				return nil
			})
		}
		_ = g.Wait()

		s.mu.Lock()
		if v != s.version {
			s.mu.Unlock()
			metrics.StaleResponsesTotal.Inc()
			return nil, domain.ErrStaleResponse
		}
		for i, nh := range added {
			if fetched[i] {
				s.set.At(nh.idx).SetDetail(details[i].Width, details[i].Height, details[i].Title)
			}
		}
		s.mu.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if v != s.version {
		metrics.StaleResponsesTotal.Inc()
		return nil, domain.ErrStaleResponse
	}
	s.state = StateRanking
	s.ranked = Rank(s.set.Hits())
	s.state = StateReady
	return copyHits(s.ranked), nil
}

func copyHits(hits []hit.Hit) []hit.Hit {
	out := make([]hit.Hit, len(hits))
	copy(out, hits)
	return out
}
