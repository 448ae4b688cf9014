// Package chi implements the HTTP API over the aggregation and cross-modal
// use cases.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fedvid/fedvid/internal/domain"
	logpkg "github.com/fedvid/fedvid/internal/logger"
	"github.com/fedvid/fedvid/internal/domain/hit"
	"github.com/fedvid/fedvid/internal/usecase/aggregate"
	"github.com/fedvid/fedvid/internal/usecase/crossmodal"
)

// Server holds the HTTP handlers for the federated search API.
type Server struct {
	sessions *aggregate.Manager
	matcher  *crossmodal.Service
	pageSize int
	logger   *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(sessions *aggregate.Manager, matcher *crossmodal.Service, pageSize int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{sessions: sessions, matcher: matcher, pageSize: pageSize, logger: logger}
}

// Routes mounts all API routes on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/v1/sessions", s.startSession)
	r.Post("/v1/sessions/{id}/continue", s.continueSession)
	r.Get("/v1/sessions/{id}/results", s.sessionResults)
	r.Delete("/v1/sessions/{id}", s.deleteSession)
	r.Post("/v1/match", s.crossModalMatch)
	r.Get("/healthz", s.healthz)
	r.Handle("/metrics", promhttp.Handler())
}

// startSession handles POST /v1/sessions: a new query across all partitions.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	kind := aggregate.QueryKind(req.Kind)
	switch kind {
	case aggregate.KindText, aggregate.KindImage, aggregate.KindVideo:
	default:
		writeError(w, http.StatusBadRequest, codeBadRequest, "kind must be text, image, or video")
		return
	}
	if req.Value == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "value is required")
		return
	}

	id, sess := s.sessions.Create()
	hits, err := sess.Start(r.Context(), aggregate.Query{
		Kind:     kind,
		Value:    req.Value,
		PageSize: s.pageSize,
	})
	if err != nil {
		s.handleSessionError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		SessionID: id,
		Hits:      toHitDTOs(hits),
		HasMore:   sess.HasMore(),
		Totals:    totalsFor(sess),
	})
}

// continueSession handles POST /v1/sessions/{id}/continue.
func (s *Server) continueSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.sessions.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, codeSessionNotFound, "unknown session")
		return
	}

	hits, err := sess.Continue(r.Context())
	if err != nil {
		s.handleSessionError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		SessionID: id,
		Hits:      toHitDTOs(hits),
		HasMore:   sess.HasMore(),
		Totals:    totalsFor(sess),
	})
}

// sessionResults handles GET /v1/sessions/{id}/results with facet filters.
// Filtering is a pure view over the ranked set; it never re-dispatches.
func (s *Server) sessionResults(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.sessions.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, codeSessionNotFound, "unknown session")
		return
	}

	partition := r.URL.Query().Get("partition")
	if partition == "" {
		partition = aggregate.PartitionAll
	}

	formats, err := parseFormats(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	hits := sess.Results(partition, formats)
	writeJSON(w, http.StatusOK, resultsResponse{Hits: toHitDTOs(hits)})
}

// deleteSession handles DELETE /v1/sessions/{id}: explicit clear.
func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// crossModalMatch handles POST /v1/match.
func (s *Server) crossModalMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.SourceEntity == "" || req.SourcePartition == "" || req.TargetPartition == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest,
			"source_entity, source_partition, and target_partition are required")
		return
	}
	if req.SourcePartition == req.TargetPartition {
		writeError(w, http.StatusBadRequest, codeBadRequest, "target partition must differ from source")
		return
	}

	src := crossmodal.Source{
		EntityID:        req.SourceEntity,
		Partition:       req.SourcePartition,
		TargetPartition: req.TargetPartition,
	}

	matches, state, err := s.matcher.Match(r.Context(), src, nil)
	if err != nil {
		if errors.Is(err, domain.ErrNotReady) {
			// All-or-nothing precondition: zero matches, never partial ones.
			writeJSON(w, http.StatusOK, matchResponse{
				Ready:     false,
				Readiness: readinessDTO{Processed: state.Processed, Total: state.Total},
				Matches:   []matchDTO{},
			})
			return
		}
		if errors.Is(err, domain.ErrUnknownPartition) {
			writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
			return
		}
		logpkg.FromContext(r.Context(), s.logger).Error("cross-modal match failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, codeInternal, "match failed")
		return
	}

	writeJSON(w, http.StatusOK, matchResponse{
		Ready:     true,
		Readiness: readinessDTO{Processed: state.Processed, Total: state.Total},
		Matches:   toMatchDTOs(matches),
	})
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrStaleResponse):
		// A newer query superseded this one while it was in flight.
		writeError(w, http.StatusConflict, codeSuperseded, "query superseded by a newer one")
	case errors.Is(err, domain.ErrNoActiveQuery):
		writeError(w, http.StatusConflict, codeNoActiveQuery, "session has no active query")
	default:
		logpkg.FromContext(r.Context(), s.logger).Error("session round failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternal, "search failed")
	}
}

func totalsFor(sess *aggregate.Session) map[string]int {
	totals := make(map[string]int)
	for _, p := range sess.Partitions() {
		totals[p] = sess.TotalFor(p)
	}
	return totals
}

func parseFormats(raw string) ([]hit.Format, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	formats := make([]hit.Format, 0, len(parts))
	for _, p := range parts {
		f := hit.Format(strings.TrimSpace(p))
		if !f.IsValid() {
			return nil, errors.New("format must be vertical or horizontal")
		}
		formats = append(formats, f)
	}
	return formats, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
