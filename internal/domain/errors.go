package domain

import "errors"

var (
	// ErrPartitionUnavailable signals a failed partition query or continuation
	// call. The partition contributes zero hits for the round; its stored
	// continuation token is left unchanged so a later round can retry.
	ErrPartitionUnavailable = errors.New("partition unavailable")
	// ErrNotReady signals that the embedding readiness precondition was not
	// met. Cross-modal matching reports zero matches rather than partial ones.
	ErrNotReady = errors.New("embeddings not ready")
	// ErrDetailFetch signals a failed per-entity detail fetch. Isolated: the
	// hit stays in the result set with minimal fields.
	ErrDetailFetch = errors.New("detail fetch failed")
	// ErrStaleResponse signals a response that arrived for a superseded
	// session version. Silently discarded, never merged.
	ErrStaleResponse = errors.New("stale response")
	// ErrNoActiveQuery signals a continuation or view request against an idle
	// session.
	ErrNoActiveQuery = errors.New("no active query")
	// ErrSessionNotFound signals an unknown session id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrUnknownPartition signals a partition id outside the configured set.
	ErrUnknownPartition = errors.New("unknown partition")
)
