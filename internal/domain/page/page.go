// Package page tracks per-partition pagination state for one aggregation
// session: continuation tokens and declared result totals.
package page

// State is the per-partition continuation-token table.
// A partition absent from the table is treated as exhausted.
type State struct {
	tokens map[string]string
	totals map[string]int
}

// NewState creates an empty pagination table.
func NewState() *State {
	return &State{
		tokens: make(map[string]string),
		totals: make(map[string]int),
	}
}

// RecordInitial stores the token and declared total from an initial page.
// An empty token marks the partition as exhausted.
func (s *State) RecordInitial(partition, token string, totalCount int) {
	s.tokens[partition] = token
	s.totals[partition] = totalCount
}

// RecordContinuation replaces the stored token after a continuation page.
func (s *State) RecordContinuation(partition, token string) {
	s.tokens[partition] = token
}

// HasMore reports whether any partition still has a live continuation token.
func (s *State) HasMore() bool {
	for _, tok := range s.tokens {
		if tok != "" {
			return true
		}
	}
	return false
}

// NeedingContinuation returns the partitions whose stored token is live,
// with their tokens.
func (s *State) NeedingContinuation() map[string]string {
	out := make(map[string]string)
	for p, tok := range s.tokens {
		if tok != "" {
			out[p] = tok
		}
	}
	return out
}

// Total returns the declared total for a partition and whether one was recorded.
// The declared value is authoritative when the partition provided it (> 0).
func (s *State) Total(partition string) (int, bool) {
	t, ok := s.totals[partition]
	return t, ok && t > 0
}
