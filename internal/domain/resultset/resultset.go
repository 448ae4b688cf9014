// Package resultset holds the aggregated hits of one query across all
// partitions, in arrival order, deduplicated by identity key.
package resultset

import "github.com/fedvid/fedvid/internal/domain/hit"

// Set is an ordered, deduplicated collection of hits. It grows monotonically:
// hits are only added, never removed, until the owning session resets it.
type Set struct {
	hits []hit.Hit
	seen map[hit.Key]struct{}
}

// New creates an empty set.
func New() *Set {
	return &Set{seen: make(map[hit.Key]struct{})}
}

// Merge appends each incoming hit whose identity key is not already present,
// preserving incoming order. Existing hits are never reordered.
// Returns the indexes (into the set) of the hits that were added.
func (s *Set) Merge(incoming []hit.Hit) []int {
	added := make([]int, 0, len(incoming))
	for _, h := range incoming {
		k := h.Key()
		if _, dup := s.seen[k]; dup {
			continue
		}
		s.seen[k] = struct{}{}
		s.hits = append(s.hits, h)
		added = append(added, len(s.hits)-1)
	}
	return added
}

// Len returns the number of distinct hits.
func (s *Set) Len() int { return len(s.hits) }

// Hits returns a copy of the hits in arrival order.
func (s *Set) Hits() []hit.Hit {
	out := make([]hit.Hit, len(s.hits))
	copy(out, s.hits)
	return out
}

// At returns a pointer to the hit at index i, for in-place detail enrichment.
func (s *Set) At(i int) *hit.Hit { return &s.hits[i] }

// CountFor returns the number of hits currently visible for a partition.
func (s *Set) CountFor(partition string) int {
	n := 0
	for i := range s.hits {
		if s.hits[i].Partition() == partition {
			n++
		}
	}
	return n
}
