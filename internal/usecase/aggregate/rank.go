package aggregate

import (
	"sort"

	"github.com/fedvid/fedvid/internal/domain/hit"
)

// Rank orders hits by confidence tier priority (descending), then raw score
// (descending). The sort is stable: hits with equal tier and score keep their
// relative arrival order, which is the only remaining tie-break.
func Rank(hits []hit.Hit) []hit.Hit {
	ranked := make([]hit.Hit, len(hits))
	copy(ranked, hits)

	sort.SliceStable(ranked, func(i, j int) bool {
		pi, pj := ranked[i].Tier().Priority(), ranked[j].Tier().Priority()
		if pi != pj {
			return pi > pj
		}
		return ranked[i].Score() > ranked[j].Score()
	})

	return ranked
}
