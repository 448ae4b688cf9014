package crossmodal

import (
	"sort"

	"github.com/fedvid/fedvid/internal/domain/match"
)

// Combine merges the text-derived and video-derived similarity rankings for
// the same target partition into one tiered ranking, keyed by entity id.
// An entity present in both lists is corroborated: its combined score becomes
// max(textScore, videoScore) * match.BoostFactor and it is tiered high
// unconditionally. The final order is tier priority descending, then combined
// score descending, stable with respect to seeding order.
func Combine(textResults, videoResults []Scored) []match.Match {
	byID := make(map[string]int, len(textResults))
	merged := make([]match.Match, 0, len(textResults)+len(videoResults))

	for _, r := range textResults {
		if _, dup := byID[r.EntityID]; dup {
			continue
		}
		byID[r.EntityID] = len(merged)
		merged = append(merged, match.FromText(r.EntityID, r.Score))
	}

	for _, r := range videoResults {
		if i, ok := byID[r.EntityID]; ok {
			merged[i] = merged[i].Corroborate(r.Score)
			continue
		}
		byID[r.EntityID] = len(merged)
		merged = append(merged, match.FromVideo(r.EntityID, r.Score))
	}

	sort.SliceStable(merged, func(i, j int) bool {
		pi, pj := merged[i].Tier().Priority(), merged[j].Tier().Priority()
		if pi != pj {
			return pi > pj
		}
		return merged[i].CombinedScore() > merged[j].CombinedScore()
	})

	return merged
}
