package match

import "github.com/fedvid/fedvid/internal/domain/tier"

// Origin records which similarity signals produced a match.
type Origin string

// Origin values.
const (
	Text  Origin = "text"
	Video Origin = "video"
	Both  Origin = "both"
)

// BoostFactor is applied to the stronger of the two scores when an entity
// appears in both the text-derived and video-derived rankings. Co-occurrence
// across two independent signals is treated as corroborating evidence.
const BoostFactor = 1.15

// Match is one cross-modal similarity result against the target partition.
type Match struct {
	entityID   string
	textScore  float64
	videoScore float64
	combined   float64
	origin     Origin
}

// FromText creates a match seeded from the text-derived ranking.
func FromText(entityID string, score float64) Match {
	return Match{entityID: entityID, textScore: score, combined: score, origin: Text}
}

// FromVideo creates a match seeded from the video-derived ranking.
func FromVideo(entityID string, score float64) Match {
	return Match{entityID: entityID, videoScore: score, combined: score, origin: Video}
}

// Corroborate folds a video-derived score into a text-seeded match.
// The combined score becomes max(textScore, videoScore) * BoostFactor.
func (m Match) Corroborate(videoScore float64) Match {
	m.videoScore = videoScore
	m.combined = max(m.textScore, videoScore) * BoostFactor
	m.origin = Both
	return m
}

// EntityID returns the target entity identifier.
func (m Match) EntityID() string { return m.entityID }

// TextScore returns the text-derived similarity score (0 if absent).
func (m Match) TextScore() float64 { return m.textScore }

// VideoScore returns the video-derived similarity score (0 if absent).
func (m Match) VideoScore() float64 { return m.videoScore }

// CombinedScore returns the final fused score.
func (m Match) CombinedScore() float64 { return m.combined }

// Origin returns which signals produced the match.
func (m Match) Origin() Origin { return m.origin }

// Tier classifies the match. A corroborated match is always high,
// regardless of what the raw score alone would classify it as.
func (m Match) Tier() tier.Tier {
	if m.origin == Both {
		return tier.High
	}
	return tier.FromScore(m.combined)
}

// ReadinessState reports embedding readiness for a candidate set.
type ReadinessState struct {
	Processed int
	Total     int
	Success   bool
}
