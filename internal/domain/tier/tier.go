package tier

// Tier is a coarse confidence bucket used as the primary ranking key,
// ahead of the raw score.
type Tier string

// Confidence tier values.
const (
	High    Tier = "high"
	Medium  Tier = "medium"
	Low     Tier = "low"
	Unknown Tier = "unknown"
)

// Score thresholds for classifying a similarity score into a tier.
const (
	highThreshold   = 1.0
	mediumThreshold = 0.5
)

// Parse maps a partition-reported tier string to a Tier.
// Unrecognized values map to Unknown rather than failing the hit.
func Parse(s string) Tier {
	switch Tier(s) {
	case High, Medium, Low:
		return Tier(s)
	default:
		return Unknown
	}
}

// Priority returns the sort weight of the tier. Higher sorts first.
func (t Tier) Priority() int {
	switch t {
	case High:
		return 3
	case Medium:
		return 2
	case Low:
		return 1
	default:
		return 0
	}
}

// FromScore classifies a raw similarity score into a tier.
func FromScore(score float64) Tier {
	switch {
	case score >= highThreshold:
		return High
	case score >= mediumThreshold:
		return Medium
	default:
		return Low
	}
}
