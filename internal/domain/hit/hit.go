package hit

import (
	"fmt"
	"maps"

	"github.com/fedvid/fedvid/internal/domain/tier"
)

// Format is the display orientation derived from source media dimensions.
type Format string

// Derived format values.
const (
	Horizontal Format = "horizontal"
	Vertical   Format = "vertical"
)

// IsValid checks if the format is one of the supported values.
func (f Format) IsValid() bool {
	return f == Horizontal || f == Vertical
}

// TemporalRange is the time window within the source video, in seconds.
type TemporalRange struct {
	Start float64
	End   float64
}

// Key uniquely identifies a hit within an aggregated result set.
// Two hits for the same entity with different time ranges are distinct results.
type Key struct {
	EntityID string
	Start    float64
	End      float64
}

func (k Key) String() string {
	return fmt.Sprintf("%s@%g-%g", k.EntityID, k.Start, k.End)
}

// Hit is a single ranked search result returned by a partition.
type Hit struct {
	entityID  string
	partition string
	score     float64
	confTier  tier.Tier
	tempRange TemporalRange

	// Detail enrichment, zero until the per-entity fetch fills it in.
	width  int
	height int
	title  string

	meta map[string]string
}

// New creates a hit.
func New(
	entityID, partition string, score float64,
	t tier.Tier, r TemporalRange, meta map[string]string,
) Hit {
	return Hit{
		entityID:  entityID,
		partition: partition,
		score:     score,
		confTier:  t,
		tempRange: r,
		meta:      meta,
	}
}

// Key returns the deduplication identity key.
func (h *Hit) Key() Key {
	return Key{EntityID: h.entityID, Start: h.tempRange.Start, End: h.tempRange.End}
}

// EntityID returns the entity identifier.
func (h *Hit) EntityID() string { return h.entityID }

// Partition returns the id of the partition that produced the hit.
func (h *Hit) Partition() string { return h.partition }

// Score returns the raw relevance score.
func (h *Hit) Score() float64 { return h.score }

// Tier returns the confidence tier.
func (h *Hit) Tier() tier.Tier { return h.confTier }

// Range returns the temporal range within the source video.
func (h *Hit) Range() TemporalRange { return h.tempRange }

// Title returns the descriptive title, empty until detail enrichment.
func (h *Hit) Title() string { return h.title }

// Meta returns a copy of the opaque auxiliary metadata.
func (h *Hit) Meta() map[string]string { return maps.Clone(h.meta) }

// Dimensions returns the source media width and height (0,0 when unknown).
func (h *Hit) Dimensions() (width, height int) { return h.width, h.height }

// SetDetail fills in fields from the per-entity detail fetch.
func (h *Hit) SetDetail(width, height int, title string) {
	h.width = width
	h.height = height
	h.title = title
}

// Format derives the display format from the source media dimensions.
// Tie goes to horizontal. Returns false when dimensions are unknown;
// a hit without dimensions never matches a non-empty format filter.
func (h *Hit) Format() (Format, bool) {
	if h.width <= 0 || h.height <= 0 {
		return "", false
	}
	if h.width >= h.height {
		return Horizontal, true
	}
	return Vertical, true
}
