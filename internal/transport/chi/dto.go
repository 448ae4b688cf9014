package chi

import (
	"github.com/fedvid/fedvid/internal/domain/hit"
	"github.com/fedvid/fedvid/internal/domain/match"
)

// Error codes returned by the API.
const (
	codeBadRequest      = "bad_request"
	codeUnauthorized    = "unauthorized"
	codeSessionNotFound = "session_not_found"
	codeNoActiveQuery   = "no_active_query"
	codeSuperseded      = "superseded"
	codeInternal        = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type startSessionRequest struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type rangeDTO struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type hitDTO struct {
	EntityID  string            `json:"entity_id"`
	Partition string            `json:"partition"`
	Score     float64           `json:"score"`
	Tier      string            `json:"tier"`
	Range     rangeDTO          `json:"range"`
	Title     string            `json:"title,omitempty"`
	Width     int               `json:"width,omitempty"`
	Height    int               `json:"height,omitempty"`
	Format    string            `json:"format,omitempty"`
	Meta      map[string]string `json:"meta,omitempty"`
}

type sessionResponse struct {
	SessionID string         `json:"session_id"`
	Hits      []hitDTO       `json:"hits"`
	HasMore   bool           `json:"has_more"`
	Totals    map[string]int `json:"totals"`
}

type resultsResponse struct {
	Hits []hitDTO `json:"hits"`
}

type matchRequest struct {
	SourceEntity    string `json:"source_entity"`
	SourcePartition string `json:"source_partition"`
	TargetPartition string `json:"target_partition"`
}

type matchDTO struct {
	EntityID      string  `json:"entity_id"`
	Origin        string  `json:"origin"`
	CombinedScore float64 `json:"combined_score"`
	TextScore     float64 `json:"text_score,omitempty"`
	VideoScore    float64 `json:"video_score,omitempty"`
	Tier          string  `json:"tier"`
}

type readinessDTO struct {
	Processed int `json:"processed"`
	Total     int `json:"total"`
}

type matchResponse struct {
	Ready     bool         `json:"ready"`
	Readiness readinessDTO `json:"readiness"`
	Matches   []matchDTO   `json:"matches"`
}

func toHitDTO(h hit.Hit) hitDTO {
	w, ht := h.Dimensions()
	d := hitDTO{
		EntityID:  h.EntityID(),
		Partition: h.Partition(),
		Score:     h.Score(),
		Tier:      string(h.Tier()),
		Range:     rangeDTO{Start: h.Range().Start, End: h.Range().End},
		Title:     h.Title(),
		Width:     w,
		Height:    ht,
		Meta:      h.Meta(),
	}
	if f, ok := h.Format(); ok {
		d.Format = string(f)
	}
	return d
}

func toHitDTOs(hits []hit.Hit) []hitDTO {
	out := make([]hitDTO, 0, len(hits))
	for _, h := range hits {
		out = append(out, toHitDTO(h))
	}
	return out
}

func toMatchDTOs(matches []match.Match) []matchDTO {
	out := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		out = append(out, matchDTO{
			EntityID:      m.EntityID(),
			Origin:        string(m.Origin()),
			CombinedScore: m.CombinedScore(),
			TextScore:     m.TextScore(),
			VideoScore:    m.VideoScore(),
			Tier:          string(m.Tier()),
		})
	}
	return out
}
