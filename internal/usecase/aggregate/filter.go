package aggregate

import "github.com/fedvid/fedvid/internal/domain/hit"

// PartitionAll selects hits from every partition.
const PartitionAll = "all"

// Filter restricts hits by partition membership and derived format facet.
// partition is either PartitionAll or a partition id. formats is a subset of
// the derived formats; empty means no format restriction. A hit lacking
// dimension metadata never matches a non-empty format filter.
// The input is never mutated; Filter produces a view.
func Filter(hits []hit.Hit, partition string, formats []hit.Format) []hit.Hit {
	out := make([]hit.Hit, 0, len(hits))
	for i := range hits {
		h := hits[i]
		if partition != PartitionAll && h.Partition() != partition {
			continue
		}
		if len(formats) > 0 {
			f, ok := h.Format()
			if !ok || !containsFormat(formats, f) {
				continue
			}
		}
		out = append(out, h)
	}
	return out
}

func containsFormat(formats []hit.Format, f hit.Format) bool {
	for _, want := range formats {
		if want == f {
			return true
		}
	}
	return false
}
