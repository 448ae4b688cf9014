package aggregate

import (
	"testing"

	"github.com/fedvid/fedvid/internal/domain/hit"
	"github.com/fedvid/fedvid/internal/domain/tier"
)

func filterHit(id, partition string, width, height int) hit.Hit {
	h := hit.New(id, partition, 0.5, tier.Medium, hit.TemporalRange{}, nil)
	if width > 0 || height > 0 {
		h.SetDetail(width, height, "")
	}
	return h
}

func TestFilter_AllPartitionsNoFormats(t *testing.T) {
	hits := []hit.Hit{
		filterHit("a", "brand", 0, 0),
		filterHit("b", "creator", 0, 0),
	}

	out := Filter(hits, PartitionAll, nil)
	if len(out) != 2 {
		t.Errorf("len = %d, want 2", len(out))
	}
}

func TestFilter_ByPartition(t *testing.T) {
	hits := []hit.Hit{
		filterHit("a", "brand", 0, 0),
		filterHit("b", "creator", 0, 0),
		filterHit("c", "brand", 0, 0),
	}

	out := Filter(hits, "brand", nil)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	for _, h := range out {
		if h.Partition() != "brand" {
			t.Errorf("partition = %q", h.Partition())
		}
	}
}

func TestFilter_ByFormat(t *testing.T) {
	hits := []hit.Hit{
		filterHit("wide", "brand", 1920, 1080),
		filterHit("tall", "brand", 1080, 1920),
		filterHit("square", "brand", 720, 720),
	}

	out := Filter(hits, PartitionAll, []hit.Format{hit.Horizontal})
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2 (square ties to horizontal)", len(out))
	}
	for _, h := range out {
		if h.EntityID() == "tall" {
			t.Error("vertical hit passed a horizontal-only filter")
		}
	}
}

func TestFilter_UnknownDimensionsExcluded(t *testing.T) {
	hits := []hit.Hit{
		filterHit("no-dims", "brand", 0, 0),
		filterHit("wide", "brand", 1920, 1080),
	}

	out := Filter(hits, PartitionAll, []hit.Format{hit.Horizontal, hit.Vertical})
	if len(out) != 1 || out[0].EntityID() != "wide" {
		t.Errorf("out = %d hits; a hit without dimensions must never match a format filter", len(out))
	}
}

func TestFilter_CombinedSelectors(t *testing.T) {
	hits := []hit.Hit{
		filterHit("a", "brand", 1920, 1080),
		filterHit("b", "creator", 1920, 1080),
		filterHit("c", "brand", 1080, 1920),
	}

	out := Filter(hits, "brand", []hit.Format{hit.Horizontal})
	if len(out) != 1 || out[0].EntityID() != "a" {
		t.Errorf("len = %d, want exactly hit a", len(out))
	}
}

func TestFilter_PreservesOrder(t *testing.T) {
	hits := []hit.Hit{
		filterHit("z", "brand", 0, 0),
		filterHit("a", "brand", 0, 0),
		filterHit("m", "brand", 0, 0),
	}

	out := Filter(hits, "brand", nil)
	for i, id := range []string{"z", "a", "m"} {
		if out[i].EntityID() != id {
			t.Errorf("out[%d] = %q, want %q", i, out[i].EntityID(), id)
		}
	}
}
