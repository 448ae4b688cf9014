package crossmodal

import (
	"context"
	"errors"
	"testing"

	"github.com/fedvid/fedvid/internal/domain"
	"github.com/fedvid/fedvid/internal/domain/match"
)

type fakeSim struct {
	text     []Scored
	video    []Scored
	textErr  error
	videoErr error
}

func (f *fakeSim) SearchText(ctx context.Context, src Source) ([]Scored, error) {
	return f.text, f.textErr
}

func (f *fakeSim) SearchVideo(ctx context.Context, src Source) ([]Scored, error) {
	return f.video, f.videoErr
}

type fakeGate struct {
	state      match.ReadinessState
	err        error
	candidates []string
}

func (f *fakeGate) EnsureReady(
	ctx context.Context, src Source, candidates []string, progress func(match.ReadinessState),
) (match.ReadinessState, error) {
	f.candidates = candidates
	if progress != nil {
		progress(f.state)
	}
	return f.state, f.err
}

type fakeCandidates struct {
	ids   []string
	err   error
	limit int
}

func (f *fakeCandidates) ListCandidates(ctx context.Context, partition string, limit int) ([]string, error) {
	f.limit = limit
	return f.ids, f.err
}

func TestMatch_Success(t *testing.T) {
	sim := &fakeSim{
		text:  []Scored{{EntityID: "v1", Score: 0.8}},
		video: []Scored{{EntityID: "v1", Score: 0.6}, {EntityID: "v2", Score: 1.2}},
	}
	gate := &fakeGate{state: match.ReadinessState{Processed: 2, Total: 2, Success: true}}
	cands := &fakeCandidates{ids: []string{"v1", "v2"}}

	svc := New(sim, gate, cands, nil)

	matches, state, err := svc.Match(context.Background(),
		Source{EntityID: "src", Partition: "brand", TargetPartition: "creator"}, nil)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if !state.Success {
		t.Error("state.Success = false")
	}
	if len(matches) != 2 {
		t.Fatalf("%d matches, want 2", len(matches))
	}
	if len(gate.candidates) != 2 {
		t.Errorf("gate received %d candidates, want 2", len(gate.candidates))
	}
	if cands.limit != DefaultMaxCandidates {
		t.Errorf("candidate limit = %d, want %d", cands.limit, DefaultMaxCandidates)
	}
}

func TestMatch_NotReadyReturnsZeroMatches(t *testing.T) {
	sim := &fakeSim{text: []Scored{{EntityID: "v1", Score: 0.8}}}
	gate := &fakeGate{state: match.ReadinessState{Processed: 1, Total: 3, Success: false}}
	cands := &fakeCandidates{ids: []string{"v1", "v2", "v3"}}

	svc := New(sim, gate, cands, nil)

	matches, state, err := svc.Match(context.Background(),
		Source{EntityID: "src", TargetPartition: "creator"}, nil)
	if !errors.Is(err, domain.ErrNotReady) {
		t.Fatalf("err = %v, want ErrNotReady", err)
	}
	if len(matches) != 0 {
		t.Errorf("%d matches on failed readiness, want 0 (all or nothing)", len(matches))
	}
	if state.Processed != 1 || state.Total != 3 {
		t.Errorf("state = %+v", state)
	}
}

func TestMatch_GateErrorPropagates(t *testing.T) {
	gate := &fakeGate{err: errors.New("gate down")}
	svc := New(&fakeSim{}, gate, &fakeCandidates{ids: []string{"v1"}}, nil)

	if _, _, err := svc.Match(context.Background(), Source{EntityID: "src"}, nil); err == nil {
		t.Fatal("expected error from the readiness gate")
	}
}

func TestMatch_SimilarityErrorPropagates(t *testing.T) {
	sim := &fakeSim{videoErr: errors.New("similarity backend down")}
	gate := &fakeGate{state: match.ReadinessState{Processed: 1, Total: 1, Success: true}}
	svc := New(sim, gate, &fakeCandidates{ids: []string{"v1"}}, nil)

	if _, _, err := svc.Match(context.Background(), Source{EntityID: "src"}, nil); err == nil {
		t.Fatal("expected error when a similarity search fails")
	}
}

func TestMatch_CandidateListErrorPropagates(t *testing.T) {
	cands := &fakeCandidates{err: errors.New("listing failed")}
	svc := New(&fakeSim{}, &fakeGate{}, cands, nil)

	if _, _, err := svc.Match(context.Background(), Source{EntityID: "src"}, nil); err == nil {
		t.Fatal("expected error when candidate listing fails")
	}
}

func TestMatch_ProgressCallback(t *testing.T) {
	gate := &fakeGate{state: match.ReadinessState{Processed: 2, Total: 2, Success: true}}
	svc := New(&fakeSim{}, gate, &fakeCandidates{ids: []string{"v1"}}, nil)

	var observed []match.ReadinessState
	_, _, err := svc.Match(context.Background(), Source{EntityID: "src"},
		func(st match.ReadinessState) { observed = append(observed, st) })
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(observed) != 1 || observed[0].Processed != 2 {
		t.Errorf("progress observations = %+v", observed)
	}
}

func TestMatch_MaxCandidatesOption(t *testing.T) {
	cands := &fakeCandidates{ids: []string{"v1"}}
	gate := &fakeGate{state: match.ReadinessState{Processed: 1, Total: 1, Success: true}}
	svc := New(&fakeSim{}, gate, cands, nil).WithMaxCandidates(25)

	if _, _, err := svc.Match(context.Background(), Source{EntityID: "src"}, nil); err != nil {
		t.Fatalf("Match: %v", err)
	}
	if cands.limit != 25 {
		t.Errorf("candidate limit = %d, want 25", cands.limit)
	}
}
