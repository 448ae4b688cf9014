package page

import "testing"

func TestHasMore_EmptyTable(t *testing.T) {
	s := NewState()
	if s.HasMore() {
		t.Error("empty table must report HasMore() = false")
	}
}

func TestHasMore_AnyLiveToken(t *testing.T) {
	s := NewState()
	s.RecordInitial("brand", "tA1", 30)
	s.RecordInitial("creator", "", 5)

	if !s.HasMore() {
		t.Error("HasMore() = false with one live token")
	}

	s.RecordContinuation("brand", "")
	if s.HasMore() {
		t.Error("HasMore() = true after every token exhausted")
	}
}

func TestNeedingContinuation(t *testing.T) {
	s := NewState()
	s.RecordInitial("brand", "tA1", 30)
	s.RecordInitial("creator", "", 5)

	pending := s.NeedingContinuation()
	if len(pending) != 1 {
		t.Fatalf("NeedingContinuation() len = %d, want 1", len(pending))
	}
	if pending["brand"] != "tA1" {
		t.Errorf("pending[brand] = %q, want %q", pending["brand"], "tA1")
	}
}

func TestTotal(t *testing.T) {
	s := NewState()
	s.RecordInitial("brand", "t", 42)

	if total, ok := s.Total("brand"); !ok || total != 42 {
		t.Errorf("Total(brand) = %d, %v", total, ok)
	}
	// Zero declared total is not authoritative
	s.RecordInitial("creator", "", 0)
	if _, ok := s.Total("creator"); ok {
		t.Error("Total(creator) with zero declared count must report ok = false")
	}
	if _, ok := s.Total("absent"); ok {
		t.Error("Total(absent) must report ok = false")
	}
}
