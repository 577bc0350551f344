package trace

import "testing"

func TestNewAndLog(t *testing.T) {
	tr := New("unknown", "GET", "/paid/data")
	if tr.ID == "" {
		t.Fatal("expected non-empty id")
	}
	tr.Log(CategoryInfo, "agent set to a1")
	tr.AgentID = "a1"
	if len(tr.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(tr.Events))
	}
	if tr.Events[0].Category != CategoryInfo {
		t.Fatalf("expected Info category, got %s", tr.Events[0].Category)
	}
}

func TestFinishSetsTerminalFields(t *testing.T) {
	tr := New("a1", "GET", "/x")
	tr.Finish(200)
	if tr.EndTime == nil || tr.DurationMs == nil || tr.StatusCode == nil {
		t.Fatal("expected terminal fields to be set")
	}
	if *tr.StatusCode != 200 {
		t.Fatalf("expected status 200, got %d", *tr.StatusCode)
	}
	if *tr.DurationMs < 0 {
		t.Fatalf("expected non-negative duration, got %d", *tr.DurationMs)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	tr := New("a1", "GET", "/x")
	tr.Log(CategoryInfo, "hello")
	tr.Finish(200)

	cp := tr.Clone()
	cp.Events[0].Message = "mutated"
	*cp.StatusCode = 500

	if tr.Events[0].Message != "hello" {
		t.Fatal("mutating clone leaked into original events")
	}
	if *tr.StatusCode != 200 {
		t.Fatal("mutating clone leaked into original status")
	}
}

func TestRecorderFIFOEviction(t *testing.T) {
	r := NewRecorder(3)
	ids := make([]string, 5)
	for i := 0; i < 5; i++ {
		tr := New("a1", "GET", "/x")
		tr.Finish(200)
		ids[i] = tr.ID
		r.Commit(tr)
	}
	if r.Len() != 3 {
		t.Fatalf("expected len 3, got %d", r.Len())
	}
	all := r.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	// The two oldest commits were evicted; the survivors keep commit order.
	for i, tr := range all {
		if tr.ID != ids[i+2] {
			t.Fatalf("entry %d: expected commit #%d to survive in FIFO order", i, i+3)
		}
	}
}

func TestRecorderSnapshotOrderAndS6Scenario(t *testing.T) {
	r := NewRecorder(1000)
	ids := make([]string, 1500)
	for i := 0; i < 1500; i++ {
		tr := New("a1", "GET", "/x")
		tr.Finish(200)
		ids[i] = tr.ID
		r.Commit(tr)
	}
	all := r.All()
	if len(all) != 1000 {
		t.Fatalf("expected exactly 1000 entries, got %d", len(all))
	}
	// Oldest surviving entry corresponds to request #501 (index 500).
	if all[0].ID != ids[500] {
		t.Fatalf("expected oldest entry to be request #501, got mismatch")
	}
	if all[len(all)-1].ID != ids[1499] {
		t.Fatal("expected newest entry to be the last committed trace")
	}
}

func TestRecorderDefaultCapacity(t *testing.T) {
	r := NewRecorder(0)
	if r.capacity != DefaultCapacity {
		t.Fatalf("expected default capacity %d, got %d", DefaultCapacity, r.capacity)
	}
}
