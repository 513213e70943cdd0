package ledger

import "testing"

type stubSyncer struct{ calls int; err error }

func (s *stubSyncer) Sync() error {
	s.calls++
	return s.err
}

func TestBarrierRecordBeforeDispatchWithSyncer(t *testing.T) {
	t.Parallel()
	l := New(10, nil)
	syncer := &stubSyncer{}
	b := NewBarrier(l, syncer)
	var m BarrierMetrics

	if err := b.RecordBeforeDispatch(newRecord("h1"), &m); err != nil {
		t.Fatalf("RecordBeforeDispatch: %v", err)
	}
	if syncer.calls != 1 {
		t.Errorf("Sync called %d times, want 1", syncer.calls)
	}
	if m.BarrierWaitCount.Load() != 1 {
		t.Errorf("BarrierWaitCount = %d, want 1", m.BarrierWaitCount.Load())
	}
	if _, ok := l.Get("h1"); !ok {
		t.Error("record not appended to ledger")
	}
}

func TestBarrierWithoutSyncerSkipsWait(t *testing.T) {
	t.Parallel()
	l := New(10, nil)
	b := NewBarrier(l, nil)
	var m BarrierMetrics

	if err := b.RecordBeforeDispatch(newRecord("h1"), &m); err != nil {
		t.Fatalf("RecordBeforeDispatch: %v", err)
	}
	if m.BarrierWaitCount.Load() != 0 {
		t.Errorf("BarrierWaitCount = %d, want 0 without a Syncer", m.BarrierWaitCount.Load())
	}
}

func TestBarrierPropagatesQueueFull(t *testing.T) {
	t.Parallel()
	l := New(1, nil)
	l.Append(newRecord("h1"))
	b := NewBarrier(l, nil)

	err := b.RecordBeforeDispatch(newRecord("h2"), nil)
	if err == nil {
		t.Fatal("expected error when ledger is full")
	}
}
