package registry

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/speelbreaker12/opus-trader-sub000/internal/soldier/ledger"
)

func newTradeRecord(id string) TradeRecord {
	return TradeRecord{TradeID: id, GroupID: "g1", LegIdx: 0, Ts: 1000, Qty: 1.0, Price: 100.0}
}

func TestInsertIfAbsentInsertsOnce(t *testing.T) {
	t.Parallel()
	r := New(10, nil)
	var m Metrics

	res := r.InsertIfAbsent(newTradeRecord("t1"), &m)
	if res.Outcome != Inserted {
		t.Fatalf("outcome = %v, want Inserted", res.Outcome)
	}
	if m.InsertsTotal.Load() != 1 {
		t.Errorf("InsertsTotal = %d, want 1", m.InsertsTotal.Load())
	}
}

func TestInsertIfAbsentRejectsDuplicate(t *testing.T) {
	t.Parallel()
	r := New(10, nil)
	var m Metrics
	r.InsertIfAbsent(newTradeRecord("t1"), &m)

	res := r.InsertIfAbsent(newTradeRecord("t1"), &m)
	if res.Outcome != Duplicate {
		t.Fatalf("outcome = %v, want Duplicate", res.Outcome)
	}
	if m.TradeIDDuplicatesTotal.Load() != 1 {
		t.Errorf("TradeIDDuplicatesTotal = %d, want 1", m.TradeIDDuplicatesTotal.Load())
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestInsertIfAbsentCapacityFull(t *testing.T) {
	t.Parallel()
	r := New(1, nil)
	r.InsertIfAbsent(newTradeRecord("t1"), nil)
	res := r.InsertIfAbsent(newTradeRecord("t2"), nil)
	if res.Outcome != CapacityFull {
		t.Fatalf("outcome = %v, want CapacityFull", res.Outcome)
	}
}

func TestInsertIfAbsentConcurrentCallersExactlyOneWins(t *testing.T) {
	r := New(100, nil)
	var m Metrics
	const n = 50
	var wg sync.WaitGroup
	results := make([]InsertOutcome, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.InsertIfAbsent(newTradeRecord("shared"), &m).Outcome
		}(i)
	}
	wg.Wait()

	inserted := 0
	for _, o := range results {
		if o == Inserted {
			inserted++
		}
	}
	if inserted != 1 {
		t.Fatalf("inserted count = %d, want exactly 1", inserted)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestContainsAndGet(t *testing.T) {
	t.Parallel()
	r := New(10, nil)
	r.InsertIfAbsent(newTradeRecord("t1"), nil)

	if !r.Contains("t1") {
		t.Error("Contains(t1) = false, want true")
	}
	if r.Contains("missing") {
		t.Error("Contains(missing) = true, want false")
	}
	rec, ok := r.Get("t1")
	if !ok || rec.TradeID != "t1" {
		t.Errorf("Get(t1) = %+v, %v", rec, ok)
	}
}

func TestRegistryRoundTripThroughFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.jsonl")

	w, err := ledger.OpenFileWriter(path)
	if err != nil {
		t.Fatalf("OpenFileWriter: %v", err)
	}
	r := New(10, w)
	r.InsertIfAbsent(newTradeRecord("t1"), nil)
	r.InsertIfAbsent(newTradeRecord("t2"), nil)
	w.Close()

	w2, err := ledger.OpenFileWriter(path)
	if err != nil {
		t.Fatalf("OpenFileWriter (reopen): %v", err)
	}
	defer w2.Close()

	r2, err := LoadFromFile(path, 10, w2)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if r2.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r2.Len())
	}
	if !r2.Contains("t1") || !r2.Contains("t2") {
		t.Error("reloaded registry missing expected trade ids")
	}
}

func TestLoadFromFileRejectsDuplicateOnDisk(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.jsonl")

	w, err := ledger.OpenFileWriter(path)
	if err != nil {
		t.Fatalf("OpenFileWriter: %v", err)
	}
	w.AppendLine(`{"trade_id":"t1","group_id":"g1","leg_idx":0,"ts":1,"qty":1,"price":1}`)
	w.AppendLine(`{"trade_id":"t1","group_id":"g1","leg_idx":0,"ts":2,"qty":1,"price":1}`)
	w.Close()

	if _, err := LoadFromFile(path, 10, nil); err == nil {
		t.Fatal("expected error for duplicate trade_id on disk")
	}
}

func TestLoadFromFileRejectsMalformedLine(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.jsonl")

	w, err := ledger.OpenFileWriter(path)
	if err != nil {
		t.Fatalf("OpenFileWriter: %v", err)
	}
	w.AppendLine("{not valid json")
	w.Close()

	if _, err := LoadFromFile(path, 10, nil); err == nil {
		t.Fatal("expected error for malformed registry line")
	}
}

func TestLoadFromFileMissingReturnsEmptyRegistry(t *testing.T) {
	t.Parallel()
	r, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.jsonl"), 10, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
}
