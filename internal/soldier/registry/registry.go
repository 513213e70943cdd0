// Package registry implements the trade-ID idempotency registry: an
// atomic insert-if-absent store that stops a duplicate venue fill
// notification (WS-fill and REST-sweeper paths racing on the same
// trade_id) from being applied twice.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
)

// TradeRecord is the immutable unit the registry owns exclusively.
type TradeRecord struct {
	TradeID string  `json:"trade_id"`
	GroupID string  `json:"group_id"`
	LegIdx  uint32  `json:"leg_idx"`
	Ts      uint64  `json:"ts"`
	Qty     float64 `json:"qty"`
	Price   float64 `json:"price"`
}

// InsertOutcome classifies the result of InsertIfAbsent.
type InsertOutcome int

const (
	Inserted InsertOutcome = iota
	Duplicate
	CapacityFull
	WriteFailed
)

// InsertResult is the outcome of an InsertIfAbsent call.
type InsertResult struct {
	Outcome InsertOutcome
	Err     error
}

// Metrics aggregates registry observability counters.
type Metrics struct {
	TradeIDDuplicatesTotal atomic.Uint64
	InsertsTotal           atomic.Uint64
}

// fileAppender is the minimal capability the registry needs of its
// optional backing file: append one durable line with fsync before the
// in-memory insert is visible to readers.
type fileAppender interface {
	AppendLine(line string) error
	Sync() error
}

// Registry is the durable, capacity-bounded trade-ID idempotency store. A
// single mutex guards {records map, storage file}; InsertIfAbsent is the
// only atomic operation — under contention exactly one caller sees
// Inserted, the rest see Duplicate. Readers take the same mutex; holding
// time is a single hash-map lookup, so there is no reader-starvation concern
// because writers are short.
type Registry struct {
	mu       sync.Mutex
	capacity int
	records  map[string]TradeRecord
	order    []string
	file     fileAppender
}

// New creates an empty registry bounded at capacity records, with an
// optional durable backing file.
func New(capacity int, file fileAppender) *Registry {
	return &Registry{capacity: capacity, records: make(map[string]TradeRecord), file: file}
}

// InsertIfAbsent is the registry's sole atomic write. If durable, the
// record is serialized and fsynced to the backing file before the
// in-memory insert becomes visible — a crash between fsync and the
// in-memory update replays correctly from disk, but a crash before fsync
// never leaves a record visible that disk doesn't also have.
func (r *Registry) InsertIfAbsent(rec TradeRecord, m *Metrics) InsertResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[rec.TradeID]; exists {
		if m != nil {
			m.TradeIDDuplicatesTotal.Add(1)
		}
		return InsertResult{Outcome: Duplicate}
	}
	if len(r.order) >= r.capacity {
		return InsertResult{Outcome: CapacityFull}
	}

	if r.file != nil {
		line, err := json.Marshal(rec)
		if err != nil {
			return InsertResult{Outcome: WriteFailed, Err: err}
		}
		if err := r.file.AppendLine(string(line)); err != nil {
			return InsertResult{Outcome: WriteFailed, Err: err}
		}
		if err := r.file.Sync(); err != nil {
			return InsertResult{Outcome: WriteFailed, Err: err}
		}
	}

	r.records[rec.TradeID] = rec
	r.order = append(r.order, rec.TradeID)
	if m != nil {
		m.InsertsTotal.Add(1)
	}
	return InsertResult{Outcome: Inserted}
}

// Contains reports whether tradeID has already been recorded.
func (r *Registry) Contains(tradeID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.records[tradeID]
	return ok
}

// Get returns a copy of the record for tradeID, if present.
func (r *Registry) Get(tradeID string) (TradeRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[tradeID]
	return rec, ok
}

// Len returns the number of records currently held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// LoadFromFile restarts a registry from its backing JSONL file, rejecting
// malformed lines and — fatal, since the file is the durability anchor —
// returning an error on a trade_id duplicated on disk.
func LoadFromFile(path string, capacity int, file fileAppender) (*Registry, error) {
	r := New(capacity, file)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("read registry file: %w", err)
	}

	start := 0
	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			if i > start {
				line := data[start:i]
				var rec TradeRecord
				if err := json.Unmarshal(line, &rec); err != nil {
					return nil, fmt.Errorf("malformed registry line: %w", err)
				}
				if _, dup := r.records[rec.TradeID]; dup {
					return nil, fmt.Errorf("duplicate trade_id on disk: %s", rec.TradeID)
				}
				r.records[rec.TradeID] = rec
				r.order = append(r.order, rec.TradeID)
			}
			start = i + 1
		}
	}
	return r, nil
}
