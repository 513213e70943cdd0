package ledger

import (
	"sync/atomic"
	"time"
)

// BarrierMetrics aggregates durability-barrier observability counters.
type BarrierMetrics struct {
	BarrierWaitMsTotal atomic.Uint64
	BarrierWaitCount   atomic.Uint64
}

// Syncer is the fsync-equivalent capability a durable-before-dispatch
// barrier waits on. *os.File satisfies it.
type Syncer interface {
	Sync() error
}

// RecordBeforeDispatcher is a single-method capability interface for the
// "recorded before dispatch" step. Nothing in this module consumes it: the
// chokepoint reads a WalRecorded flag, and Barrier.RecordBeforeDispatch takes
// an extra metrics argument, so Barrier does not satisfy it.
type RecordBeforeDispatcher interface {
	RecordBeforeDispatch(rec IntentRecord) error
}

// Barrier wraps a Ledger with an optional durability barrier: when a
// Syncer is configured, every RecordBeforeDispatch call appends to the
// ledger and then runs Sync, measuring and accumulating the wait time. The
// barrier is never bypassed when configured — only skipped entirely when
// no Syncer is present.
type Barrier struct {
	ledger *Ledger
	sync   Syncer
}

// NewBarrier wraps ledger with an optional fsync-equivalent. A nil sync
// makes RecordBeforeDispatch equivalent to a plain Append.
func NewBarrier(l *Ledger, sync Syncer) *Barrier {
	return &Barrier{ledger: l, sync: sync}
}

// RecordBeforeDispatch appends rec to the underlying ledger and, if a
// Syncer is configured, blocks on it before returning — this is the only
// place in the pre-dispatch path allowed to block on disk, and it happens
// strictly before a caller may treat the intent as approved.
func (b *Barrier) RecordBeforeDispatch(rec IntentRecord, m *BarrierMetrics) error {
	res := b.ledger.Append(rec)
	if res.Outcome != AppendOk {
		if res.Err != nil {
			return res.Err
		}
		return errQueueFull
	}

	if b.sync == nil {
		return nil
	}

	start := monotonicNow()
	err := b.sync.Sync()
	elapsed := monotonicNow().Sub(start)
	if m != nil {
		m.BarrierWaitMsTotal.Add(uint64(elapsed.Milliseconds()))
		m.BarrierWaitCount.Add(1)
	}
	return err
}

// monotonicNow is its own function so the barrier's wait-time measurement
// has one seam; it is the only place in this package that calls time.Now.
func monotonicNow() time.Time {
	return time.Now()
}

type queueFullError struct{}

func (queueFullError) Error() string { return "ledger: queue full" }

var errQueueFull = queueFullError{}
