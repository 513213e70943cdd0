package supervisor

import (
	"time"

	"github.com/speelbreaker12/opus-trader-sub000/internal/soldier/ledger"
	"github.com/speelbreaker12/opus-trader-sub000/pkg/types"
)

// MetricsSnapshot is a point-in-time read of every observability counter.
// The live Metrics struct holds atomic.Uint64 fields that must never be
// copied directly (go vet's copylocks check flags it for good reason); this
// is the safe-to-copy, safe-to-marshal shape the dashboard API serializes.
type MetricsSnapshot struct {
	GateSequenceApproved        uint64
	GateSequenceRejected        uint64
	RejectOverrideMismatchTotal uint64
	WalWriteErrors              uint64
	BarrierWaitMsTotal          uint64
	BarrierWaitCount            uint64
	TradeIDDuplicatesTotal      uint64
	RegistryInsertsTotal        uint64
	LabelTruncatedTotal         uint64
	InstrumentCacheStaleTotal   uint64
}

func (s *Supervisor) metricsSnapshot() MetricsSnapshot {
	return MetricsSnapshot{
		GateSequenceApproved:        s.metrics.Choke.GateSequenceApproved.Load(),
		GateSequenceRejected:        s.metrics.Choke.GateSequenceRejected.Load(),
		RejectOverrideMismatchTotal: s.metrics.Choke.RejectOverrideMismatchTotal.Load(),
		WalWriteErrors:              s.metrics.Ledger.WalWriteErrors.Load(),
		BarrierWaitMsTotal:          s.metrics.Barrier.BarrierWaitMsTotal.Load(),
		BarrierWaitCount:            s.metrics.Barrier.BarrierWaitCount.Load(),
		TradeIDDuplicatesTotal:      s.metrics.Registry.TradeIDDuplicatesTotal.Load(),
		RegistryInsertsTotal:        s.metrics.Registry.InsertsTotal.Load(),
		LabelTruncatedTotal:         s.metrics.Label.LabelTruncatedTotal.Load(),
		InstrumentCacheStaleTotal:   s.metrics.Cache.InstrumentCacheStaleTotal.Load(),
	}
}

// Snapshot is a point-in-time read of the supervisor's runtime state — the
// shape the dashboard API's /snapshot endpoint serializes.
type Snapshot struct {
	Timestamp time.Time

	RiskState types.RiskState

	LedgerLen  int
	LedgerTail []ledger.IntentRecord

	PendingExposureTotal float64
	ExposureBTC          float64
	ExposureETH          float64
	ExposureAlts         float64

	Metrics MetricsSnapshot

	RecentDecisions []Decision
}

// Snapshot builds the current runtime snapshot. tail bounds both the
// ledger tail and the recent-decisions list returned.
func (s *Supervisor) Snapshot(tail int) Snapshot {
	btc, eth, alts := s.exposure.Snapshot()
	return Snapshot{
		Timestamp:            time.Now(),
		RiskState:            s.RiskState(),
		LedgerLen:            s.ledger.Len(),
		LedgerTail:           s.ledger.Tail(tail),
		PendingExposureTotal: s.pendingBook.PendingTotal(),
		ExposureBTC:          btc,
		ExposureETH:          eth,
		ExposureAlts:         alts,
		Metrics:              s.metricsSnapshot(),
		RecentDecisions:      s.RecentDecisions(tail),
	}
}
