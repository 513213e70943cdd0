package api

import (
	"github.com/speelbreaker12/opus-trader-sub000/internal/config"
	"github.com/speelbreaker12/opus-trader-sub000/internal/soldier/ledger"
	"github.com/speelbreaker12/opus-trader-sub000/internal/supervisor"
)

// SnapshotProvider is the supervisor's read surface the dashboard API
// depends on.
type SnapshotProvider interface {
	Snapshot(tail int) supervisor.Snapshot
	Subscribe(buffer int) (<-chan supervisor.Decision, func())
}

// defaultTail bounds the ledger tail and recent-decisions list every
// /snapshot call returns; the depth is not configurable per request.
const defaultTail = 50

// BuildSnapshot aggregates the supervisor's runtime snapshot and the
// operator-relevant config subset into the dashboard API's wire shape.
func BuildSnapshot(provider SnapshotProvider, cfg *config.Config) SnapshotDTO {
	snap := provider.Snapshot(defaultTail)

	tail := make([]LedgerEntryDTO, 0, len(snap.LedgerTail))
	for _, rec := range snap.LedgerTail {
		tail = append(tail, ledgerEntryToDTO(rec))
	}

	decisions := make([]DecisionDTO, 0, len(snap.RecentDecisions))
	for _, d := range snap.RecentDecisions {
		decisions = append(decisions, decisionToDTO(d))
	}

	return SnapshotDTO{
		Timestamp:            snap.Timestamp,
		RiskState:             snap.RiskState.String(),
		LedgerLen:            snap.LedgerLen,
		LedgerTail:           tail,
		PendingExposureTotal: snap.PendingExposureTotal,
		ExposureBTC:          snap.ExposureBTC,
		ExposureETH:          snap.ExposureETH,
		ExposureAlts:         snap.ExposureAlts,
		Counters:             countersToDTO(snap.Metrics),
		RecentDecisions:      decisions,
		Config:               NewConfigSummary(cfg),
	}
}

func ledgerEntryToDTO(rec ledger.IntentRecord) LedgerEntryDTO {
	return LedgerEntryDTO{
		IntentHash:  rec.IntentHash,
		GroupID:     rec.GroupID,
		LegIdx:      rec.LegIdx,
		Instrument:  rec.Instrument,
		Side:        rec.Side.String(),
		QtyQ:        rec.QtyQ,
		LimitPriceQ: rec.LimitPriceQ,
		TlsState:    rec.TlsState.String(),
		CreatedTs:   rec.CreatedTs,
		SentTs:      rec.SentTs,
		AckTs:       rec.AckTs,
		LastFillTs:  rec.LastFillTs,
	}
}

func countersToDTO(m supervisor.MetricsSnapshot) CountersDTO {
	return CountersDTO{
		GateSequenceApproved:        m.GateSequenceApproved,
		GateSequenceRejected:        m.GateSequenceRejected,
		RejectOverrideMismatchTotal: m.RejectOverrideMismatchTotal,
		WalWriteErrors:              m.WalWriteErrors,
		BarrierWaitMsTotal:          m.BarrierWaitMsTotal,
		BarrierWaitCount:            m.BarrierWaitCount,
		TradeIDDuplicatesTotal:      m.TradeIDDuplicatesTotal,
		RegistryInsertsTotal:        m.RegistryInsertsTotal,
		LabelTruncatedTotal:         m.LabelTruncatedTotal,
		InstrumentCacheStaleTotal:   m.InstrumentCacheStaleTotal,
	}
}
