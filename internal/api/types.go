package api

import (
	"time"

	"github.com/speelbreaker12/opus-trader-sub000/internal/config"
	soldierconfig "github.com/speelbreaker12/opus-trader-sub000/internal/soldier/config"
)

// SnapshotDTO is the wire shape of the /snapshot endpoint: the supervisor's
// runtime snapshot plus a config summary.
type SnapshotDTO struct {
	Timestamp time.Time `json:"timestamp"`
	RiskState string    `json:"risk_state"`

	LedgerLen  int              `json:"ledger_len"`
	LedgerTail []LedgerEntryDTO `json:"ledger_tail"`

	PendingExposureTotal float64 `json:"pending_exposure_total"`
	ExposureBTC          float64 `json:"exposure_btc"`
	ExposureETH          float64 `json:"exposure_eth"`
	ExposureAlts         float64 `json:"exposure_alts"`

	Counters CountersDTO `json:"counters"`

	RecentDecisions []DecisionDTO `json:"recent_decisions"`

	Config ConfigSummary `json:"config"`
}

// LedgerEntryDTO is one WAL ledger record as exposed over the dashboard API.
type LedgerEntryDTO struct {
	IntentHash  string  `json:"intent_hash"`
	GroupID     string  `json:"group_id"`
	LegIdx      uint32  `json:"leg_idx"`
	Instrument  string  `json:"instrument"`
	Side        string  `json:"side"`
	QtyQ        float64 `json:"qty_q"`
	LimitPriceQ float64 `json:"limit_price_q"`
	TlsState    string  `json:"tls_state"`
	CreatedTs   uint64  `json:"created_ts"`
	SentTs      uint64  `json:"sent_ts"`
	AckTs       uint64  `json:"ack_ts"`
	LastFillTs  uint64  `json:"last_fill_ts"`
}

// CountersDTO mirrors supervisor.MetricsSnapshot for JSON stability
// independent of the internal struct's field layout.
type CountersDTO struct {
	GateSequenceApproved        uint64 `json:"gate_sequence_approved"`
	GateSequenceRejected        uint64 `json:"gate_sequence_rejected"`
	RejectOverrideMismatchTotal uint64 `json:"reject_override_mismatch_total"`
	WalWriteErrors              uint64 `json:"wal_write_errors"`
	BarrierWaitMsTotal          uint64 `json:"barrier_wait_ms_total"`
	BarrierWaitCount            uint64 `json:"barrier_wait_count"`
	TradeIDDuplicatesTotal      uint64 `json:"trade_id_duplicates_total"`
	RegistryInsertsTotal        uint64 `json:"registry_inserts_total"`
	LabelTruncatedTotal         uint64 `json:"label_truncated_total"`
	InstrumentCacheStaleTotal   uint64 `json:"instrument_cache_stale_total"`
}

// DecisionDTO is one pre-dispatch decision as exposed over the dashboard
// API, both in the /snapshot tail and the /stream SSE feed.
type DecisionDTO struct {
	Approved    bool     `json:"approved"`
	Label       string   `json:"label,omitempty"`
	IntentHash  string   `json:"intent_hash,omitempty"`
	RejectGate  string   `json:"reject_gate,omitempty"`
	RejectCode  string   `json:"reject_code,omitempty"`
	RejectText  string   `json:"reject_text,omitempty"`
	Trace       []string `json:"trace,omitempty"`
	Instrument  string   `json:"instrument"`
	Side        string   `json:"side"`
	QtyQ        float64  `json:"qty_q"`
	LimitPriceQ float64  `json:"limit_price_q"`
	Ts          uint64   `json:"ts"`
}

// ConfigSummary exposes the operator-relevant subset of config: gate
// thresholds an on-call engineer would check first when a decision looks
// wrong, never secrets or file paths.
type ConfigSummary struct {
	DryRun              bool     `json:"dry_run"`
	Instruments         []string `json:"instruments"`
	MinEdgeUsd          float64  `json:"min_edge_usd"`
	GlobalDeltaLimitUsd float64  `json:"global_delta_limit_usd"`
	DeltaLimitUsd       float64  `json:"delta_limit_usd"`
	MarginRejectOpens   float64  `json:"margin_reject_opens"`
	MarginKill          float64  `json:"margin_kill"`
}

// NewConfigSummary resolves the gate thresholds cfg carries into their
// effective values (Appendix-A default or explicit override) for display.
// A resolve failure can't actually occur here: Validate already rejected
// any non-finite explicit override at startup, so resolveOrZero's zero
// fallback is unreachable in practice and only guards against a panic on a
// read-only status endpoint.
func NewConfigSummary(cfg *config.Config) ConfigSummary {
	return ConfigSummary{
		DryRun:              cfg.DryRun,
		Instruments:         cfg.Venue.Instruments,
		MinEdgeUsd:          resolveOrZero(cfg, soldierconfig.ParamMinEdgeUsd),
		GlobalDeltaLimitUsd: resolveOrZero(cfg, soldierconfig.ParamGlobalDeltaLimitUsd),
		DeltaLimitUsd:       derefFloat(cfg.Gates.DeltaLimitUsd),
		MarginRejectOpens:   resolveOrZero(cfg, soldierconfig.ParamMarginRejectOpens),
		MarginKill:          resolveOrZero(cfg, soldierconfig.ParamMarginKill),
	}
}

func resolveOrZero(cfg *config.Config, param soldierconfig.Param) float64 {
	v, err := cfg.Gates.Resolve(param)
	if err != nil {
		return 0
	}
	return v
}

func derefFloat(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
