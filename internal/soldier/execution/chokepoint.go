package execution

import (
	"sync/atomic"

	"github.com/speelbreaker12/opus-trader-sub000/pkg/types"
)

// GateStep is an enumerated marker identifying a gate's position in the
// trace the chokepoint produces.
type GateStep int

const (
	StepDispatchAuth GateStep = iota
	StepPreflight
	StepQuantize
	StepDispatchConsistency
	StepFeeCacheCheck
	StepLiquidityGate
	StepNetEdgeGate
	StepPricer
	StepRecordedBeforeDispatch
)

func (s GateStep) String() string {
	switch s {
	case StepDispatchAuth:
		return "DispatchAuth"
	case StepPreflight:
		return "Preflight"
	case StepQuantize:
		return "Quantize"
	case StepDispatchConsistency:
		return "DispatchConsistency"
	case StepFeeCacheCheck:
		return "FeeCacheCheck"
	case StepLiquidityGate:
		return "LiquidityGate"
	case StepNetEdgeGate:
		return "NetEdgeGate"
	case StepPricer:
		return "Pricer"
	case StepRecordedBeforeDispatch:
		return "RecordedBeforeDispatch"
	default:
		return "unknown"
	}
}

// GateResults is the set of pre-computed gate outcomes the chokepoint
// consumes exactly once. It is produced by the OPEN runtime wiring (or, for
// Close/Hedge/CancelOnly, assembled directly by the caller).
type GateResults struct {
	PreflightPassed           bool
	QuantizePassed            bool
	DispatchConsistencyPassed bool
	FeeCachePassed            bool
	LiquidityGatePassed       bool
	NetEdgePassed             bool
	PricerPassed              bool
	WalRecorded               bool

	RequestedQty    *float64
	MaxDispatchQty  *float64

	// Reason overrides surfaced verbatim when a gate fails for a reason the
	// caller has already classified more specifically than a plain boolean
	// (e.g. PENDING_EXPOSURE_OVERFILL). Keyed by GateStep.
	FailureReasons map[GateStep]RejectReasonCode
}

// DefaultGateResults returns a GateResults with every flag true — the
// identity value for an intent that needs no rejecting.
func DefaultGateResults() GateResults {
	return GateResults{
		PreflightPassed:           true,
		QuantizePassed:            true,
		DispatchConsistencyPassed: true,
		FeeCachePassed:            true,
		LiquidityGatePassed:       true,
		NetEdgePassed:             true,
		PricerPassed:              true,
		WalRecorded:               true,
	}
}

func (g GateResults) reasonFor(step GateStep, fallback RejectReasonCode) RejectReasonCode {
	if g.FailureReasons != nil {
		if r, ok := g.FailureReasons[step]; ok {
			return r
		}
	}
	return fallback
}

// ChokeRejectReason is the tagged rejection carried by a Rejected
// ChokeResult: the failing gate, a short human-readable reason string for
// logs, and the authoritative typed RejectReasonCode (never derived from the
// human string by substring match — see design note on reason mapping).
type ChokeRejectReason struct {
	Gate   GateStep
	Reason string
	Code   RejectReasonCode
}

// ChokeResult is the tagged outcome of the chokepoint: Approved with an
// ordered trace, or Rejected with the failing gate and an ordered trace that
// contains every step executed up to and including the failing step.
type ChokeResult struct {
	Approved bool
	Trace    []GateStep
	Reject   ChokeRejectReason
}

// ChokeMetrics aggregates process-wide observability counters. All counters
// are monotonically non-decreasing and observability-only: they must never
// gate a decision.
type ChokeMetrics struct {
	GateSequenceApproved atomic.Uint64
	GateSequenceRejected atomic.Uint64
	RejectOverrideMismatchTotal atomic.Uint64
}

const unitMismatchEps = 1e-9

// BuildOrderIntent is the sole function permitted to construct an Approved
// ChokeResult. It sequences the nine gates in the documented order, appends
// each to the trace, and early-exits on the first failure.
func BuildOrderIntent(intentClass types.IntentClass, riskState types.RiskState, metrics *ChokeMetrics, g GateResults) ChokeResult {
	trace := []GateStep{StepDispatchAuth}

	if intentClass == types.Open && riskState != types.RiskHealthy {
		metrics.GateSequenceRejected.Add(1)
		return ChokeResult{
			Trace: trace,
			Reject: ChokeRejectReason{
				Gate:   StepDispatchAuth,
				Reason: "risk state not healthy",
				Code:   RejectRiskStateNotHealthy,
			},
		}
	}

	if intentClass == types.CancelOnly {
		metrics.GateSequenceApproved.Add(1)
		return ChokeResult{Approved: true, Trace: trace}
	}

	type gateCheck struct {
		step   GateStep
		passed bool
		reason string
		code   RejectReasonCode
	}

	preDispatch := []gateCheck{
		{StepPreflight, g.PreflightPassed, "preflight gate rejected", g.reasonFor(StepPreflight, RejectOrderTypeMarketForbidden)},
		{StepQuantize, g.QuantizePassed, "quantize gate rejected", g.reasonFor(StepQuantize, RejectInstrumentMetadataMissing)},
		{StepDispatchConsistency, g.DispatchConsistencyPassed, "dispatch consistency gate rejected", g.reasonFor(StepDispatchConsistency, RejectUnitMismatch)},
		{StepFeeCacheCheck, g.FeeCachePassed, "fee cache gate rejected", g.reasonFor(StepFeeCacheCheck, RejectNetEdgeInputMissing)},
	}

	for _, check := range preDispatch {
		trace = append(trace, check.step)
		if !check.passed {
			metrics.GateSequenceRejected.Add(1)
			return ChokeResult{Trace: trace, Reject: ChokeRejectReason{Gate: check.step, Reason: check.reason, Code: check.code}}
		}
		if check.step == StepDispatchConsistency {
			if qtyReject := dispatchConsistencyQtyCheck(g); qtyReject != nil {
				metrics.GateSequenceRejected.Add(1)
				return ChokeResult{Trace: trace, Reject: *qtyReject}
			}
		}
	}

	if intentClass == types.Open {
		openGates := []gateCheck{
			{StepLiquidityGate, g.LiquidityGatePassed, "liquidity gate rejected", g.reasonFor(StepLiquidityGate, RejectLiquidityGateNoL2)},
			{StepNetEdgeGate, g.NetEdgePassed, "net edge gate rejected", g.reasonFor(StepNetEdgeGate, RejectNetEdgeTooLow)},
			{StepPricer, g.PricerPassed, "pricer gate rejected", g.reasonFor(StepPricer, RejectInvalidInput)},
		}
		for _, check := range openGates {
			trace = append(trace, check.step)
			if !check.passed {
				metrics.GateSequenceRejected.Add(1)
				return ChokeResult{Trace: trace, Reject: ChokeRejectReason{Gate: check.step, Reason: check.reason, Code: check.code}}
			}
		}
	}

	trace = append(trace, StepRecordedBeforeDispatch)
	if !g.WalRecorded {
		metrics.GateSequenceRejected.Add(1)
		return ChokeResult{
			Trace: trace,
			Reject: ChokeRejectReason{
				Gate:   StepRecordedBeforeDispatch,
				Reason: "wal append rejected",
				Code:   RejectWalQueueFull,
			},
		}
	}

	metrics.GateSequenceApproved.Add(1)
	return ChokeResult{Approved: true, Trace: trace}
}

// dispatchConsistencyQtyCheck: if both requested_qty and max_dispatch_qty
// are present and requested exceeds max by more than epsilon, reject; if
// exactly one is present, reject
// fail-closed.
func dispatchConsistencyQtyCheck(g GateResults) *ChokeRejectReason {
	switch {
	case g.RequestedQty != nil && g.MaxDispatchQty != nil:
		if *g.RequestedQty > *g.MaxDispatchQty+unitMismatchEps {
			return &ChokeRejectReason{Gate: StepDispatchConsistency, Reason: "requested qty exceeds max dispatch qty", Code: RejectUnitMismatch}
		}
	case (g.RequestedQty == nil) != (g.MaxDispatchQty == nil):
		return &ChokeRejectReason{Gate: StepDispatchConsistency, Reason: "requested/max dispatch qty partially missing", Code: RejectUnitMismatch}
	}
	return nil
}
