// Package runtime composes the Slice-6 gates — margin-headroom,
// pending-exposure, global-exposure, liquidity, inventory-skew, net-edge,
// pricer — ahead of the chokepoint for OPEN intents. Close, Hedge, and
// CancelOnly intents never go through this package: their GateResults are
// assembled directly by the caller with the Slice-6 fields left at their
// DefaultGateResults() identity value.
package runtime

import (
	"github.com/speelbreaker12/opus-trader-sub000/internal/soldier/execution"
	"github.com/speelbreaker12/opus-trader-sub000/internal/soldier/risk"
	"github.com/speelbreaker12/opus-trader-sub000/pkg/types"
)

// Input bundles everything the OPEN runtime needs. Base carries the four
// gates evaluated ahead of this package (Preflight, Quantize,
// DispatchConsistency, FeeCacheCheck) plus WalRecorded and the
// requested-qty/max-dispatch-qty pair; this package fills in the
// Liquidity/NetEdge/Pricer flags and FailureReasons before invoking the
// chokepoint itself.
type Input struct {
	Base      execution.GateResults
	RiskState types.RiskState

	Margin risk.MarginGateInput

	PendingBook    *risk.PendingExposureBook
	CurrentDelta   float64
	DeltaImpactEst float64
	DeltaLimit     float64

	Global risk.ExposureBudgetInput

	Liquidity execution.LiquidityInput

	// MinEdgeUsd is the configured baseline min-edge before any
	// inventory-skew adjustment.
	MinEdgeUsd float64
	NetEdge    execution.NetEdgeInput

	Skew   execution.InventorySkewInput
	Pricer execution.PricerInput
}

// Result is the outcome of running the OPEN runtime and the chokepoint it
// feeds.
type Result struct {
	Choke              execution.ChokeResult
	EffectiveRiskState types.RiskState
	Margin             risk.MarginGateResult
	ReservationID      *uint64
	ReservationSettled bool
	Liquidity          execution.LiquidityResult
	NetEdge            execution.NetEdgeResult
	Skew               execution.InventorySkewResult
	Pricer             execution.PricerResult
}

// Evaluate runs the full OPEN runtime wiring and invokes the chokepoint.
func Evaluate(in Input, metrics *execution.ChokeMetrics) Result {
	margin := risk.EvaluateMarginHeadroomGate(in.Margin)

	effectiveRiskState := in.RiskState
	if !margin.Allowed && in.RiskState == types.RiskHealthy {
		if margin.ModeHint == risk.ModeKill {
			effectiveRiskState = types.RiskKill
		} else {
			effectiveRiskState = types.RiskDegraded
		}
	}

	gates := in.Base
	if gates.FailureReasons == nil {
		gates.FailureReasons = make(map[execution.GateStep]execution.RejectReasonCode)
	}

	var reservationID *uint64
	overrideRejected := false

	if effectiveRiskState == types.RiskHealthy {
		reserve := in.PendingBook.Reserve(in.CurrentDelta, in.DeltaImpactEst, in.DeltaLimit)
		if !reserve.Allowed {
			overrideRejected = true
			gates.FailureReasons[execution.StepLiquidityGate] = execution.RejectPendingExposureOverfill
		} else {
			id := reserve.ReservationID
			reservationID = &id

			global := risk.EvaluateGlobalExposureBudget(in.Global)
			if !global.Allowed {
				overrideRejected = true
				gates.FailureReasons[execution.StepLiquidityGate] = execution.RejectGlobalExposureBudgetReject
			}
		}
	}

	var liqResult execution.LiquidityResult
	if overrideRejected {
		gates.LiquidityGatePassed = false
	} else {
		liqResult = execution.LiquidityGate(in.Liquidity)
		gates.LiquidityGatePassed = liqResult.Allowed
		if !liqResult.Allowed {
			gates.FailureReasons[execution.StepLiquidityGate] = liqResult.Reason
		}
		if liqResult.Clamped {
			maxQty := liqResult.AllowedQty
			gates.MaxDispatchQty = &maxQty
		}
	}

	netEdgeIn := in.NetEdge
	netEdgeIn.MinEdgeUsd = in.MinEdgeUsd
	baseline := execution.NetEdgeGate(netEdgeIn)

	skewIn := in.Skew
	skewIn.MinEdgeUsd = in.MinEdgeUsd
	skewIn.NetEdgeUsd = baseline.NetEdge
	skew := execution.EvaluateInventorySkew(skewIn)

	if !skew.Allowed && skew.Reason == execution.RejectInventorySkewDeltaLimitMissing {
		effectiveRiskState = risk.Promote(effectiveRiskState, types.RiskDegraded)
	}

	finalMinEdge := in.MinEdgeUsd
	if skew.Allowed {
		finalMinEdge = skew.AdjustedMinEdge
	}

	finalNetEdgeIn := netEdgeIn
	finalNetEdgeIn.MinEdgeUsd = finalMinEdge
	finalNetEdge := execution.NetEdgeGate(finalNetEdgeIn)
	gates.NetEdgePassed = finalNetEdge.Allowed
	if !finalNetEdge.Allowed {
		gates.FailureReasons[execution.StepNetEdgeGate] = finalNetEdge.Reason
	}

	pricerIn := in.Pricer
	pricerIn.MinEdgeUsd = finalMinEdge
	pricer := execution.Pricer(pricerIn)
	gates.PricerPassed = pricer.Allowed
	if !pricer.Allowed {
		gates.FailureReasons[execution.StepPricer] = pricer.Reason
	}

	choke := execution.BuildOrderIntent(types.Open, effectiveRiskState, metrics, gates)

	settled := false
	if !choke.Approved && reservationID != nil {
		in.PendingBook.Settle(*reservationID, risk.OutcomeRejected)
		settled = true
	}

	if overrideRejected && !choke.Approved && choke.Reject.Gate != execution.StepLiquidityGate {
		metrics.RejectOverrideMismatchTotal.Add(1)
	}

	return Result{
		Choke:              choke,
		EffectiveRiskState: effectiveRiskState,
		Margin:             margin,
		ReservationID:      reservationID,
		ReservationSettled: settled,
		Liquidity:          liqResult,
		NetEdge:            finalNetEdge,
		Skew:               skew,
		Pricer:             pricer,
	}
}

