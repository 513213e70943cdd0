package execution

import (
	"math"

	"github.com/speelbreaker12/opus-trader-sub000/pkg/types"
)

// InventorySkewInput bundles the inputs to the inventory-skew adjustment.
type InventorySkewInput struct {
	CurrentDelta   float64
	PendingDelta   float64
	DeltaLimit     float64
	Side           types.Side
	MinEdgeUsd     float64
	NetEdgeUsd     float64
	LimitPrice     float64
	TickSize       float64
	SkewK          float64
	TickPenaltyMax int
}

// InventorySkewResult is the outcome of the inventory-skew adjustment.
type InventorySkewResult struct {
	Allowed        bool
	Reason         RejectReasonCode
	AdjustedMinEdge float64
	AdjustedLimit   float64
	Bias            float64
	Ticks           int
}

// EvaluateInventorySkew biases min-edge and limit price based on current +
// pending inventory relative to a delta limit.
func EvaluateInventorySkew(in InventorySkewInput) InventorySkewResult {
	if !isFiniteValue(in.DeltaLimit) || in.DeltaLimit <= 0 {
		return InventorySkewResult{Allowed: false, Reason: RejectInventorySkewDeltaLimitMissing}
	}
	for _, v := range []float64{in.CurrentDelta, in.PendingDelta, in.MinEdgeUsd, in.NetEdgeUsd, in.LimitPrice, in.SkewK} {
		if !isFiniteValue(v) {
			return InventorySkewResult{Allowed: false, Reason: RejectInventorySkewReject}
		}
	}
	if !isPositiveFinite(in.TickSize) || in.SkewK < 0 || in.TickPenaltyMax < 0 || in.TickPenaltyMax > 255 {
		return InventorySkewResult{Allowed: false, Reason: RejectInventorySkewReject}
	}

	combined := in.CurrentDelta + in.PendingDelta
	bias := clampF64(combined/in.DeltaLimit, -1, 1)

	riskIncreasing := (in.Side == types.Buy && bias > 0) || (in.Side == types.Sell && bias < 0)
	absBias := math.Abs(bias)
	ticks := int(math.Ceil(absBias * float64(in.TickPenaltyMax)))

	var adjustedMinEdge, adjustedLimit float64
	if riskIncreasing {
		adjustedMinEdge = in.MinEdgeUsd * (1 + in.SkewK*absBias)
		adjustedLimit = shiftAwayFromTouch(in.LimitPrice, in.TickSize, ticks, in.Side)
	} else {
		adjustedMinEdge = maxF64(in.MinEdgeUsd*(1-in.SkewK*absBias), 0)
		adjustedLimit = shiftTowardTouch(in.LimitPrice, in.TickSize, ticks, in.Side)
	}

	if in.NetEdgeUsd < adjustedMinEdge {
		return InventorySkewResult{Allowed: false, Reason: RejectInventorySkewReject, AdjustedMinEdge: adjustedMinEdge, Bias: bias, Ticks: ticks}
	}

	return InventorySkewResult{Allowed: true, AdjustedMinEdge: adjustedMinEdge, AdjustedLimit: adjustedLimit, Bias: bias, Ticks: ticks}
}

func clampF64(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// shiftAwayFromTouch moves the limit away from the touch (worse fill price
// for the trader) by the given number of ticks: lower for Buy, higher for
// Sell.
func shiftAwayFromTouch(price, tickSize float64, ticks int, side types.Side) float64 {
	if side == types.Buy {
		return price - float64(ticks)*tickSize
	}
	return price + float64(ticks)*tickSize
}

// shiftTowardTouch moves the limit toward the touch (more aggressive fill
// price) by the given number of ticks: higher for Buy, lower for Sell.
func shiftTowardTouch(price, tickSize float64, ticks int, side types.Side) float64 {
	if side == types.Buy {
		return price + float64(ticks)*tickSize
	}
	return price - float64(ticks)*tickSize
}
