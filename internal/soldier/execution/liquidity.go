package execution

import (
	"math"

	"github.com/speelbreaker12/opus-trader-sub000/pkg/types"
)

// LiquidityInput bundles the book-walk inputs for the liquidity gate.
type LiquidityInput struct {
	OrderQty        float64
	IsBuy           bool
	IntentClass     types.IntentClass
	IsMarketable    bool
	Snapshot        *types.L2BookSnapshot
	NowMs           uint64
	SnapshotMaxAgeMs uint64
	MaxSlippageBps  float64
}

// LiquidityResult is the outcome of the liquidity gate.
type LiquidityResult struct {
	Allowed    bool
	Reason     RejectReasonCode
	Wap        float64
	SlippageBps float64
	// AllowedQty is the clamped fillable size for Close/Hedge/non-marketable
	// Open when depth is insufficient; propagated as max_dispatch_qty.
	AllowedQty float64
	Clamped    bool
}

// LiquidityGate walks the relevant side of the book, computes WAP and
// slippage, and either allows, clamps, or rejects depending on intent class
// and marketability.
func LiquidityGate(in LiquidityInput) LiquidityResult {
	if in.IntentClass == types.CancelOnly {
		return LiquidityResult{Allowed: true}
	}

	if in.Snapshot == nil || in.NowMs > in.Snapshot.TimestampMs+in.SnapshotMaxAgeMs || in.NowMs < in.Snapshot.TimestampMs {
		return LiquidityResult{Allowed: false, Reason: RejectLiquidityGateNoL2}
	}

	var levels []types.L2Level
	if in.IsBuy {
		levels = in.Snapshot.Asks
	} else {
		levels = in.Snapshot.Bids
	}
	if len(levels) == 0 {
		return LiquidityResult{Allowed: false, Reason: RejectLiquidityGateNoL2}
	}

	bestPrice := levels[0].Price
	var cost, filled float64
	for _, lvl := range levels {
		if filled >= in.OrderQty {
			break
		}
		take := math.Min(lvl.Qty, in.OrderQty-filled)
		cost += take * lvl.Price
		filled += take
	}

	if filled <= 0 || !isFiniteValue(cost) {
		return LiquidityResult{Allowed: false, Reason: RejectLiquidityGateNoL2}
	}

	wap := cost / filled
	if !isFiniteValue(wap) || bestPrice <= 0 {
		return LiquidityResult{Allowed: false, Reason: RejectLiquidityGateNoL2}
	}

	slippageBps := math.Abs(wap-bestPrice) / bestPrice * 10000
	if !isFiniteValue(slippageBps) {
		return LiquidityResult{Allowed: false, Reason: RejectLiquidityGateNoL2}
	}

	marketable := in.IntentClass == types.Open && in.IsMarketable
	insufficientDepth := filled < in.OrderQty

	if slippageBps > in.MaxSlippageBps {
		if marketable && insufficientDepth {
			return LiquidityResult{Allowed: false, Reason: RejectInsufficientDepthWithinBudget, Wap: wap, SlippageBps: slippageBps}
		}
		return LiquidityResult{Allowed: false, Reason: RejectExpectedSlippageTooHigh, Wap: wap, SlippageBps: slippageBps}
	}

	if insufficientDepth {
		if marketable {
			return LiquidityResult{Allowed: false, Reason: RejectInsufficientDepthWithinBudget, Wap: wap, SlippageBps: slippageBps}
		}
		return LiquidityResult{Allowed: true, Wap: wap, SlippageBps: slippageBps, AllowedQty: filled, Clamped: true}
	}

	return LiquidityResult{Allowed: true, Wap: wap, SlippageBps: slippageBps, AllowedQty: in.OrderQty}
}

func isFiniteValue(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
