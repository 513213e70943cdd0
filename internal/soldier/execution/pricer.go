package execution

import "github.com/speelbreaker12/opus-trader-sub000/pkg/types"

// PricerInput bundles the inputs to the fee-aware IOC limit pricer.
type PricerInput struct {
	FairPrice     float64
	GrossEdgeUsd  float64
	MinEdgeUsd    float64
	FeeEstimateUsd float64
	Qty           float64
	Side          types.Side
}

// PricerResult is the outcome of the pricer gate.
type PricerResult struct {
	Allowed bool
	Reason  RejectReasonCode
	NetEdge float64
	Limit   float64
}

// Pricer derives the limit price at which a fill still yields at least
// min_edge after fees, given the current gross edge.
func Pricer(in PricerInput) PricerResult {
	if in.Qty <= 0 {
		return PricerResult{Allowed: false, Reason: RejectInvalidInput}
	}

	netEdge := in.GrossEdgeUsd - in.FeeEstimateUsd
	if netEdge < in.MinEdgeUsd {
		return PricerResult{Allowed: false, Reason: RejectNetEdgeTooLow, NetEdge: netEdge}
	}

	netPerUnit := netEdge / in.Qty
	feePerUnit := in.FeeEstimateUsd / in.Qty
	minPerUnit := in.MinEdgeUsd / in.Qty

	var maxPriceForMinEdge, proposed, limit float64
	if in.Side == types.Buy {
		maxPriceForMinEdge = in.FairPrice - (minPerUnit + feePerUnit)
		proposed = in.FairPrice - 0.5*netPerUnit
		limit = minF64(proposed, maxPriceForMinEdge)
	} else {
		maxPriceForMinEdge = in.FairPrice + (minPerUnit + feePerUnit)
		proposed = in.FairPrice + 0.5*netPerUnit
		limit = maxF64(proposed, maxPriceForMinEdge)
	}

	return PricerResult{Allowed: true, NetEdge: netEdge, Limit: limit}
}

func minF64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
