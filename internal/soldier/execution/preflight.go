package execution

import "github.com/speelbreaker12/opus-trader-sub000/pkg/types"

// PostOnlyInput is the optional post-only sub-check. An empty opposite side
// (zero value) is not treated as crossing.
type PostOnlyInput struct {
	PostOnly bool
	BestBid  *float64
	BestAsk  *float64
}

// PreflightInput bundles everything the preflight guard needs.
type PreflightInput struct {
	InstrumentKind      types.InstrumentKind
	OrderType           types.OrderType
	HasTrigger          bool
	LinkedOrderType     *string
	LinkedOrdersAllowed bool
	Side                types.Side
	LimitPrice          float64
	PostOnly            *PostOnlyInput
}

// PreflightResult is the outcome of the preflight gate.
type PreflightResult struct {
	Allowed bool
	Reason  RejectReasonCode
}

// Preflight validates order-type, linked-order, and post-only rules in the
// fixed order the gate documents.
func Preflight(in PreflightInput) PreflightResult {
	if in.OrderType == types.OrderMarket {
		return PreflightResult{Allowed: false, Reason: RejectOrderTypeMarketForbidden}
	}
	if in.OrderType == types.OrderStopMarket || in.OrderType == types.OrderStopLimit || in.HasTrigger {
		return PreflightResult{Allowed: false, Reason: RejectOrderTypeStopForbidden}
	}
	if in.LinkedOrderType != nil {
		if in.InstrumentKind == types.InstrumentOption {
			return PreflightResult{Allowed: false, Reason: RejectLinkedOrderTypeForbidden}
		}
		if !in.LinkedOrdersAllowed {
			return PreflightResult{Allowed: false, Reason: RejectLinkedOrderTypeForbidden}
		}
	}
	if in.PostOnly != nil && in.PostOnly.PostOnly {
		if in.Side == types.Buy && in.PostOnly.BestAsk != nil && in.LimitPrice >= *in.PostOnly.BestAsk {
			return PreflightResult{Allowed: false, Reason: RejectPostOnlyWouldCross}
		}
		if in.Side == types.Sell && in.PostOnly.BestBid != nil && in.LimitPrice <= *in.PostOnly.BestBid {
			return PreflightResult{Allowed: false, Reason: RejectPostOnlyWouldCross}
		}
	}
	return PreflightResult{Allowed: true}
}
