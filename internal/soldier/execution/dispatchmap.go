package execution

import (
	"math"

	"github.com/speelbreaker12/opus-trader-sub000/pkg/types"
)

const unitMismatchEpsilon = 1e-9

// DispatchMapInput carries the canonical sizing the strategy supplied plus
// the venue metadata needed to translate it into a single venue amount.
type DispatchMapInput struct {
	Kind              types.InstrumentKind
	QtyCoin           *float64
	QtyUSD            *float64
	Contracts         *int64
	ContractMultiplier float64
	IndexPrice        float64 // required when canonical unit is USD
}

// DispatchMapResult is the outcome of translating canonical sizing to a
// venue amount, with an optional cross-check against a caller-supplied
// contracts count.
type DispatchMapResult struct {
	Allowed  bool
	Reason   RejectReasonCode
	Amount   float64 // venue amount
	QtyCoin  float64 // derived coin-quantity, used downstream for quantize
}

// DispatchMap derives the venue amount from the canonical sizing unit and
// contract multiplier, fail-closed on any unit ambiguity.
func DispatchMap(in DispatchMapInput) DispatchMapResult {
	if in.QtyCoin != nil && in.QtyUSD != nil {
		return DispatchMapResult{Allowed: false, Reason: RejectUnitMismatch}
	}

	var amount, qtyCoin float64
	switch in.Kind {
	case types.InstrumentOption, types.InstrumentLinearFuture:
		if in.QtyCoin == nil {
			return DispatchMapResult{Allowed: false, Reason: RejectUnitMismatch}
		}
		amount = *in.QtyCoin
		qtyCoin = *in.QtyCoin
	case types.InstrumentPerpetual, types.InstrumentInverseFuture:
		if in.QtyUSD == nil {
			return DispatchMapResult{Allowed: false, Reason: RejectUnitMismatch}
		}
		if !isPositiveFinite(in.IndexPrice) {
			return DispatchMapResult{Allowed: false, Reason: RejectUnitMismatch}
		}
		amount = *in.QtyUSD
		qtyCoin = *in.QtyUSD / in.IndexPrice
	default:
		return DispatchMapResult{Allowed: false, Reason: RejectUnitMismatch}
	}

	if in.Contracts != nil {
		expected := float64(*in.Contracts) * in.ContractMultiplier
		if math.Abs(amount-expected) > unitMismatchEpsilon {
			return DispatchMapResult{Allowed: false, Reason: RejectUnitMismatch}
		}
	}

	return DispatchMapResult{Allowed: true, Amount: amount, QtyCoin: qtyCoin}
}
