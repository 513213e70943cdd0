package execution

import (
	"math"

	"github.com/speelbreaker12/opus-trader-sub000/pkg/types"
)

// QuantizeResult is the outcome of rounding a raw intent to venue steps.
type QuantizeResult struct {
	Allowed     bool
	Reason      RejectReasonCode
	FailedField string // set only when Reason == RejectInstrumentMetadataMissing
	Quantized   types.QuantizedIntent
}

// Quantize rounds raw_qty down to amount_step and raw_limit_price toward the
// venue's favor (floor for Buy, ceil for Sell) to tick_size. Constraint
// values are validated first: missing metadata is never silently defaulted.
func Quantize(rawQty, rawLimitPrice float64, side types.Side, c types.InstrumentQuantization) QuantizeResult {
	if bad, field := firstInvalidConstraint(c); bad {
		return QuantizeResult{Allowed: false, Reason: RejectInstrumentMetadataMissing, FailedField: field}
	}

	qtySteps := int64(math.Floor(rawQty / c.AmountStep))
	qtyQ := float64(qtySteps) * c.AmountStep
	if qtyQ < c.MinAmount {
		return QuantizeResult{Allowed: false, Reason: RejectTooSmallAfterQuantization}
	}

	var priceTicks int64
	var limitPriceQ float64
	if side == types.Buy {
		priceTicks = int64(math.Floor(rawLimitPrice / c.TickSize))
	} else {
		priceTicks = int64(math.Ceil(rawLimitPrice / c.TickSize))
	}
	limitPriceQ = float64(priceTicks) * c.TickSize

	return QuantizeResult{
		Allowed: true,
		Quantized: types.QuantizedIntent{
			QtyQ:        qtyQ,
			LimitPriceQ: limitPriceQ,
			QtySteps:    qtySteps,
			PriceTicks:  priceTicks,
		},
	}
}

func firstInvalidConstraint(c types.InstrumentQuantization) (bool, string) {
	switch {
	case !isPositiveFinite(c.TickSize):
		return true, "tick_size"
	case !isPositiveFinite(c.AmountStep):
		return true, "amount_step"
	case !isFiniteNonNegative(c.MinAmount):
		return true, "min_amount"
	default:
		return false, ""
	}
}

func isPositiveFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

func isFiniteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
