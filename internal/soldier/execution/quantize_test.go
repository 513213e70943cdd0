package execution

import (
	"testing"

	"github.com/speelbreaker12/opus-trader-sub000/pkg/types"
)

func TestQuantizeFloorsQtyAndPriceFavorsVenueOnBuy(t *testing.T) {
	t.Parallel()
	c := types.InstrumentQuantization{TickSize: 0.5, AmountStep: 0.1, MinAmount: 0.1}
	res := Quantize(1.07, 100.37, types.Buy, c)
	if !res.Allowed {
		t.Fatalf("Allowed = false, reason = %v", res.Reason)
	}
	if res.Quantized.QtyQ != 1.0 {
		t.Errorf("QtyQ = %v, want 1.0", res.Quantized.QtyQ)
	}
	if res.Quantized.LimitPriceQ != 100.0 {
		t.Errorf("LimitPriceQ = %v, want 100.0 (floor for Buy)", res.Quantized.LimitPriceQ)
	}
}

func TestQuantizeCeilsPriceOnSell(t *testing.T) {
	t.Parallel()
	c := types.InstrumentQuantization{TickSize: 0.5, AmountStep: 0.1, MinAmount: 0.1}
	res := Quantize(1.0, 100.37, types.Sell, c)
	if !res.Allowed {
		t.Fatalf("Allowed = false, reason = %v", res.Reason)
	}
	if res.Quantized.LimitPriceQ != 100.5 {
		t.Errorf("LimitPriceQ = %v, want 100.5 (ceil for Sell)", res.Quantized.LimitPriceQ)
	}
}

func TestQuantizeRejectsBelowMinAmount(t *testing.T) {
	t.Parallel()
	c := types.InstrumentQuantization{TickSize: 0.5, AmountStep: 0.1, MinAmount: 1.0}
	res := Quantize(0.5, 100.0, types.Buy, c)
	if res.Allowed {
		t.Fatal("Allowed = true, want rejected below min_amount")
	}
	if res.Reason != RejectTooSmallAfterQuantization {
		t.Errorf("Reason = %v, want RejectTooSmallAfterQuantization", res.Reason)
	}
}

func TestQuantizeRejectsMissingMetadata(t *testing.T) {
	t.Parallel()
	cases := []types.InstrumentQuantization{
		{TickSize: 0, AmountStep: 0.1, MinAmount: 0.1},
		{TickSize: 0.5, AmountStep: 0, MinAmount: 0.1},
		{TickSize: 0.5, AmountStep: 0.1, MinAmount: -1},
	}
	for _, c := range cases {
		res := Quantize(1.0, 100.0, types.Buy, c)
		if res.Allowed {
			t.Errorf("Quantize(%+v) Allowed = true, want rejected", c)
		}
		if res.Reason != RejectInstrumentMetadataMissing {
			t.Errorf("Reason = %v, want RejectInstrumentMetadataMissing", res.Reason)
		}
	}
}
