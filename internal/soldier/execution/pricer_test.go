package execution

import (
	"testing"

	"github.com/speelbreaker12/opus-trader-sub000/pkg/types"
)

func TestPricerRejectsNonPositiveQty(t *testing.T) {
	t.Parallel()
	res := Pricer(PricerInput{FairPrice: 100, GrossEdgeUsd: 10, MinEdgeUsd: 2, Qty: 0, Side: types.Buy})
	if res.Allowed || res.Reason != RejectInvalidInput {
		t.Fatalf("got %+v", res)
	}
}

func TestPricerRejectsBelowMinEdge(t *testing.T) {
	t.Parallel()
	res := Pricer(PricerInput{FairPrice: 100, GrossEdgeUsd: 3, FeeEstimateUsd: 2, MinEdgeUsd: 5, Qty: 1, Side: types.Buy})
	if res.Allowed || res.Reason != RejectNetEdgeTooLow {
		t.Fatalf("got %+v", res)
	}
}

func TestPricerBuyLimitBelowFairPrice(t *testing.T) {
	t.Parallel()
	res := Pricer(PricerInput{FairPrice: 100, GrossEdgeUsd: 10, FeeEstimateUsd: 3, MinEdgeUsd: 2, Qty: 1, Side: types.Buy})
	if !res.Allowed {
		t.Fatalf("Allowed = false: %+v", res)
	}
	if res.Limit != 95.0 {
		t.Errorf("Limit = %v, want 95.0", res.Limit)
	}
	if res.Limit >= 100 {
		t.Errorf("Limit = %v, want < fair price (100) for a buy", res.Limit)
	}
}

func TestPricerSellLimitAboveFairPrice(t *testing.T) {
	t.Parallel()
	res := Pricer(PricerInput{FairPrice: 100, GrossEdgeUsd: 10, FeeEstimateUsd: 3, MinEdgeUsd: 2, Qty: 1, Side: types.Sell})
	if !res.Allowed {
		t.Fatalf("Allowed = false: %+v", res)
	}
	if res.Limit <= 100 {
		t.Errorf("Limit = %v, want > 100 for a sell", res.Limit)
	}
}
