package execution

import (
	"testing"

	"github.com/speelbreaker12/opus-trader-sub000/pkg/types"
)

func f(v float64) *float64 { return &v }
func s(v string) *string   { return &v }

func TestPreflightRejectsMarketOrders(t *testing.T) {
	t.Parallel()
	res := Preflight(PreflightInput{OrderType: types.OrderMarket})
	if res.Allowed || res.Reason != RejectOrderTypeMarketForbidden {
		t.Fatalf("got %+v", res)
	}
}

func TestPreflightRejectsStopOrdersAndTriggers(t *testing.T) {
	t.Parallel()
	cases := []PreflightInput{
		{OrderType: types.OrderStopMarket},
		{OrderType: types.OrderStopLimit},
		{OrderType: types.OrderLimit, HasTrigger: true},
	}
	for _, in := range cases {
		res := Preflight(in)
		if res.Allowed || res.Reason != RejectOrderTypeStopForbidden {
			t.Errorf("Preflight(%+v) = %+v, want RejectOrderTypeStopForbidden", in, res)
		}
	}
}

func TestPreflightRejectsLinkedOrdersOnOptions(t *testing.T) {
	t.Parallel()
	res := Preflight(PreflightInput{
		OrderType:           types.OrderLimit,
		InstrumentKind:       types.InstrumentOption,
		LinkedOrderType:      s("oco"),
		LinkedOrdersAllowed: true,
	})
	if res.Allowed || res.Reason != RejectLinkedOrderTypeForbidden {
		t.Fatalf("got %+v", res)
	}
}

func TestPreflightRejectsLinkedOrdersWhenNotAllowed(t *testing.T) {
	t.Parallel()
	res := Preflight(PreflightInput{
		OrderType:           types.OrderLimit,
		InstrumentKind:       types.InstrumentLinearFuture,
		LinkedOrderType:      s("oco"),
		LinkedOrdersAllowed: false,
	})
	if res.Allowed || res.Reason != RejectLinkedOrderTypeForbidden {
		t.Fatalf("got %+v", res)
	}
}

func TestPreflightAllowsLinkedOrdersWhenAllowedAndNotOption(t *testing.T) {
	t.Parallel()
	res := Preflight(PreflightInput{
		OrderType:           types.OrderLimit,
		InstrumentKind:       types.InstrumentLinearFuture,
		LinkedOrderType:      s("oco"),
		LinkedOrdersAllowed: true,
	})
	if !res.Allowed {
		t.Fatalf("got %+v, want Allowed", res)
	}
}

func TestPreflightRejectsPostOnlyCrossOnBuy(t *testing.T) {
	t.Parallel()
	res := Preflight(PreflightInput{
		OrderType:  types.OrderLimit,
		Side:       types.Buy,
		LimitPrice: 100.0,
		PostOnly:   &PostOnlyInput{PostOnly: true, BestAsk: f(100.0)},
	})
	if res.Allowed || res.Reason != RejectPostOnlyWouldCross {
		t.Fatalf("got %+v", res)
	}
}

func TestPreflightRejectsPostOnlyCrossOnSell(t *testing.T) {
	t.Parallel()
	res := Preflight(PreflightInput{
		OrderType:  types.OrderLimit,
		Side:       types.Sell,
		LimitPrice: 100.0,
		PostOnly:   &PostOnlyInput{PostOnly: true, BestBid: f(100.0)},
	})
	if res.Allowed || res.Reason != RejectPostOnlyWouldCross {
		t.Fatalf("got %+v", res)
	}
}

func TestPreflightAllowsNonCrossingPostOnly(t *testing.T) {
	t.Parallel()
	res := Preflight(PreflightInput{
		OrderType:  types.OrderLimit,
		Side:       types.Buy,
		LimitPrice: 99.0,
		PostOnly:   &PostOnlyInput{PostOnly: true, BestAsk: f(100.0)},
	})
	if !res.Allowed {
		t.Fatalf("got %+v, want Allowed", res)
	}
}

func TestPreflightAllowsPlainLimitOrder(t *testing.T) {
	t.Parallel()
	res := Preflight(PreflightInput{OrderType: types.OrderLimit, Side: types.Buy, LimitPrice: 100.0})
	if !res.Allowed {
		t.Fatalf("got %+v, want Allowed", res)
	}
}
