package execution

import "testing"

func TestNetEdgeGateAllowsWhenAboveMinEdge(t *testing.T) {
	t.Parallel()
	gross := 10.0
	res := NetEdgeGate(NetEdgeInput{GrossEdgeUsd: &gross, FeeUsd: 2, ExpectedSlippageUsd: 1, MinEdgeUsd: 2})
	if !res.Allowed {
		t.Fatalf("Allowed = false, want true: %+v", res)
	}
	if res.NetEdge != 7 {
		t.Errorf("NetEdge = %v, want 7", res.NetEdge)
	}
}

func TestNetEdgeGateRejectsBelowMinEdge(t *testing.T) {
	t.Parallel()
	gross := 5.0
	res := NetEdgeGate(NetEdgeInput{GrossEdgeUsd: &gross, FeeUsd: 2, ExpectedSlippageUsd: 1, MinEdgeUsd: 5})
	if res.Allowed {
		t.Fatal("Allowed = true, want Rejected")
	}
	if res.Reason != RejectNetEdgeTooLow {
		t.Errorf("Reason = %v, want RejectNetEdgeTooLow", res.Reason)
	}
}

func TestNetEdgeGateRejectsMissingGross(t *testing.T) {
	t.Parallel()
	res := NetEdgeGate(NetEdgeInput{FeeUsd: 2, ExpectedSlippageUsd: 1, MinEdgeUsd: 2})
	if res.Allowed || res.Reason != RejectNetEdgeInputMissing {
		t.Fatalf("got %+v", res)
	}
}

func TestNetEdgeGateRejectsNegativeFee(t *testing.T) {
	t.Parallel()
	gross := 10.0
	res := NetEdgeGate(NetEdgeInput{GrossEdgeUsd: &gross, FeeUsd: -1, ExpectedSlippageUsd: 1, MinEdgeUsd: 2})
	if res.Allowed || res.Reason != RejectNetEdgeInputMissing {
		t.Fatalf("got %+v", res)
	}
}

func TestNetEdgeGateRejectsNonFiniteGross(t *testing.T) {
	t.Parallel()
	gross := 1.0
	gross = gross / 0.0 // +Inf without invoking math import just for the test
	res := NetEdgeGate(NetEdgeInput{GrossEdgeUsd: &gross, FeeUsd: 2, ExpectedSlippageUsd: 1, MinEdgeUsd: 2})
	if res.Allowed || res.Reason != RejectNetEdgeInputMissing {
		t.Fatalf("got %+v", res)
	}
}
