package risk

import (
	"testing"

	"github.com/speelbreaker12/opus-trader-sub000/pkg/types"
)

func TestEvaluateExpiryGuardAllowsNonOpenIntents(t *testing.T) {
	t.Parallel()
	exp := uint64(1000)
	res := EvaluateExpiryGuard(ExpiryGuardInput{
		IntentClass:           types.Close,
		ExpirationTimestampMs: &exp,
		NowMs:                 999999999,
		ExpiryDelistBufferS:   3600,
	})
	if !res.Allowed {
		t.Fatal("Allowed = false, want true: Close always passes the expiry guard")
	}
}

func TestEvaluateExpiryGuardAllowsMissingExpiry(t *testing.T) {
	t.Parallel()
	res := EvaluateExpiryGuard(ExpiryGuardInput{IntentClass: types.Open, ExpirationTimestampMs: nil})
	if !res.Allowed {
		t.Fatal("Allowed = false, want true for a perpetual with no expiry")
	}
}

func TestEvaluateExpiryGuardRejectsWithinBuffer(t *testing.T) {
	t.Parallel()
	expiry := uint64(10_000_000)
	res := EvaluateExpiryGuard(ExpiryGuardInput{
		IntentClass:           types.Open,
		ExpirationTimestampMs: &expiry,
		NowMs:                 expiry - 1000, // well within a 3600s buffer
		ExpiryDelistBufferS:   3600,
	})
	if res.Allowed {
		t.Fatal("Allowed = true, want Rejected within the delist buffer")
	}
}

func TestEvaluateExpiryGuardAllowsWellBeforeBuffer(t *testing.T) {
	t.Parallel()
	expiry := uint64(10_000_000_000)
	res := EvaluateExpiryGuard(ExpiryGuardInput{
		IntentClass:           types.Open,
		ExpirationTimestampMs: &expiry,
		NowMs:                 1000,
		ExpiryDelistBufferS:   3600,
	})
	if !res.Allowed {
		t.Fatal("Allowed = false, want true well before the delist buffer")
	}
}

func TestClassifyLifecycleErrorTerminalOnCancelIsIdempotentSuccess(t *testing.T) {
	t.Parallel()
	res := ClassifyLifecycleError("instrument_delisted", true)
	if res.Category != LifecycleTerminal {
		t.Errorf("Category = %v, want Terminal", res.Category)
	}
	if res.CancelOutcome != CancelIdempotentSuccess {
		t.Errorf("CancelOutcome = %v, want CancelIdempotentSuccess", res.CancelOutcome)
	}
	if res.RetryAllowed {
		t.Error("RetryAllowed = true, want false for a terminal error")
	}
	if res.InstrumentState != types.InstrumentExpiredOrDelisted {
		t.Errorf("InstrumentState = %v, want ExpiredOrDelisted", res.InstrumentState)
	}
}

func TestClassifyLifecycleErrorTerminalOnNonCancelIsNormal(t *testing.T) {
	t.Parallel()
	res := ClassifyLifecycleError("not_found", false)
	if res.CancelOutcome != CancelNormal {
		t.Errorf("CancelOutcome = %v, want CancelNormal", res.CancelOutcome)
	}
}

func TestClassifyLifecycleErrorNonTerminalAllowsRetry(t *testing.T) {
	t.Parallel()
	res := ClassifyLifecycleError("rate_limited", false)
	if res.Category != LifecycleNonTerminal {
		t.Errorf("Category = %v, want NonTerminal", res.Category)
	}
	if !res.RetryAllowed {
		t.Error("RetryAllowed = false, want true for a non-terminal error")
	}
	if res.InstrumentState != types.InstrumentActive {
		t.Errorf("InstrumentState = %v, want Active", res.InstrumentState)
	}
}
