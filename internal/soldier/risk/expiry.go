package risk

import "github.com/speelbreaker12/opus-trader-sub000/pkg/types"

// ExpiryGuardInput bundles the inputs to the expiry/delist guard.
type ExpiryGuardInput struct {
	IntentClass           types.IntentClass
	ExpirationTimestampMs *uint64
	NowMs                 uint64
	ExpiryDelistBufferS   float64
}

// ExpiryGuardResult is the outcome of the expiry guard.
type ExpiryGuardResult struct {
	Allowed bool
}

// EvaluateExpiryGuard rejects OPEN intents within the delist buffer of
// expiration. Close/Hedge/CancelOnly always pass; a missing expiry is
// treated as perpetual-style (always allowed).
func EvaluateExpiryGuard(in ExpiryGuardInput) ExpiryGuardResult {
	if in.IntentClass != types.Open {
		return ExpiryGuardResult{Allowed: true}
	}
	if in.ExpirationTimestampMs == nil {
		return ExpiryGuardResult{Allowed: true}
	}

	bufferMs := uint64(in.ExpiryDelistBufferS * 1000)
	expiry := *in.ExpirationTimestampMs
	if expiry <= bufferMs {
		return ExpiryGuardResult{Allowed: false}
	}
	cutoff := expiry - bufferMs
	if in.NowMs >= cutoff {
		return ExpiryGuardResult{Allowed: false}
	}
	return ExpiryGuardResult{Allowed: true}
}

// LifecycleErrorCategory classifies whether a venue-reported lifecycle error
// is terminal for the instrument or transient and retryable.
type LifecycleErrorCategory int

const (
	LifecycleNonTerminal LifecycleErrorCategory = iota
	LifecycleTerminal
)

// CancelOutcome describes how a CANCEL request against a terminal-erroring
// instrument should be treated.
type CancelOutcome int

const (
	CancelNormal CancelOutcome = iota
	// CancelIdempotentSuccess: CANCEL on a terminal-erroring instrument is
	// treated as idempotent success — the instrument is already gone.
	CancelIdempotentSuccess
)

// LifecycleDecision is the result of classifying a terminal lifecycle error
// for one instrument.
type LifecycleDecision struct {
	Category        LifecycleErrorCategory
	InstrumentState types.InstrumentState
	CancelOutcome   CancelOutcome
	RetryAllowed    bool
}

// terminalLifecycleErrors are venue error codes that mean the instrument is
// gone and must never be retried. Grounded in
// original_source/crates/soldier_core/src/venue/lifecycle.rs, which
// enumerates a small fixed set of exchange-reported codes rather than
// pattern-matching free text.
var terminalLifecycleErrors = map[string]bool{
	"instrument_expired":  true,
	"instrument_delisted": true,
	"not_found":           true,
	"already_expired":     true,
}

// ClassifyLifecycleError maps a venue-reported lifecycle error code to a
// LifecycleDecision: terminal errors mark the instrument
// ExpiredOrDelisted and are never retried; CANCEL against a
// terminal-erroring instrument is treated as idempotent success.
// Non-terminal errors leave instrument state Active and permit retry.
func ClassifyLifecycleError(errCode string, isCancel bool) LifecycleDecision {
	if terminalLifecycleErrors[errCode] {
		outcome := CancelNormal
		if isCancel {
			outcome = CancelIdempotentSuccess
		}
		return LifecycleDecision{
			Category:        LifecycleTerminal,
			InstrumentState: types.InstrumentExpiredOrDelisted,
			CancelOutcome:   outcome,
			RetryAllowed:    false,
		}
	}
	return LifecycleDecision{
		Category:        LifecycleNonTerminal,
		InstrumentState: types.InstrumentActive,
		CancelOutcome:   CancelNormal,
		RetryAllowed:    true,
	}
}
