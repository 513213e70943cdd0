package risk

import (
	"math"
	"testing"
)

func TestEvaluateGlobalExposureBudgetAllowsWithinLimit(t *testing.T) {
	t.Parallel()
	res := EvaluateGlobalExposureBudget(ExposureBudgetInput{
		CandidateBucket:     BucketBTC,
		CandidateDelta:      10,
		GlobalDeltaLimitUsd: 1000,
	})
	if !res.Allowed {
		t.Fatalf("Allowed = false: %+v", res)
	}
	if res.Magnitude != 10 {
		t.Errorf("Magnitude = %v, want 10 for a single uncorrelated bucket", res.Magnitude)
	}
}

func TestEvaluateGlobalExposureBudgetRejectsOverLimit(t *testing.T) {
	t.Parallel()
	res := EvaluateGlobalExposureBudget(ExposureBudgetInput{
		CurrentBTC:          900,
		CandidateBucket:     BucketBTC,
		CandidateDelta:      200,
		GlobalDeltaLimitUsd: 1000,
	})
	if res.Allowed {
		t.Fatal("Allowed = true, want Rejected over the global limit")
	}
}

func TestEvaluateGlobalExposureBudgetAppliesCorrelation(t *testing.T) {
	t.Parallel()
	// Two correlated buckets (BTC+ETH, corr=0.8) should produce a larger
	// magnitude than the simple sum-of-squares (uncorrelated) estimate.
	res := EvaluateGlobalExposureBudget(ExposureBudgetInput{
		CurrentBTC:          100,
		CurrentETH:          100,
		CandidateBucket:     BucketAlts,
		CandidateDelta:      0,
		GlobalDeltaLimitUsd: 1000,
	})
	uncorrelated := math.Sqrt(100*100 + 100*100)
	if res.Magnitude <= uncorrelated {
		t.Errorf("Magnitude = %v, want > uncorrelated estimate %v (correlation should inflate risk)", res.Magnitude, uncorrelated)
	}
}

func TestEvaluateGlobalExposureBudgetRejectsNonPositiveLimit(t *testing.T) {
	t.Parallel()
	res := EvaluateGlobalExposureBudget(ExposureBudgetInput{GlobalDeltaLimitUsd: 0})
	if res.Allowed {
		t.Fatal("Allowed = true, want Rejected for a zero limit")
	}
}
