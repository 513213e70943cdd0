package risk

import (
	"math"

	"github.com/speelbreaker12/opus-trader-sub000/pkg/types"
)

// FeeStalenessClass classifies the cached fee rate's age.
type FeeStalenessClass int

const (
	FeeFresh FeeStalenessClass = iota
	FeeSoftStale
	FeeHardStale
)

func (c FeeStalenessClass) String() string {
	switch c {
	case FeeFresh:
		return "fresh"
	case FeeSoftStale:
		return "soft_stale"
	case FeeHardStale:
		return "hard_stale"
	default:
		return "unknown"
	}
}

// FeeCacheConfig is the staleness classification configuration.
type FeeCacheConfig struct {
	SoftS       float64
	HardS       float64
	StaleBuffer float64
}

// DefaultFeeCacheConfig returns the Appendix-A defaults (300s soft, 900s
// hard, 20% buffer).
func DefaultFeeCacheConfig() FeeCacheConfig {
	return FeeCacheConfig{SoftS: 300, HardS: 900, StaleBuffer: 0.20}
}

// FeeCacheSnapshot is the cached fee rate plus its age metadata.
type FeeCacheSnapshot struct {
	FeeRate    float64
	CachedAtMs *uint64
	NowMs      uint64
}

// FeeCacheResult is the outcome of classifying a fee-cache snapshot. Only
// Healthy/Degraded are produced here; fee staleness never raises risk state
// above Degraded on its own.
type FeeCacheResult struct {
	Class            FeeStalenessClass
	FeeRateEffective float64
	RiskState        types.RiskState
}

// ClassifyFeeCacheStaleness classifies the fee-cache snapshot's age into
// Fresh/SoftStale/HardStale, buffering the effective rate for anything less
// than Fresh. A missing timestamp, a clock that runs backward relative to
// the cache entry, or a non-finite fee_rate all fail closed to HardStale.
func ClassifyFeeCacheStaleness(snap FeeCacheSnapshot, cfg FeeCacheConfig) FeeCacheResult {
	if math.IsNaN(snap.FeeRate) || math.IsInf(snap.FeeRate, 0) {
		return FeeCacheResult{Class: FeeHardStale, FeeRateEffective: 0.0, RiskState: types.RiskDegraded}
	}

	if snap.CachedAtMs == nil || snap.NowMs < *snap.CachedAtMs {
		return FeeCacheResult{
			Class:            FeeHardStale,
			FeeRateEffective: snap.FeeRate * (1 + cfg.StaleBuffer),
			RiskState:        types.RiskDegraded,
		}
	}

	ageS := float64(snap.NowMs-*snap.CachedAtMs) / 1000.0

	switch {
	case ageS <= cfg.SoftS:
		return FeeCacheResult{Class: FeeFresh, FeeRateEffective: snap.FeeRate, RiskState: types.RiskHealthy}
	case ageS <= cfg.HardS:
		return FeeCacheResult{Class: FeeSoftStale, FeeRateEffective: snap.FeeRate * (1 + cfg.StaleBuffer), RiskState: types.RiskHealthy}
	default:
		return FeeCacheResult{Class: FeeHardStale, FeeRateEffective: snap.FeeRate * (1 + cfg.StaleBuffer), RiskState: types.RiskDegraded}
	}
}
