package supervisor

import (
	"fmt"

	"github.com/speelbreaker12/opus-trader-sub000/internal/config"
	soldierconfig "github.com/speelbreaker12/opus-trader-sub000/internal/soldier/config"
)

// thresholds is every gate threshold resolved once at construction time,
// so the hot evaluation path never calls config.Resolve (and never has to
// handle a MissingConfigError mid-intent).
type thresholds struct {
	MinEdgeUsd                 float64
	MaxSlippageBps              float64
	SnapshotMaxAgeMs            float64
	InventorySkewK              float64
	InventorySkewTickPenaltyMax float64
	GlobalDeltaLimitUsd         float64
	MarginRejectOpens           float64
	MarginReduceOnly            float64
	MarginKill                  float64
	ExpiryDelistBufferS         float64
	FeeCacheSoftS               float64
	FeeCacheHardS               float64
	FeeCacheStaleBuffer         float64
	WalCapacity                 float64
	RegistryCapacity            float64
	DeltaLimitUsd               float64
}

func resolveThresholds(cfg *config.Config) (thresholds, error) {
	var t thresholds
	resolved := map[soldierconfig.Param]*float64{
		soldierconfig.ParamMinEdgeUsd:                  &t.MinEdgeUsd,
		soldierconfig.ParamMaxSlippageBps:               &t.MaxSlippageBps,
		soldierconfig.ParamSnapshotMaxAgeMs:             &t.SnapshotMaxAgeMs,
		soldierconfig.ParamInventorySkewK:               &t.InventorySkewK,
		soldierconfig.ParamInventorySkewTickPenaltyMax:  &t.InventorySkewTickPenaltyMax,
		soldierconfig.ParamGlobalDeltaLimitUsd:          &t.GlobalDeltaLimitUsd,
		soldierconfig.ParamMarginRejectOpens:            &t.MarginRejectOpens,
		soldierconfig.ParamMarginReduceOnly:             &t.MarginReduceOnly,
		soldierconfig.ParamMarginKill:                   &t.MarginKill,
		soldierconfig.ParamExpiryDelistBufferS:          &t.ExpiryDelistBufferS,
		soldierconfig.ParamFeeCacheSoftS:                &t.FeeCacheSoftS,
		soldierconfig.ParamFeeCacheHardS:                &t.FeeCacheHardS,
		soldierconfig.ParamFeeCacheStaleBuffer:          &t.FeeCacheStaleBuffer,
		soldierconfig.ParamWalCapacity:                  &t.WalCapacity,
		soldierconfig.ParamRegistryCapacity:             &t.RegistryCapacity,
	}
	for param, dst := range resolved {
		v, err := cfg.Gates.Resolve(param)
		if err != nil {
			return thresholds{}, fmt.Errorf("resolve %s: %w", param, err)
		}
		*dst = v
	}
	if cfg.Gates.DeltaLimitUsd == nil {
		return thresholds{}, fmt.Errorf("gates.delta_limit_usd is required")
	}
	t.DeltaLimitUsd = *cfg.Gates.DeltaLimitUsd
	return t, nil
}
