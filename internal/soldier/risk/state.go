// Package risk implements the exposure, margin, and fee-staleness gates that
// guard the OPEN runtime ahead of the chokepoint: pending-exposure
// reservation, global-exposure budget, margin headroom, and fee-cache
// staleness classification.
package risk

import "github.com/speelbreaker12/opus-trader-sub000/pkg/types"

// MarginGateMode is the coarse trading-mode hint the margin-headroom gate
// derives from mm_util thresholds. It is consumed by the policy-guard
// collaborator at a strictly higher altitude than this core.
type MarginGateMode int

const (
	ModeActive MarginGateMode = iota
	ModeReduceOnly
	ModeKill
)

func (m MarginGateMode) String() string {
	switch m {
	case ModeActive:
		return "active"
	case ModeReduceOnly:
		return "reduce_only"
	case ModeKill:
		return "kill"
	default:
		return "unknown"
	}
}

// Promote returns the stronger of two risk states, never demoting below the
// incoming state. Kill > Maintenance > Degraded > Healthy.
func Promote(current, candidate types.RiskState) types.RiskState {
	if rank(candidate) > rank(current) {
		return candidate
	}
	return current
}

func rank(s types.RiskState) int {
	switch s {
	case types.RiskHealthy:
		return 0
	case types.RiskDegraded:
		return 1
	case types.RiskMaintenance:
		return 2
	case types.RiskKill:
		return 3
	default:
		return 0
	}
}
