package risk

import "math"

// MarginGateInput bundles the margin-headroom thresholds and current
// account state.
type MarginGateInput struct {
	MaintenanceMarginUsd float64
	EquityUsd            float64
	RejectOpens          float64
	ReduceOnly           float64
	Kill                 float64
}

// MarginGateResult is the outcome of the margin-headroom gate.
type MarginGateResult struct {
	Allowed bool
	ModeHint MarginGateMode
	MmUtil   float64
}

// EvaluateMarginHeadroomGate computes mm_util and derives a mode hint; OPEN
// intents are rejected once mm_util reaches reject_opens.
func EvaluateMarginHeadroomGate(in MarginGateInput) MarginGateResult {
	if !validThresholds(in) || in.EquityUsd <= 0 {
		return MarginGateResult{Allowed: false, ModeHint: ModeKill}
	}

	mmUtil := in.MaintenanceMarginUsd / math.Max(in.EquityUsd, 1e-9)

	var mode MarginGateMode
	switch {
	case mmUtil >= in.Kill:
		mode = ModeKill
	case mmUtil >= in.ReduceOnly:
		mode = ModeReduceOnly
	default:
		mode = ModeActive
	}

	if mmUtil >= in.RejectOpens {
		return MarginGateResult{Allowed: false, ModeHint: mode, MmUtil: mmUtil}
	}
	return MarginGateResult{Allowed: true, ModeHint: mode, MmUtil: mmUtil}
}

func validThresholds(in MarginGateInput) bool {
	return in.RejectOpens > 0 &&
		in.RejectOpens <= in.ReduceOnly &&
		in.ReduceOnly <= in.Kill &&
		in.Kill <= 1
}
