// Package config implements the enumerated config-key resolver: every
// gate-facing threshold in the core resolves through here so resolution is
// uniform and fail-closed against the Appendix-A default table.
package config

import "math"

// Param is an enumerated config key. Every member has an Appendix-A default
// below. The per-account delta_limit is not a member: the inventory-skew and
// pending-exposure gates take it from the caller explicitly and never
// resolve it here.
type Param int

const (
	ParamMinEdgeUsd Param = iota
	ParamMaxSlippageBps
	ParamSnapshotMaxAgeMs
	ParamInventorySkewK
	ParamInventorySkewTickPenaltyMax
	ParamGlobalDeltaLimitUsd
	ParamMarginRejectOpens
	ParamMarginReduceOnly
	ParamMarginKill
	ParamExpiryDelistBufferS
	ParamFeeCacheSoftS
	ParamFeeCacheHardS
	ParamFeeCacheStaleBuffer
	ParamWalCapacity
	ParamRegistryCapacity
)

// appendixADefaults is the Appendix-A default table. A key absent from
// this map has no system-wide default and must always be supplied
// explicitly by the caller; Resolve returns MissingConfigError for it when
// no value is given.
var appendixADefaults = map[Param]float64{
	ParamMinEdgeUsd:                  0.0,
	ParamMaxSlippageBps:               50.0,
	ParamSnapshotMaxAgeMs:             2000.0,
	ParamInventorySkewK:               0.0,
	ParamInventorySkewTickPenaltyMax:  0.0,
	ParamGlobalDeltaLimitUsd:          0.0,
	ParamMarginRejectOpens:            0.80,
	ParamMarginReduceOnly:             0.60,
	ParamMarginKill:                  0.90,
	ParamExpiryDelistBufferS:          3600.0,
	ParamFeeCacheSoftS:                300.0,
	ParamFeeCacheHardS:                900.0,
	ParamFeeCacheStaleBuffer:          0.20,
	ParamWalCapacity:                  65536.0,
	ParamRegistryCapacity:             65536.0,
}

var paramNames = map[Param]string{
	ParamMinEdgeUsd:                  "min_edge_usd",
	ParamMaxSlippageBps:               "max_slippage_bps",
	ParamSnapshotMaxAgeMs:             "snapshot_max_age_ms",
	ParamInventorySkewK:               "inventory_skew_k",
	ParamInventorySkewTickPenaltyMax:  "inventory_skew_tick_penalty_max",
	ParamGlobalDeltaLimitUsd:          "global_delta_limit_usd",
	ParamMarginRejectOpens:            "margin_reject_opens",
	ParamMarginReduceOnly:             "margin_reduceonly",
	ParamMarginKill:                   "margin_kill",
	ParamExpiryDelistBufferS:          "expiry_delist_buffer_s",
	ParamFeeCacheSoftS:                "fee_cache_soft_s",
	ParamFeeCacheHardS:                "fee_cache_hard_s",
	ParamFeeCacheStaleBuffer:          "fee_cache_stale_buffer",
	ParamWalCapacity:                  "wal_capacity",
	ParamRegistryCapacity:             "registry_capacity",
}

func (p Param) String() string {
	if name, ok := paramNames[p]; ok {
		return name
	}
	return "unknown"
}

// MissingConfigError is returned when a param has neither an explicit
// value nor an Appendix-A default, or when the explicit value fails
// validation.
type MissingConfigError struct {
	Param  Param
	Reason string
}

func (e *MissingConfigError) Error() string {
	return "missing config " + e.Param.String() + ": " + e.Reason
}

// Resolve requires an explicit value to be finite and non-negative, else
// it's a validation failure (never silently clamped or defaulted past). A
// nil explicit value falls through to the Appendix-A
// default; a param with no default fails closed.
func Resolve(param Param, explicit *float64) (float64, error) {
	if explicit != nil {
		v := *explicit
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, &MissingConfigError{Param: param, Reason: "explicit value is non-finite"}
		}
		if v < 0 {
			return 0, &MissingConfigError{Param: param, Reason: "explicit value is negative"}
		}
		return v, nil
	}

	if def, ok := appendixADefaults[param]; ok {
		return def, nil
	}
	return 0, &MissingConfigError{Param: param, Reason: "no explicit value and no Appendix-A default"}
}

// HasDefault reports whether param has an Appendix-A default. Used by the
// fail-closed-coverage test: every enumerated Param must either have a
// default here or its consumer must document why Resolve is never called
// for it with a nil explicit value.
func HasDefault(param Param) bool {
	_, ok := appendixADefaults[param]
	return ok
}

// AllParams returns every enumerated Param, for exhaustive test iteration.
func AllParams() []Param {
	return []Param{
		ParamMinEdgeUsd,
		ParamMaxSlippageBps,
		ParamSnapshotMaxAgeMs,
		ParamInventorySkewK,
		ParamInventorySkewTickPenaltyMax,
		ParamGlobalDeltaLimitUsd,
		ParamMarginRejectOpens,
		ParamMarginReduceOnly,
		ParamMarginKill,
		ParamExpiryDelistBufferS,
		ParamFeeCacheSoftS,
		ParamFeeCacheHardS,
		ParamFeeCacheStaleBuffer,
		ParamWalCapacity,
		ParamRegistryCapacity,
	}
}
