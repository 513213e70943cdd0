// Package execution implements the pre-dispatch gate chain: preflight,
// quantize, dispatch-map, liquidity, net-edge, pricer, inventory skew, and
// the chokepoint that sequences them into an approve/reject decision.
package execution

// RejectReasonCode is the fixed enumerated registry of pre-dispatch
// rejection reasons. Every pre-dispatch rejection surfaces one of these
// tokens; gates emit the code directly at the gate boundary rather than a
// free-text string that is reparsed later.
type RejectReasonCode int

const (
	RejectReasonNone RejectReasonCode = iota

	// Quantize / dispatch-map.
	RejectInstrumentMetadataMissing
	RejectTooSmallAfterQuantization
	RejectUnitMismatch

	// Preflight.
	RejectOrderTypeMarketForbidden
	RejectOrderTypeStopForbidden
	RejectLinkedOrderTypeForbidden
	RejectPostOnlyWouldCross

	// Liquidity.
	RejectLiquidityGateNoL2
	RejectExpectedSlippageTooHigh
	RejectInsufficientDepthWithinBudget

	// Net-edge.
	RejectNetEdgeInputMissing
	RejectNetEdgeTooLow

	// Pricer.
	RejectInvalidInput

	// Inventory skew.
	RejectInventorySkewReject
	RejectInventorySkewDeltaLimitMissing

	// Exposure.
	RejectPendingExposureBudgetExceeded
	RejectGlobalExposureBudgetExceeded

	// Liquidity-reason overrides from the OPEN runtime wiring: surfaced
	// verbatim, not reparsed.
	RejectPendingExposureOverfill
	RejectGlobalExposureBudgetReject

	// Margin.
	RejectMarginHeadroomRejectOpens

	// Lifecycle.
	RejectInstrumentExpiredOrDelisted

	// Chokepoint.
	RejectRiskStateNotHealthy
	RejectGateRejected

	// Ledger.
	RejectWalQueueFull

	// Registry / label.
	RejectRegistryCapacityFull
	RejectLabelTooLong

	// Supplemented from original_source/execution/reject_reason.rs; not named
	// by the closed-form spec list but present in the registry as a superset
	// member. Not wired to any new gate (no new decision logic is introduced).
	RejectChurnBreakerActive
	RejectEmergencyCloseNoPrice
	RejectRiskIncreasingCancelReplaceForbidden
	RejectRateLimitBrownout
	RejectFeedbackLoopGuardActive
)

var rejectReasonNames = map[RejectReasonCode]string{
	RejectReasonNone:                            "none",
	RejectInstrumentMetadataMissing:             "InstrumentMetadataMissing",
	RejectTooSmallAfterQuantization:              "TooSmallAfterQuantization",
	RejectUnitMismatch:                           "UnitMismatch",
	RejectOrderTypeMarketForbidden:               "OrderTypeMarketForbidden",
	RejectOrderTypeStopForbidden:                 "OrderTypeStopForbidden",
	RejectLinkedOrderTypeForbidden:               "LinkedOrderTypeForbidden",
	RejectPostOnlyWouldCross:                     "PostOnlyWouldCross",
	RejectLiquidityGateNoL2:                      "LiquidityGateNoL2",
	RejectExpectedSlippageTooHigh:                "ExpectedSlippageTooHigh",
	RejectInsufficientDepthWithinBudget:          "InsufficientDepthWithinBudget",
	RejectNetEdgeInputMissing:                    "NetEdgeInputMissing",
	RejectNetEdgeTooLow:                          "NetEdgeTooLow",
	RejectInvalidInput:                           "InvalidInput",
	RejectInventorySkewReject:                    "InventorySkewReject",
	RejectInventorySkewDeltaLimitMissing:         "InventorySkewDeltaLimitMissing",
	RejectPendingExposureBudgetExceeded:          "PendingExposureBudgetExceeded",
	RejectGlobalExposureBudgetExceeded:           "GlobalExposureBudgetExceeded",
	RejectPendingExposureOverfill:                OverridePendingExposureOverfill,
	RejectGlobalExposureBudgetReject:             OverrideGlobalExposureBudgetReject,
	RejectMarginHeadroomRejectOpens:              "MarginHeadroomRejectOpens",
	RejectInstrumentExpiredOrDelisted:            "InstrumentExpiredOrDelisted",
	RejectRiskStateNotHealthy:                    "RiskStateNotHealthy",
	RejectGateRejected:                           "GateRejected",
	RejectWalQueueFull:                           "QueueFull",
	RejectRegistryCapacityFull:                   "CapacityFull",
	RejectLabelTooLong:                           "LabelTooLong",
	RejectChurnBreakerActive:                     "ChurnBreakerActive",
	RejectEmergencyCloseNoPrice:                  "EmergencyCloseNoPrice",
	RejectRiskIncreasingCancelReplaceForbidden:    "RiskIncreasingCancelReplaceForbidden",
	RejectRateLimitBrownout:                      "RateLimitBrownout",
	RejectFeedbackLoopGuardActive:                "FeedbackLoopGuardActive",
}

func (c RejectReasonCode) String() string {
	if name, ok := rejectReasonNames[c]; ok {
		return name
	}
	return "unknown"
}

// Override reason wording surfaced verbatim per design note §9.2.
const (
	OverridePendingExposureOverfill  = "PENDING_EXPOSURE_OVERFILL"
	OverrideGlobalExposureBudgetReject = "GLOBAL_EXPOSURE_BUDGET_REJECT"
)
