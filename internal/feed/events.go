package feed

// VenueEvent is the generic envelope every message on the upstream venue
// event feed carries, tagged by EventType so dispatchMessage can route it to
// the right typed channel without fully unmarshaling twice.
type VenueEvent struct {
	EventType string `json:"event_type"`
}

// AckEvent reports that a previously dispatched order has been acknowledged
// by the venue. Label carries the compact order label (internal/soldier/label)
// the supervisor uses to map this event back to its ledger record without a
// round trip through the full intent hash.
type AckEvent struct {
	EventType       string `json:"event_type"`
	Label           string `json:"label"`
	ExchangeOrderID string `json:"exchange_order_id"`
	Ts              uint64 `json:"ts"`
}

// FillEvent reports a partial or full fill. TradeID is the venue's own
// trade identifier, checked against the trade-ID idempotency registry
// before the fill is applied to the trade lifecycle state machine.
type FillEvent struct {
	EventType string  `json:"event_type"`
	TradeID   string  `json:"trade_id"`
	Label     string  `json:"label"`
	GroupID   string  `json:"group_id"`
	LegIdx    uint32  `json:"leg_idx"`
	Qty       float64 `json:"qty"`
	Price     float64 `json:"price"`
	Full      bool    `json:"full"`
	Ts        uint64  `json:"ts"`
}

// CancelEvent reports that an order has left the book via cancellation.
type CancelEvent struct {
	EventType string `json:"event_type"`
	Label     string `json:"label"`
	Ts        uint64 `json:"ts"`
}

// LifecycleErrorEvent reports a venue-side rejection or lifecycle error for
// an order already sent, classified by internal/soldier/risk.ClassifyLifecycleError
// upon receipt.
type LifecycleErrorEvent struct {
	EventType string `json:"event_type"`
	Label     string `json:"label"`
	ErrorCode string `json:"error_code"`
	WasCancel bool   `json:"was_cancel"`
	Ts        uint64 `json:"ts"`
}
