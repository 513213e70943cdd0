// Package types holds the shared vocabulary of the pre-dispatch decision
// core: the value objects that flow between the strategy signal generator,
// the venue metadata cache, the gate chain, and the durable ledger. It has
// no dependencies on internal packages, so it can be imported by any layer.
//
// Everything here is a plain value type. No entity in this package performs
// I/O or owns a mutex; ownership of mutable state lives in the packages that
// consume these values (ledger, registry, pending-exposure book).
package types

// ————————————————————————————————————————————————————————————————————————
// Core enums
// ————————————————————————————————————————————————————————————————————————

// Side is the order side.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Sell {
		return "sell"
	}
	return "buy"
}

// IntentClass classifies an order intent for gate eligibility.
type IntentClass int

const (
	// Open is risk-increasing: requires all gates.
	Open IntentClass = iota
	// Close is risk-reducing order placement.
	Close
	// Hedge intents behave like Close for gate eligibility.
	Hedge
	// CancelOnly intents always pass; no L2 needed.
	CancelOnly
)

func (c IntentClass) String() string {
	switch c {
	case Open:
		return "open"
	case Close:
		return "close"
	case Hedge:
		return "hedge"
	case CancelOnly:
		return "cancel_only"
	default:
		return "unknown"
	}
}

// InstrumentKind is derived from venue metadata and determines canonical
// sizing units (qty_coin vs qty_usd) for order dispatch.
//
// Option | LinearFuture -> canonical qty_coin.
// Perpetual | InverseFuture -> canonical qty_usd.
type InstrumentKind int

const (
	InstrumentOption InstrumentKind = iota
	InstrumentLinearFuture
	InstrumentInverseFuture
	InstrumentPerpetual
)

func (k InstrumentKind) String() string {
	switch k {
	case InstrumentOption:
		return "option"
	case InstrumentLinearFuture:
		return "linear_future"
	case InstrumentInverseFuture:
		return "inverse_future"
	case InstrumentPerpetual:
		return "perpetual"
	default:
		return "unknown"
	}
}

// OrderType as submitted by the strategy intent.
type OrderType int

const (
	OrderLimit OrderType = iota
	OrderMarket
	OrderStopMarket
	OrderStopLimit
)

// RiskState is the coarse four-way system health signal consumed by the
// dispatch-authorization gate.
type RiskState int

const (
	RiskHealthy RiskState = iota
	RiskDegraded
	RiskMaintenance
	RiskKill
)

func (r RiskState) String() string {
	switch r {
	case RiskHealthy:
		return "healthy"
	case RiskDegraded:
		return "degraded"
	case RiskMaintenance:
		return "maintenance"
	case RiskKill:
		return "kill"
	default:
		return "unknown"
	}
}

// InstrumentState is the lifecycle state of a venue instrument.
type InstrumentState int

const (
	InstrumentActive InstrumentState = iota
	InstrumentExpiredOrDelisted
)

// ————————————————————————————————————————————————————————————————————————
// Intent and quantization
// ————————————————————————————————————————————————————————————————————————

// Intent is a prospective order as produced by the strategy signal
// generator. It is immutable after creation; it becomes an order only after
// chokepoint approval and ledger recording.
type Intent struct {
	InstrumentID   string
	Side           Side
	InstrumentKind InstrumentKind
	QtyCoin        *float64
	QtyUSD         *float64
	Contracts      *int64
	RawLimitPrice  float64
	GroupID        string
	LegIdx         uint32
	IntentClass    IntentClass
	StrategyID     string
}

// InstrumentQuantization is the venue metadata needed by Quantize.
type InstrumentQuantization struct {
	TickSize   float64
	AmountStep float64
	MinAmount  float64
}

// QuantizedIntent holds size/price rounded to venue steps. QtySteps and
// PriceTicks are integer step counts, preserved alongside the float values
// so intent-hash derivation can operate on exact bit patterns.
type QuantizedIntent struct {
	QtyQ        float64
	LimitPriceQ float64
	QtySteps    int64
	PriceTicks  int64
}

// ————————————————————————————————————————————————————————————————————————
// Venue capabilities
// ————————————————————————————————————————————————————————————————————————

// VenueCapabilities reflects what the venue actually supports, independent
// of what the bot is configured to use.
type VenueCapabilities struct {
	LinkedOrdersSupported bool
}

// DefaultVenueCapabilities is the fail-closed default: nothing advanced is
// supported.
func DefaultVenueCapabilities() VenueCapabilities {
	return VenueCapabilities{LinkedOrdersSupported: false}
}

// BotFeatureFlags are operator-controlled flags gating bot behavior,
// independent of venue capabilities.
type BotFeatureFlags struct {
	EnableLinkedOrders bool
}

// DefaultBotFeatureFlags is the fail-closed default.
func DefaultBotFeatureFlags() BotFeatureFlags {
	return BotFeatureFlags{EnableLinkedOrders: false}
}

// EvaluatedCapabilities is the intersection of venue support and bot
// configuration — what the preflight guard consumes.
type EvaluatedCapabilities struct {
	LinkedOrdersAllowed bool
}

// EvaluateCapabilities intersects venue support with feature flags.
// Deterministic and fail-closed: if either input is restrictive, the output
// is restrictive.
func EvaluateCapabilities(venue VenueCapabilities, flags BotFeatureFlags) EvaluatedCapabilities {
	return EvaluatedCapabilities{
		LinkedOrdersAllowed: venue.LinkedOrdersSupported && flags.EnableLinkedOrders,
	}
}

// ————————————————————————————————————————————————————————————————————————
// Order book
// ————————————————————————————————————————————————————————————————————————

// L2Level is a single price level in the L2 order book.
type L2Level struct {
	Price float64
	Qty   float64
}

// L2BookSnapshot is an L2 book snapshot with freshness metadata. Asks are
// sorted ascending by price; bids descending.
type L2BookSnapshot struct {
	Asks        []L2Level
	Bids        []L2Level
	TimestampMs uint64
}
