// Package venue holds the upstream collaborators the pre-dispatch core
// consumes snapshots from: instrument-kind derivation and the TTL
// instrument cache.
// Nothing here performs I/O; the fetch/poll loop that produces these
// snapshots lives in internal/venueclient.
package venue

import "github.com/speelbreaker12/opus-trader-sub000/pkg/types"

// RawInstrumentMeta is the venue-reported shape the instrument-kind
// deriver classifies. Field names follow the Deribit instrument metadata
// vocabulary (kind, is_perpetual-via-expiration, inverse-via-settlement).
type RawInstrumentMeta struct {
	// Kind is the venue's own instrument-type tag, e.g. "option", "future".
	Kind string
	// IsPerpetual is true when the instrument has no expiration (Deribit
	// omits expiration_timestamp for perpetuals).
	IsPerpetual bool
	// IsInverse is true when the contract settles in the base currency
	// (coin-margined) rather than the quote currency (USD-margined).
	IsInverse bool
}

// DeriveInstrumentKind classifies venue metadata into one of the four
// instrument kinds the core's canonical sizing unit depends on:
// Option and LinearFuture size in coin-quantity; Perpetual and
// InverseFuture size in USD-quantity.
func DeriveInstrumentKind(meta RawInstrumentMeta) types.InstrumentKind {
	switch {
	case meta.Kind == "option":
		return types.InstrumentOption
	case meta.IsPerpetual:
		return types.InstrumentPerpetual
	case meta.IsInverse:
		return types.InstrumentInverseFuture
	default:
		return types.InstrumentLinearFuture
	}
}
