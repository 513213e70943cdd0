// Package ledger implements the intent write-ahead log: the sole durable
// record of intents and their trade-lifecycle transitions. It is a bounded,
// append-only, in-memory-indexed log with optional JSONL durability.
package ledger

import (
	"github.com/speelbreaker12/opus-trader-sub000/internal/soldier/execution"
	"github.com/speelbreaker12/opus-trader-sub000/pkg/types"
)

// IntentRecord is the durable unit the ledger owns exclusively. It is
// created by Append and mutated only by UpdateState, which must obey the
// TLSM's valid-successor whitelist.
type IntentRecord struct {
	IntentHash      string
	GroupID         string
	LegIdx          uint32
	Instrument      string
	Side            types.Side
	QtyQ            float64
	LimitPriceQ     float64
	TlsState        execution.TlsState
	CreatedTs       uint64
	SentTs          uint64
	AckTs           uint64
	LastFillTs      uint64
	ExchangeOrderID *string
	LastTradeID     *string
}

// WasSent reports whether the record has left the Created state, either via
// an explicit sent timestamp or because its tls_state has already advanced.
func (r IntentRecord) WasSent() bool {
	return r.SentTs > 0 || r.TlsState != execution.Created
}
