package ledger

import (
	"encoding/json"

	"github.com/speelbreaker12/opus-trader-sub000/internal/soldier/execution"
	"github.com/speelbreaker12/opus-trader-sub000/pkg/types"
)

func sideByName(s string) (types.Side, bool) {
	switch s {
	case types.Buy.String():
		return types.Buy, true
	case types.Sell.String():
		return types.Sell, true
	default:
		return types.Side(0), false
	}
}

// wireRecord is the JSONL-serializable shape of IntentRecord. Kept separate
// from IntentRecord so the in-memory type can use execution.TlsState
// directly while the wire format stores its string rendering.
type wireRecord struct {
	IntentHash      string  `json:"intent_hash"`
	GroupID         string  `json:"group_id"`
	LegIdx          uint32  `json:"leg_idx"`
	Instrument      string  `json:"instrument"`
	Side            string  `json:"side"`
	QtyQ            float64 `json:"qty_q"`
	LimitPriceQ     float64 `json:"limit_price_q"`
	TlsState        string  `json:"tls_state"`
	CreatedTs       uint64  `json:"created_ts"`
	SentTs          uint64  `json:"sent_ts"`
	AckTs           uint64  `json:"ack_ts"`
	LastFillTs      uint64  `json:"last_fill_ts"`
	ExchangeOrderID *string `json:"exchange_order_id,omitempty"`
	LastTradeID     *string `json:"last_trade_id,omitempty"`
}

func encodeRecord(rec IntentRecord) string {
	w := wireRecord{
		IntentHash:      rec.IntentHash,
		GroupID:         rec.GroupID,
		LegIdx:          rec.LegIdx,
		Instrument:      rec.Instrument,
		Side:            rec.Side.String(),
		QtyQ:            rec.QtyQ,
		LimitPriceQ:     rec.LimitPriceQ,
		TlsState:        rec.TlsState.String(),
		CreatedTs:       rec.CreatedTs,
		SentTs:          rec.SentTs,
		AckTs:           rec.AckTs,
		LastFillTs:      rec.LastFillTs,
		ExchangeOrderID: rec.ExchangeOrderID,
		LastTradeID:     rec.LastTradeID,
	}
	b, err := json.Marshal(w)
	if err != nil {
		// json.Marshal on this struct shape cannot fail: every field is a
		// plain string/number/pointer-to-string.
		panic("ledger: unreachable marshal error: " + err.Error())
	}
	return string(b)
}

var tlsStateByName = map[string]execution.TlsState{
	execution.Created.String():          execution.Created,
	execution.Sent.String():              execution.Sent,
	execution.Acked.String():             execution.Acked,
	execution.PartiallyFilled.String():   execution.PartiallyFilled,
	execution.Filled.String():            execution.Filled,
	execution.Cancelled.String():         execution.Cancelled,
	execution.Failed.String():            execution.Failed,
}

// decodeRecord parses one JSONL line back into an IntentRecord. Malformed
// lines (bad JSON, or a tls_state not in the known set) are rejected.
func decodeRecord(line string) (IntentRecord, bool) {
	var w wireRecord
	if err := json.Unmarshal([]byte(line), &w); err != nil {
		return IntentRecord{}, false
	}
	state, ok := tlsStateByName[w.TlsState]
	if !ok {
		return IntentRecord{}, false
	}
	var side, sideOk = sideByName(w.Side)
	if !sideOk {
		return IntentRecord{}, false
	}
	return IntentRecord{
		IntentHash:      w.IntentHash,
		GroupID:         w.GroupID,
		LegIdx:          w.LegIdx,
		Instrument:      w.Instrument,
		Side:            side,
		QtyQ:            w.QtyQ,
		LimitPriceQ:     w.LimitPriceQ,
		TlsState:        state,
		CreatedTs:       w.CreatedTs,
		SentTs:          w.SentTs,
		AckTs:           w.AckTs,
		LastFillTs:      w.LastFillTs,
		ExchangeOrderID: w.ExchangeOrderID,
		LastTradeID:     w.LastTradeID,
	}, true
}
