package ledger

import (
	"testing"

	"github.com/speelbreaker12/opus-trader-sub000/internal/soldier/execution"
	"github.com/speelbreaker12/opus-trader-sub000/pkg/types"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()
	orderID := "order-123"
	rec := IntentRecord{
		IntentHash:      "h1",
		GroupID:         "group-1",
		LegIdx:          2,
		Instrument:      "BTC-PERPETUAL",
		Side:            types.Sell,
		QtyQ:            1.5,
		LimitPriceQ:     99.5,
		TlsState:        execution.Acked,
		CreatedTs:       100,
		SentTs:          200,
		AckTs:           300,
		ExchangeOrderID: &orderID,
	}
	line := encodeRecord(rec)
	decoded, ok := decodeRecord(line)
	if !ok {
		t.Fatalf("decodeRecord(%q) failed", line)
	}
	if decoded != rec {
		if decoded.ExchangeOrderID == nil || rec.ExchangeOrderID == nil || *decoded.ExchangeOrderID != *rec.ExchangeOrderID {
			t.Errorf("round trip mismatch: got %+v, want %+v", decoded, rec)
		}
	}
}

func TestDecodeRecordRejectsUnknownTlsState(t *testing.T) {
	t.Parallel()
	line := `{"intent_hash":"h1","side":"buy","tls_state":"not_a_real_state"}`
	if _, ok := decodeRecord(line); ok {
		t.Error("decodeRecord accepted unknown tls_state")
	}
}

func TestDecodeRecordRejectsUnknownSide(t *testing.T) {
	t.Parallel()
	line := `{"intent_hash":"h1","side":"sideways","tls_state":"created"}`
	if _, ok := decodeRecord(line); ok {
		t.Error("decodeRecord accepted unknown side")
	}
}

func TestDecodeRecordRejectsMalformedJSON(t *testing.T) {
	t.Parallel()
	if _, ok := decodeRecord("not json"); ok {
		t.Error("decodeRecord accepted malformed JSON")
	}
}
