// Package idempotency computes the deterministic intent-hash used to
// deduplicate and label order intents.
package idempotency

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/speelbreaker12/opus-trader-sub000/pkg/types"
)

// IntentHashInput is the ordered tuple hashed into an IntentHash. Timestamps
// and any other non-deterministic field are deliberately excluded: two
// quantized intents with equal canonical fields must hash identically.
type IntentHashInput struct {
	InstrumentID string
	Side         types.Side
	QtyQ         float64
	LimitPriceQ  float64
	GroupID      string
	LegIdx       uint8
}

// ComputeIntentHash derives the 64-bit xxhash of the ordered tuple
// (instrument, side-code, qty_q bits, limit_price_q bits, group_id, leg_idx).
//
// The byte buffer is serialized in a fixed order so the hash is bit-stable
// across implementations: instrument_id as a length-prefixed string, a
// one-byte side code, the IEEE-754 bit patterns of qty_q and limit_price_q,
// group_id as a length-prefixed string, and a one-byte leg index.
func ComputeIntentHash(in IntentHashInput) uint64 {
	buf := make([]byte, 0, 64)
	buf = appendString(buf, in.InstrumentID)
	buf = append(buf, sideCode(in.Side))
	buf = appendF64Bits(buf, in.QtyQ)
	buf = appendF64Bits(buf, in.LimitPriceQ)
	buf = appendString(buf, in.GroupID)
	buf = append(buf, in.LegIdx)
	return xxhash.Sum64(buf)
}

// FormatIntentHash renders a hash as lowercase, zero-padded 16-char hex.
func FormatIntentHash(hash uint64) string {
	return fmt.Sprintf("%016x", hash)
}

// IntentHashIH16 returns the ih16 field used by the compact label codec:
// the leading 16 hex characters of the intent hash (the full width of a
// 64-bit hash rendered as hex, kept as its own name because the label codec
// truncates it independently of the full hash).
func IntentHashIH16(hash uint64) string {
	return FormatIntentHash(hash)
}

func sideCode(side types.Side) byte {
	if side == types.Sell {
		return 1
	}
	return 0
}

func appendString(buf []byte, s string) []byte {
	var lenBytes [4]byte
	binary.LittleEndian.PutUint32(lenBytes[:], uint32(len(s)))
	buf = append(buf, lenBytes[:]...)
	return append(buf, s...)
}

func appendF64Bits(buf []byte, v float64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	return append(buf, b[:]...)
}
