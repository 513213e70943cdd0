// Package label encodes and decodes the compact order label sent to the
// venue alongside every dispatched order:
//
//	s4:<sid8>:<gid12>:<leg>:<ih16>
//
// The label exists so a venue-reported fill/ack can be mapped back to the
// local intent set without a round trip through the full intent hash. It is
// deliberately short — venues cap client-order-id length well below 64
// characters on most instruments — and deterministic: the same quantized
// intent always encodes to the same label.
package label

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

const (
	prefix        = "s4"
	maxLabelLen   = 64
	fullSidLen    = 8
	fullGidLen    = 12
	fullIhLen     = 16
	fieldSeparator = ":"
)

// Metrics aggregates label-codec observability counters. Observability
// only; never consulted by a decision.
type Metrics struct {
	LabelTruncatedTotal atomic.Uint64
}

// Input bundles everything needed to encode a compact label.
type Input struct {
	StrategyID string
	GroupID    string
	LegIdx     uint32
	IntentHash uint64
}

// Encode renders the compact label for in, truncating sid8/ih16
// proportionally if the fixed fields (gid12, leg) leave too little budget
// under the 64-character cap. gid12 and leg are never truncated.
func Encode(in Input, m *Metrics) string {
	sidHash := xxhash.Sum64String(in.StrategyID)
	ihHash := in.IntentHash

	gid12 := stripDashes(in.GroupID)
	if len(gid12) > fullGidLen {
		gid12 = gid12[:fullGidLen]
	}
	legStr := strconv.FormatUint(uint64(in.LegIdx), 10)

	sidFull := fmt.Sprintf("%016x", sidHash)
	ihFull := fmt.Sprintf("%016x", ihHash)

	fixedLen := len(prefix) + 4*len(fieldSeparator) + len(gid12) + len(legStr)
	budget := maxLabelLen - fixedLen

	sidLen, ihLen := fullSidLen, fullIhLen
	if budget < fullSidLen+fullIhLen {
		truncated := true
		if budget <= 0 {
			sidLen, ihLen = 0, 0
		} else {
			sidLen = budget * fullSidLen / (fullSidLen + fullIhLen)
			ihLen = budget - sidLen
		}
		if truncated && m != nil {
			m.LabelTruncatedTotal.Add(1)
		}
	}

	sid8 := sidFull[:sidLen]
	ih16 := ihFull[:ihLen]

	return strings.Join([]string{prefix, sid8, gid12, legStr, ih16}, fieldSeparator)
}

func stripDashes(s string) string {
	return strings.ReplaceAll(s, "-", "")
}

// Decoded is the parsed shape of a compact label.
type Decoded struct {
	Sid8   string
	Gid12  string
	LegIdx uint32
	Ih16   string
}

// Decode parses a label back into its five fields. It accepts only the
// exact "s4:<sid8>:<gid12>:<leg>:<ih16>" shape; any other number of
// colon-separated fields or a non-"s4" prefix is rejected.
func Decode(s string) (Decoded, bool) {
	parts := strings.Split(s, fieldSeparator)
	if len(parts) != 5 {
		return Decoded{}, false
	}
	if parts[0] != prefix {
		return Decoded{}, false
	}
	leg, err := strconv.ParseUint(parts[3], 10, 32)
	if err != nil {
		return Decoded{}, false
	}
	return Decoded{
		Sid8:   parts[1],
		Gid12:  parts[2],
		LegIdx: uint32(leg),
		Ih16:   parts[4],
	}, true
}
