package label

import (
	"strings"
	"testing"
)

func TestEncodeWithinBudget(t *testing.T) {
	t.Parallel()

	cases := []Input{
		{StrategyID: "avellaneda-1", GroupID: "abc-123-def-456", LegIdx: 0, IntentHash: 0x1},
		{StrategyID: "s", GroupID: "g", LegIdx: 4294967295, IntentHash: 0xFFFFFFFFFFFFFFFF},
		{StrategyID: "", GroupID: "", LegIdx: 1, IntentHash: 0},
	}
	for _, in := range cases {
		var m Metrics
		got := Encode(in, &m)
		if len(got) > maxLabelLen {
			t.Errorf("Encode(%+v) = %q, len %d exceeds %d", in, got, len(got), maxLabelLen)
		}
		if !strings.HasPrefix(got, prefix+fieldSeparator) {
			t.Errorf("Encode(%+v) = %q, missing prefix", in, got)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	t.Parallel()
	in := Input{StrategyID: "strat", GroupID: "group-1", LegIdx: 2, IntentHash: 0xdeadbeef}
	var m Metrics
	first := Encode(in, &m)
	for i := 0; i < 5; i++ {
		if got := Encode(in, &m); got != first {
			t.Fatalf("encoding not deterministic: %q vs %q", got, first)
		}
	}
}

func TestEncodeStripsDashesAndCapsGid12(t *testing.T) {
	t.Parallel()
	in := Input{StrategyID: "s", GroupID: "aaaa-bbbb-cccc-dddd", LegIdx: 0, IntentHash: 1}
	got := Encode(in, nil)
	decoded, ok := Decode(got)
	if !ok {
		t.Fatalf("Decode(%q) failed", got)
	}
	if strings.Contains(decoded.Gid12, "-") {
		t.Errorf("gid12 %q contains dashes", decoded.Gid12)
	}
	if len(decoded.Gid12) > fullGidLen {
		t.Errorf("gid12 %q exceeds %d chars", decoded.Gid12, fullGidLen)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	t.Parallel()
	in := Input{StrategyID: "strat-7", GroupID: "group-42", LegIdx: 3, IntentHash: 0xabc123}
	encoded := Encode(in, nil)
	decoded, ok := Decode(encoded)
	if !ok {
		t.Fatalf("Decode(%q) failed", encoded)
	}
	if decoded.LegIdx != 3 {
		t.Errorf("LegIdx = %d, want 3", decoded.LegIdx)
	}
	if decoded.Gid12 != "group42" {
		t.Errorf("Gid12 = %q, want %q", decoded.Gid12, "group42")
	}
}

func TestDecodeRejectsWrongShape(t *testing.T) {
	t.Parallel()
	cases := []string{
		"",
		"s4:a:b:c",
		"s4:a:b:c:d:e",
		"wrongprefix:a:b:0:c",
		"s4:a:b:notanumber:c",
	}
	for _, s := range cases {
		if _, ok := Decode(s); ok {
			t.Errorf("Decode(%q) unexpectedly succeeded", s)
		}
	}
}

func TestEncodeWorstCaseInputDoesNotTruncate(t *testing.T) {
	t.Parallel()
	// Budget is never actually exhausted given gid12<=12 and a uint32 leg
	// (<=10 digits): fixed overhead tops out at 2+4+12+10=28, leaving 36
	// for sid8+ih16 (24 needed). Truncation is defensive and unreachable
	// under real inputs; this asserts the counter stays at zero for the
	// worst-case shape rather than asserting truncation fires.
	in := Input{
		StrategyID: "s",
		GroupID:    "abcdefghijklmnop",
		LegIdx:     4294967295,
		IntentHash: 1,
	}
	var m Metrics
	got := Encode(in, &m)
	if len(got) > maxLabelLen {
		t.Errorf("label %q exceeds %d chars", got, maxLabelLen)
	}
	if m.LabelTruncatedTotal.Load() != 0 {
		t.Errorf("unexpected truncation for worst-case-bounded input")
	}
}
