package label

import (
	"math"
	"sync/atomic"

	"github.com/speelbreaker12/opus-trader-sub000/pkg/types"
)

// MatchMetrics aggregates label-match disambiguation counters.
type MatchMetrics struct {
	LabelMatchAmbiguityTotal atomic.Uint64
}

// Candidate is the subset of a local intent record the disambiguator
// filters and tie-breaks against.
type Candidate struct {
	ID         string // opaque local identifier, e.g. intent_hash string
	Gid12      string
	LegIdx     uint32
	Ih16       string
	Instrument string
	Side       types.Side
	QtyQ       float64
}

// MatchOutcome classifies the result of resolving a decoded label against
// the local intent set.
type MatchOutcome int

const (
	MatchNone MatchOutcome = iota
	MatchSingle
	MatchAmbiguous
)

// MatchResult is the outcome of Resolve.
type MatchResult struct {
	Outcome   MatchOutcome
	Matched   Candidate // valid only when Outcome == MatchSingle
	Remaining []Candidate
	RiskState types.RiskState // set to Degraded only on MatchAmbiguous
}

const qtyTolerance = 1e-9

// Resolve filters the local intent set by (gid12, leg_idx), then applies
// fixed-order tie-breakers — ih16, instrument, side, qty_q — narrowing the
// candidate set one predicate at a time and stopping as soon as exactly one
// candidate remains.
func Resolve(decoded Decoded, instrument string, side types.Side, qtyQ float64, candidates []Candidate, m *MatchMetrics) MatchResult {
	filtered := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Gid12 == decoded.Gid12 && c.LegIdx == decoded.LegIdx {
			filtered = append(filtered, c)
		}
	}

	switch len(filtered) {
	case 0:
		return MatchResult{Outcome: MatchNone}
	case 1:
		return MatchResult{Outcome: MatchSingle, Matched: filtered[0]}
	}

	tieBreakers := []func(Candidate) bool{
		func(c Candidate) bool { return c.Ih16 == decoded.Ih16 },
		func(c Candidate) bool { return c.Instrument == instrument },
		func(c Candidate) bool { return c.Side == side },
		func(c Candidate) bool { return math.Abs(c.QtyQ-qtyQ) <= qtyTolerance },
	}

	for _, predicate := range tieBreakers {
		narrowed := narrow(filtered, predicate)
		if len(narrowed) >= 1 {
			filtered = narrowed
		}
		if len(filtered) == 1 {
			return MatchResult{Outcome: MatchSingle, Matched: filtered[0]}
		}
	}

	if m != nil {
		m.LabelMatchAmbiguityTotal.Add(1)
	}
	return MatchResult{Outcome: MatchAmbiguous, Remaining: filtered, RiskState: types.RiskDegraded}
}

func narrow(in []Candidate, predicate func(Candidate) bool) []Candidate {
	out := make([]Candidate, 0, len(in))
	for _, c := range in {
		if predicate(c) {
			out = append(out, c)
		}
	}
	return out
}
