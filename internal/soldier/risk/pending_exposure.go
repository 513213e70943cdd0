package risk

import (
	"math"
	"sync"
)

// PendingExposureTerminalOutcome classifies how a reservation's lifecycle
// ended, for Settle accounting.
type PendingExposureTerminalOutcome int

const (
	OutcomeFilled PendingExposureTerminalOutcome = iota
	OutcomeRejected
	OutcomeCancelled
)

// PendingExposureReserveResult is the outcome of a Reserve call.
type PendingExposureReserveResult struct {
	Allowed       bool
	ReservationID uint64
}

// PendingExposureBook maintains signed pending_positive and pending_negative
// accumulators separately so a later opposite-side reserve does not free
// budget absorbed by an earlier same-side reserve (worst-case accounting).
// Its own mutex keeps concurrent OPEN evaluations from concurrent callers
// linearizable.
type PendingExposureBook struct {
	mu               sync.Mutex
	pendingPositive  float64
	pendingNegative  float64
	nextReservationID uint64
	reservations     map[uint64]float64 // id -> delta_impact_est
}

// NewPendingExposureBook creates an empty pending-exposure book.
func NewPendingExposureBook() *PendingExposureBook {
	return &PendingExposureBook{reservations: make(map[uint64]float64)}
}

// Reserve attempts to add delta_impact_est to the book without letting
// either worst-case side exceed |delta_limit|.
func (b *PendingExposureBook) Reserve(currentDelta, deltaImpactEst, deltaLimit float64) PendingExposureReserveResult {
	b.mu.Lock()
	defer b.mu.Unlock()

	limit := math.Abs(deltaLimit)
	if !isFiniteValue(deltaLimit) || deltaLimit == 0 || limit == 0 {
		return PendingExposureReserveResult{Allowed: false}
	}
	if !isFiniteValue(currentDelta) || !isFiniteValue(deltaImpactEst) {
		return PendingExposureReserveResult{Allowed: false}
	}

	projectedPositive := b.pendingPositive + math.Max(deltaImpactEst, 0)
	projectedNegative := b.pendingNegative + math.Min(deltaImpactEst, 0)

	if math.Abs(currentDelta+projectedPositive) > limit || math.Abs(currentDelta+projectedNegative) > limit {
		return PendingExposureReserveResult{Allowed: false}
	}

	if b.nextReservationID == math.MaxUint64 {
		return PendingExposureReserveResult{Allowed: false}
	}

	id := b.nextReservationID
	b.nextReservationID++
	b.reservations[id] = deltaImpactEst
	b.pendingPositive = projectedPositive
	b.pendingNegative = projectedNegative

	return PendingExposureReserveResult{Allowed: true, ReservationID: id}
}

// Settle removes id's contribution from the matching accumulator. The
// outcome parameter is currently unused: release logic is identical
// regardless of how the intent terminated.
func (b *PendingExposureBook) Settle(id uint64, outcome PendingExposureTerminalOutcome) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	impact, ok := b.reservations[id]
	if !ok {
		return false
	}
	delete(b.reservations, id)

	if impact > 0 {
		b.pendingPositive -= impact
	} else {
		b.pendingNegative -= impact
	}

	const snapTolerance = 1e-12
	if math.Abs(b.pendingPositive) < snapTolerance {
		b.pendingPositive = 0
	}
	if math.Abs(b.pendingNegative) < snapTolerance {
		b.pendingNegative = 0
	}

	return true
}

// PendingTotal returns the sum of both accumulators.
func (b *PendingExposureBook) PendingTotal() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pendingPositive + b.pendingNegative
}

func isFiniteValue(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
