package supervisor

import (
	"sync"

	"github.com/speelbreaker12/opus-trader-sub000/internal/soldier/risk"
)

// exposureBook mirrors this account's current realized delta per
// correlation bucket. exposureBook holds one signed USD delta per
// risk.ExposureBucket across every instrument the supervisor trades, the
// shape risk.EvaluateGlobalExposureBudget needs.
type exposureBook struct {
	mu   sync.RWMutex
	btc  float64
	eth  float64
	alts float64
}

func newExposureBook() *exposureBook {
	return &exposureBook{}
}

// ApplyFill adjusts the bucket's current delta after a fill settles. signedDelta
// is positive for a fill that increases long exposure in the bucket, negative
// for one that reduces it.
func (b *exposureBook) ApplyFill(bucket risk.ExposureBucket, signedDelta float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch bucket {
	case risk.BucketBTC:
		b.btc += signedDelta
	case risk.BucketETH:
		b.eth += signedDelta
	case risk.BucketAlts:
		b.alts += signedDelta
	}
}

// Snapshot returns the current per-bucket deltas for use as the "current"
// half of an ExposureBudgetInput; the "pending" half comes from the
// pending-exposure book.
func (b *exposureBook) Snapshot() (btc, eth, alts float64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.btc, b.eth, b.alts
}
