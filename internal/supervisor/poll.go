package supervisor

import (
	"context"
	"time"
)

// pollLoop refreshes every configured instrument's metadata and fee-tier
// snapshot on cfg.Venue.PollInterval.
func (s *Supervisor) pollLoop(ctx context.Context) {
	if s.fetcher == nil || len(s.cfg.Venue.Instruments) == 0 {
		return
	}

	s.refreshAll(ctx)

	ticker := time.NewTicker(s.cfg.Venue.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refreshAll(ctx)
		}
	}
}

func (s *Supervisor) refreshAll(ctx context.Context) {
	for _, instrumentID := range s.cfg.Venue.Instruments {
		s.refreshInstrument(ctx, instrumentID)
	}
}

func (s *Supervisor) refreshInstrument(ctx context.Context, instrumentID string) {
	now := time.Now()

	snap, err := s.fetcher.FetchInstrument(ctx, instrumentID)
	if err != nil {
		s.logger.Warn("fetch instrument failed, keeping last-known metadata", "instrument", instrumentID, "error", err)
	} else {
		s.instruments.Put(instrumentID, snap, now)
	}

	fee, err := s.fetcher.FetchFeeRate(ctx, instrumentID)
	if err != nil {
		s.logger.Warn("fetch fee rate failed, keeping last-known fee cache", "instrument", instrumentID, "error", err)
		return
	}
	s.feeMu.Lock()
	s.feeCache[instrumentID] = feeCacheEntry{snapshot: fee, cachedAtMs: uint64(now.UnixMilli())}
	s.feeMu.Unlock()
}
