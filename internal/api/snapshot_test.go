package api

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/speelbreaker12/opus-trader-sub000/internal/config"
	"github.com/speelbreaker12/opus-trader-sub000/internal/soldier/ledger"
	"github.com/speelbreaker12/opus-trader-sub000/internal/supervisor"
	"github.com/speelbreaker12/opus-trader-sub000/pkg/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// stubProvider is a fixed-response SnapshotProvider double.
type stubProvider struct {
	snapshot supervisor.Snapshot
	subCh    chan supervisor.Decision
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		snapshot: supervisor.Snapshot{
			Timestamp: time.Now(),
			RiskState: types.RiskHealthy,
			LedgerLen: 1,
			LedgerTail: []ledger.IntentRecord{
				{
					IntentHash: "abc123",
					Instrument: "BTC-PERPETUAL",
					Side:       types.Buy,
					QtyQ:       1000,
					TlsState:   0,
				},
			},
			PendingExposureTotal: 500,
			ExposureBTC:          1000,
			RecentDecisions: []supervisor.Decision{
				{Approved: true, Instrument: "BTC-PERPETUAL", Side: types.Buy, Label: "lbl-1"},
			},
		},
		subCh: make(chan supervisor.Decision, 4),
	}
}

func (p *stubProvider) Snapshot(tail int) supervisor.Snapshot { return p.snapshot }

func (p *stubProvider) Subscribe(buffer int) (<-chan supervisor.Decision, func()) {
	return p.subCh, func() { close(p.subCh) }
}

func testAPIConfig() *config.Config {
	delta := 50000.0
	return &config.Config{
		DryRun: true,
		Venue:  config.VenueConfig{Instruments: []string{"BTC-PERPETUAL"}},
		Gates:  config.GateConfig{DeltaLimitUsd: &delta},
	}
}

func TestBuildSnapshotMapsFields(t *testing.T) {
	t.Parallel()
	provider := newStubProvider()
	cfg := testAPIConfig()

	dto := BuildSnapshot(provider, cfg)

	if dto.RiskState != "healthy" {
		t.Errorf("RiskState = %q, want healthy", dto.RiskState)
	}
	if dto.LedgerLen != 1 {
		t.Errorf("LedgerLen = %d, want 1", dto.LedgerLen)
	}
	if len(dto.LedgerTail) != 1 || dto.LedgerTail[0].IntentHash != "abc123" {
		t.Errorf("LedgerTail = %+v", dto.LedgerTail)
	}
	if dto.PendingExposureTotal != 500 {
		t.Errorf("PendingExposureTotal = %v, want 500", dto.PendingExposureTotal)
	}
	if len(dto.RecentDecisions) != 1 || dto.RecentDecisions[0].Label != "lbl-1" {
		t.Errorf("RecentDecisions = %+v", dto.RecentDecisions)
	}
	if !dto.Config.DryRun {
		t.Error("expected Config.DryRun to be true")
	}
	if dto.Config.DeltaLimitUsd != 50000 {
		t.Errorf("Config.DeltaLimitUsd = %v, want 50000", dto.Config.DeltaLimitUsd)
	}
}

func TestNewConfigSummaryFallsBackToAppendixADefaults(t *testing.T) {
	t.Parallel()
	cfg := testAPIConfig()

	summary := NewConfigSummary(cfg)

	if summary.MarginKill == 0 {
		t.Error("expected MarginKill to resolve to a non-zero Appendix-A default")
	}
}
