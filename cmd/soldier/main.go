// Soldier runs the pre-dispatch decision core: it evaluates candidate
// intents against the gate chain and durably records every decision before
// a caller may act on it. It never decides what to trade.
//
// Architecture:
//
//	main.go                    — entry point: loads config, starts the supervisor, waits for SIGINT/SIGTERM
//	internal/supervisor        — orchestrator: owns the venue cache, WAL ledger, registry, exposure book; evaluates intents
//	internal/soldier/execution — the gate chain and trade lifecycle state machine
//	internal/soldier/risk      — margin, exposure-budget, fee-staleness, expiry-guard gates
//	internal/soldier/ledger    — the intent write-ahead log
//	internal/soldier/registry  — trade-ID idempotency
//	internal/venueclient       — venue REST metadata/fee-rate client
//	internal/feed              — venue event stream (acks, fills, cancels, lifecycle errors)
//	internal/api               — read-only dashboard API (/health, /snapshot, /stream)
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/speelbreaker12/opus-trader-sub000/internal/api"
	"github.com/speelbreaker12/opus-trader-sub000/internal/config"
	"github.com/speelbreaker12/opus-trader-sub000/internal/feed"
	"github.com/speelbreaker12/opus-trader-sub000/internal/supervisor"
	"github.com/speelbreaker12/opus-trader-sub000/internal/venueclient"
)

func main() {
	cfgPath := "configs/config.yaml"
	if p := os.Getenv("SOLDIER_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("failed to load config", "error", err, "path", cfgPath)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Logging.Level)}
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)

	fetcher := venueFetcher(cfg, logger)
	source := venueSource(cfg, logger)

	sup, err := supervisor.New(cfg, fetcher, source, logger)
	if err != nil {
		logger.Error("failed to create supervisor", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())

	var apiServer *api.Server
	if cfg.Dashboard.Enabled {
		apiServer = api.NewServer(cfg, sup, logger)
		go func() {
			if err := apiServer.Start(); err != nil {
				logger.Error("dashboard server failed", "error", err)
			}
		}()
		logger.Info("dashboard started", "url", fmt.Sprintf("http://localhost:%d", cfg.Dashboard.Port))
	}

	runDone := make(chan error, 1)
	go func() {
		runDone <- sup.Run(ctx)
	}()

	if cfg.DryRun {
		logger.Warn("DRY-RUN MODE — decisions are evaluated and ledgered, no dispatch authority is granted to callers")
	}

	replay := sup.Replay()
	logger.Info("soldier started",
		"instruments", cfg.Venue.Instruments,
		"dry_run", cfg.DryRun,
		"ledger_records_replayed", replay.RecordsReplayed,
		"ledger_in_flight", replay.InFlightCount,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("received shutdown signal", "signal", sig.String())

	if apiServer != nil {
		if err := apiServer.Stop(); err != nil {
			logger.Error("failed to stop dashboard", "error", err)
		}
	}

	cancel()
	<-runDone
}

// venueFetcher wires a live RESTClient when an operator supplies a base
// URL, else an empty StaticFetcher — the no-live-networking default.
func venueFetcher(cfg *config.Config, logger *slog.Logger) venueclient.Fetcher {
	return venueclient.NewRESTClient(venueclient.Config{BaseURL: cfg.Venue.RESTBaseURL}, logger)
}

// venueSource wires a live Feed when an operator supplies a feed URL, else
// a SimulatedSource that never emits anything — the no-live-networking
// default.
func venueSource(cfg *config.Config, logger *slog.Logger) feed.EventSource {
	if cfg.Venue.FeedURL == "" {
		return feed.NewSimulatedSource()
	}
	return feed.New(cfg.Venue.FeedURL, logger)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
