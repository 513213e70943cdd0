// Package supervisor is the central orchestrator of the pre-dispatch
// decision core: it owns every subsystem's lifecycle
// (venue metadata cache, WAL ledger, trade-ID registry, pending-exposure
// book, global-exposure mirror), accepts candidate intents, evaluates them
// through the gate chain, and reports decisions and venue events to an
// optional dashboard.
//
// Supervisor never decides what to trade — no signal evaluation happens
// here — it only decides whether an already-proposed intent is safe to
// dispatch and durably records that decision before the caller may act on
// it.
package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/speelbreaker12/opus-trader-sub000/internal/config"
	"github.com/speelbreaker12/opus-trader-sub000/internal/feed"
	"github.com/speelbreaker12/opus-trader-sub000/internal/soldier/execution"
	"github.com/speelbreaker12/opus-trader-sub000/internal/soldier/label"
	"github.com/speelbreaker12/opus-trader-sub000/internal/soldier/ledger"
	"github.com/speelbreaker12/opus-trader-sub000/internal/soldier/registry"
	"github.com/speelbreaker12/opus-trader-sub000/internal/soldier/risk"
	"github.com/speelbreaker12/opus-trader-sub000/internal/soldier/venue"
	"github.com/speelbreaker12/opus-trader-sub000/internal/venueclient"
	"github.com/speelbreaker12/opus-trader-sub000/pkg/types"
)

// feeCacheEntry is the last fee snapshot fetched for an instrument plus the
// instant it was fetched, the input risk.ClassifyFeeCacheStaleness needs.
type feeCacheEntry struct {
	snapshot  venueclient.FeeSnapshot
	cachedAtMs uint64
}

// Metrics aggregates every observability counter the supervisor's
// collaborators expose. All are monotonically non-decreasing and
// observability-only: nothing here is ever consulted by a decision.
type Metrics struct {
	Choke    execution.ChokeMetrics
	Ledger   ledger.Metrics
	Barrier  ledger.BarrierMetrics
	Registry registry.Metrics
	Label    label.Metrics
	Cache    venue.CacheMetrics
}

// Supervisor owns the lifecycle of every pre-dispatch collaborator and is
// the sole entrypoint candidate intents flow through.
type Supervisor struct {
	cfg    *config.Config
	th     thresholds
	logger *slog.Logger

	fetcher venueclient.Fetcher
	source  feed.EventSource

	instruments *venue.InstrumentCache[venueclient.InstrumentSnapshot]

	feeMu  sync.RWMutex
	feeCache map[string]feeCacheEntry

	ledger  *ledger.Ledger
	barrier *ledger.Barrier
	reg     *registry.Registry

	pendingBook *risk.PendingExposureBook
	exposure    *exposureBook

	riskMu    sync.RWMutex
	riskState types.RiskState

	metrics Metrics

	decisionsMu sync.Mutex
	decisions   []Decision
	maxHistory  int

	// labelIndex maps a dispatched compact label to the full intent-hash hex
	// key the ledger stores it under. Populated at Evaluate time, since
	// label.Decode alone cannot always recover the full hash once the ih16
	// field has been proportionally truncated.
	labelMu    sync.RWMutex
	labelIndex map[string]string

	subMu       sync.Mutex
	subscribers map[int]chan Decision
	nextSubID   int

	wg sync.WaitGroup
}

// New wires every collaborator from cfg. fetcher and source are injected
// rather than constructed internally so the default no-live-networking
// configuration (venueclient.StaticFetcher, feed.SimulatedSource) and a
// live configuration (venueclient.RESTClient, feed.Feed) share this exact
// same constructor.
func New(cfg *config.Config, fetcher venueclient.Fetcher, source feed.EventSource, logger *slog.Logger) (*Supervisor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	th, err := resolveThresholds(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve thresholds: %w", err)
	}

	var ledgerWriter ledger.DurableWriter
	var ledgerFile *ledger.FileWriter
	if cfg.Ledger.Path != "" {
		ledgerFile, err = ledger.OpenFileWriter(cfg.Ledger.Path)
		if err != nil {
			return nil, fmt.Errorf("open ledger file: %w", err)
		}
		ledgerWriter = ledgerFile
	}
	l := ledger.New(int(th.WalCapacity), ledgerWriter)

	var syncer ledger.Syncer
	if ledgerFile != nil {
		syncer = ledgerFile
	}
	barrier := ledger.NewBarrier(l, syncer)

	var reg *registry.Registry
	if cfg.Registry.Path != "" {
		regFile, err := ledger.OpenFileWriter(cfg.Registry.Path)
		if err != nil {
			return nil, fmt.Errorf("open registry file: %w", err)
		}
		reg, err = registry.LoadFromFile(cfg.Registry.Path, int(th.RegistryCapacity), regFile)
		if err != nil {
			return nil, fmt.Errorf("load registry: %w", err)
		}
	} else {
		reg = registry.New(int(th.RegistryCapacity), nil)
	}

	return &Supervisor{
		cfg:         cfg,
		th:          th,
		logger:      logger.With("component", "supervisor"),
		fetcher:     fetcher,
		source:      source,
		instruments: venue.NewInstrumentCache[venueclient.InstrumentSnapshot](cfg.Venue.InstrumentCacheTTL),
		feeCache:    make(map[string]feeCacheEntry),
		ledger:      l,
		barrier:     barrier,
		reg:         reg,
		pendingBook: risk.NewPendingExposureBook(),
		exposure:    newExposureBook(),
		riskState:   types.RiskHealthy,
		maxHistory:  256,
		labelIndex:  make(map[string]string),
		subscribers: make(map[int]chan Decision),
	}, nil
}

// Subscribe registers a new decision listener and returns a receive-only
// channel of every decision recorded from this point on, plus an
// unsubscribe function the caller must call exactly once when done (e.g.
// when an SSE client disconnects).
func (s *Supervisor) Subscribe(buffer int) (<-chan Decision, func()) {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	ch := make(chan Decision, buffer)
	s.subscribers[id] = ch
	s.subMu.Unlock()

	unsubscribe := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(c)
		}
	}
	return ch, unsubscribe
}

// broadcastDecision fans d out to every live subscriber, dropping it for a
// subscriber whose buffer is full rather than blocking the evaluation path.
func (s *Supervisor) broadcastDecision(d Decision) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- d:
		default:
			s.logger.Warn("decision stream subscriber backlogged, dropping")
		}
	}
}

func (s *Supervisor) rememberLabel(lbl, intentHash string) {
	s.labelMu.Lock()
	defer s.labelMu.Unlock()
	s.labelIndex[lbl] = intentHash
}

func (s *Supervisor) resolveLabel(lbl string) (string, bool) {
	s.labelMu.RLock()
	defer s.labelMu.RUnlock()
	hash, ok := s.labelIndex[lbl]
	return hash, ok
}

// RiskState returns the current risk-state mirror.
func (s *Supervisor) RiskState() types.RiskState {
	s.riskMu.RLock()
	defer s.riskMu.RUnlock()
	return s.riskState
}

// promoteRiskState never demotes the mirror below its current value.
func (s *Supervisor) promoteRiskState(candidate types.RiskState) {
	s.riskMu.Lock()
	defer s.riskMu.Unlock()
	s.riskState = risk.Promote(s.riskState, candidate)
}

// Run starts the venue-metadata poll loop and the venue-event dispatch
// loop, and blocks until ctx is cancelled.
func (s *Supervisor) Run(ctx context.Context) error {
	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.pollLoop(ctx)
	}()
	go func() {
		defer s.wg.Done()
		s.eventLoop(ctx)
	}()

	<-ctx.Done()
	s.wg.Wait()
	return ctx.Err()
}

// Metrics returns the supervisor's observability counters.
func (s *Supervisor) Metrics() *Metrics { return &s.metrics }

// Replay returns the WAL ledger's current replay summary, for startup
// recovery or dashboard display.
func (s *Supervisor) Replay() ledger.ReplayResult { return s.ledger.Replay() }

func nowMs() uint64 {
	return uint64(time.Now().UnixMilli())
}
