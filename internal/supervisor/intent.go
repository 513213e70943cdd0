package supervisor

import (
	"time"

	"github.com/speelbreaker12/opus-trader-sub000/internal/soldier/execution"
	"github.com/speelbreaker12/opus-trader-sub000/internal/soldier/idempotency"
	"github.com/speelbreaker12/opus-trader-sub000/internal/soldier/label"
	"github.com/speelbreaker12/opus-trader-sub000/internal/soldier/ledger"
	"github.com/speelbreaker12/opus-trader-sub000/internal/soldier/risk"
	"github.com/speelbreaker12/opus-trader-sub000/internal/soldier/runtime"
	"github.com/speelbreaker12/opus-trader-sub000/internal/venueclient"
	"github.com/speelbreaker12/opus-trader-sub000/pkg/types"
)

// IntentRequest bundles a candidate intent with everything the gate chain
// needs to evaluate it. The intent itself (what to trade, how much) is
// produced upstream by a signal generator outside this core's scope; every
// field here is a value the chain consumes directly, never re-derives.
type IntentRequest struct {
	Intent types.Intent

	// NowMs defaults to the wall clock if zero.
	NowMs uint64

	OrderType       types.OrderType
	HasTrigger      bool
	LinkedOrderType *string
	PostOnly        bool
	BestBid, BestAsk *float64

	FairPrice            float64
	GrossEdgeUsd         *float64
	ExpectedSlippageUsd  float64
	IsMarketable         bool
	Book                 *types.L2BookSnapshot

	CurrentDelta   float64
	DeltaImpactEst float64

	EquityUsd            float64
	MaintenanceMarginUsd float64

	Capabilities types.EvaluatedCapabilities
}

// Decision is the outcome of evaluating one IntentRequest.
type Decision struct {
	Approved    bool
	Label       string
	IntentHash  string
	RejectGate  execution.GateStep
	RejectCode  execution.RejectReasonCode
	RejectText  string
	Trace       []execution.GateStep
	Instrument  string
	Side        types.Side
	QtyQ        float64
	LimitPriceQ float64
	Ts          uint64
}

func derefOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// Evaluate is the sole entrypoint candidate intents flow through: it runs
// the full gate chain and, on approval, durably records the intent before
// returning. The tentative-then-real WAL append pattern avoids holding the
// fsync barrier on the hot path for an intent that would be rejected
// earlier anyway: the chain first runs with WalRecorded forced true, and
// only a tentatively-approved intent triggers the real durable append;
// a real append failure then overrides the decision to rejected.
func (s *Supervisor) Evaluate(req IntentRequest) Decision {
	now := req.NowMs
	if now == 0 {
		now = nowMs()
	}

	cacheRes := s.instruments.Get(req.Intent.InstrumentID, time.UnixMilli(int64(now)), &s.metrics.Cache)
	var snap venueclient.InstrumentSnapshot
	kind := req.Intent.InstrumentKind
	if cacheRes.Found {
		snap = cacheRes.Value
		kind = snap.Kind
		if cacheRes.Stale {
			s.promoteRiskState(types.RiskDegraded)
		}
	}

	dm := execution.DispatchMap(execution.DispatchMapInput{
		Kind:               kind,
		QtyCoin:            req.Intent.QtyCoin,
		QtyUSD:             req.Intent.QtyUSD,
		Contracts:          req.Intent.Contracts,
		ContractMultiplier: snap.ContractMultiplier,
		IndexPrice:         req.FairPrice,
	})
	if !dm.Allowed {
		return s.record(s.rejectDecision(req, now, execution.StepDispatchConsistency, dm.Reason, "dispatch map rejected"))
	}

	quantized := execution.Quantize(dm.Amount, req.Intent.RawLimitPrice, req.Intent.Side, snap.Quantization)
	if !quantized.Allowed {
		return s.record(s.rejectDecision(req, now, execution.StepQuantize, quantized.Reason, "quantize rejected"))
	}

	if req.Intent.IntentClass == types.Open {
		var expiryMs *uint64
		if cacheRes.Found {
			expiryMs = snap.ExpirationTimestampMs
		}
		guard := risk.EvaluateExpiryGuard(risk.ExpiryGuardInput{
			IntentClass:           req.Intent.IntentClass,
			ExpirationTimestampMs: expiryMs,
			NowMs:                 now,
			ExpiryDelistBufferS:   s.th.ExpiryDelistBufferS,
		})
		if !guard.Allowed {
			return s.record(s.rejectDecision(req, now, execution.StepPreflight, execution.RejectInstrumentExpiredOrDelisted, "within expiry/delist buffer"))
		}
	}

	var postOnly *execution.PostOnlyInput
	if req.PostOnly {
		postOnly = &execution.PostOnlyInput{PostOnly: true, BestBid: req.BestBid, BestAsk: req.BestAsk}
	}
	preflight := execution.Preflight(execution.PreflightInput{
		InstrumentKind:      kind,
		OrderType:           req.OrderType,
		HasTrigger:          req.HasTrigger,
		LinkedOrderType:     req.LinkedOrderType,
		LinkedOrdersAllowed: req.Capabilities.LinkedOrdersAllowed,
		Side:                req.Intent.Side,
		LimitPrice:          quantized.Quantized.LimitPriceQ,
		PostOnly:            postOnly,
	})
	if !preflight.Allowed {
		return s.record(s.rejectDecision(req, now, execution.StepPreflight, preflight.Reason, "preflight rejected"))
	}

	s.feeMu.RLock()
	feeEntry, feeFound := s.feeCache[req.Intent.InstrumentID]
	s.feeMu.RUnlock()

	var feeRateEffective float64
	if !feeFound {
		return s.record(s.rejectDecision(req, now, execution.StepFeeCacheCheck, execution.RejectNetEdgeInputMissing, "no fee cache entry"))
	}
	feeResult := risk.ClassifyFeeCacheStaleness(
		risk.FeeCacheSnapshot{FeeRate: feeEntry.snapshot.TakerFeeRate, CachedAtMs: &feeEntry.cachedAtMs, NowMs: now},
		risk.FeeCacheConfig{SoftS: s.th.FeeCacheSoftS, HardS: s.th.FeeCacheHardS, StaleBuffer: s.th.FeeCacheStaleBuffer},
	)
	feeRateEffective = feeResult.FeeRateEffective
	if feeResult.RiskState == types.RiskDegraded {
		s.promoteRiskState(types.RiskDegraded)
	}

	ih := idempotency.ComputeIntentHash(idempotency.IntentHashInput{
		InstrumentID: req.Intent.InstrumentID,
		Side:         req.Intent.Side,
		QtyQ:         quantized.Quantized.QtyQ,
		LimitPriceQ:  quantized.Quantized.LimitPriceQ,
		GroupID:      req.Intent.GroupID,
		LegIdx:       uint8(req.Intent.LegIdx),
	})
	hashHex := idempotency.FormatIntentHash(ih)

	if existing, ok := s.ledger.Get(hashHex); ok {
		return s.record(Decision{
			Approved:    !existing.TlsState.IsTerminal() || existing.TlsState == execution.Filled,
			IntentHash:  hashHex,
			Instrument:  req.Intent.InstrumentID,
			Side:        req.Intent.Side,
			QtyQ:        existing.QtyQ,
			LimitPriceQ: existing.LimitPriceQ,
			Ts:          now,
		})
	}

	lbl := label.Encode(label.Input{
		StrategyID: req.Intent.StrategyID,
		GroupID:    req.Intent.GroupID,
		LegIdx:     req.Intent.LegIdx,
		IntentHash: ih,
	}, &s.metrics.Label)

	gates := execution.DefaultGateResults()
	gates.FeeCachePassed = true
	gates.WalRecorded = true

	var choke execution.ChokeResult
	var reservationID *uint64

	if req.Intent.IntentClass == types.Open {
		feeUsd := feeRateEffective * quantized.Quantized.QtyQ * quantized.Quantized.LimitPriceQ
		btc, eth, alts := s.exposure.Snapshot()
		pendingBTC, pendingETH, pendingAlts := s.pendingExposureByBucket()
		bucket := instrumentBucket(req.Intent.InstrumentID)

		result := runtime.Evaluate(runtime.Input{
			Base:      gates,
			RiskState: s.RiskState(),
			Margin: risk.MarginGateInput{
				MaintenanceMarginUsd: req.MaintenanceMarginUsd,
				EquityUsd:            req.EquityUsd,
				RejectOpens:          s.th.MarginRejectOpens,
				ReduceOnly:           s.th.MarginReduceOnly,
				Kill:                 s.th.MarginKill,
			},
			PendingBook:    s.pendingBook,
			CurrentDelta:   req.CurrentDelta,
			DeltaImpactEst: req.DeltaImpactEst,
			DeltaLimit:     s.th.DeltaLimitUsd,
			Global: risk.ExposureBudgetInput{
				CurrentBTC: btc, PendingBTC: pendingBTC,
				CurrentETH: eth, PendingETH: pendingETH,
				CurrentAlts: alts, PendingAlts: pendingAlts,
				CandidateBucket:     bucket,
				CandidateDelta:      req.DeltaImpactEst,
				GlobalDeltaLimitUsd: s.th.GlobalDeltaLimitUsd,
			},
			Liquidity: execution.LiquidityInput{
				OrderQty:         quantized.Quantized.QtyQ,
				IsBuy:            req.Intent.Side == types.Buy,
				IntentClass:      req.Intent.IntentClass,
				IsMarketable:     req.IsMarketable,
				Snapshot:         req.Book,
				NowMs:            now,
				SnapshotMaxAgeMs: uint64(s.th.SnapshotMaxAgeMs),
				MaxSlippageBps:   s.th.MaxSlippageBps,
			},
			MinEdgeUsd: s.th.MinEdgeUsd,
			NetEdge: execution.NetEdgeInput{
				GrossEdgeUsd:        req.GrossEdgeUsd,
				FeeUsd:              feeUsd,
				ExpectedSlippageUsd: req.ExpectedSlippageUsd,
			},
			Skew: execution.InventorySkewInput{
				CurrentDelta:   req.CurrentDelta,
				PendingDelta:   req.DeltaImpactEst,
				DeltaLimit:     s.th.DeltaLimitUsd,
				Side:           req.Intent.Side,
				LimitPrice:     quantized.Quantized.LimitPriceQ,
				TickSize:       snap.Quantization.TickSize,
				SkewK:          s.th.InventorySkewK,
				TickPenaltyMax: int(s.th.InventorySkewTickPenaltyMax),
			},
			Pricer: execution.PricerInput{
				FairPrice:      req.FairPrice,
				GrossEdgeUsd:   derefOrZero(req.GrossEdgeUsd),
				FeeEstimateUsd: feeUsd,
				Qty:            quantized.Quantized.QtyQ,
				Side:           req.Intent.Side,
			},
		}, &s.metrics.Choke)

		choke = result.Choke
		reservationID = result.ReservationID
	} else {
		choke = execution.BuildOrderIntent(req.Intent.IntentClass, s.RiskState(), &s.metrics.Choke, gates)
	}

	if choke.Approved {
		rec := ledger.IntentRecord{
			IntentHash:  hashHex,
			GroupID:     req.Intent.GroupID,
			LegIdx:      req.Intent.LegIdx,
			Instrument:  req.Intent.InstrumentID,
			Side:        req.Intent.Side,
			QtyQ:        quantized.Quantized.QtyQ,
			LimitPriceQ: quantized.Quantized.LimitPriceQ,
			TlsState:    execution.Created,
			CreatedTs:   now,
		}
		if err := s.barrier.RecordBeforeDispatch(rec, &s.metrics.Barrier); err != nil {
			s.logger.Error("wal append failed after tentative approval, overriding to reject", "error", err)
			s.metrics.Choke.GateSequenceApproved.Add(^uint64(0))
			s.metrics.Choke.GateSequenceRejected.Add(1)
			if reservationID != nil {
				s.pendingBook.Settle(*reservationID, risk.OutcomeRejected)
			}
			choke = execution.ChokeResult{
				Approved: false,
				Trace:    choke.Trace,
				Reject: execution.ChokeRejectReason{
					Gate:   execution.StepRecordedBeforeDispatch,
					Reason: "wal append failed",
					Code:   execution.RejectWalQueueFull,
				},
			}
		} else {
			s.rememberLabel(lbl, hashHex)
		}
	}

	decision := Decision{
		Approved:    choke.Approved,
		Label:       lbl,
		IntentHash:  hashHex,
		Trace:       choke.Trace,
		Instrument:  req.Intent.InstrumentID,
		Side:        req.Intent.Side,
		QtyQ:        quantized.Quantized.QtyQ,
		LimitPriceQ: quantized.Quantized.LimitPriceQ,
		Ts:          now,
	}
	if !choke.Approved {
		decision.RejectGate = choke.Reject.Gate
		decision.RejectCode = choke.Reject.Code
		decision.RejectText = choke.Reject.Reason
	}
	return s.record(decision)
}

func (s *Supervisor) rejectDecision(req IntentRequest, now uint64, gate execution.GateStep, code execution.RejectReasonCode, text string) Decision {
	return Decision{
		Approved:   false,
		RejectGate: gate,
		RejectCode: code,
		RejectText: text,
		Trace:      []execution.GateStep{gate},
		Instrument: req.Intent.InstrumentID,
		Side:       req.Intent.Side,
		Ts:         now,
	}
}

// pendingExposureByBucket returns the pending-exposure book's net total
// (pending_positive + pending_negative) as the "pending" term of every
// bucket. The book is bucket-agnostic, so pending exposure is not split by
// bucket, and reservations on opposite sides offset each other in the
// total.
func (s *Supervisor) pendingExposureByBucket() (btc, eth, alts float64) {
	total := s.pendingBook.PendingTotal()
	return total, total, total
}

func (s *Supervisor) record(d Decision) Decision {
	s.decisionsMu.Lock()
	s.decisions = append(s.decisions, d)
	if len(s.decisions) > s.maxHistory {
		s.decisions = s.decisions[len(s.decisions)-s.maxHistory:]
	}
	s.decisionsMu.Unlock()
	s.broadcastDecision(d)
	return d
}

// RecentDecisions returns up to n of the most recently recorded decisions,
// newest last.
func (s *Supervisor) RecentDecisions(n int) []Decision {
	s.decisionsMu.Lock()
	defer s.decisionsMu.Unlock()
	if n > len(s.decisions) {
		n = len(s.decisions)
	}
	out := make([]Decision, n)
	copy(out, s.decisions[len(s.decisions)-n:])
	return out
}
