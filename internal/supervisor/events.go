package supervisor

import (
	"context"
	"strings"

	"github.com/speelbreaker12/opus-trader-sub000/internal/feed"
	"github.com/speelbreaker12/opus-trader-sub000/internal/soldier/execution"
	"github.com/speelbreaker12/opus-trader-sub000/internal/soldier/ledger"
	"github.com/speelbreaker12/opus-trader-sub000/internal/soldier/registry"
	"github.com/speelbreaker12/opus-trader-sub000/internal/soldier/risk"
	"github.com/speelbreaker12/opus-trader-sub000/pkg/types"
)

// eventLoop routes every venue-reported event onto the trade lifecycle
// state machine (for acks/fills/cancels) and the trade-ID idempotency
// registry (for fills).
func (s *Supervisor) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-s.source.AckEvents():
			s.applyAck(evt)
		case evt := <-s.source.FillEvents():
			s.applyFill(evt)
		case evt := <-s.source.CancelEvents():
			s.applyCancel(evt)
		case evt := <-s.source.LifecycleErrorEvents():
			s.applyLifecycleError(evt)
		}
	}
}

func (s *Supervisor) applyAck(evt feed.AckEvent) {
	hash, ok := s.resolveLabel(evt.Label)
	if !ok {
		s.logger.Warn("ack for unknown label", "label", evt.Label)
		return
	}
	s.ledger.MarkSent(hash, evt.Ts)
	res := s.ledger.UpdateState(hash, execution.Acked, evt.Ts, &s.metrics.Ledger)
	if res.Outcome != ledger.UpdateOk {
		s.logger.Warn("ack transition rejected", "label", evt.Label, "outcome", res.Outcome)
	}
}

func (s *Supervisor) applyFill(evt feed.FillEvent) {
	ins := registry.TradeRecord{
		TradeID: evt.TradeID,
		GroupID: evt.GroupID,
		LegIdx:  evt.LegIdx,
		Ts:      evt.Ts,
		Qty:     evt.Qty,
		Price:   evt.Price,
	}
	res := s.reg.InsertIfAbsent(ins, &s.metrics.Registry)
	if res.Outcome != registry.Inserted {
		return
	}

	hash, ok := s.resolveLabel(evt.Label)
	if !ok {
		s.logger.Warn("fill for unknown label", "label", evt.Label, "trade_id", evt.TradeID)
		return
	}

	rec, ok := s.ledger.Get(hash)
	if !ok {
		return
	}

	event := execution.EventPartialFill
	if evt.Full {
		event = execution.EventFilled
	}
	tls := execution.Apply(rec.TlsState, event)
	if tls.Kind == execution.TransitionOutOfOrder {
		s.logger.Warn("out-of-order fill transition", "label", evt.Label, "anomaly", tls.Anomaly)
	}
	s.ledger.UpdateState(hash, tls.To, evt.Ts, &s.metrics.Ledger)

	signedDelta := evt.Qty
	if rec.Side == types.Sell {
		signedDelta = -signedDelta
	}
	s.exposure.ApplyFill(instrumentBucket(rec.Instrument), signedDelta)
}

func (s *Supervisor) applyCancel(evt feed.CancelEvent) {
	hash, ok := s.resolveLabel(evt.Label)
	if !ok {
		return
	}
	s.ledger.UpdateState(hash, execution.Cancelled, evt.Ts, &s.metrics.Ledger)
}

func (s *Supervisor) applyLifecycleError(evt feed.LifecycleErrorEvent) {
	decision := risk.ClassifyLifecycleError(evt.ErrorCode, evt.WasCancel)
	if decision.Category == risk.LifecycleTerminal {
		s.promoteRiskState(types.RiskDegraded)
	}

	hash, ok := s.resolveLabel(evt.Label)
	if !ok {
		return
	}
	if decision.CancelOutcome == risk.CancelIdempotentSuccess {
		s.ledger.UpdateState(hash, execution.Cancelled, evt.Ts, &s.metrics.Ledger)
		return
	}
	s.ledger.UpdateState(hash, execution.Failed, evt.Ts, &s.metrics.Ledger)
}

// instrumentBucket classifies an instrument ID into a correlation bucket by
// its base-currency ticker prefix, e.g. Deribit's "BTC-PERPETUAL" and
// "ETH-27JUN25-3500-C" naming convention. Anything not BTC/ETH falls into
// the conservative Alts bucket.
func instrumentBucket(instrumentID string) risk.ExposureBucket {
	switch {
	case strings.HasPrefix(instrumentID, "BTC"):
		return risk.BucketBTC
	case strings.HasPrefix(instrumentID, "ETH"):
		return risk.BucketETH
	default:
		return risk.BucketAlts
	}
}
