package api

import (
	"time"

	"github.com/speelbreaker12/opus-trader-sub000/internal/supervisor"
)

// DecisionEvent is the envelope every /stream SSE frame carries.
type DecisionEvent struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Decision  DecisionDTO `json:"decision"`
}

// NewDecisionEvent converts a supervisor decision into its wire envelope.
func NewDecisionEvent(d supervisor.Decision) DecisionEvent {
	return DecisionEvent{
		Type:      "decision",
		Timestamp: time.Now(),
		Decision:  decisionToDTO(d),
	}
}

func decisionToDTO(d supervisor.Decision) DecisionDTO {
	dto := DecisionDTO{
		Approved:    d.Approved,
		Label:       d.Label,
		IntentHash:  d.IntentHash,
		Instrument:  d.Instrument,
		Side:        d.Side.String(),
		QtyQ:        d.QtyQ,
		LimitPriceQ: d.LimitPriceQ,
		Ts:          d.Ts,
	}
	if !d.Approved {
		dto.RejectGate = d.RejectGate.String()
		dto.RejectCode = d.RejectCode.String()
		dto.RejectText = d.RejectText
	}
	for _, step := range d.Trace {
		dto.Trace = append(dto.Trace, step.String())
	}
	return dto
}
