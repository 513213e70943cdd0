package venueclient

import (
	"github.com/shopspring/decimal"

	"github.com/speelbreaker12/opus-trader-sub000/internal/soldier/venue"
	"github.com/speelbreaker12/opus-trader-sub000/pkg/types"
)

// InstrumentMetaResponse is the venue's wire shape for instrument metadata,
// field-for-field Deribit's public/get_instrument response. Price-bearing
// fields arrive as exact decimal strings over the wire; decimal.Decimal is
// the boundary type so no binary float rounding happens before the core
// gets a chance to convert to float64 once, deliberately.
type InstrumentMetaResponse struct {
	InstrumentName       string           `json:"instrument_name"`
	Kind                 string           `json:"kind"`
	IsActive             bool             `json:"is_active"`
	SettlementPeriod     string           `json:"settlement_period"`
	ExpirationTimestamp  *int64           `json:"expiration_timestamp"`
	SettlementCurrency   string           `json:"settlement_currency"`
	BaseCurrency         string           `json:"base_currency"`
	QuoteCurrency        string           `json:"quote_currency"`
	TickSize             decimal.Decimal  `json:"tick_size"`
	MinTradeAmount       decimal.Decimal  `json:"min_trade_amount"`
	ContractSize         decimal.Decimal  `json:"contract_size"`
}

// FeeRateResponse is the venue's wire shape for the account's current fee
// tier on an instrument, field-for-field Deribit's private/get_account_summary
// per-currency fee fields narrowed to a single instrument's maker and taker
// rates (the pre-dispatch core only ever prices against the maker/taker rate
// it expects to pay).
type FeeRateResponse struct {
	InstrumentName string          `json:"instrument_name"`
	MakerFee       decimal.Decimal `json:"maker_commission"`
	TakerFee       decimal.Decimal `json:"taker_commission"`
}

// InstrumentSnapshot is the converted, core-facing shape produced from an
// InstrumentMetaResponse: the decimal-to-float64 boundary conversion happens
// exactly once, here.
type InstrumentSnapshot struct {
	Kind               types.InstrumentKind
	Quantization       types.InstrumentQuantization
	ContractMultiplier float64
	IsActive           bool
	IsPerpetual        bool
	// ExpirationTimestampMs is nil for perpetuals, matching risk.ExpiryGuardInput's
	// "missing expiry treated as perpetual-style" convention.
	ExpirationTimestampMs *uint64
}

// FeeSnapshot is the converted, core-facing fee-rate shape.
type FeeSnapshot struct {
	MakerFeeRate float64
	TakerFeeRate float64
}

// toSnapshot converts the wire response to the core-facing shape, deriving
// instrument kind from the venue's own vocabulary via venue.DeriveInstrumentKind.
func (r InstrumentMetaResponse) toSnapshot() InstrumentSnapshot {
	isPerpetual := r.SettlementPeriod == "perpetual" && r.ExpirationTimestamp == nil
	isInverse := r.SettlementCurrency == r.BaseCurrency

	meta := venue.RawInstrumentMeta{
		Kind:        r.Kind,
		IsPerpetual: isPerpetual,
		IsInverse:   isInverse,
	}

	tickSize, _ := r.TickSize.Float64()
	minAmount, _ := r.MinTradeAmount.Float64()
	contractSize, _ := r.ContractSize.Float64()
	if contractSize == 0 {
		contractSize = 1
	}

	var expiryMs *uint64
	if r.ExpirationTimestamp != nil && *r.ExpirationTimestamp > 0 {
		v := uint64(*r.ExpirationTimestamp)
		expiryMs = &v
	}

	return InstrumentSnapshot{
		Kind: venue.DeriveInstrumentKind(meta),
		Quantization: types.InstrumentQuantization{
			TickSize:   tickSize,
			AmountStep: minAmount,
			MinAmount:  minAmount,
		},
		ContractMultiplier:    contractSize,
		IsActive:              r.IsActive,
		IsPerpetual:           isPerpetual,
		ExpirationTimestampMs: expiryMs,
	}
}

func (r FeeRateResponse) toSnapshot() FeeSnapshot {
	maker, _ := r.MakerFee.Float64()
	taker, _ := r.TakerFee.Float64()
	return FeeSnapshot{MakerFeeRate: maker, TakerFeeRate: taker}
}
