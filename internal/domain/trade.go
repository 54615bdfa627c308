package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TradeSide string

const (
	TradeSideBuy  TradeSide = "BUY"
	TradeSideSell TradeSide = "SELL"
)

// TradeProposal is one trade a strategy wants executed. Quantity is always
// positive; Side carries the direction.
type TradeProposal struct {
	Symbol   string
	Side     TradeSide
	Quantity decimal.Decimal
}

// Notional is the estimated capital the proposal ties up at the given price.
func (p TradeProposal) Notional(price decimal.Decimal) decimal.Decimal {
	return p.Quantity.Mul(price).Abs()
}

// OrderRequest is what the core hands the trade gateway. The concrete wire
// format is the gateway's concern.
type OrderRequest struct {
	TradeOrderID uuid.UUID
	AlgorithmID  uuid.UUID
	Symbol       string
	Side         TradeSide
	Quantity     decimal.Decimal
}

// Fill reports a completed order back from the gateway.
type Fill struct {
	ProviderID uuid.UUID
	Symbol     string
	Side       TradeSide
	Quantity   decimal.Decimal
	FillPrice  decimal.Decimal
	FilledAt   time.Time
}

// Amount is the cash that changed hands for the fill.
func (f Fill) Amount() decimal.Decimal {
	return f.Quantity.Mul(f.FillPrice)
}

// Position is an open holding attributed to the algorithm that opened it.
type Position struct {
	AlgorithmID uuid.UUID
	Symbol      string
	Quantity    decimal.Decimal
	AvgPrice    decimal.Decimal
}

// CostBasis is the committed capital the position represents.
func (p Position) CostBasis() decimal.Decimal {
	return p.Quantity.Mul(p.AvgPrice)
}

// TradeOutcome informs a strategy what happened to one of its proposals.
type TradeOutcome struct {
	Proposal TradeProposal
	Filled   bool
	Fill     *Fill
	// Reason is set when the proposal was dropped: ErrBudgetRejected,
	// ErrGatewayRejected or ErrGatewayTimeout.
	Reason error
}
