package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"algopilot/internal/db/models/postgres/public/model"
	"algopilot/internal/db/models/postgres/public/table"
	"algopilot/internal/domain"
	"algopilot/internal/logger"
	"algopilot/internal/repository"
	"algopilot/internal/strategy"
	"algopilot/internal/util"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AlgorithmRuntime drives one strategy instance on its evaluation interval.
// It owns the trade pipeline for its algorithm: snapshot, evaluate, reserve,
// submit, settle or release. Run returns nil when the strategy declares
// itself complete, ctx.Err() when cancelled, and a wrapped
// domain.ErrStrategyFault when the strategy errors or panics. A fault never
// escapes as a panic; the scheduler reads it from the exit error.
type AlgorithmRuntime struct {
	AlgorithmID          uuid.UUID
	Strategy             strategy.Strategy
	Tickers              []string
	Ledger               BudgetLedger
	Gateway              TradeGateway
	PriceService         PriceService
	TradeOrderRepository repository.TradeOrderRepository
	HoldingRepository    repository.HoldingRepository
}

func (r *AlgorithmRuntime) Run(ctx context.Context) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("strategy %s panicked: %v: %w", r.Strategy.Name(), rec, domain.ErrStrategyFault)
		}
	}()

	log := logger.FromContext(ctx).With("algorithmID", r.AlgorithmID.String(), "strategy", r.Strategy.Name())
	ctx = context.WithValue(ctx, logger.ContextKey, log)

	ticker := time.NewTicker(r.Strategy.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		complete, err := r.tick(ctx)
		if err != nil {
			return err
		}
		if complete {
			log.Info("strategy completed, stopping runtime")
			return nil
		}
	}
}

// tick runs one evaluation. Infrastructure hiccups (quote source down,
// holdings query failing) skip the tick; only a strategy error is fatal.
func (r *AlgorithmRuntime) tick(ctx context.Context) (bool, error) {
	log := logger.FromContext(ctx)

	budget, err := r.Ledger.Snapshot(r.AlgorithmID)
	if err != nil {
		return false, fmt.Errorf("failed to snapshot budget: %w", err)
	}
	prices, err := r.PriceService.GetLatestPrices(ctx, r.Tickers)
	if err != nil {
		log.Warnf("skipping tick, failed to get prices: %v", err)
		return false, nil
	}
	positions, err := r.Gateway.Positions(ctx, r.AlgorithmID)
	if err != nil {
		log.Warnf("skipping tick, failed to list positions: %v", err)
		return false, nil
	}

	decision, err := r.Strategy.Evaluate(ctx, strategy.Snapshot{
		Time:      time.Now().UTC(),
		Prices:    prices,
		Budget:    budget,
		Positions: positions,
	})
	if err != nil {
		return false, fmt.Errorf("strategy %s evaluation failed: %v: %w", r.Strategy.Name(), err, domain.ErrStrategyFault)
	}

	for _, proposal := range decision.Proposals {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		price, ok := prices[proposal.Symbol]
		if !ok {
			log.Warnf("dropping proposal for %s, no quote", proposal.Symbol)
			continue
		}
		switch proposal.Side {
		case domain.TradeSideBuy:
			r.executeBuy(ctx, proposal, price)
		case domain.TradeSideSell:
			r.executeSell(ctx, proposal)
		}
	}

	return decision.Complete, nil
}

// executeBuy reserves the estimated notional before anything touches the
// brokerage, so the committed total can never pass allocated no matter how
// the order resolves. Rejections and timeouts release the reservation and
// are reported to the strategy; they never terminate the algorithm.
func (r *AlgorithmRuntime) executeBuy(ctx context.Context, proposal domain.TradeProposal, price decimal.Decimal) {
	log := logger.FromContext(ctx)

	notional := proposal.Notional(price)
	if err := r.Ledger.Reserve(r.AlgorithmID, notional); err != nil {
		log.Warnf("buy %s %s rejected by ledger: %v", proposal.Quantity, proposal.Symbol, err)
		r.Strategy.OnOutcome(domain.TradeOutcome{Proposal: proposal, Reason: err})
		return
	}

	row, err := r.TradeOrderRepository.Add(nil, model.TradeOrder{
		AlgorithmID:    r.AlgorithmID,
		Symbol:         proposal.Symbol,
		Side:           model.TradeOrderSide_Buy,
		Quantity:       proposal.Quantity,
		ReservedAmount: notional,
		Status:         model.TradeOrderStatus_Pending,
	})
	if err != nil {
		log.Errorf("failed to record buy order: %v", err)
		r.releaseQuietly(log, notional)
		r.Strategy.OnOutcome(domain.TradeOutcome{Proposal: proposal, Reason: err})
		return
	}

	fill, err := r.Gateway.Submit(ctx, domain.OrderRequest{
		TradeOrderID: row.TradeOrderID,
		AlgorithmID:  r.AlgorithmID,
		Symbol:       proposal.Symbol,
		Side:         domain.TradeSideBuy,
		Quantity:     proposal.Quantity,
	})
	if err != nil {
		r.releaseQuietly(log, notional)
		r.markOrderDropped(ctx, row.TradeOrderID, err)
		r.Strategy.OnOutcome(domain.TradeOutcome{Proposal: proposal, Reason: err})
		return
	}

	// market fills rarely land exactly on the quoted price; true up the
	// reservation to what actually filled
	actual := fill.Amount()
	if diff := actual.Sub(notional); diff.IsPositive() {
		if err := r.Ledger.Reserve(r.AlgorithmID, diff); err != nil {
			log.Errorf("fill for %s exceeded reservation by %s and budget headroom: %v",
				proposal.Symbol, diff, err)
		}
	} else if diff.IsNegative() {
		r.releaseQuietly(log, diff.Abs())
	}

	r.markOrderFilled(ctx, row.TradeOrderID, fill, actual)
	r.applyBuyToHoldings(ctx, fill)
	r.Strategy.OnOutcome(domain.TradeOutcome{Proposal: proposal, Filled: true, Fill: fill})
}

// executeSell closes against an existing holding; nothing is reserved since
// the capital is already committed. On fill the position's cost basis is
// retired from committed and the profit or loss lands in realized.
func (r *AlgorithmRuntime) executeSell(ctx context.Context, proposal domain.TradeProposal) {
	log := logger.FromContext(ctx)

	holding, err := r.findHolding(proposal.Symbol)
	if err != nil {
		log.Warnf("dropping sell for %s: %v", proposal.Symbol, err)
		r.Strategy.OnOutcome(domain.TradeOutcome{Proposal: proposal, Reason: err})
		return
	}

	quantity := proposal.Quantity
	if quantity.GreaterThan(holding.Quantity) {
		quantity = holding.Quantity
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return
	}

	row, err := r.TradeOrderRepository.Add(nil, model.TradeOrder{
		AlgorithmID:    r.AlgorithmID,
		Symbol:         proposal.Symbol,
		Side:           model.TradeOrderSide_Sell,
		Quantity:       quantity,
		ReservedAmount: decimal.Zero,
		Status:         model.TradeOrderStatus_Pending,
	})
	if err != nil {
		log.Errorf("failed to record sell order: %v", err)
		r.Strategy.OnOutcome(domain.TradeOutcome{Proposal: proposal, Reason: err})
		return
	}

	fill, err := r.Gateway.Submit(ctx, domain.OrderRequest{
		TradeOrderID: row.TradeOrderID,
		AlgorithmID:  r.AlgorithmID,
		Symbol:       proposal.Symbol,
		Side:         domain.TradeSideSell,
		Quantity:     quantity,
	})
	if err != nil {
		r.markOrderDropped(ctx, row.TradeOrderID, err)
		r.Strategy.OnOutcome(domain.TradeOutcome{Proposal: proposal, Reason: err})
		return
	}

	cost := fill.Quantity.Mul(holding.AvgPrice)
	pnl := fill.Amount().Sub(cost)
	if err := r.bookClose(cost, pnl); err != nil {
		log.Errorf("failed to book close of %s (cost %s, pnl %s): %v",
			proposal.Symbol, cost, pnl, err)
	}

	r.markOrderFilled(ctx, row.TradeOrderID, fill, cost)
	r.applySellToHoldings(ctx, holding, fill.Quantity)
	r.Strategy.OnOutcome(domain.TradeOutcome{Proposal: proposal, Filled: true, Fill: fill})
}

// bookClose retires a position's cost basis from committed and moves its
// profit or loss into realized. Ordering matters: each step has to keep
// committed inside [0, allocated], so losses pre-release their magnitude
// and outsized gains settle in two legs.
func (r *AlgorithmRuntime) bookClose(cost, pnl decimal.Decimal) error {
	if pnl.IsNegative() {
		if err := r.Ledger.Release(r.AlgorithmID, pnl.Abs()); err != nil {
			return err
		}
		if err := r.Ledger.Settle(r.AlgorithmID, pnl); err != nil {
			return err
		}
		return r.Ledger.Release(r.AlgorithmID, cost)
	}

	settle := decimal.Min(pnl, cost)
	if err := r.Ledger.Settle(r.AlgorithmID, settle); err != nil {
		return err
	}
	if remainder := cost.Sub(settle); remainder.IsPositive() {
		if err := r.Ledger.Release(r.AlgorithmID, remainder); err != nil {
			return err
		}
	}
	if extra := pnl.Sub(settle); extra.IsPositive() {
		if err := r.Ledger.Reserve(r.AlgorithmID, extra); err != nil {
			return err
		}
		return r.Ledger.Settle(r.AlgorithmID, extra)
	}
	return nil
}

func (r *AlgorithmRuntime) findHolding(symbol string) (*model.Holding, error) {
	holdings, err := r.HoldingRepository.List(repository.HoldingListFilter{
		AlgorithmID: &r.AlgorithmID,
		Symbol:      &symbol,
	})
	if err != nil {
		return nil, err
	}
	if len(holdings) == 0 || holdings[0].Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("no open position in %s: %w", symbol, domain.ErrNotFound)
	}
	return &holdings[0], nil
}

func (r *AlgorithmRuntime) applyBuyToHoldings(ctx context.Context, fill *domain.Fill) {
	log := logger.FromContext(ctx)

	holdings, err := r.HoldingRepository.List(repository.HoldingListFilter{
		AlgorithmID: &r.AlgorithmID,
		Symbol:      &fill.Symbol,
	})
	if err != nil {
		log.Errorf("failed to read holdings for %s: %v", fill.Symbol, err)
		return
	}

	if len(holdings) == 0 {
		_, err = r.HoldingRepository.Add(nil, model.Holding{
			AlgorithmID: r.AlgorithmID,
			Symbol:      fill.Symbol,
			Quantity:    fill.Quantity,
			AvgPrice:    fill.FillPrice,
		})
		if err != nil {
			log.Errorf("failed to insert holding for %s: %v", fill.Symbol, err)
		}
		return
	}

	holding := holdings[0]
	newQuantity := holding.Quantity.Add(fill.Quantity)
	holding.AvgPrice = holding.Quantity.Mul(holding.AvgPrice).
		Add(fill.Amount()).
		DivRound(newQuantity, 6)
	holding.Quantity = newQuantity

	_, err = r.HoldingRepository.Update(nil, holding.HoldingID, holding, postgres.ColumnList{
		table.Holding.Quantity,
		table.Holding.AvgPrice,
	})
	if err != nil {
		log.Errorf("failed to update holding for %s: %v", fill.Symbol, err)
	}
}

func (r *AlgorithmRuntime) applySellToHoldings(ctx context.Context, holding *model.Holding, soldQuantity decimal.Decimal) {
	log := logger.FromContext(ctx)

	remaining := holding.Quantity.Sub(soldQuantity)
	if remaining.LessThanOrEqual(decimal.Zero) {
		if err := r.HoldingRepository.Delete(nil, holding.HoldingID); err != nil {
			log.Errorf("failed to delete holding for %s: %v", holding.Symbol, err)
		}
		return
	}

	holding.Quantity = remaining
	_, err := r.HoldingRepository.Update(nil, holding.HoldingID, *holding, postgres.ColumnList{
		table.Holding.Quantity,
	})
	if err != nil {
		log.Errorf("failed to update holding for %s: %v", holding.Symbol, err)
	}
}

func (r *AlgorithmRuntime) markOrderFilled(ctx context.Context, tradeOrderID uuid.UUID, fill *domain.Fill, reserved decimal.Decimal) {
	log := logger.FromContext(ctx)

	_, err := r.TradeOrderRepository.Update(nil, tradeOrderID, model.TradeOrder{
		Status:         model.TradeOrderStatus_Filled,
		ProviderID:     &fill.ProviderID,
		FilledPrice:    util.DecimalPointer(fill.FillPrice),
		FilledAt:       util.TimePointer(fill.FilledAt),
		ReservedAmount: reserved,
	}, postgres.ColumnList{
		table.TradeOrder.Status,
		table.TradeOrder.ProviderID,
		table.TradeOrder.FilledPrice,
		table.TradeOrder.FilledAt,
		table.TradeOrder.ReservedAmount,
	})
	if err != nil {
		log.Errorf("failed to mark trade order %s filled: %v", tradeOrderID, err)
	}
}

// markOrderDropped records why an order never filled. Timeouts are budget
// no-ops exactly like rejections, but they get their own status and a louder
// log line since an unfilled-then-cancelled order usually means the market
// is closed or the brokerage is degraded.
func (r *AlgorithmRuntime) markOrderDropped(ctx context.Context, tradeOrderID uuid.UUID, cause error) {
	log := logger.FromContext(ctx)

	status := model.TradeOrderStatus_Rejected
	if errors.Is(cause, domain.ErrGatewayTimeout) {
		status = model.TradeOrderStatus_TimedOut
		log.Errorf("trade order %s timed out at the gateway: %v", tradeOrderID, cause)
	} else {
		log.Warnf("trade order %s rejected: %v", tradeOrderID, cause)
	}

	_, err := r.TradeOrderRepository.Update(nil, tradeOrderID, model.TradeOrder{
		Status: status,
	}, postgres.ColumnList{
		table.TradeOrder.Status,
	})
	if err != nil {
		log.Errorf("failed to mark trade order %s %s: %v", tradeOrderID, status, err)
	}
}

func (r *AlgorithmRuntime) releaseQuietly(log interface{ Errorf(string, ...interface{}) }, amount decimal.Decimal) {
	if err := r.Ledger.Release(r.AlgorithmID, amount); err != nil {
		log.Errorf("failed to release reservation of %s: %v", amount, err)
	}
}
