package strategy

import (
	"context"
	"fmt"
	"time"

	"algopilot/internal/domain"

	"github.com/maja42/goval"
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

// exprStrategy evaluates a user-supplied goval expression once per ticker
// per tick. The expression sees the ticker's price, its rolling mean, the
// budget snapshot and the open position, and returns a signed dollar
// notional: positive buys, negative sells, zero holds.
//
// Example: "(mean - price) * 10" leans into dips proportionally.
type exprStrategy struct {
	tickers    []string
	expression string
	interval   time.Duration
	history    map[string][]float64
	eval       *goval.Evaluator
}

func init() {
	Register("expr", func(cfg Config) (Strategy, error) {
		if cfg.Expression == "" {
			return nil, fmt.Errorf("expr strategy requires an expression")
		}
		if len(cfg.Tickers) == 0 {
			return nil, fmt.Errorf("expr strategy requires at least one ticker")
		}
		interval := cfg.Interval
		if interval <= 0 {
			interval = defaultInterval
		}
		return &exprStrategy{
			tickers:    cfg.Tickers,
			expression: cfg.Expression,
			interval:   interval,
			history:    map[string][]float64{},
			eval:       goval.NewEvaluator(),
		}, nil
	})
}

func (s *exprStrategy) Name() string {
	return "expr"
}

func (s *exprStrategy) Interval() time.Duration {
	return s.interval
}

func (s *exprStrategy) Evaluate(ctx context.Context, snap Snapshot) (*Decision, error) {
	decision := &Decision{}

	for _, symbol := range s.tickers {
		price, ok := snap.Prices[symbol]
		if !ok {
			continue
		}

		window := append(s.history[symbol], price.InexactFloat64())
		if len(window) > meanReversionWindow {
			window = window[len(window)-meanReversionWindow:]
		}
		s.history[symbol] = window

		mean, err := stats.Mean(window)
		if err != nil {
			return nil, fmt.Errorf("failed to compute mean for %s: %w", symbol, err)
		}

		var positionQty float64
		if position := snap.Position(symbol); position != nil {
			positionQty = position.Quantity.InexactFloat64()
		}

		variables := map[string]interface{}{
			"price":     price.InexactFloat64(),
			"mean":      mean,
			"samples":   len(window),
			"allocated": snap.Budget.Allocated.InexactFloat64(),
			"committed": snap.Budget.Committed.InexactFloat64(),
			"remaining": snap.Budget.Remaining().InexactFloat64(),
			"realized":  snap.Budget.Realized.InexactFloat64(),
			"position":  positionQty,
		}

		result, err := s.eval.Evaluate(s.expression, variables, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate expression for %s: %w", symbol, err)
		}

		notional, err := toFloat(result)
		if err != nil {
			return nil, fmt.Errorf("expression result for %s: %w", symbol, err)
		}

		proposal, ok := s.proposalFor(symbol, notional, price, positionQty)
		if ok {
			decision.Proposals = append(decision.Proposals, proposal)
		}
	}

	return decision, nil
}

func (s *exprStrategy) proposalFor(symbol string, notional float64, price decimal.Decimal, positionQty float64) (domain.TradeProposal, bool) {
	const minNotional = 1.0
	if notional > -minNotional && notional < minNotional {
		return domain.TradeProposal{}, false
	}

	quantity := decimal.NewFromFloat(notional).Abs().DivRound(price, 4)
	if notional < 0 {
		// sells are capped at the open position
		held := decimal.NewFromFloat(positionQty)
		if held.LessThanOrEqual(decimal.Zero) {
			return domain.TradeProposal{}, false
		}
		if quantity.GreaterThan(held) {
			quantity = held
		}
		return domain.TradeProposal{
			Symbol:   symbol,
			Side:     domain.TradeSideSell,
			Quantity: quantity,
		}, true
	}

	return domain.TradeProposal{
		Symbol:   symbol,
		Side:     domain.TradeSideBuy,
		Quantity: quantity,
	}, true
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case bool:
		if n {
			return 0, fmt.Errorf("expression returned true; expected a numeric notional")
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("expression returned %T; expected a number", v)
	}
}

func (s *exprStrategy) OnOutcome(outcome domain.TradeOutcome) {}
