package strategy

import (
	"context"
	"fmt"
	"time"

	"algopilot/internal/domain"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

const (
	meanReversionWindow    = 20
	meanReversionThreshold = 1.0
	// fraction of remaining budget put into each entry
	meanReversionEntryFraction = 0.1
)

// meanReversionStrategy trades a z-score against a rolling price window:
// buy when the price sits meanReversionThreshold standard deviations below
// the rolling mean, close the position when it sits that far above.
type meanReversionStrategy struct {
	tickers  []string
	interval time.Duration
	history  map[string][]float64
}

func init() {
	Register("meanreversion", func(cfg Config) (Strategy, error) {
		if len(cfg.Tickers) == 0 {
			return nil, fmt.Errorf("meanreversion requires at least one ticker")
		}
		interval := cfg.Interval
		if interval <= 0 {
			interval = defaultInterval
		}
		return &meanReversionStrategy{
			tickers:  cfg.Tickers,
			interval: interval,
			history:  map[string][]float64{},
		}, nil
	})
}

func (s *meanReversionStrategy) Name() string {
	return "meanreversion"
}

func (s *meanReversionStrategy) Interval() time.Duration {
	return s.interval
}

func (s *meanReversionStrategy) Evaluate(ctx context.Context, snap Snapshot) (*Decision, error) {
	decision := &Decision{}

	for _, symbol := range s.tickers {
		price, ok := snap.Prices[symbol]
		if !ok {
			continue
		}
		s.observe(symbol, price.InexactFloat64())

		window := s.history[symbol]
		if len(window) < meanReversionWindow {
			continue
		}

		mean, err := stats.Mean(window)
		if err != nil {
			return nil, fmt.Errorf("failed to compute rolling mean for %s: %w", symbol, err)
		}
		stdev, err := stats.StandardDeviationSample(window)
		if err != nil {
			return nil, fmt.Errorf("failed to compute rolling stdev for %s: %w", symbol, err)
		}
		if stdev == 0 {
			continue
		}

		z := (price.InexactFloat64() - mean) / stdev
		position := snap.Position(symbol)

		switch {
		case z <= -meanReversionThreshold && position == nil:
			notional := snap.Budget.Remaining().Mul(decimal.NewFromFloat(meanReversionEntryFraction))
			if notional.LessThanOrEqual(decimal.Zero) {
				continue
			}
			quantity := notional.DivRound(price, 4)
			if quantity.LessThanOrEqual(decimal.Zero) {
				continue
			}
			decision.Proposals = append(decision.Proposals, domain.TradeProposal{
				Symbol:   symbol,
				Side:     domain.TradeSideBuy,
				Quantity: quantity,
			})

		case z >= meanReversionThreshold && position != nil:
			decision.Proposals = append(decision.Proposals, domain.TradeProposal{
				Symbol:   symbol,
				Side:     domain.TradeSideSell,
				Quantity: position.Quantity,
			})
		}
	}

	return decision, nil
}

func (s *meanReversionStrategy) observe(symbol string, price float64) {
	window := append(s.history[symbol], price)
	if len(window) > meanReversionWindow {
		window = window[len(window)-meanReversionWindow:]
	}
	s.history[symbol] = window
}

func (s *meanReversionStrategy) OnOutcome(outcome domain.TradeOutcome) {}
