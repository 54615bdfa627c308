package strategy

import (
	"context"
	"time"

	"algopilot/internal/domain"
)

const defaultInterval = 5 * time.Second

// baseStrategy is the do-nothing heartbeat every other variant builds on.
// It never trades and never completes; useful for exercising the lifecycle
// machinery without touching the brokerage.
type baseStrategy struct {
	interval time.Duration
}

func init() {
	Register("base", func(cfg Config) (Strategy, error) {
		interval := cfg.Interval
		if interval <= 0 {
			interval = defaultInterval
		}
		return &baseStrategy{interval: interval}, nil
	})
}

func (s *baseStrategy) Name() string {
	return "base"
}

func (s *baseStrategy) Interval() time.Duration {
	return s.interval
}

func (s *baseStrategy) Evaluate(ctx context.Context, snap Snapshot) (*Decision, error) {
	return &Decision{}, nil
}

func (s *baseStrategy) OnOutcome(outcome domain.TradeOutcome) {}
