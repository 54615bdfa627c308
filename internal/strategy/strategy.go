package strategy

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"algopilot/internal/domain"

	"github.com/shopspring/decimal"
)

// Snapshot is the market and budget state handed to a strategy on each
// evaluation tick.
type Snapshot struct {
	Time      time.Time
	Prices    map[string]decimal.Decimal
	Budget    domain.BudgetSnapshot
	Positions []domain.Position
}

// Position returns the open position for a symbol, if any.
func (s Snapshot) Position(symbol string) *domain.Position {
	for i := range s.Positions {
		if s.Positions[i].Symbol == symbol {
			return &s.Positions[i]
		}
	}
	return nil
}

// Decision carries zero or more trade proposals. Complete signals the
// runtime that the strategy has run its course and the loop should stop.
type Decision struct {
	Proposals []domain.TradeProposal
	Complete  bool
}

// Strategy is the opaque pluggable unit an algorithm runs. Implementations
// must be safe to drive from a single runtime goroutine; they are never
// called concurrently.
type Strategy interface {
	Name() string
	// Interval is how long the runtime sleeps between evaluation ticks.
	Interval() time.Duration
	// Evaluate inspects the snapshot and proposes trades. A returned error
	// is an unrecoverable strategy fault and terminates the algorithm.
	Evaluate(ctx context.Context, snap Snapshot) (*Decision, error)
	// OnOutcome informs the strategy what happened to one of its
	// proposals: filled, or dropped with a reason. Rejections are not
	// fatal.
	OnOutcome(outcome domain.TradeOutcome)
}

// Config carries the per-registration parameters a variant is built from.
type Config struct {
	Tickers    []string
	Expression string
	Interval   time.Duration
}

type Factory func(cfg Config) (Strategy, error)

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

// Register installs a strategy variant under a name. Variants register
// themselves from init; a duplicate name panics at startup.
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := registry[name]; ok {
		panic(fmt.Sprintf("strategy %q registered twice", name))
	}
	registry[name] = factory
}

// New builds the named variant. Variant selection happens once at
// registration time; there is no runtime reflection.
func New(name string, cfg Config) (Strategy, error) {
	mu.RLock()
	factory, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
	return factory(cfg)
}

func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := registry[name]
	return ok
}

func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
