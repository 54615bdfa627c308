package strategy

import (
	"context"
	"testing"
	"time"

	"algopilot/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("built-in variants are registered", func(t *testing.T) {
		for _, name := range []string{"base", "meanreversion", "expr"} {
			require.True(t, Exists(name), "expected %q to be registered", name)
		}
		require.False(t, Exists("nope"))
	})

	t.Run("names are sorted and stable", func(t *testing.T) {
		names := Names()
		require.Contains(t, names, "base")
		for i := 1; i < len(names); i++ {
			require.Less(t, names[i-1], names[i])
		}
	})

	t.Run("unknown variant errors", func(t *testing.T) {
		_, err := New("nope", Config{})
		require.Error(t, err)
	})
}

func TestBaseStrategy(t *testing.T) {
	t.Run("never trades and never completes", func(t *testing.T) {
		strat, err := New("base", Config{})
		require.NoError(t, err)
		require.Equal(t, "base", strat.Name())
		require.Equal(t, 5*time.Second, strat.Interval())

		decision, err := strat.Evaluate(context.Background(), Snapshot{
			Prices: map[string]decimal.Decimal{"AAPL": decimal.NewFromInt(100)},
		})
		require.NoError(t, err)
		require.Empty(t, decision.Proposals)
		require.False(t, decision.Complete)
	})

	t.Run("interval override is honored", func(t *testing.T) {
		strat, err := New("base", Config{Interval: time.Minute})
		require.NoError(t, err)
		require.Equal(t, time.Minute, strat.Interval())
	})
}

func snapshotAt(price float64, budget domain.BudgetSnapshot, positions ...domain.Position) Snapshot {
	return Snapshot{
		Time:      time.Now().UTC(),
		Prices:    map[string]decimal.Decimal{"AAPL": decimal.NewFromFloat(price)},
		Budget:    budget,
		Positions: positions,
	}
}

func testBudget(allocated int64) domain.BudgetSnapshot {
	return domain.BudgetSnapshot{
		Allocated: decimal.NewFromInt(allocated),
		Committed: decimal.Zero,
		Realized:  decimal.Zero,
	}
}

func TestMeanReversionStrategy(t *testing.T) {
	t.Run("requires tickers", func(t *testing.T) {
		_, err := New("meanreversion", Config{})
		require.Error(t, err)
	})

	t.Run("buys a dip and closes on the rebound", func(t *testing.T) {
		strat, err := New("meanreversion", Config{Tickers: []string{"AAPL"}})
		require.NoError(t, err)

		budget := testBudget(1000)
		ctx := context.Background()

		// prime the window with an oscillating series; no trade until the
		// window is full
		series := []float64{100, 101, 99, 100, 101, 99, 100, 101, 99, 100,
			101, 99, 100, 101, 99, 100, 101, 99, 100}
		for _, price := range series {
			decision, err := strat.Evaluate(ctx, snapshotAt(price, budget))
			require.NoError(t, err)
			require.Empty(t, decision.Proposals)
		}

		// sharp drop: well over one stdev below the mean
		decision, err := strat.Evaluate(ctx, snapshotAt(90, budget))
		require.NoError(t, err)
		require.Len(t, decision.Proposals, 1)
		buy := decision.Proposals[0]
		require.Equal(t, domain.TradeSideBuy, buy.Side)
		require.Equal(t, "AAPL", buy.Symbol)
		require.True(t, buy.Quantity.IsPositive())

		position := domain.Position{
			AlgorithmID: uuid.New(),
			Symbol:      "AAPL",
			Quantity:    buy.Quantity,
			AvgPrice:    decimal.NewFromInt(90),
		}

		// price pops well above the mean: close the position
		decision, err = strat.Evaluate(ctx, snapshotAt(115, budget, position))
		require.NoError(t, err)
		require.Len(t, decision.Proposals, 1)
		sell := decision.Proposals[0]
		require.Equal(t, domain.TradeSideSell, sell.Side)
		require.True(t, sell.Quantity.Equal(buy.Quantity))
	})

	t.Run("holds when already positioned on a dip", func(t *testing.T) {
		strat, err := New("meanreversion", Config{Tickers: []string{"AAPL"}})
		require.NoError(t, err)

		budget := testBudget(1000)
		ctx := context.Background()
		for i := 0; i < 20; i++ {
			_, err := strat.Evaluate(ctx, snapshotAt(100, budget))
			require.NoError(t, err)
		}

		position := domain.Position{
			Symbol:   "AAPL",
			Quantity: decimal.NewFromInt(1),
			AvgPrice: decimal.NewFromInt(100),
		}
		// flat series has zero stdev, so first push the window off flat
		for _, price := range []float64{101, 99, 101, 99} {
			_, err := strat.Evaluate(ctx, snapshotAt(price, budget, position))
			require.NoError(t, err)
		}
		decision, err := strat.Evaluate(ctx, snapshotAt(90, budget, position))
		require.NoError(t, err)
		require.Empty(t, decision.Proposals)
	})
}

func TestExprStrategy(t *testing.T) {
	t.Run("requires an expression and tickers", func(t *testing.T) {
		_, err := New("expr", Config{Tickers: []string{"AAPL"}})
		require.Error(t, err)
		_, err = New("expr", Config{Expression: "1"})
		require.Error(t, err)
	})

	t.Run("positive notional buys", func(t *testing.T) {
		strat, err := New("expr", Config{
			Tickers:    []string{"AAPL"},
			Expression: "200",
		})
		require.NoError(t, err)

		decision, err := strat.Evaluate(context.Background(), snapshotAt(100, testBudget(1000)))
		require.NoError(t, err)
		require.Len(t, decision.Proposals, 1)
		require.Equal(t, domain.TradeSideBuy, decision.Proposals[0].Side)
		require.True(t, decision.Proposals[0].Quantity.Equal(decimal.NewFromInt(2)))
	})

	t.Run("negative notional sells capped at the position", func(t *testing.T) {
		strat, err := New("expr", Config{
			Tickers:    []string{"AAPL"},
			Expression: "-100000",
		})
		require.NoError(t, err)

		position := domain.Position{
			Symbol:   "AAPL",
			Quantity: decimal.NewFromInt(3),
			AvgPrice: decimal.NewFromInt(100),
		}
		decision, err := strat.Evaluate(context.Background(), snapshotAt(100, testBudget(1000), position))
		require.NoError(t, err)
		require.Len(t, decision.Proposals, 1)
		require.Equal(t, domain.TradeSideSell, decision.Proposals[0].Side)
		require.True(t, decision.Proposals[0].Quantity.Equal(decimal.NewFromInt(3)))
	})

	t.Run("sell without a position is a hold", func(t *testing.T) {
		strat, err := New("expr", Config{
			Tickers:    []string{"AAPL"},
			Expression: "-500",
		})
		require.NoError(t, err)

		decision, err := strat.Evaluate(context.Background(), snapshotAt(100, testBudget(1000)))
		require.NoError(t, err)
		require.Empty(t, decision.Proposals)
	})

	t.Run("tiny notionals are holds", func(t *testing.T) {
		strat, err := New("expr", Config{
			Tickers:    []string{"AAPL"},
			Expression: "0.5",
		})
		require.NoError(t, err)

		decision, err := strat.Evaluate(context.Background(), snapshotAt(100, testBudget(1000)))
		require.NoError(t, err)
		require.Empty(t, decision.Proposals)
	})

	t.Run("budget variables are visible to the expression", func(t *testing.T) {
		strat, err := New("expr", Config{
			Tickers:    []string{"AAPL"},
			Expression: "remaining * 0.1",
		})
		require.NoError(t, err)

		decision, err := strat.Evaluate(context.Background(), snapshotAt(100, testBudget(1000)))
		require.NoError(t, err)
		require.Len(t, decision.Proposals, 1)
		// 10% of 1000 remaining at price 100 is one share
		require.True(t, decision.Proposals[0].Quantity.Equal(decimal.NewFromInt(1)))
	})

	t.Run("a broken expression is an evaluation error", func(t *testing.T) {
		strat, err := New("expr", Config{
			Tickers:    []string{"AAPL"},
			Expression: "price +",
		})
		require.NoError(t, err)

		_, err = strat.Evaluate(context.Background(), snapshotAt(100, testBudget(1000)))
		require.Error(t, err)
	})
}
