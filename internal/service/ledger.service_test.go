package service

import (
	"sync"
	"testing"

	"algopilot/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestBudgetLedger(t *testing.T) {
	t.Run("reserve then settle moves capital into realized", func(t *testing.T) {
		ledger := NewBudgetLedger()
		id := uuid.New()
		ledger.Create(id, decimal.NewFromInt(1000))

		err := ledger.Reserve(id, decimal.NewFromInt(400))
		require.NoError(t, err)

		err = ledger.Settle(id, decimal.NewFromInt(50))
		require.NoError(t, err)

		snapshot, err := ledger.Snapshot(id)
		require.NoError(t, err)
		require.True(t, snapshot.Allocated.Equal(decimal.NewFromInt(1000)), "allocated %s", snapshot.Allocated)
		require.True(t, snapshot.Committed.Equal(decimal.NewFromInt(350)), "committed %s", snapshot.Committed)
		require.True(t, snapshot.Realized.Equal(decimal.NewFromInt(50)), "realized %s", snapshot.Realized)
		require.True(t, snapshot.Remaining().Equal(decimal.NewFromInt(650)), "remaining %s", snapshot.Remaining())
	})

	t.Run("reserve past allocated is rejected, not clamped", func(t *testing.T) {
		ledger := NewBudgetLedger()
		id := uuid.New()
		ledger.Create(id, decimal.NewFromInt(100))

		require.NoError(t, ledger.Reserve(id, decimal.NewFromInt(60)))

		err := ledger.Reserve(id, decimal.NewFromInt(41))
		require.ErrorIs(t, err, domain.ErrBudgetRejected)

		// the failed reserve must not have partially applied
		snapshot, err := ledger.Snapshot(id)
		require.NoError(t, err)
		require.True(t, snapshot.Committed.Equal(decimal.NewFromInt(60)))

		// an exact fit is fine
		require.NoError(t, ledger.Reserve(id, decimal.NewFromInt(40)))
	})

	t.Run("release beyond committed underflows", func(t *testing.T) {
		ledger := NewBudgetLedger()
		id := uuid.New()
		ledger.Create(id, decimal.NewFromInt(100))

		require.NoError(t, ledger.Reserve(id, decimal.NewFromInt(30)))

		err := ledger.Release(id, decimal.NewFromInt(31))
		require.ErrorIs(t, err, domain.ErrLedgerUnderflow)

		require.NoError(t, ledger.Release(id, decimal.NewFromInt(30)))
	})

	t.Run("settle with a loss grows committed back toward allocated", func(t *testing.T) {
		ledger := NewBudgetLedger()
		id := uuid.New()
		ledger.Create(id, decimal.NewFromInt(500))

		require.NoError(t, ledger.Reserve(id, decimal.NewFromInt(200)))
		require.NoError(t, ledger.Settle(id, decimal.NewFromInt(-50)))

		snapshot, err := ledger.Snapshot(id)
		require.NoError(t, err)
		require.True(t, snapshot.Committed.Equal(decimal.NewFromInt(250)))
		require.True(t, snapshot.Realized.Equal(decimal.NewFromInt(-50)))
	})

	t.Run("unknown algorithm returns not found", func(t *testing.T) {
		ledger := NewBudgetLedger()
		err := ledger.Reserve(uuid.New(), decimal.NewFromInt(1))
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("create twice is a no-op", func(t *testing.T) {
		ledger := NewBudgetLedger()
		id := uuid.New()
		ledger.Create(id, decimal.NewFromInt(100))
		require.NoError(t, ledger.Reserve(id, decimal.NewFromInt(40)))

		ledger.Create(id, decimal.NewFromInt(9999))

		snapshot, err := ledger.Snapshot(id)
		require.NoError(t, err)
		require.True(t, snapshot.Allocated.Equal(decimal.NewFromInt(100)))
		require.True(t, snapshot.Committed.Equal(decimal.NewFromInt(40)))
	})

	t.Run("drop removes the entry and is a no-op on unknown ids", func(t *testing.T) {
		ledger := NewBudgetLedger()
		id := uuid.New()
		ledger.Create(id, decimal.NewFromInt(100))

		ledger.Drop(id)
		_, err := ledger.Snapshot(id)
		require.ErrorIs(t, err, domain.ErrNotFound)

		ledger.Drop(uuid.New())
	})

	t.Run("seed primes recovered state and rejects impossible values", func(t *testing.T) {
		ledger := NewBudgetLedger()
		id := uuid.New()
		ledger.Create(id, decimal.NewFromInt(1000))

		require.NoError(t, ledger.Seed(id, decimal.NewFromInt(300), decimal.NewFromInt(-20)))

		snapshot, err := ledger.Snapshot(id)
		require.NoError(t, err)
		require.True(t, snapshot.Committed.Equal(decimal.NewFromInt(300)))
		require.True(t, snapshot.Realized.Equal(decimal.NewFromInt(-20)))

		err = ledger.Seed(id, decimal.NewFromInt(1001), decimal.Zero)
		require.ErrorIs(t, err, domain.ErrBudgetRejected)
	})
}

func TestBudgetLedger_concurrency(t *testing.T) {
	t.Run("committed never exceeds allocated under contention", func(t *testing.T) {
		ledger := NewBudgetLedger()
		id := uuid.New()
		ledger.Create(id, decimal.NewFromInt(500))

		var wg sync.WaitGroup
		var mu sync.Mutex
		accepted := 0

		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := ledger.Reserve(id, decimal.NewFromInt(10)); err == nil {
					mu.Lock()
					accepted++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		require.Equal(t, 50, accepted)
		snapshot, err := ledger.Snapshot(id)
		require.NoError(t, err)
		require.True(t, snapshot.Committed.Equal(decimal.NewFromInt(500)))
	})

	t.Run("mixed reserve, release, and settle keep committed within bounds", func(t *testing.T) {
		ledger := NewBudgetLedger()
		id := uuid.New()
		allocated := decimal.NewFromInt(1000)
		ledger.Create(id, allocated)

		var mu sync.Mutex
		violations := []string{}
		note := func(msg string) {
			mu.Lock()
			violations = append(violations, msg)
			mu.Unlock()
		}

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				amount := decimal.NewFromInt(int64(n%7 + 1))
				half := amount.Div(decimal.NewFromInt(2))

				for j := 0; j < 50; j++ {
					if err := ledger.Reserve(id, amount); err != nil {
						continue
					}
					// every accepted reservation is fully unwound, one
					// way or another
					var err error
					switch j % 3 {
					case 0:
						err = ledger.Release(id, amount)
					case 1:
						err = ledger.Settle(id, amount)
					case 2:
						if err = ledger.Settle(id, half); err == nil {
							err = ledger.Release(id, amount.Sub(half))
						}
					}
					if err != nil {
						note("unwind failed: " + err.Error())
					}

					snapshot, err := ledger.Snapshot(id)
					if err != nil {
						note("snapshot failed: " + err.Error())
						continue
					}
					if snapshot.Committed.IsNegative() {
						note("committed went negative: " + snapshot.Committed.String())
					}
					if snapshot.Committed.GreaterThan(allocated) {
						note("committed exceeded allocated: " + snapshot.Committed.String())
					}
				}
			}(i)
		}
		wg.Wait()

		require.Empty(t, violations)
		snapshot, err := ledger.Snapshot(id)
		require.NoError(t, err)
		require.True(t, snapshot.Committed.IsZero(), "committed %s", snapshot.Committed)
	})

	t.Run("independent algorithms do not interfere", func(t *testing.T) {
		ledger := NewBudgetLedger()
		a := uuid.New()
		b := uuid.New()
		ledger.Create(a, decimal.NewFromInt(100))
		ledger.Create(b, decimal.NewFromInt(100))

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = ledger.Reserve(a, decimal.NewFromInt(2))
				_ = ledger.Reserve(b, decimal.NewFromInt(2))
			}()
		}
		wg.Wait()

		for _, id := range []uuid.UUID{a, b} {
			snapshot, err := ledger.Snapshot(id)
			require.NoError(t, err)
			require.True(t, snapshot.Committed.Equal(decimal.NewFromInt(100)))
		}
	})
}
