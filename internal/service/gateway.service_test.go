package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"algopilot/internal/db/models/postgres/public/model"
	"algopilot/internal/domain"
	"algopilot/internal/repository"
	"algopilot/internal/util"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fakeAlpacaRepository scripts the brokerage: placed orders walk through a
// fixed status sequence, one step per GetOrder poll.
type fakeAlpacaRepository struct {
	mu           sync.Mutex
	placeErr     error
	statusSeq    []string
	statusIdx    int
	fillPrice    decimal.Decimal
	cancelled    []string
	orderID      string
	placedOrders []repository.AlpacaPlaceOrderRequest
}

func (f *fakeAlpacaRepository) PlaceOrder(req repository.AlpacaPlaceOrderRequest) (*alpaca.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.placeErr != nil {
		return nil, f.placeErr
	}
	f.placedOrders = append(f.placedOrders, req)
	return &alpaca.Order{ID: f.orderID, Status: "new"}, nil
}

func (f *fakeAlpacaRepository) GetOrder(providerID string) (*alpaca.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.statusSeq) == 0 {
		return &alpaca.Order{ID: providerID, Status: "new"}, nil
	}
	status := f.statusSeq[f.statusIdx]
	if f.statusIdx < len(f.statusSeq)-1 {
		f.statusIdx++
	}

	order := &alpaca.Order{ID: providerID, Status: status}
	if status == "filled" {
		if len(f.placedOrders) == 0 {
			return nil, fmt.Errorf("no order placed")
		}
		order.FilledQty = f.placedOrders[0].Quantity
		order.FilledAvgPrice = util.DecimalPointer(f.fillPrice)
		order.FilledAt = util.TimePointer(time.Now().UTC())
	}
	return order, nil
}

func (f *fakeAlpacaRepository) CancelOrder(providerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, providerID)
	return nil
}

func (f *fakeAlpacaRepository) GetPositions() ([]alpaca.Position, error) { return nil, nil }
func (f *fakeAlpacaRepository) IsMarketOpen() (bool, error)             { return true, nil }
func (f *fakeAlpacaRepository) GetAccount() (*alpaca.Account, error)    { return nil, nil }

func newTestGateway(broker *fakeAlpacaRepository, timeout time.Duration) TradeGateway {
	gateway := NewAlpacaTradeGateway(broker, newFakeHoldingRepository(), timeout).(*alpacaGatewayHandler)
	gateway.PollInterval = time.Millisecond
	return gateway
}

func TestAlpacaTradeGateway_Submit(t *testing.T) {
	t.Run("polls until filled and reports the fill", func(t *testing.T) {
		providerID := uuid.New()
		broker := &fakeAlpacaRepository{
			orderID:   providerID.String(),
			statusSeq: []string{"new", "partially_filled", "filled"},
			fillPrice: decimal.NewFromInt(101),
		}
		gateway := newTestGateway(broker, time.Second)

		fill, err := gateway.Submit(testContext(), domain.OrderRequest{
			TradeOrderID: uuid.New(),
			AlgorithmID:  uuid.New(),
			Symbol:       "AAPL",
			Side:         domain.TradeSideBuy,
			Quantity:     decimal.NewFromInt(3),
		})
		require.NoError(t, err)
		require.Equal(t, providerID, fill.ProviderID)
		require.True(t, fill.Quantity.Equal(decimal.NewFromInt(3)))
		require.True(t, fill.FillPrice.Equal(decimal.NewFromInt(101)))
		require.True(t, fill.Amount().Equal(decimal.NewFromInt(303)))
	})

	t.Run("brokerage rejection maps to gateway rejected", func(t *testing.T) {
		broker := &fakeAlpacaRepository{
			orderID:   uuid.New().String(),
			statusSeq: []string{"new", "rejected"},
		}
		gateway := newTestGateway(broker, time.Second)

		_, err := gateway.Submit(testContext(), domain.OrderRequest{
			TradeOrderID: uuid.New(),
			Symbol:       "AAPL",
			Side:         domain.TradeSideBuy,
			Quantity:     decimal.NewFromInt(1),
		})
		require.ErrorIs(t, err, domain.ErrGatewayRejected)
	})

	t.Run("place failure maps to gateway rejected", func(t *testing.T) {
		broker := &fakeAlpacaRepository{placeErr: fmt.Errorf("insufficient buying power")}
		gateway := newTestGateway(broker, time.Second)

		_, err := gateway.Submit(testContext(), domain.OrderRequest{
			TradeOrderID: uuid.New(),
			Symbol:       "AAPL",
			Side:         domain.TradeSideBuy,
			Quantity:     decimal.NewFromInt(1),
		})
		require.ErrorIs(t, err, domain.ErrGatewayRejected)
		require.Contains(t, err.Error(), "insufficient buying power")
	})

	t.Run("an order that never fills times out and is cancelled", func(t *testing.T) {
		providerID := uuid.New()
		broker := &fakeAlpacaRepository{
			orderID:   providerID.String(),
			statusSeq: []string{"new"},
		}
		gateway := newTestGateway(broker, 20*time.Millisecond)

		start := time.Now()
		_, err := gateway.Submit(testContext(), domain.OrderRequest{
			TradeOrderID: uuid.New(),
			Symbol:       "AAPL",
			Side:         domain.TradeSideBuy,
			Quantity:     decimal.NewFromInt(1),
		})
		require.ErrorIs(t, err, domain.ErrGatewayTimeout)
		require.Less(t, time.Since(start), time.Second)

		broker.mu.Lock()
		defer broker.mu.Unlock()
		require.Contains(t, broker.cancelled, providerID.String())
	})

	t.Run("sell side is passed through", func(t *testing.T) {
		broker := &fakeAlpacaRepository{
			orderID:   uuid.New().String(),
			statusSeq: []string{"filled"},
			fillPrice: decimal.NewFromInt(50),
		}
		gateway := newTestGateway(broker, time.Second)

		_, err := gateway.Submit(testContext(), domain.OrderRequest{
			TradeOrderID: uuid.New(),
			Symbol:       "AAPL",
			Side:         domain.TradeSideSell,
			Quantity:     decimal.NewFromInt(2),
		})
		require.NoError(t, err)

		broker.mu.Lock()
		defer broker.mu.Unlock()
		require.Len(t, broker.placedOrders, 1)
		require.Equal(t, alpaca.Sell, broker.placedOrders[0].Side)
	})
}

func TestAlpacaTradeGateway_Positions(t *testing.T) {
	t.Run("positions come from attributed holdings, not the shared account", func(t *testing.T) {
		holdings := newFakeHoldingRepository()
		gateway := NewAlpacaTradeGateway(&fakeAlpacaRepository{}, holdings, time.Second)

		mine := uuid.New()
		other := uuid.New()
		_, err := holdings.Add(nil, modelHolding(mine, "AAPL", 3, 100))
		require.NoError(t, err)
		_, err = holdings.Add(nil, modelHolding(other, "AAPL", 7, 90))
		require.NoError(t, err)

		positions, err := gateway.Positions(testContext(), mine)
		require.NoError(t, err)
		require.Len(t, positions, 1)
		require.Equal(t, mine, positions[0].AlgorithmID)
		require.True(t, positions[0].Quantity.Equal(decimal.NewFromInt(3)))
		require.True(t, positions[0].CostBasis().Equal(decimal.NewFromInt(300)))
	})
}

func modelHolding(algorithmID uuid.UUID, symbol string, quantity, avgPrice int64) model.Holding {
	return model.Holding{
		AlgorithmID: algorithmID,
		Symbol:      symbol,
		Quantity:    decimal.NewFromInt(quantity),
		AvgPrice:    decimal.NewFromInt(avgPrice),
	}
}
