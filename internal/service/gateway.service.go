package service

//go:generate mockgen -destination=mocks/gateway.mock.go -package=mock_service . TradeGateway

import (
	"context"
	"fmt"
	"time"

	"algopilot/internal/domain"
	"algopilot/internal/logger"
	"algopilot/internal/repository"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TradeGateway is the collaborator contract the core depends on for order
// execution. Submit blocks until the order fills, the brokerage rejects it,
// or the round-trip timeout elapses; a timed-out order is cancelled and
// reported as domain.ErrGatewayTimeout, never assumed filled. Gateway calls
// always happen outside any ledger lock.
type TradeGateway interface {
	Submit(ctx context.Context, order domain.OrderRequest) (*domain.Fill, error)
	Positions(ctx context.Context, algorithmID uuid.UUID) ([]domain.Position, error)
}

type alpacaGatewayHandler struct {
	AlpacaRepository  repository.AlpacaRepository
	HoldingRepository repository.HoldingRepository
	Timeout           time.Duration
	PollInterval      time.Duration
}

func NewAlpacaTradeGateway(
	alpacaRepository repository.AlpacaRepository,
	holdingRepository repository.HoldingRepository,
	timeout time.Duration,
) TradeGateway {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &alpacaGatewayHandler{
		AlpacaRepository:  alpacaRepository,
		HoldingRepository: holdingRepository,
		Timeout:           timeout,
		PollInterval:      250 * time.Millisecond,
	}
}

func (h *alpacaGatewayHandler) Submit(ctx context.Context, order domain.OrderRequest) (*domain.Fill, error) {
	side := alpaca.Buy
	if order.Side == domain.TradeSideSell {
		side = alpaca.Sell
	}

	placed, err := h.AlpacaRepository.PlaceOrder(repository.AlpacaPlaceOrderRequest{
		TradeOrderID: order.TradeOrderID,
		Quantity:     order.Quantity,
		Symbol:       order.Symbol,
		Side:         side,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrGatewayRejected, err.Error())
	}

	return h.awaitFill(ctx, order, placed.ID)
}

// awaitFill polls order status until filled, terminal, timed out, or the
// caller's context is cancelled. Cancellation and timeout both cancel the
// open order best-effort before returning.
func (h *alpacaGatewayHandler) awaitFill(ctx context.Context, order domain.OrderRequest, providerID string) (*domain.Fill, error) {
	log := logger.FromContext(ctx)
	deadline := time.Now().Add(h.Timeout)

	for {
		placed, err := h.AlpacaRepository.GetOrder(providerID)
		if err == nil {
			switch placed.Status {
			case "filled":
				return fillFromOrder(order, placed)
			case "canceled", "expired", "rejected", "done_for_day":
				return nil, fmt.Errorf("order %s ended %s: %w", providerID, placed.Status, domain.ErrGatewayRejected)
			}
		} else {
			log.Warnf("failed to poll order %s: %v", providerID, err)
		}

		if time.Now().After(deadline) {
			h.cancelQuietly(log, providerID)
			return nil, fmt.Errorf("order %s unfilled after %s: %w", providerID, h.Timeout, domain.ErrGatewayTimeout)
		}

		select {
		case <-ctx.Done():
			h.cancelQuietly(log, providerID)
			return nil, fmt.Errorf("order %s abandoned on shutdown: %w", providerID, domain.ErrGatewayTimeout)
		case <-time.After(h.PollInterval):
		}
	}
}

func (h *alpacaGatewayHandler) cancelQuietly(log interface{ Warnf(string, ...interface{}) }, providerID string) {
	if err := h.AlpacaRepository.CancelOrder(providerID); err != nil {
		log.Warnf("failed to cancel order %s: %v", providerID, err)
	}
}

func fillFromOrder(order domain.OrderRequest, placed *alpaca.Order) (*domain.Fill, error) {
	providerID, err := uuid.Parse(placed.ID)
	if err != nil {
		return nil, fmt.Errorf("unparseable provider order id %q: %w", placed.ID, err)
	}
	if placed.FilledAvgPrice == nil {
		return nil, fmt.Errorf("order %s filled with no average price: %w", placed.ID, domain.ErrGatewayRejected)
	}

	filledAt := time.Now().UTC()
	if placed.FilledAt != nil {
		filledAt = placed.FilledAt.UTC()
	}

	return &domain.Fill{
		ProviderID: providerID,
		Symbol:     order.Symbol,
		Side:       order.Side,
		Quantity:   placed.FilledQty,
		FillPrice:  *placed.FilledAvgPrice,
		FilledAt:   filledAt,
	}, nil
}

// Positions reports open positions attributed to one algorithm. Attribution
// lives in the holding table, not at the brokerage: the shared account's
// positions are the union of every algorithm's holdings.
func (h *alpacaGatewayHandler) Positions(ctx context.Context, algorithmID uuid.UUID) ([]domain.Position, error) {
	holdings, err := h.HoldingRepository.List(repository.HoldingListFilter{
		AlgorithmID: &algorithmID,
	})
	if err != nil {
		return nil, err
	}

	positions := make([]domain.Position, 0, len(holdings))
	for _, holding := range holdings {
		if holding.Quantity.LessThanOrEqual(decimal.Zero) {
			continue
		}
		positions = append(positions, domain.Position{
			AlgorithmID: holding.AlgorithmID,
			Symbol:      holding.Symbol,
			Quantity:    holding.Quantity,
			AvgPrice:    holding.AvgPrice,
		})
	}

	return positions, nil
}
