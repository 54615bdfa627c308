package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"algopilot/internal/db/models/postgres/public/model"
	"algopilot/internal/domain"
	"algopilot/internal/repository"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// in-memory repository fakes. Updates are column-aware so partial updates
// behave like the real UPDATE statements do.

type fakeAlgorithmRepository struct {
	mu      sync.Mutex
	records map[uuid.UUID]model.Algorithm
	listErr error
}

func newFakeAlgorithmRepository() *fakeAlgorithmRepository {
	return &fakeAlgorithmRepository{records: map[uuid.UUID]model.Algorithm{}}
}

func (f *fakeAlgorithmRepository) Add(tx *sql.Tx, a model.Algorithm) (*model.Algorithm, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.AlgorithmID = uuid.New()
	a.CreatedAt = time.Now().UTC()
	a.ModifiedAt = time.Now().UTC()
	f.records[a.AlgorithmID] = a
	return &a, nil
}

func (f *fakeAlgorithmRepository) Get(id uuid.UUID) (*model.Algorithm, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &record, nil
}

func (f *fakeAlgorithmRepository) List(filter repository.AlgorithmListFilter) ([]model.Algorithm, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []model.Algorithm{}
	for _, record := range f.records {
		if len(filter.Statuses) == 0 {
			out = append(out, record)
			continue
		}
		for _, status := range filter.Statuses {
			if record.Status == status {
				out = append(out, record)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeAlgorithmRepository) Update(tx *sql.Tx, id uuid.UUID, a model.Algorithm, columns postgres.ColumnList) (*model.Algorithm, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	for _, column := range columns {
		switch column.Name() {
		case "status":
			record.Status = a.Status
		case "failure_reason":
			record.FailureReason = a.FailureReason
		case "expiration":
			record.Expiration = a.Expiration
		case "kill_requested":
			record.KillRequested = a.KillRequested
		case "realized_delta":
			record.RealizedDelta = a.RealizedDelta
		}
	}
	record.ModifiedAt = time.Now().UTC()
	f.records[id] = record
	return &record, nil
}

type fakeHoldingRepository struct {
	mu       sync.Mutex
	holdings map[uuid.UUID]model.Holding
}

func newFakeHoldingRepository() *fakeHoldingRepository {
	return &fakeHoldingRepository{holdings: map[uuid.UUID]model.Holding{}}
}

func (f *fakeHoldingRepository) Add(tx *sql.Tx, holding model.Holding) (*model.Holding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	holding.HoldingID = uuid.New()
	holding.CreatedAt = time.Now().UTC()
	holding.ModifiedAt = time.Now().UTC()
	f.holdings[holding.HoldingID] = holding
	return &holding, nil
}

func (f *fakeHoldingRepository) List(filter repository.HoldingListFilter) ([]model.Holding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Holding{}
	for _, holding := range f.holdings {
		if filter.AlgorithmID != nil && holding.AlgorithmID != *filter.AlgorithmID {
			continue
		}
		if filter.Symbol != nil && holding.Symbol != *filter.Symbol {
			continue
		}
		out = append(out, holding)
	}
	return out, nil
}

func (f *fakeHoldingRepository) Update(tx *sql.Tx, id uuid.UUID, holding model.Holding, columns postgres.ColumnList) (*model.Holding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.holdings[id]
	if !ok {
		return nil, fmt.Errorf("holding %s: %w", id, domain.ErrNotFound)
	}
	for _, column := range columns {
		switch column.Name() {
		case "quantity":
			record.Quantity = holding.Quantity
		case "avg_price":
			record.AvgPrice = holding.AvgPrice
		}
	}
	record.ModifiedAt = time.Now().UTC()
	f.holdings[id] = record
	return &record, nil
}

func (f *fakeHoldingRepository) Delete(tx *sql.Tx, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.holdings, id)
	return nil
}

type fakeTradeOrderRepository struct {
	mu     sync.Mutex
	orders map[uuid.UUID]model.TradeOrder
}

func newFakeTradeOrderRepository() *fakeTradeOrderRepository {
	return &fakeTradeOrderRepository{orders: map[uuid.UUID]model.TradeOrder{}}
}

func (f *fakeTradeOrderRepository) Add(tx *sql.Tx, to model.TradeOrder) (*model.TradeOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	to.TradeOrderID = uuid.New()
	to.CreatedAt = time.Now().UTC()
	to.ModifiedAt = time.Now().UTC()
	f.orders[to.TradeOrderID] = to
	return &to, nil
}

func (f *fakeTradeOrderRepository) Update(tx *sql.Tx, tradeOrderID uuid.UUID, to model.TradeOrder, columns postgres.ColumnList) (*model.TradeOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.orders[tradeOrderID]
	if !ok {
		return nil, fmt.Errorf("trade order %s: %w", tradeOrderID, domain.ErrNotFound)
	}
	for _, column := range columns {
		switch column.Name() {
		case "status":
			record.Status = to.Status
		case "provider_id":
			record.ProviderID = to.ProviderID
		case "filled_price":
			record.FilledPrice = to.FilledPrice
		case "filled_at":
			record.FilledAt = to.FilledAt
		case "reserved_amount":
			record.ReservedAmount = to.ReservedAmount
		}
	}
	record.ModifiedAt = time.Now().UTC()
	f.orders[tradeOrderID] = record
	return &record, nil
}

func (f *fakeTradeOrderRepository) List(filter repository.TradeOrderListFilter) ([]model.TradeOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.TradeOrder{}
	for _, order := range f.orders {
		if filter.AlgorithmID != nil && order.AlgorithmID != *filter.AlgorithmID {
			continue
		}
		out = append(out, order)
	}
	return out, nil
}

type fakePriceService struct {
	mu     sync.Mutex
	prices map[string]decimal.Decimal
	err    error
}

func (f *fakePriceService) GetLatestPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]decimal.Decimal{}
	for _, symbol := range symbols {
		if price, ok := f.prices[symbol]; ok {
			out[symbol] = price
		}
	}
	return out, nil
}

func (f *fakePriceService) setPrice(symbol string, price decimal.Decimal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.prices == nil {
		f.prices = map[string]decimal.Decimal{}
	}
	f.prices[symbol] = price
}
