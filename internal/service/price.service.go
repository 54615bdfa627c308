package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"algopilot/internal/logger"

	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"
)

// PriceService supplies the latest quote per symbol for strategy snapshots.
// Quotes are cached briefly so a burst of runtimes ticking together does not
// hammer the upstream.
type PriceService interface {
	GetLatestPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)
}

type cachedQuote struct {
	price     decimal.Decimal
	fetchedAt time.Time
}

type priceServiceHandler struct {
	mu    sync.Mutex
	cache map[string]cachedQuote
	ttl   time.Duration
}

func NewPriceService(ttl time.Duration) PriceService {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &priceServiceHandler{
		cache: map[string]cachedQuote{},
		ttl:   ttl,
	}
}

func (h *priceServiceHandler) GetLatestPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	log := logger.FromContext(ctx)

	out := map[string]decimal.Decimal{}
	if len(symbols) == 0 {
		return out, nil
	}

	now := time.Now()
	missing := []string{}
	h.mu.Lock()
	for _, symbol := range symbols {
		if cached, ok := h.cache[symbol]; ok && now.Sub(cached.fetchedAt) < h.ttl {
			out[symbol] = cached.price
		} else {
			missing = append(missing, symbol)
		}
	}
	h.mu.Unlock()

	for _, symbol := range missing {
		q, err := quote.Get(symbol)
		if err != nil {
			return nil, fmt.Errorf("failed to get quote for %s: %w", symbol, err)
		}
		if q == nil || q.RegularMarketPrice == 0 {
			log.Warnf("no usable quote for %s, skipping", symbol)
			continue
		}
		price := decimal.NewFromFloat(q.RegularMarketPrice)
		out[symbol] = price

		h.mu.Lock()
		h.cache[symbol] = cachedQuote{price: price, fetchedAt: now}
		h.mu.Unlock()
	}

	return out, nil
}
