package api

import (
	"time"

	"algopilot/internal/repository"

	"github.com/gin-gonic/gin"
)

type tradeOrderResponse struct {
	TradeOrderID string     `json:"tradeOrderID"`
	Symbol       string     `json:"symbol"`
	Side         string     `json:"side"`
	Quantity     string     `json:"quantity"`
	Status       string     `json:"status"`
	FilledPrice  *string    `json:"filledPrice"`
	FilledAt     *time.Time `json:"filledAt"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func (h ApiHandler) getTradeOrders(c *gin.Context) {
	id, err := algorithmIDFromPath(c)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	orders, err := h.TradeOrderRepository.List(repository.TradeOrderListFilter{
		AlgorithmID: &id,
	})
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	out := []tradeOrderResponse{}
	for _, order := range orders {
		resp := tradeOrderResponse{
			TradeOrderID: order.TradeOrderID.String(),
			Symbol:       order.Symbol,
			Side:         order.Side.String(),
			Quantity:     order.Quantity.String(),
			Status:       order.Status.String(),
			FilledAt:     order.FilledAt,
			CreatedAt:    order.CreatedAt,
		}
		if order.FilledPrice != nil {
			price := order.FilledPrice.String()
			resp.FilledPrice = &price
		}
		out = append(out, resp)
	}

	c.JSON(200, gin.H{"orders": out})
}
