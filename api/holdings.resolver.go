package api

import (
	"time"

	"algopilot/internal/db/models/postgres/public/model"
	"algopilot/internal/repository"
	"algopilot/internal/util"

	"github.com/gin-gonic/gin"
)

type holdingResponse struct {
	AlgorithmID string    `json:"algorithmId"`
	Symbol      string    `json:"symbol"`
	Quantity    string    `json:"quantity"`
	AvgPrice    string    `json:"avgPrice"`
	CostBasis   string    `json:"costBasis"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toHoldingResponse(holding model.Holding) holdingResponse {
	return holdingResponse{
		AlgorithmID: holding.AlgorithmID.String(),
		Symbol:      holding.Symbol,
		Quantity:    holding.Quantity.String(),
		AvgPrice:    holding.AvgPrice.String(),
		CostBasis:   holding.Quantity.Mul(holding.AvgPrice).String(),
		UpdatedAt:   holding.ModifiedAt,
	}
}

func (h ApiHandler) getHoldings(c *gin.Context) {
	id, err := algorithmIDFromPath(c)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	filter := repository.HoldingListFilter{AlgorithmID: &id}
	if ticker := c.Query("ticker"); ticker != "" {
		filter.Symbol = util.StringPointer(ticker)
	}

	holdings, err := h.HoldingRepository.List(filter)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	out := []holdingResponse{}
	for _, holding := range holdings {
		out = append(out, toHoldingResponse(holding))
	}

	c.JSON(200, gin.H{"holdings": out})
}

// listHoldings is the fleet-wide view across every algorithm, optionally
// narrowed to one ticker.
func (h ApiHandler) listHoldings(c *gin.Context) {
	filter := repository.HoldingListFilter{}
	if ticker := c.Query("ticker"); ticker != "" {
		filter.Symbol = util.StringPointer(ticker)
	}

	holdings, err := h.HoldingRepository.List(filter)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	out := []holdingResponse{}
	for _, holding := range holdings {
		out = append(out, toHoldingResponse(holding))
	}

	c.JSON(200, gin.H{"holdings": out})
}
