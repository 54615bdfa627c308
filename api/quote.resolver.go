package api

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
)

func (h ApiHandler) getQuote(c *gin.Context) {
	raw := c.Query("symbols")
	if raw == "" {
		returnErrorJsonCode(errors.New("symbols query param is required"), c, 400)
		return
	}
	symbols := strings.Split(raw, ",")

	prices, err := h.PriceService.GetLatestPrices(c.Request.Context(), symbols)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	out := map[string]string{}
	for symbol, price := range prices {
		out[symbol] = price.String()
	}

	c.JSON(200, gin.H{"prices": out})
}
