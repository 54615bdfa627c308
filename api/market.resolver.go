package api

import (
	"github.com/gin-gonic/gin"
)

type marketResponse struct {
	Open          bool   `json:"open"`
	AccountStatus string `json:"accountStatus"`
	BuyingPower   string `json:"buyingPower"`
	Cash          string `json:"cash"`
}

// getMarket reports brokerage-side state: whether the market is open and the
// shared account's balances. Useful for diagnosing a run of gateway timeouts.
func (h ApiHandler) getMarket(c *gin.Context) {
	open, err := h.AlpacaRepository.IsMarketOpen()
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	account, err := h.AlpacaRepository.GetAccount()
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, marketResponse{
		Open:          open,
		AccountStatus: account.Status,
		BuyingPower:   account.BuyingPower.String(),
		Cash:          account.Cash.String(),
	})
}
