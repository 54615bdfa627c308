package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"algopilot/internal/db/models/postgres/public/model"
	"algopilot/internal/domain"
	"algopilot/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type registerAlgorithmRequest struct {
	Strategy   string   `json:"strategy"`
	Tickers    []string `json:"tickers"`
	Expression *string  `json:"expression"`
	// Budget is a decimal string; floats lose cents
	Budget     string     `json:"budget"`
	Expiration *time.Time `json:"expiration"`
	TtlSeconds *int64     `json:"ttlSeconds"`
}

type algorithmResponse struct {
	AlgorithmID   string     `json:"algorithmID"`
	Strategy      string     `json:"strategy"`
	Tickers       []string   `json:"tickers"`
	Expression    *string    `json:"expression"`
	Budget        string     `json:"budget"`
	RealizedDelta string     `json:"realizedDelta"`
	Expiration    *time.Time `json:"expiration"`
	KillRequested bool       `json:"killRequested"`
	Status        string     `json:"status"`
	FailureReason *string    `json:"failureReason"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func toAlgorithmResponse(record model.Algorithm) algorithmResponse {
	tickers := []string{}
	if record.Tickers != "" {
		tickers = strings.Split(record.Tickers, ",")
	}
	return algorithmResponse{
		AlgorithmID:   record.AlgorithmID.String(),
		Strategy:      record.StrategyName,
		Tickers:       tickers,
		Expression:    record.Expression,
		Budget:        record.AllocatedBudget.String(),
		RealizedDelta: record.RealizedDelta.String(),
		Expiration:    record.Expiration,
		KillRequested: record.KillRequested,
		Status:        record.Status.String(),
		FailureReason: record.FailureReason,
		CreatedAt:     record.CreatedAt,
	}
}

func (h ApiHandler) registerAlgorithm(c *gin.Context) {
	var requestBody registerAlgorithmRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	budget, err := decimal.NewFromString(requestBody.Budget)
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid budget %q: %w", requestBody.Budget, err), c, 400)
		return
	}

	expiration := requestBody.Expiration
	if expiration == nil && requestBody.TtlSeconds != nil {
		t := time.Now().UTC().Add(time.Duration(*requestBody.TtlSeconds) * time.Second)
		expiration = &t
	}

	record, err := h.Registry.Register(service.RegisterAlgorithmInput{
		StrategyName: requestBody.Strategy,
		Tickers:      requestBody.Tickers,
		Expression:   requestBody.Expression,
		Budget:       budget,
		Expiration:   expiration,
	})
	if errors.Is(err, domain.ErrInvalidBudget) {
		returnErrorJsonCode(err, c, 400)
		return
	}
	if err != nil && (strings.Contains(err.Error(), "unknown strategy") ||
		strings.Contains(err.Error(), "invalid strategy parameters")) {
		returnErrorJsonCode(err, c, 400)
		return
	}
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, toAlgorithmResponse(*record))
}
