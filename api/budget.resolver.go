package api

import (
	"errors"

	"algopilot/internal/domain"
	"algopilot/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type budgetResponse struct {
	Allocated string `json:"allocated"`
	Committed string `json:"committed"`
	Realized  string `json:"realized"`
	Remaining string `json:"remaining"`
	Live      bool   `json:"live"`
}

// getBudget prefers the in-memory ledger. When the algorithm has no live
// entry (not started yet, or terminal) the snapshot is reconstructed from
// the record and its holdings, same as the scheduler does on resume.
func (h ApiHandler) getBudget(c *gin.Context) {
	id, err := algorithmIDFromPath(c)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	if snapshot, err := h.Ledger.Snapshot(id); err == nil {
		c.JSON(200, budgetResponse{
			Allocated: snapshot.Allocated.String(),
			Committed: snapshot.Committed.String(),
			Realized:  snapshot.Realized.String(),
			Remaining: snapshot.Remaining().String(),
			Live:      true,
		})
		return
	}

	record, err := h.Registry.Get(id)
	if errors.Is(err, domain.ErrNotFound) {
		returnErrorJsonCode(err, c, 404)
		return
	}
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	holdings, err := h.HoldingRepository.List(repository.HoldingListFilter{
		AlgorithmID: &id,
	})
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	committed := decimal.Zero
	for _, holding := range holdings {
		committed = committed.Add(holding.Quantity.Mul(holding.AvgPrice))
	}

	snapshot := domain.BudgetSnapshot{
		Allocated: record.AllocatedBudget,
		Committed: committed,
		Realized:  record.RealizedDelta,
	}
	c.JSON(200, budgetResponse{
		Allocated: snapshot.Allocated.String(),
		Committed: snapshot.Committed.String(),
		Realized:  snapshot.Realized.String(),
		Remaining: snapshot.Remaining().String(),
		Live:      false,
	})
}
