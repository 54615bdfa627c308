package domain

import (
	"github.com/shopspring/decimal"
)

// BudgetSnapshot is a read-only view of one algorithm's ledger entry.
type BudgetSnapshot struct {
	Allocated decimal.Decimal `json:"allocated"`
	Committed decimal.Decimal `json:"committed"`
	Realized  decimal.Decimal `json:"realized"`
}

// Remaining is the capital still available for new reservations.
func (b BudgetSnapshot) Remaining() decimal.Decimal {
	return b.Allocated.Sub(b.Committed)
}
