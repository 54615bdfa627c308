package domain

import "errors"

// Sentinel errors for the orchestration core. Callers match with errors.Is;
// wrapped context travels via fmt.Errorf("%w").
var (
	// ErrInvalidBudget rejects a registration whose budget is <= 0.
	ErrInvalidBudget = errors.New("budget must be greater than zero")

	// ErrNotFound covers both a missing algorithm id and an edit attempted
	// on a record that already reached a terminal status.
	ErrNotFound = errors.New("algorithm not found")

	// ErrBudgetRejected means a reserve would push committed past allocated.
	// Reported to users as "insufficient budget".
	ErrBudgetRejected = errors.New("insufficient budget")

	// ErrLedgerUnderflow indicates a bookkeeping bug in the caller: a release
	// or settle would drive committed negative. Never silently corrected.
	ErrLedgerUnderflow = errors.New("ledger underflow")

	// ErrGatewayRejected is returned when the brokerage refuses an order.
	ErrGatewayRejected = errors.New("order rejected by gateway")

	// ErrGatewayTimeout is treated like a rejection for budget purposes but
	// flagged distinctly for observability. A timed-out order is never
	// assumed filled.
	ErrGatewayTimeout = errors.New("gateway timed out")

	// ErrStrategyFault wraps an unrecoverable fault raised inside one
	// strategy. Terminal for that algorithm only.
	ErrStrategyFault = errors.New("strategy fault")
)
