package service

import (
	"fmt"
	"sync"

	"algopilot/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetLedger is the single source of truth for "can this algorithm still
// trade". Entries are process-local; allocated capital comes from the
// algorithm record at start and realized deltas are mirrored back to it by
// the scheduler.
//
// All operations are atomic per entry. Locking is per entry so concurrent
// trades from unrelated algorithms never serialize on each other.
type BudgetLedger interface {
	// Create installs an entry for the algorithm. Creating an entry that
	// already exists is a no-op.
	Create(id uuid.UUID, allocated decimal.Decimal)
	// Seed primes an existing entry with committed/realized state recovered
	// from storage, used when resuming an algorithm after a restart.
	Seed(id uuid.UUID, committed, realized decimal.Decimal) error
	// Reserve commits capital ahead of an order. Fails with
	// domain.ErrBudgetRejected if committed+amount would exceed allocated;
	// the proposal is rejected, never clamped.
	Reserve(id uuid.UUID, amount decimal.Decimal) error
	// Release returns reserved-but-unfilled capital. A release that would
	// drive committed negative indicates a caller bug and fails with
	// domain.ErrLedgerUnderflow.
	Release(id uuid.UUID, amount decimal.Decimal) error
	// Settle books the close of committed capital: committed is adjusted
	// down by amount and realized up by it. Amount may be negative for a
	// loss.
	Settle(id uuid.UUID, amount decimal.Decimal) error
	Snapshot(id uuid.UUID) (domain.BudgetSnapshot, error)
	// Drop removes the entry once its algorithm is terminal, so the map
	// does not grow with every algorithm ever run. Dropping an unknown id
	// is a no-op.
	Drop(id uuid.UUID)
}

type budgetEntry struct {
	mu        sync.Mutex
	allocated decimal.Decimal
	committed decimal.Decimal
	realized  decimal.Decimal
}

type budgetLedgerHandler struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*budgetEntry
}

func NewBudgetLedger() BudgetLedger {
	return &budgetLedgerHandler{
		entries: map[uuid.UUID]*budgetEntry{},
	}
}

func (h *budgetLedgerHandler) Create(id uuid.UUID, allocated decimal.Decimal) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.entries[id]; ok {
		return
	}
	h.entries[id] = &budgetEntry{
		allocated: allocated,
		committed: decimal.Zero,
		realized:  decimal.Zero,
	}
}

func (h *budgetLedgerHandler) entry(id uuid.UUID) (*budgetEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	e, ok := h.entries[id]
	if !ok {
		return nil, fmt.Errorf("no budget entry for algorithm %s: %w", id, domain.ErrNotFound)
	}
	return e, nil
}

func (h *budgetLedgerHandler) Seed(id uuid.UUID, committed, realized decimal.Decimal) error {
	e, err := h.entry(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if committed.GreaterThan(e.allocated) || committed.IsNegative() {
		return fmt.Errorf("cannot seed committed %s against allocated %s: %w",
			committed, e.allocated, domain.ErrBudgetRejected)
	}
	e.committed = committed
	e.realized = realized
	return nil
}

func (h *budgetLedgerHandler) Reserve(id uuid.UUID, amount decimal.Decimal) error {
	e, err := h.entry(id)
	if err != nil {
		return err
	}
	if amount.IsNegative() {
		return fmt.Errorf("reserve amount %s is negative: %w", amount, domain.ErrLedgerUnderflow)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.committed.Add(amount).GreaterThan(e.allocated) {
		return fmt.Errorf("reserve %s would exceed allocated %s (committed %s): %w",
			amount, e.allocated, e.committed, domain.ErrBudgetRejected)
	}
	e.committed = e.committed.Add(amount)
	return nil
}

func (h *budgetLedgerHandler) Release(id uuid.UUID, amount decimal.Decimal) error {
	e, err := h.entry(id)
	if err != nil {
		return err
	}
	if amount.IsNegative() {
		return fmt.Errorf("release amount %s is negative: %w", amount, domain.ErrLedgerUnderflow)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if amount.GreaterThan(e.committed) {
		return fmt.Errorf("release %s exceeds committed %s: %w",
			amount, e.committed, domain.ErrLedgerUnderflow)
	}
	e.committed = e.committed.Sub(amount)
	return nil
}

func (h *budgetLedgerHandler) Settle(id uuid.UUID, amount decimal.Decimal) error {
	e, err := h.entry(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	newCommitted := e.committed.Sub(amount)
	if newCommitted.IsNegative() {
		return fmt.Errorf("settle %s would drive committed %s negative: %w",
			amount, e.committed, domain.ErrLedgerUnderflow)
	}
	if newCommitted.GreaterThan(e.allocated) {
		return fmt.Errorf("settle %s would push committed past allocated %s: %w",
			amount, e.allocated, domain.ErrBudgetRejected)
	}
	e.committed = newCommitted
	e.realized = e.realized.Add(amount)
	return nil
}

func (h *budgetLedgerHandler) Drop(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.entries, id)
}

func (h *budgetLedgerHandler) Snapshot(id uuid.UUID) (domain.BudgetSnapshot, error) {
	e, err := h.entry(id)
	if err != nil {
		return domain.BudgetSnapshot{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.BudgetSnapshot{
		Allocated: e.allocated,
		Committed: e.committed,
		Realized:  e.realized,
	}, nil
}
