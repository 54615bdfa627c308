package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"algopilot/internal/db/models/postgres/public/model"
	"algopilot/internal/logger"
	"algopilot/internal/repository"
	"algopilot/internal/strategy"
	"algopilot/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultReconcileInterval = 2 * time.Second
	defaultGracePeriod       = 5 * time.Second
	listRetryAttempts        = 3
)

// SchedulerHandler converges the running set of algorithm runtimes onto the
// registry. Each reconciliation pass starts runtimes for live records that
// lack one, stops runtimes whose expiration has passed, and records exits.
// The runtimes map is the at-most-one guarantee: a record never gets a
// second runtime while its handle is still present, and handles are only
// touched under mu.
type SchedulerHandler struct {
	Registry             RegistryService
	Ledger               BudgetLedger
	Gateway              TradeGateway
	PriceService         PriceService
	HoldingRepository    repository.HoldingRepository
	TradeOrderRepository repository.TradeOrderRepository
	Log                  *zap.SugaredLogger

	// Interval bounds how long a registry change can go unobserved. Grace
	// is how long a cancelled runtime gets to unwind before the scheduler
	// stops waiting on it.
	Interval        time.Duration
	Grace           time.Duration
	StalenessWindow time.Duration

	mu          sync.Mutex
	runtimes    map[uuid.UUID]*runtimeHandle
	lastListOK  time.Time
	suspendedAt *time.Time
}

type runtimeHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
	// runErr is written by the runtime goroutine before done closes and
	// only read after done closes.
	runErr error
}

func NewScheduler(
	registry RegistryService,
	ledger BudgetLedger,
	gateway TradeGateway,
	priceService PriceService,
	holdingRepository repository.HoldingRepository,
	tradeOrderRepository repository.TradeOrderRepository,
	log *zap.SugaredLogger,
	interval time.Duration,
	grace time.Duration,
) *SchedulerHandler {
	if interval <= 0 {
		interval = defaultReconcileInterval
	}
	if grace <= 0 {
		grace = defaultGracePeriod
	}
	return &SchedulerHandler{
		Registry:             registry,
		Ledger:               ledger,
		Gateway:              gateway,
		PriceService:         priceService,
		HoldingRepository:    holdingRepository,
		TradeOrderRepository: tradeOrderRepository,
		Log:                  log,
		Interval:             interval,
		Grace:                grace,
		StalenessWindow:      3 * interval,
		runtimes:             map[uuid.UUID]*runtimeHandle{},
		lastListOK:           time.Now().UTC(),
	}
}

// Start blocks, reconciling every Interval until ctx is cancelled, then
// shuts down all runtimes and returns.
func (s *SchedulerHandler) Start(ctx context.Context) {
	s.Log.Infow("scheduler starting",
		"interval", s.Interval.String(),
		"grace", s.Grace.String(),
	)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.ReconcileOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			s.shutdownAll()
			return
		case <-ticker.C:
			s.ReconcileOnce(ctx)
		}
	}
}

// ReconcileOnce runs a single convergence pass. It is safe to call
// concurrently with itself; passes serialize on mu.
func (s *SchedulerHandler) ReconcileOnce(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reapFinishedLocked()

	records, err := s.listWithRetry()
	if err != nil {
		// existing runtimes keep trading on a stale view; only new
		// starts and kills wait for the registry to come back
		staleFor := time.Since(s.lastListOK)
		if staleFor > s.StalenessWindow && s.suspendedAt == nil {
			s.suspendedAt = util.TimePointer(time.Now().UTC())
			s.Log.Errorw("registry unreachable past staleness window, suspending new starts",
				"staleFor", staleFor.String(),
				"error", err.Error(),
			)
		} else {
			s.Log.Warnf("failed to list algorithms, skipping pass: %v", err)
		}
		return
	}
	s.lastListOK = time.Now().UTC()
	if s.suspendedAt != nil {
		s.Log.Infow("registry reachable again, resuming starts",
			"suspendedFor", time.Since(*s.suspendedAt).String(),
		)
		s.suspendedAt = nil
	}

	now := time.Now().UTC()
	live := map[uuid.UUID]model.Algorithm{}
	for _, record := range records {
		live[record.AlgorithmID] = record
	}

	for _, record := range records {
		if record.Expiration != nil && !record.Expiration.After(now) {
			s.stopExpiredLocked(record)
			continue
		}
		if _, running := s.runtimes[record.AlgorithmID]; running {
			s.syncRealizedLocked(record)
			continue
		}
		s.startLocked(ctx, record)
	}

	// a runtime whose record vanished from the live set (terminal edit
	// racing a crash recovery, manual DB surgery) gets stopped too
	for id, handle := range s.runtimes {
		if _, ok := live[id]; !ok {
			s.Log.Warnw("stopping runtime with no live record", "algorithmID", id.String())
			s.stopHandleLocked(id, handle)
		}
	}
}

func (s *SchedulerHandler) listWithRetry() ([]model.Algorithm, error) {
	var lastErr error
	for attempt := 0; attempt < listRetryAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
		}
		records, err := s.Registry.ListActive()
		if err == nil {
			return records, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// reapFinishedLocked collects runtimes that stopped on their own. A clean
// exit means the strategy declared itself complete and the record expires;
// an error exit is a strategy fault and fails the record without touching
// any other runtime.
func (s *SchedulerHandler) reapFinishedLocked() {
	for id, handle := range s.runtimes {
		select {
		case <-handle.done:
		default:
			continue
		}
		delete(s.runtimes, id)

		switch {
		case handle.runErr == nil:
			// a clean exit is not a failure; the reason stays empty
			s.markTerminalLocked(id, model.AlgorithmStatus_Expired, nil)
		case errors.Is(handle.runErr, context.Canceled):
			// stopped by a prior pass or shutdown; labelled there
		default:
			s.Log.Errorw("runtime exited with fault",
				"algorithmID", id.String(),
				"error", handle.runErr.Error(),
			)
			s.markTerminalLocked(id, model.AlgorithmStatus_Failed, util.StringPointer(handle.runErr.Error()))
		}
	}
}

// stopExpiredLocked cancels an expired record's runtime, waits up to Grace
// for it to unwind, and labels the terminal status. A kill is an expiration
// edit, so the distinction between EXPIRED and KILLED comes from the
// record's kill_requested flag, not from how the runtime stopped.
func (s *SchedulerHandler) stopExpiredLocked(record model.Algorithm) {
	id := record.AlgorithmID
	if handle, ok := s.runtimes[id]; ok {
		s.stopHandleLocked(id, handle)
	}

	status := model.AlgorithmStatus_Expired
	var reason *string
	if record.KillRequested {
		status = model.AlgorithmStatus_Killed
		reason = util.StringPointer("killed by operator")
	}
	s.markTerminalLocked(id, status, reason)
}

func (s *SchedulerHandler) stopHandleLocked(id uuid.UUID, handle *runtimeHandle) {
	handle.cancel()
	select {
	case <-handle.done:
	case <-time.After(s.Grace):
		s.Log.Errorw("runtime did not stop within grace period, abandoning goroutine",
			"algorithmID", id.String(),
			"grace", s.Grace.String(),
		)
	}
	delete(s.runtimes, id)
}

// startLocked spins up a runtime for a live record. The ledger entry is
// created (or found, if the scheduler restarted) and seeded with the
// committed capital implied by open holdings plus the realized delta the
// record carried, so a process restart resumes instead of double-spending.
func (s *SchedulerHandler) startLocked(ctx context.Context, record model.Algorithm) {
	if s.suspendedAt != nil {
		return
	}
	id := record.AlgorithmID

	expression := ""
	if record.Expression != nil {
		expression = *record.Expression
	}
	tickers := strings.Split(record.Tickers, ",")
	strat, err := strategy.New(record.StrategyName, strategy.Config{
		Tickers:    tickers,
		Expression: expression,
	})
	if err != nil {
		s.Log.Errorw("failed to construct strategy",
			"algorithmID", id.String(),
			"strategy", record.StrategyName,
			"error", err.Error(),
		)
		s.markTerminalLocked(id, model.AlgorithmStatus_Failed, util.StringPointer(err.Error()))
		return
	}

	s.Ledger.Create(id, record.AllocatedBudget)
	if err := s.seedLedger(id, record); err != nil {
		s.Log.Errorw("failed to seed ledger, not starting",
			"algorithmID", id.String(),
			"error", err.Error(),
		)
		return
	}

	if _, err := s.Registry.MarkRunning(id); err != nil {
		s.Log.Errorw("failed to mark algorithm running, not starting",
			"algorithmID", id.String(),
			"error", err.Error(),
		)
		return
	}

	runtime := &AlgorithmRuntime{
		AlgorithmID:          id,
		Strategy:             strat,
		Tickers:              tickers,
		Ledger:               s.Ledger,
		Gateway:              s.Gateway,
		PriceService:         s.PriceService,
		TradeOrderRepository: s.TradeOrderRepository,
		HoldingRepository:    s.HoldingRepository,
	}

	runCtx, cancel := context.WithCancel(context.WithValue(ctx, logger.ContextKey, s.Log))
	handle := &runtimeHandle{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.runtimes[id] = handle

	s.Log.Infow("starting algorithm runtime",
		"algorithmID", id.String(),
		"strategy", record.StrategyName,
		"budget", record.AllocatedBudget.String(),
	)

	go func() {
		handle.runErr = runtime.Run(runCtx)
		close(handle.done)
	}()
}

// seedLedger reconstructs committed capital from open holdings. Reserved
// capital on in-flight orders does not survive a restart; those orders were
// cancelled or orphaned at the brokerage and their reservations with them.
func (s *SchedulerHandler) seedLedger(id uuid.UUID, record model.Algorithm) error {
	holdings, err := s.HoldingRepository.List(repository.HoldingListFilter{
		AlgorithmID: &id,
	})
	if err != nil {
		return fmt.Errorf("failed to list holdings: %w", err)
	}

	committed := decimal.Zero
	for _, holding := range holdings {
		committed = committed.Add(holding.Quantity.Mul(holding.AvgPrice))
	}

	return s.Ledger.Seed(id, committed, record.RealizedDelta)
}

func (s *SchedulerHandler) syncRealizedLocked(record model.Algorithm) {
	snapshot, err := s.Ledger.Snapshot(record.AlgorithmID)
	if err != nil {
		return
	}
	if err := s.Registry.SyncRealized(record.AlgorithmID, snapshot.Realized); err != nil {
		s.Log.Warnf("failed to sync realized delta for %s: %v", record.AlgorithmID, err)
	}
}

func (s *SchedulerHandler) markTerminalLocked(id uuid.UUID, status model.AlgorithmStatus, reason *string) {
	if snapshot, err := s.Ledger.Snapshot(id); err == nil {
		if err := s.Registry.SyncRealized(id, snapshot.Realized); err != nil {
			s.Log.Warnf("failed to sync realized delta for %s: %v", id, err)
		}
	}

	record, err := s.Registry.MarkTerminal(id, status, reason)
	if err != nil {
		s.Log.Errorw("failed to mark algorithm terminal",
			"algorithmID", id.String(),
			"status", status.String(),
			"error", err.Error(),
		)
		return
	}

	// the realized delta is persisted above; from here the record and its
	// holdings are the source of truth
	s.Ledger.Drop(id)

	s.Log.Infow("algorithm terminal",
		"algorithmID", id.String(),
		"status", record.Status.String(),
	)
}

// shutdownAll cancels every runtime and waits up to Grace for each. Records
// are left RUNNING on purpose; the next process picks them up and resumes.
func (s *SchedulerHandler) shutdownAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Log.Infow("scheduler shutting down", "runtimes", len(s.runtimes))
	for _, handle := range s.runtimes {
		handle.cancel()
	}
	deadline := time.After(s.Grace)
	for id, handle := range s.runtimes {
		select {
		case <-handle.done:
		case <-deadline:
			s.Log.Warnw("runtime still unwinding at shutdown", "algorithmID", id.String())
		}
		delete(s.runtimes, id)
	}
}
