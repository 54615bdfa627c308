package service

import (
	"fmt"
	"strings"
	"time"

	"algopilot/internal/db/models/postgres/public/model"
	"algopilot/internal/db/models/postgres/public/table"
	"algopilot/internal/domain"
	"algopilot/internal/repository"
	"algopilot/internal/strategy"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegistryService is the durable record of every algorithm and the only
// mutation surface the control plane gets. Register never starts execution;
// it only makes the record visible to the scheduler. Setting the expiration
// to now-or-past is the documented kill mechanism.
type RegistryService interface {
	Register(input RegisterAlgorithmInput) (*model.Algorithm, error)
	SetExpiration(id uuid.UUID, expiration time.Time) (*model.Algorithm, error)
	Get(id uuid.UUID) (*model.Algorithm, error)
	ListActive() ([]model.Algorithm, error)

	// Status transitions below are reserved for the scheduler.
	MarkRunning(id uuid.UUID) (*model.Algorithm, error)
	MarkTerminal(id uuid.UUID, status model.AlgorithmStatus, reason *string) (*model.Algorithm, error)
	SyncRealized(id uuid.UUID, realized decimal.Decimal) error
}

type RegisterAlgorithmInput struct {
	StrategyName string
	Tickers      []string
	Expression   *string
	Budget       decimal.Decimal
	Expiration   *time.Time
}

type registryServiceHandler struct {
	AlgorithmRepository repository.AlgorithmRepository
}

func NewRegistryService(algorithmRepository repository.AlgorithmRepository) RegistryService {
	return registryServiceHandler{
		AlgorithmRepository: algorithmRepository,
	}
}

func isTerminal(s model.AlgorithmStatus) bool {
	switch s {
	case model.AlgorithmStatus_Expired, model.AlgorithmStatus_Killed, model.AlgorithmStatus_Failed:
		return true
	}
	return false
}

func (h registryServiceHandler) Register(input RegisterAlgorithmInput) (*model.Algorithm, error) {
	if input.Budget.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("budget %s: %w", input.Budget, domain.ErrInvalidBudget)
	}
	if !strategy.Exists(input.StrategyName) {
		return nil, fmt.Errorf("unknown strategy %q (supported: %s)",
			input.StrategyName, strings.Join(strategy.Names(), ", "))
	}

	// construct the variant once so a bad registration fails here, not
	// when the scheduler tries to start it
	expression := ""
	if input.Expression != nil {
		expression = *input.Expression
	}
	if _, err := strategy.New(input.StrategyName, strategy.Config{
		Tickers:    input.Tickers,
		Expression: expression,
	}); err != nil {
		return nil, fmt.Errorf("invalid strategy parameters: %w", err)
	}

	record := model.Algorithm{
		StrategyName:    input.StrategyName,
		Tickers:         strings.Join(input.Tickers, ","),
		Expression:      input.Expression,
		AllocatedBudget: input.Budget,
		RealizedDelta:   decimal.Zero,
		Expiration:      input.Expiration,
		Status:          model.AlgorithmStatus_Pending,
	}

	out, err := h.AlgorithmRepository.Add(nil, record)
	if err != nil {
		return nil, fmt.Errorf("failed to register algorithm: %w", err)
	}

	return out, nil
}

// SetExpiration always succeeds at the registry layer for a live record,
// even if the runtime has not observed it yet; the scheduler picks it up
// within one reconciliation interval. An expiration at or before now is
// recorded as an explicit kill request so the terminal status can be
// labelled KILLED rather than EXPIRED. A later edit that moves the
// deadline back into the future rescinds the request, so a rescinded
// kill that eventually lapses is labelled EXPIRED.
func (h registryServiceHandler) SetExpiration(id uuid.UUID, expiration time.Time) (*model.Algorithm, error) {
	record, err := h.AlgorithmRepository.Get(id)
	if err != nil {
		return nil, err
	}
	if isTerminal(record.Status) {
		return nil, fmt.Errorf("algorithm %s is already %s: %w", id, record.Status, domain.ErrNotFound)
	}

	record.Expiration = &expiration
	record.KillRequested = !expiration.After(time.Now().UTC())

	out, err := h.AlgorithmRepository.Update(nil, id, *record, postgres.ColumnList{
		table.Algorithm.Expiration,
		table.Algorithm.KillRequested,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set expiration: %w", err)
	}

	return out, nil
}

func (h registryServiceHandler) Get(id uuid.UUID) (*model.Algorithm, error) {
	return h.AlgorithmRepository.Get(id)
}

func (h registryServiceHandler) ListActive() ([]model.Algorithm, error) {
	return h.AlgorithmRepository.List(repository.AlgorithmListFilter{
		Statuses: []model.AlgorithmStatus{
			model.AlgorithmStatus_Pending,
			model.AlgorithmStatus_Running,
		},
	})
}

func (h registryServiceHandler) MarkRunning(id uuid.UUID) (*model.Algorithm, error) {
	record, err := h.AlgorithmRepository.Get(id)
	if err != nil {
		return nil, err
	}
	if isTerminal(record.Status) {
		return nil, fmt.Errorf("cannot mark %s running, already %s: %w", id, record.Status, domain.ErrNotFound)
	}
	if record.Status == model.AlgorithmStatus_Running {
		return record, nil
	}

	record.Status = model.AlgorithmStatus_Running
	return h.AlgorithmRepository.Update(nil, id, *record, postgres.ColumnList{
		table.Algorithm.Status,
	})
}

// MarkTerminal is idempotent: terminal states are sticky and a second
// transition attempt returns the record unchanged.
func (h registryServiceHandler) MarkTerminal(id uuid.UUID, status model.AlgorithmStatus, reason *string) (*model.Algorithm, error) {
	if !isTerminal(status) {
		return nil, fmt.Errorf("status %s is not terminal", status)
	}

	record, err := h.AlgorithmRepository.Get(id)
	if err != nil {
		return nil, err
	}
	if isTerminal(record.Status) {
		return record, nil
	}

	record.Status = status
	record.FailureReason = reason
	return h.AlgorithmRepository.Update(nil, id, *record, postgres.ColumnList{
		table.Algorithm.Status,
		table.Algorithm.FailureReason,
	})
}

func (h registryServiceHandler) SyncRealized(id uuid.UUID, realized decimal.Decimal) error {
	record, err := h.AlgorithmRepository.Get(id)
	if err != nil {
		return err
	}
	if record.RealizedDelta.Equal(realized) {
		return nil
	}

	record.RealizedDelta = realized
	_, err = h.AlgorithmRepository.Update(nil, id, *record, postgres.ColumnList{
		table.Algorithm.RealizedDelta,
	})
	return err
}
