package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"algopilot/internal/db/models/postgres/public/enum"
	"algopilot/internal/db/models/postgres/public/model"
	"algopilot/internal/db/models/postgres/public/table"
	"algopilot/internal/domain"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/google/uuid"
)

type AlgorithmRepository interface {
	Add(tx *sql.Tx, a model.Algorithm) (*model.Algorithm, error)
	Get(id uuid.UUID) (*model.Algorithm, error)
	List(AlgorithmListFilter) ([]model.Algorithm, error)
	Update(tx *sql.Tx, id uuid.UUID, a model.Algorithm, columns postgres.ColumnList) (*model.Algorithm, error)
}

type AlgorithmListFilter struct {
	Statuses []model.AlgorithmStatus
}

type algorithmRepositoryHandler struct {
	Db *sql.DB
}

func NewAlgorithmRepository(db *sql.DB) AlgorithmRepository {
	return algorithmRepositoryHandler{Db: db}
}

func (h algorithmRepositoryHandler) Add(tx *sql.Tx, a model.Algorithm) (*model.Algorithm, error) {
	a.CreatedAt = time.Now().UTC()
	a.ModifiedAt = time.Now().UTC()
	query := table.Algorithm.
		INSERT(table.Algorithm.MutableColumns).
		MODEL(a).
		RETURNING(table.Algorithm.AllColumns)

	var db qrm.Queryable = h.Db
	if tx != nil {
		db = tx
	}

	out := model.Algorithm{}
	err := query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to insert algorithm: %w", err)
	}

	return &out, nil
}

func (h algorithmRepositoryHandler) Get(id uuid.UUID) (*model.Algorithm, error) {
	query := table.Algorithm.
		SELECT(table.Algorithm.AllColumns).
		WHERE(table.Algorithm.AlgorithmID.EQ(postgres.UUID(id)))

	result := model.Algorithm{}
	err := query.Query(h.Db, &result)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get algorithm: %w", err)
	}

	return &result, nil
}

func (h algorithmRepositoryHandler) List(filter AlgorithmListFilter) ([]model.Algorithm, error) {
	query := table.Algorithm.
		SELECT(table.Algorithm.AllColumns).
		ORDER_BY(table.Algorithm.CreatedAt.ASC())

	if len(filter.Statuses) > 0 {
		statuses := []postgres.Expression{}
		for _, s := range filter.Statuses {
			statuses = append(statuses, statusExpression(s))
		}
		query = query.WHERE(table.Algorithm.Status.IN(statuses...))
	}

	result := []model.Algorithm{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list algorithms: %w", err)
	}

	return result, nil
}

func (h algorithmRepositoryHandler) Update(tx *sql.Tx, id uuid.UUID, a model.Algorithm, columns postgres.ColumnList) (*model.Algorithm, error) {
	a.ModifiedAt = time.Now().UTC()
	columns = append(columns, table.Algorithm.ModifiedAt)
	query := table.Algorithm.
		UPDATE(columns).
		WHERE(table.Algorithm.AlgorithmID.EQ(postgres.UUID(id))).
		MODEL(a).
		RETURNING(table.Algorithm.AllColumns)

	var db qrm.Queryable = h.Db
	if tx != nil {
		db = tx
	}

	out := model.Algorithm{}
	err := query.Query(db, &out)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update algorithm: %w", err)
	}

	return &out, nil
}

func statusExpression(s model.AlgorithmStatus) postgres.Expression {
	switch s {
	case model.AlgorithmStatus_Pending:
		return enum.AlgorithmStatus.Pending
	case model.AlgorithmStatus_Running:
		return enum.AlgorithmStatus.Running
	case model.AlgorithmStatus_Expired:
		return enum.AlgorithmStatus.Expired
	case model.AlgorithmStatus_Killed:
		return enum.AlgorithmStatus.Killed
	default:
		return enum.AlgorithmStatus.Failed
	}
}
