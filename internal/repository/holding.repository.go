package repository

import (
	"database/sql"
	"fmt"
	"time"

	"algopilot/internal/db/models/postgres/public/model"
	"algopilot/internal/db/models/postgres/public/table"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/google/uuid"
)

type HoldingRepository interface {
	Add(tx *sql.Tx, holding model.Holding) (*model.Holding, error)
	List(HoldingListFilter) ([]model.Holding, error)
	Update(tx *sql.Tx, id uuid.UUID, holding model.Holding, columns postgres.ColumnList) (*model.Holding, error)
	Delete(tx *sql.Tx, id uuid.UUID) error
}

type HoldingListFilter struct {
	AlgorithmID *uuid.UUID
	Symbol      *string
}

type holdingRepositoryHandler struct {
	Db *sql.DB
}

func NewHoldingRepository(db *sql.DB) HoldingRepository {
	return holdingRepositoryHandler{Db: db}
}

func (h holdingRepositoryHandler) Add(tx *sql.Tx, holding model.Holding) (*model.Holding, error) {
	holding.CreatedAt = time.Now().UTC()
	holding.ModifiedAt = time.Now().UTC()
	query := table.Holding.
		INSERT(table.Holding.MutableColumns).
		MODEL(holding).
		RETURNING(table.Holding.AllColumns)

	var db qrm.Queryable = h.Db
	if tx != nil {
		db = tx
	}

	out := model.Holding{}
	err := query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to insert holding: %w", err)
	}

	return &out, nil
}

func (h holdingRepositoryHandler) List(filter HoldingListFilter) ([]model.Holding, error) {
	query := table.Holding.
		SELECT(table.Holding.AllColumns).
		ORDER_BY(table.Holding.CreatedAt.ASC())

	whereClauses := []postgres.BoolExpression{}
	if filter.AlgorithmID != nil {
		whereClauses = append(whereClauses, table.Holding.AlgorithmID.EQ(postgres.UUID(filter.AlgorithmID)))
	}
	if filter.Symbol != nil {
		whereClauses = append(whereClauses, table.Holding.Symbol.EQ(postgres.String(*filter.Symbol)))
	}
	if len(whereClauses) > 0 {
		query = query.WHERE(postgres.AND(whereClauses...))
	}

	result := []model.Holding{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}

	return result, nil
}

func (h holdingRepositoryHandler) Update(tx *sql.Tx, id uuid.UUID, holding model.Holding, columns postgres.ColumnList) (*model.Holding, error) {
	holding.ModifiedAt = time.Now().UTC()
	columns = append(columns, table.Holding.ModifiedAt)
	query := table.Holding.
		UPDATE(columns).
		WHERE(table.Holding.HoldingID.EQ(postgres.UUID(id))).
		MODEL(holding).
		RETURNING(table.Holding.AllColumns)

	var db qrm.Queryable = h.Db
	if tx != nil {
		db = tx
	}

	out := model.Holding{}
	err := query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to update holding: %w", err)
	}

	return &out, nil
}

func (h holdingRepositoryHandler) Delete(tx *sql.Tx, id uuid.UUID) error {
	query := table.Holding.
		DELETE().
		WHERE(table.Holding.HoldingID.EQ(postgres.UUID(id)))

	var db qrm.Executable = h.Db
	if tx != nil {
		db = tx
	}

	_, err := query.Exec(db)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}

	return nil
}
