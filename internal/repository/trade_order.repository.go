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

type TradeOrderRepository interface {
	Add(tx *sql.Tx, to model.TradeOrder) (*model.TradeOrder, error)
	Update(tx *sql.Tx, tradeOrderID uuid.UUID, to model.TradeOrder, columns postgres.ColumnList) (*model.TradeOrder, error)
	List(TradeOrderListFilter) ([]model.TradeOrder, error)
}

type TradeOrderListFilter struct {
	AlgorithmID *uuid.UUID
}

type tradeOrderRepositoryHandler struct {
	Db *sql.DB
}

func NewTradeOrderRepository(db *sql.DB) TradeOrderRepository {
	return tradeOrderRepositoryHandler{Db: db}
}

func (h tradeOrderRepositoryHandler) Add(tx *sql.Tx, to model.TradeOrder) (*model.TradeOrder, error) {
	to.CreatedAt = time.Now().UTC()
	to.ModifiedAt = time.Now().UTC()
	query := table.TradeOrder.
		INSERT(table.TradeOrder.MutableColumns).
		MODEL(to).
		RETURNING(table.TradeOrder.AllColumns)

	var db qrm.Queryable = h.Db
	if tx != nil {
		db = tx
	}

	out := model.TradeOrder{}
	err := query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to insert trade order: %w", err)
	}

	return &out, nil
}

func (h tradeOrderRepositoryHandler) Update(tx *sql.Tx, tradeOrderID uuid.UUID, to model.TradeOrder, columns postgres.ColumnList) (*model.TradeOrder, error) {
	to.ModifiedAt = time.Now().UTC()
	columns = append(columns, table.TradeOrder.ModifiedAt)
	query := table.TradeOrder.
		UPDATE(columns).
		WHERE(table.TradeOrder.TradeOrderID.EQ(postgres.UUID(tradeOrderID))).
		MODEL(to).
		RETURNING(table.TradeOrder.AllColumns)

	var db qrm.Queryable = h.Db
	if tx != nil {
		db = tx
	}

	out := model.TradeOrder{}
	err := query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to update trade order: %w", err)
	}

	return &out, nil
}

func (h tradeOrderRepositoryHandler) List(filter TradeOrderListFilter) ([]model.TradeOrder, error) {
	query := table.TradeOrder.
		SELECT(table.TradeOrder.AllColumns).
		ORDER_BY(table.TradeOrder.CreatedAt.ASC())

	if filter.AlgorithmID != nil {
		query = query.WHERE(table.TradeOrder.AlgorithmID.EQ(postgres.UUID(filter.AlgorithmID)))
	}

	result := []model.TradeOrder{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list trade orders: %w", err)
	}

	return result, nil
}
