package repository

import (
	"database/sql"
	"fmt"

	"algopilot/internal/db/models/postgres/public/model"
	"algopilot/internal/db/models/postgres/public/table"

	"github.com/go-jet/jet/v2/postgres"
)

type ApiRequestRepository interface {
	Add(db *sql.DB, req model.APIRequest) (*model.APIRequest, error)
	Update(db *sql.DB, req model.APIRequest) error
}

type apiRequestRepositoryHandler struct{}

func NewApiRequestRepository() ApiRequestRepository {
	return apiRequestRepositoryHandler{}
}

func (h apiRequestRepositoryHandler) Add(db *sql.DB, req model.APIRequest) (*model.APIRequest, error) {
	query := table.APIRequest.
		INSERT(table.APIRequest.MutableColumns).
		MODEL(req).
		RETURNING(table.APIRequest.AllColumns)

	out := model.APIRequest{}
	err := query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to insert api request: %w", err)
	}

	return &out, nil
}

func (h apiRequestRepositoryHandler) Update(db *sql.DB, req model.APIRequest) error {
	query := table.APIRequest.
		UPDATE(table.APIRequest.MutableColumns).
		WHERE(table.APIRequest.APIRequestID.EQ(postgres.UUID(req.APIRequestID))).
		MODEL(req)

	_, err := query.Exec(db)
	if err != nil {
		return fmt.Errorf("failed to update api request: %w", err)
	}

	return nil
}
