package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"algopilot/internal/db/models/postgres/public/model"
	"algopilot/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-jet/jet/v2/postgres"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeHoldingRepository struct {
	holdings []model.Holding
}

func (f fakeHoldingRepository) Add(tx *sql.Tx, holding model.Holding) (*model.Holding, error) {
	return &holding, nil
}

func (f fakeHoldingRepository) List(filter repository.HoldingListFilter) ([]model.Holding, error) {
	out := []model.Holding{}
	for _, holding := range f.holdings {
		if filter.AlgorithmID != nil && holding.AlgorithmID != *filter.AlgorithmID {
			continue
		}
		if filter.Symbol != nil && holding.Symbol != *filter.Symbol {
			continue
		}
		out = append(out, holding)
	}
	return out, nil
}

func (f fakeHoldingRepository) Update(tx *sql.Tx, id uuid.UUID, holding model.Holding, columns postgres.ColumnList) (*model.Holding, error) {
	return &holding, nil
}

func (f fakeHoldingRepository) Delete(tx *sql.Tx, id uuid.UUID) error {
	return nil
}

func Test_listHoldings(t *testing.T) {
	gin.SetMode(gin.TestMode)

	algoA := uuid.New()
	algoB := uuid.New()
	handler := ApiHandler{
		HoldingRepository: fakeHoldingRepository{
			holdings: []model.Holding{
				{
					HoldingID:   uuid.New(),
					AlgorithmID: algoA,
					Symbol:      "AAPL",
					Quantity:    decimal.NewFromInt(2),
					AvgPrice:    decimal.NewFromInt(100),
					ModifiedAt:  time.Now().UTC(),
				},
				{
					HoldingID:   uuid.New(),
					AlgorithmID: algoB,
					Symbol:      "MSFT",
					Quantity:    decimal.NewFromInt(3),
					AvgPrice:    decimal.NewFromInt(50),
					ModifiedAt:  time.Now().UTC(),
				},
			},
		},
	}

	router := gin.New()
	router.GET("/holdings", handler.listHoldings)
	router.GET("/algorithms/:id/holdings", handler.getHoldings)

	get := func(t *testing.T, path string) []holdingResponse {
		w := httptest.NewRecorder()
		req, err := http.NewRequest("GET", path, nil)
		require.NoError(t, err)
		router.ServeHTTP(w, req)
		require.Equal(t, 200, w.Code)

		var body struct {
			Holdings []holdingResponse `json:"holdings"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body.Holdings
	}

	t.Run("fleet-wide listing spans algorithms", func(t *testing.T) {
		holdings := get(t, "/holdings")
		require.Len(t, holdings, 2)
	})

	t.Run("ticker filter narrows the fleet-wide view", func(t *testing.T) {
		holdings := get(t, "/holdings?ticker=AAPL")
		require.Len(t, holdings, 1)
		require.Equal(t, algoA.String(), holdings[0].AlgorithmID)
		require.Equal(t, "200", holdings[0].CostBasis)
	})

	t.Run("unknown ticker returns an empty list, not null", func(t *testing.T) {
		holdings := get(t, "/holdings?ticker=TSLA")
		require.NotNil(t, holdings)
		require.Empty(t, holdings)
	})

	t.Run("per-algorithm listing honors the ticker filter", func(t *testing.T) {
		holdings := get(t, "/algorithms/"+algoB.String()+"/holdings")
		require.Len(t, holdings, 1)
		require.Equal(t, "MSFT", holdings[0].Symbol)

		holdings = get(t, "/algorithms/"+algoB.String()+"/holdings?ticker=AAPL")
		require.Empty(t, holdings)
	})
}
