package cmd

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"algopilot/api"
	"algopilot/internal/logger"
	"algopilot/internal/repository"
	"algopilot/internal/service"
	"algopilot/internal/util"

	_ "github.com/lib/pq"
)

type Dependencies struct {
	ApiHandler *api.ApiHandler
	Scheduler  *service.SchedulerHandler
}

func CloseDependencies(deps *Dependencies) {
	err := deps.ApiHandler.Db.Close()
	if err != nil {
		log.Fatalf("failed to close db: %v", err)
	}
}

func InitializeDependencies() (*Dependencies, error) {
	secrets, err := util.LoadSecrets()
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	dbConn, err := sql.Open("postgres", secrets.Db.ToConnectionStr())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	algorithmRepository := repository.NewAlgorithmRepository(dbConn)
	holdingRepository := repository.NewHoldingRepository(dbConn)
	tradeOrderRepository := repository.NewTradeOrderRepository(dbConn)
	apiRequestRepository := repository.NewApiRequestRepository()
	alpacaRepository := repository.NewAlpacaRepository(secrets.Alpaca.ApiKey, secrets.Alpaca.ApiSecret, secrets.Alpaca.Endpoint)

	registry := service.NewRegistryService(algorithmRepository)
	ledger := service.NewBudgetLedger()
	priceService := service.NewPriceService(5 * time.Second)
	gateway := service.NewAlpacaTradeGateway(
		alpacaRepository,
		holdingRepository,
		time.Duration(secrets.Scheduler.GatewayTimeoutSeconds)*time.Second,
	)

	scheduler := service.NewScheduler(
		registry,
		ledger,
		gateway,
		priceService,
		holdingRepository,
		tradeOrderRepository,
		logger.New(),
		time.Duration(secrets.Scheduler.ReconcileIntervalSeconds)*time.Second,
		time.Duration(secrets.Scheduler.GracePeriodSeconds)*time.Second,
	)

	apiHandler := &api.ApiHandler{
		Db:                   dbConn,
		Registry:             registry,
		Ledger:               ledger,
		PriceService:         priceService,
		HoldingRepository:    holdingRepository,
		TradeOrderRepository: tradeOrderRepository,
		ApiRequestRepository: apiRequestRepository,
		AlpacaRepository:     alpacaRepository,
		JwtSecret:            secrets.JwtSecret,
	}

	return &Dependencies{
		ApiHandler: apiHandler,
		Scheduler:  scheduler,
	}, nil
}
