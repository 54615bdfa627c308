package api

import (
	"bytes"
	"database/sql"
	"fmt"
	"io"
	"log"
	"time"

	"algopilot/internal/db/models/postgres/public/model"
	"algopilot/internal/repository"
	"algopilot/internal/service"
	"algopilot/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type ApiHandler struct {
	Db                   *sql.DB
	Registry             service.RegistryService
	Ledger               service.BudgetLedger
	PriceService         service.PriceService
	HoldingRepository    repository.HoldingRepository
	TradeOrderRepository repository.TradeOrderRepository
	ApiRequestRepository repository.ApiRequestRepository
	AlpacaRepository     repository.AlpacaRepository
	JwtSecret            string
}

func (m ApiHandler) StartApi(port int) error {
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(m.logRequestMiddlware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to algopilot"})
	})

	router.GET("/algorithms", m.listAlgorithms)
	router.GET("/algorithms/:id", m.getAlgorithm)
	router.GET("/algorithms/:id/budget", m.getBudget)
	router.GET("/algorithms/:id/holdings", m.getHoldings)
	router.GET("/algorithms/:id/orders", m.getTradeOrders)
	router.GET("/holdings", m.listHoldings)
	router.GET("/quote", m.getQuote)
	router.GET("/market", m.getMarket)

	mutating := router.Group("/", m.authMiddleware())
	mutating.POST("/algorithms", m.registerAlgorithm)
	mutating.POST("/algorithms/:id/expiration", m.setExpiration)
	mutating.DELETE("/algorithms/:id", m.killAlgorithm)

	return router.Run(fmt.Sprintf(":%d", port))
}

func returnErrorJson(err error, c *gin.Context) {
	fmt.Println(err.Error())
	c.AbortWithStatusJSON(500, gin.H{
		"error": err.Error(),
	})
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	fmt.Println(err.Error())
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r responseBodyWriter) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (m ApiHandler) logRequestMiddlware(ctx *gin.Context) {
	w := &responseBodyWriter{body: &bytes.Buffer{}, ResponseWriter: ctx.Writer}
	ctx.Writer = w

	body, err := ctx.GetRawData()
	if err != nil {
		log.Println(fmt.Errorf("failed to get raw data: %w", err))
	}
	ctx.Request.Body = io.NopCloser(bytes.NewReader(body))

	start := time.Now().UTC()
	req, err := m.ApiRequestRepository.Add(m.Db, model.APIRequest{
		IPAddress:   util.StringPointer(ctx.ClientIP()),
		Method:      ctx.Request.Method,
		Route:       ctx.Request.URL.Path,
		RequestBody: util.StringPointer(string(body)),
		StartTs:     start,
	})
	if err != nil {
		log.Println(err)
	}

	ctx.Next()

	if req != nil {
		req.DurationMs = util.Int64Pointer(time.Since(start).Milliseconds())
		req.StatusCode = util.Int32Pointer(int32(ctx.Writer.Status()))
		req.ResponseBody = util.StringPointer(w.body.String())

		err = m.ApiRequestRepository.Update(m.Db, *req)
		if err != nil {
			log.Println(err)
		}
	}
}
