// Package v1 wires the HTTP API.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"stockbook/internal/domain/ledger"
	"stockbook/internal/domain/product"
	"stockbook/internal/domain/report"
	"stockbook/internal/domain/snapshot"
	"stockbook/internal/infrastructure/http/v1/handlers"
	"stockbook/internal/infrastructure/http/v1/middleware"
	"stockbook/pkg/logger"
)

// RouterDeps holds everything the router needs.
type RouterDeps struct {
	Logger    *logger.Logger
	Pool      *pgxpool.Pool
	Ledger    *ledger.Service
	Generator *snapshot.Generator
	Reports   *report.Builder
	Products  product.Repository
}

// NewRouter builds the gin engine with all middleware and routes.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Trace(),
		middleware.Logger(deps.Logger),
		middleware.Recovery(),
		middleware.ErrorHandler(),
	)

	base := handlers.NewBaseHandler()
	movements := handlers.NewMovementHandler(base, deps.Ledger)
	snapshots := handlers.NewSnapshotHandler(base, deps.Generator)
	reports := handlers.NewReportHandler(base, deps.Reports, deps.Products)
	health := handlers.NewHealthHandler(deps.Pool)

	api := router.Group("/api/v1")
	{
		api.GET("/healthz", health.Healthz)

		m := api.Group("/movements")
		{
			m.POST("", movements.Apply)
			m.POST("/batch", movements.ApplyBatch)
			m.GET("", movements.List)
			m.GET("/outbound", movements.ListOutbound)
			m.GET("/:id", movements.Get)
		}

		s := api.Group("/snapshots")
		{
			s.POST("/generate", snapshots.Generate)
			s.POST("/generate-range", snapshots.GenerateRange)
			s.GET("", snapshots.List)
			s.GET("/:year/:month", snapshots.Detail)
			s.DELETE("/:year/:month", snapshots.Delete)
		}

		api.GET("/ledger/monthly", reports.MonthlyLedger)
		api.GET("/ledger/valuation", reports.Valuation)
	}

	return router
}
