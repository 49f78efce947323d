package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/harborline/cargomark-backend/internal/http/handlers"
	httpMW "github.com/harborline/cargomark-backend/internal/http/middleware"
	"github.com/harborline/cargomark-backend/internal/observability"
	"github.com/harborline/cargomark-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log             *logger.Logger
	Metrics         *observability.Metrics
	ActorMiddleware *httpMW.ActorMiddleware

	BatchHandler  *httpH.BatchHandler
	CodeHandler   *httpH.CodeHandler
	ReportHandler *httpH.ReportHandler
	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(otelgin.Middleware("cargomark-backend"))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS())
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		if cfg.ActorMiddleware != nil {
			api.Use(cfg.ActorMiddleware.AttachActor())
		}

		// Batches
		if cfg.BatchHandler != nil {
			api.POST("/batches", cfg.BatchHandler.GenerateBatch)
			api.GET("/batches", cfg.BatchHandler.ListBatches)
			api.GET("/batches/:id", cfg.BatchHandler.GetBatch)
			api.PATCH("/batches/:id/status", cfg.BatchHandler.UpdateBatchStatus)
		}

		// Codes
		if cfg.CodeHandler != nil {
			api.PATCH("/codes/status", cfg.CodeHandler.UpdateCodesStatus)
			api.GET("/codes/failed", cfg.CodeHandler.ListFailedCodes)
		}

		// Reporting
		if cfg.ReportHandler != nil {
			api.GET("/products/:product_code/summary", cfg.ReportHandler.GetProductSummary)
		}
	}

	return r
}
