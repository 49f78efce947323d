package app

import (
	httpH "github.com/harborline/cargomark-backend/internal/http/handlers"
	"github.com/harborline/cargomark-backend/internal/platform/logger"
)

type Handlers struct {
	Batch  *httpH.BatchHandler
	Code   *httpH.CodeHandler
	Report *httpH.ReportHandler
	Health *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Batch:  httpH.NewBatchHandler(serviceset.Marking, serviceset.Reports),
		Code:   httpH.NewCodeHandler(serviceset.Marking, serviceset.Reports),
		Report: httpH.NewReportHandler(serviceset.Reports),
		Health: httpH.NewHealthHandler(),
	}
}
