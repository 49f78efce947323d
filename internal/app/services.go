package app

import (
	"gorm.io/gorm"

	redisclient "github.com/harborline/cargomark-backend/internal/clients/redis"
	dataagg "github.com/harborline/cargomark-backend/internal/data/aggregates"
	"github.com/harborline/cargomark-backend/internal/observability"
	"github.com/harborline/cargomark-backend/internal/platform/logger"
	"github.com/harborline/cargomark-backend/internal/services"
)

type Services struct {
	Marking services.MarkingService
	Reports services.ReportService
	Profile services.LabelProfile
}

func wireServices(
	db *gorm.DB,
	log *logger.Logger,
	reposet Repos,
	bus redisclient.PrintBus,
	metrics *observability.Metrics,
) Services {
	log.Info("Wiring services...")

	profile := services.LoadLabelProfile(log)

	aggregate := dataagg.NewMarkingAggregate(dataagg.MarkingAggregateDeps{
		Base: dataagg.BaseDeps{
			DB:    db,
			Log:   log,
			Hooks: dataagg.NewObservabilityHooks(metrics),
		},
		Voyages: reposet.Voyage,
		Batches: reposet.MarkBatch,
		Codes:   reposet.MarkCode,
	})

	return Services{
		Marking: services.NewMarkingService(log, aggregate, bus, metrics, profile),
		Reports: services.NewReportService(log, reposet.MarkBatch, reposet.MarkCode, profile),
		Profile: profile,
	}
}
