package app

import (
	"gorm.io/gorm"

	"github.com/harborline/cargomark-backend/internal/data/repos"
	"github.com/harborline/cargomark-backend/internal/platform/logger"
)

type Repos struct {
	Voyage    repos.VoyageRepo
	MarkBatch repos.MarkBatchRepo
	MarkCode  repos.MarkCodeRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Voyage:    repos.NewVoyageRepo(db, log),
		MarkBatch: repos.NewMarkBatchRepo(db, log),
		MarkCode:  repos.NewMarkCodeRepo(db, log),
	}
}
