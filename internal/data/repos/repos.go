package repos

import (
	"gorm.io/gorm"

	"github.com/harborline/cargomark-backend/internal/data/repos/marking"
	"github.com/harborline/cargomark-backend/internal/platform/logger"
)

type VoyageRepo = marking.VoyageRepo
type MarkBatchRepo = marking.MarkBatchRepo
type MarkCodeRepo = marking.MarkCodeRepo

type BatchFilter = marking.BatchFilter
type CodeFilter = marking.CodeFilter
type VoyageStatusCount = marking.VoyageStatusCount

func NewVoyageRepo(db *gorm.DB, baseLog *logger.Logger) VoyageRepo {
	return marking.NewVoyageRepo(db, baseLog)
}

func NewMarkBatchRepo(db *gorm.DB, baseLog *logger.Logger) MarkBatchRepo {
	return marking.NewMarkBatchRepo(db, baseLog)
}

func NewMarkCodeRepo(db *gorm.DB, baseLog *logger.Logger) MarkCodeRepo {
	return marking.NewMarkCodeRepo(db, baseLog)
}
