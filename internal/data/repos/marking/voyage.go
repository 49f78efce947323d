package marking

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/harborline/cargomark-backend/internal/domain"
	"github.com/harborline/cargomark-backend/internal/platform/dbctx"
	"github.com/harborline/cargomark-backend/internal/platform/logger"
)

type VoyageRepo interface {
	Create(dbc dbctx.Context, voyages []*domain.Voyage) ([]*domain.Voyage, error)
	GetByVoyageNumber(dbc dbctx.Context, voyageNumber string) (*domain.Voyage, error)
	// LockByVoyageNumber takes a row lock so concurrent batch creation for the
	// same voyage serializes on the counter read. Requires dbc.Tx.
	LockByVoyageNumber(dbc dbctx.Context, voyageNumber string) (*domain.Voyage, error)
	UpdateLastIssued(dbc dbctx.Context, id uuid.UUID, lastIssued datatypes.JSONMap) error
}

type voyageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVoyageRepo(db *gorm.DB, baseLog *logger.Logger) VoyageRepo {
	return &voyageRepo{
		db:  db,
		log: baseLog.With("repo", "VoyageRepo"),
	}
}

func (r *voyageRepo) Create(dbc dbctx.Context, voyages []*domain.Voyage) ([]*domain.Voyage, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(voyages) == 0 {
		return []*domain.Voyage{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&voyages).Error; err != nil {
		return nil, err
	}
	return voyages, nil
}

func (r *voyageRepo) GetByVoyageNumber(dbc dbctx.Context, voyageNumber string) (*domain.Voyage, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	voyageNumber = strings.TrimSpace(voyageNumber)
	if voyageNumber == "" {
		return nil, nil
	}
	var voyage domain.Voyage
	err := transaction.WithContext(dbc.Ctx).
		Where("voyage_number = ?", voyageNumber).
		Limit(1).
		Find(&voyage).Error
	if err != nil {
		return nil, err
	}
	if voyage.ID == uuid.Nil {
		return nil, nil
	}
	return &voyage, nil
}

func (r *voyageRepo) LockByVoyageNumber(dbc dbctx.Context, voyageNumber string) (*domain.Voyage, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	voyageNumber = strings.TrimSpace(voyageNumber)
	if voyageNumber == "" {
		return nil, nil
	}
	var voyage domain.Voyage
	err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("voyage_number = ?", voyageNumber).
		Limit(1).
		Find(&voyage).Error
	if err != nil {
		return nil, err
	}
	if voyage.ID == uuid.Nil {
		return nil, nil
	}
	return &voyage, nil
}

func (r *voyageRepo) UpdateLastIssued(dbc dbctx.Context, id uuid.UUID, lastIssued datatypes.JSONMap) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&domain.Voyage{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_issued": lastIssued,
			"updated_at":  gorm.Expr("now()"),
		}).Error
}
