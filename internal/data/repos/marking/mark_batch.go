package marking

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/harborline/cargomark-backend/internal/domain"
	"github.com/harborline/cargomark-backend/internal/platform/dbctx"
	"github.com/harborline/cargomark-backend/internal/platform/logger"
)

// BatchFilter narrows batch list queries. Zero-value fields are ignored.
type BatchFilter struct {
	VoyageNumber string
	ProductCode  string
	Status       string
}

type MarkBatchRepo interface {
	Create(dbc dbctx.Context, batches []*domain.MarkBatch) ([]*domain.MarkBatch, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.MarkBatch, error)
	GetByIDWithCodes(dbc dbctx.Context, id uuid.UUID) (*domain.MarkBatch, error)
	LockByID(dbc dbctx.Context, id uuid.UUID) (*domain.MarkBatch, error)
	UpdateStatus(dbc dbctx.Context, id uuid.UUID, status string) error
	List(dbc dbctx.Context, filter BatchFilter, limit int) ([]*domain.MarkBatch, error)
	ListRecentByVoyage(dbc dbctx.Context, productCode, voyageNumber string, limit int) ([]*domain.MarkBatch, error)
}

type markBatchRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMarkBatchRepo(db *gorm.DB, baseLog *logger.Logger) MarkBatchRepo {
	return &markBatchRepo{
		db:  db,
		log: baseLog.With("repo", "MarkBatchRepo"),
	}
}

func (r *markBatchRepo) Create(dbc dbctx.Context, batches []*domain.MarkBatch) ([]*domain.MarkBatch, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(batches) == 0 {
		return []*domain.MarkBatch{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Omit("Codes").Create(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

func (r *markBatchRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.MarkBatch, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var batch domain.MarkBatch
	err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&batch).Error
	if err != nil {
		return nil, err
	}
	if batch.ID == uuid.Nil {
		return nil, nil
	}
	return &batch, nil
}

func (r *markBatchRepo) GetByIDWithCodes(dbc dbctx.Context, id uuid.UUID) (*domain.MarkBatch, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var batch domain.MarkBatch
	err := transaction.WithContext(dbc.Ctx).
		Preload("Codes", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence_number ASC")
		}).
		Where("id = ?", id).
		Limit(1).
		Find(&batch).Error
	if err != nil {
		return nil, err
	}
	if batch.ID == uuid.Nil {
		return nil, nil
	}
	return &batch, nil
}

func (r *markBatchRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*domain.MarkBatch, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var batch domain.MarkBatch
	err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Limit(1).
		Find(&batch).Error
	if err != nil {
		return nil, err
	}
	if batch.ID == uuid.Nil {
		return nil, nil
	}
	return &batch, nil
}

func (r *markBatchRepo) UpdateStatus(dbc dbctx.Context, id uuid.UUID, status string) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&domain.MarkBatch{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": gorm.Expr("now()"),
		}).Error
}

func (r *markBatchRepo) List(dbc dbctx.Context, filter BatchFilter, limit int) ([]*domain.MarkBatch, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).Model(&domain.MarkBatch{})
	if v := strings.TrimSpace(filter.VoyageNumber); v != "" {
		q = q.Where("voyage_number = ?", v)
	}
	if p := strings.TrimSpace(filter.ProductCode); p != "" {
		q = q.Where("product_code = ?", p)
	}
	if s := strings.TrimSpace(filter.Status); s != "" {
		q = q.Where("status = ?", s)
	}
	if limit <= 0 {
		limit = 50
	}
	var out []*domain.MarkBatch
	if err := q.Order("created_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *markBatchRepo) ListRecentByVoyage(dbc dbctx.Context, productCode, voyageNumber string, limit int) ([]*domain.MarkBatch, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	productCode = strings.TrimSpace(productCode)
	voyageNumber = strings.TrimSpace(voyageNumber)
	if productCode == "" || voyageNumber == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}
	var out []*domain.MarkBatch
	err := transaction.WithContext(dbc.Ctx).
		Where("product_code = ? AND voyage_number = ?", productCode, voyageNumber).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
