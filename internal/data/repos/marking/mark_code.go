package marking

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harborline/cargomark-backend/internal/domain"
	"github.com/harborline/cargomark-backend/internal/platform/dbctx"
	"github.com/harborline/cargomark-backend/internal/platform/logger"
)

// CodeFilter narrows code list queries. Zero-value fields are ignored.
type CodeFilter struct {
	VoyageNumber string
	ProductCode  string
	BatchID      uuid.UUID
}

// VoyageStatusCount is one GROUP BY row of the product summary.
type VoyageStatusCount struct {
	VoyageNumber string `json:"voyage_number"`
	Status       string `json:"status"`
	Count        int64  `json:"count"`
}

type MarkCodeRepo interface {
	Create(dbc dbctx.Context, codes []*domain.MarkCode) ([]*domain.MarkCode, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*domain.MarkCode, error)
	ListByBatchID(dbc dbctx.Context, batchID uuid.UUID) ([]*domain.MarkCode, error)
	// ApplyPrintOutcome sets status on the given codes and always increments
	// print_attempts and stamps last_print_attempt_at, including when the
	// status is unchanged (retry-count semantics).
	ApplyPrintOutcome(dbc dbctx.Context, ids []uuid.UUID, status string, at time.Time) (int64, error)
	// ForceBatchOutcome applies the outcome to every code of a batch
	// regardless of current status.
	ForceBatchOutcome(dbc dbctx.Context, batchID uuid.UUID, status string, at time.Time) (int64, error)
	ListByStatus(dbc dbctx.Context, status string, filter CodeFilter, limit int) ([]*domain.MarkCode, error)
	CountByVoyageStatus(dbc dbctx.Context, productCode string) ([]VoyageStatusCount, error)
}

type markCodeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMarkCodeRepo(db *gorm.DB, baseLog *logger.Logger) MarkCodeRepo {
	return &markCodeRepo{
		db:  db,
		log: baseLog.With("repo", "MarkCodeRepo"),
	}
}

func (r *markCodeRepo) Create(dbc dbctx.Context, codes []*domain.MarkCode) ([]*domain.MarkCode, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(codes) == 0 {
		return []*domain.MarkCode{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *markCodeRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*domain.MarkCode, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*domain.MarkCode
	if len(ids) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *markCodeRepo) ListByBatchID(dbc dbctx.Context, batchID uuid.UUID) ([]*domain.MarkCode, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if batchID == uuid.Nil {
		return nil, nil
	}
	var out []*domain.MarkCode
	err := transaction.WithContext(dbc.Ctx).
		Where("batch_id = ?", batchID).
		Order("sequence_number ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *markCodeRepo) ApplyPrintOutcome(dbc dbctx.Context, ids []uuid.UUID, status string, at time.Time) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&domain.MarkCode{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":                status,
			"print_attempts":        gorm.Expr("print_attempts + 1"),
			"last_print_attempt_at": at,
			"updated_at":            at,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *markCodeRepo) ForceBatchOutcome(dbc dbctx.Context, batchID uuid.UUID, status string, at time.Time) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if batchID == uuid.Nil {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&domain.MarkCode{}).
		Where("batch_id = ?", batchID).
		Updates(map[string]interface{}{
			"status":                status,
			"print_attempts":        gorm.Expr("print_attempts + 1"),
			"last_print_attempt_at": at,
			"updated_at":            at,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *markCodeRepo) ListByStatus(dbc dbctx.Context, status string, filter CodeFilter, limit int) ([]*domain.MarkCode, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).Model(&domain.MarkCode{}).Where("status = ?", status)
	if v := strings.TrimSpace(filter.VoyageNumber); v != "" {
		q = q.Where("voyage_number = ?", v)
	}
	if p := strings.TrimSpace(filter.ProductCode); p != "" {
		q = q.Where("product_code = ?", p)
	}
	if filter.BatchID != uuid.Nil {
		q = q.Where("batch_id = ?", filter.BatchID)
	}
	if limit <= 0 {
		limit = 200
	}
	var out []*domain.MarkCode
	if err := q.Order("voyage_number ASC, sequence_number ASC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *markCodeRepo) CountByVoyageStatus(dbc dbctx.Context, productCode string) ([]VoyageStatusCount, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	productCode = strings.TrimSpace(productCode)
	if productCode == "" {
		return nil, nil
	}
	var rows []VoyageStatusCount
	err := transaction.WithContext(dbc.Ctx).
		Model(&domain.MarkCode{}).
		Select("voyage_number, status, count(*) as count").
		Where("product_code = ?", productCode).
		Group("voyage_number, status").
		Order("voyage_number ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
