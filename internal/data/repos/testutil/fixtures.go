package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/harborline/cargomark-backend/internal/domain"
)

func SeedVoyage(tb testing.TB, ctx context.Context, tx *gorm.DB, voyageNumber string) *domain.Voyage {
	tb.Helper()
	v := &domain.Voyage{
		ID:           uuid.New(),
		VoyageNumber: voyageNumber,
		LastIssued:   datatypes.JSONMap{},
	}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed voyage: %v", err)
	}
	return v
}

func SeedBatch(tb testing.TB, ctx context.Context, tx *gorm.DB, productCode, voyageNumber string, firstSeq, quantity int) *domain.MarkBatch {
	tb.Helper()
	lastSeq := firstSeq + quantity - 1
	b := &domain.MarkBatch{
		ID:            uuid.New(),
		BatchLabel:    domain.RenderBatchLabel(productCode, firstSeq, lastSeq, voyageNumber),
		ProductCode:   productCode,
		VoyageNumber:  voyageNumber,
		Status:        domain.BatchStatusGenerated,
		Quantity:      quantity,
		FirstSequence: firstSeq,
		LastSequence:  lastSeq,
	}
	if err := tx.WithContext(ctx).Omit("Codes").Create(b).Error; err != nil {
		tb.Fatalf("seed batch: %v", err)
	}
	return b
}

func SeedCodes(tb testing.TB, ctx context.Context, tx *gorm.DB, batch *domain.MarkBatch) []*domain.MarkCode {
	tb.Helper()
	now := time.Now().UTC()
	codes := make([]*domain.MarkCode, 0, batch.Quantity)
	for seq := batch.FirstSequence; seq <= batch.LastSequence; seq++ {
		codes = append(codes, &domain.MarkCode{
			ID:             uuid.New(),
			ProductCode:    batch.ProductCode,
			SequenceNumber: seq,
			VoyageNumber:   batch.VoyageNumber,
			Status:         domain.CodeStatusGenerated,
			BatchID:        batch.ID,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	if err := tx.WithContext(ctx).Create(&codes).Error; err != nil {
		tb.Fatalf("seed codes: %v", err)
	}
	return codes
}
