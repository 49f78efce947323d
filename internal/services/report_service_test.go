package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/harborline/cargomark-backend/internal/data/repos"
	"github.com/harborline/cargomark-backend/internal/data/repos/marking"
	"github.com/harborline/cargomark-backend/internal/domain"
	domainagg "github.com/harborline/cargomark-backend/internal/domain/aggregates"
	"github.com/harborline/cargomark-backend/internal/platform/dbctx"
)

type fakeBatchRepo struct {
	byID       map[uuid.UUID]*domain.MarkBatch
	listResult []*domain.MarkBatch
	lastLimit  int
	recent     map[string][]*domain.MarkBatch
}

func (f *fakeBatchRepo) Create(_ dbctx.Context, batches []*domain.MarkBatch) ([]*domain.MarkBatch, error) {
	return batches, nil
}
func (f *fakeBatchRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*domain.MarkBatch, error) {
	return f.byID[id], nil
}
func (f *fakeBatchRepo) GetByIDWithCodes(_ dbctx.Context, id uuid.UUID) (*domain.MarkBatch, error) {
	return f.byID[id], nil
}
func (f *fakeBatchRepo) LockByID(_ dbctx.Context, id uuid.UUID) (*domain.MarkBatch, error) {
	return f.byID[id], nil
}
func (f *fakeBatchRepo) UpdateStatus(_ dbctx.Context, _ uuid.UUID, _ string) error { return nil }
func (f *fakeBatchRepo) List(_ dbctx.Context, _ marking.BatchFilter, limit int) ([]*domain.MarkBatch, error) {
	f.lastLimit = limit
	return f.listResult, nil
}
func (f *fakeBatchRepo) ListRecentByVoyage(_ dbctx.Context, _, voyageNumber string, _ int) ([]*domain.MarkBatch, error) {
	return f.recent[voyageNumber], nil
}

type fakeCodeRepo struct {
	byStatus []*domain.MarkCode
	counts   []marking.VoyageStatusCount
}

func (f *fakeCodeRepo) Create(_ dbctx.Context, codes []*domain.MarkCode) ([]*domain.MarkCode, error) {
	return codes, nil
}
func (f *fakeCodeRepo) GetByIDs(_ dbctx.Context, _ []uuid.UUID) ([]*domain.MarkCode, error) {
	return nil, nil
}
func (f *fakeCodeRepo) ListByBatchID(_ dbctx.Context, _ uuid.UUID) ([]*domain.MarkCode, error) {
	return nil, nil
}
func (f *fakeCodeRepo) ApplyPrintOutcome(_ dbctx.Context, ids []uuid.UUID, _ string, _ time.Time) (int64, error) {
	return int64(len(ids)), nil
}
func (f *fakeCodeRepo) ForceBatchOutcome(_ dbctx.Context, _ uuid.UUID, _ string, _ time.Time) (int64, error) {
	return 0, nil
}
func (f *fakeCodeRepo) ListByStatus(_ dbctx.Context, _ string, _ marking.CodeFilter, _ int) ([]*domain.MarkCode, error) {
	return f.byStatus, nil
}
func (f *fakeCodeRepo) CountByVoyageStatus(_ dbctx.Context, _ string) ([]marking.VoyageStatusCount, error) {
	return f.counts, nil
}

func TestReportServiceListBatchesCapsLimit(t *testing.T) {
	batches := &fakeBatchRepo{}
	profile := DefaultLabelProfile()
	profile.MaxBatchListLimit = 25
	svc := NewReportService(testLogger(t), batches, &fakeCodeRepo{}, profile)

	if _, err := svc.ListBatches(context.Background(), repos.BatchFilter{}, 500); err != nil {
		t.Fatalf("ListBatches: %v", err)
	}
	if batches.lastLimit != 25 {
		t.Fatalf("oversize limit must clamp to 25, got %d", batches.lastLimit)
	}

	if _, err := svc.ListBatches(context.Background(), repos.BatchFilter{}, 10); err != nil {
		t.Fatalf("ListBatches small: %v", err)
	}
	if batches.lastLimit != 10 {
		t.Fatalf("in-range limit must pass through, got %d", batches.lastLimit)
	}
}

func TestReportServiceGetBatch(t *testing.T) {
	batchID := uuid.New()
	created := time.Now().UTC()
	batches := &fakeBatchRepo{byID: map[uuid.UUID]*domain.MarkBatch{
		batchID: {
			ID:           batchID,
			BatchLabel:   "GLB-500|01|V1 to GLB-500|02|V1",
			ProductCode:  "GLB-500",
			VoyageNumber: "V1",
			Status:       domain.BatchStatusGenerated,
			Quantity:     2,
			CreatedAt:    created,
			Codes: []domain.MarkCode{
				{ID: uuid.New(), ProductCode: "GLB-500", SequenceNumber: 1, VoyageNumber: "V1", Status: domain.CodeStatusGenerated, BatchID: batchID},
				{ID: uuid.New(), ProductCode: "GLB-500", SequenceNumber: 2, VoyageNumber: "V1", Status: domain.CodeStatusGenerated, BatchID: batchID},
			},
		},
	}}
	svc := NewReportService(testLogger(t), batches, &fakeCodeRepo{}, DefaultLabelProfile())

	view, err := svc.GetBatch(context.Background(), batchID)
	if err != nil {
		t.Fatalf("GetBatch: %v", err)
	}
	if len(view.Codes) != 2 {
		t.Fatalf("code views: want=2 got=%d", len(view.Codes))
	}
	if view.Codes[0].DisplayCode != "GLB-500|01|V1" {
		t.Fatalf("display code: %q", view.Codes[0].DisplayCode)
	}

	_, err = svc.GetBatch(context.Background(), uuid.New())
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("missing batch: expected not_found, got %v", err)
	}
}

func TestReportServiceProductSummary(t *testing.T) {
	codeRepo := &fakeCodeRepo{counts: []marking.VoyageStatusCount{
		{VoyageNumber: "V1", Status: domain.CodeStatusPrinted, Count: 3},
		{VoyageNumber: "V1", Status: domain.CodeStatusFailed, Count: 1},
		{VoyageNumber: "V2", Status: domain.CodeStatusPrinted, Count: 2},
	}}
	batchRepo := &fakeBatchRepo{recent: map[string][]*domain.MarkBatch{
		"V1": {{ID: uuid.New(), ProductCode: "GLB-500", VoyageNumber: "V1"}},
	}}
	svc := NewReportService(testLogger(t), batchRepo, codeRepo, DefaultLabelProfile())

	summary, err := svc.GetProductSummary(context.Background(), "GLB-500")
	if err != nil {
		t.Fatalf("GetProductSummary: %v", err)
	}
	if len(summary.ByVoyage) != 2 {
		t.Fatalf("voyage groups: want=2 got=%d", len(summary.ByVoyage))
	}
	if summary.ByVoyage[0].VoyageNumber != "V1" || summary.ByVoyage[1].VoyageNumber != "V2" {
		t.Fatalf("voyages must sort: %+v", summary.ByVoyage)
	}
	if summary.Totals[domain.CodeStatusPrinted] != 5 || summary.Totals[domain.CodeStatusFailed] != 1 {
		t.Fatalf("totals: %+v", summary.Totals)
	}
	if len(summary.ByVoyage[0].RecentBatches) != 1 {
		t.Fatalf("recent batches for V1: %+v", summary.ByVoyage[0].RecentBatches)
	}

	_, err = svc.GetProductSummary(context.Background(), "  ")
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("blank product: expected validation, got %v", err)
	}
}
