package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	redisclient "github.com/harborline/cargomark-backend/internal/clients/redis"
	"github.com/harborline/cargomark-backend/internal/domain"
	domainagg "github.com/harborline/cargomark-backend/internal/domain/aggregates"
	"github.com/harborline/cargomark-backend/internal/platform/logger"
)

type fakeMarkingAggregate struct {
	generateCalls    int
	lastGenerate     domainagg.GenerateBatchInput
	generateResult   domainagg.GenerateBatchResult
	codesStatusCalls int
	lastCodesStatus  domainagg.UpdateCodesStatusInput
	batchStatusCalls int
	lastBatchStatus  domainagg.UpdateBatchStatusInput
	err              error
}

func (f *fakeMarkingAggregate) Contract() domainagg.Contract {
	return domainagg.MarkingAggregateContract
}

func (f *fakeMarkingAggregate) GenerateBatch(_ context.Context, in domainagg.GenerateBatchInput) (domainagg.GenerateBatchResult, error) {
	f.generateCalls++
	f.lastGenerate = in
	return f.generateResult, f.err
}

func (f *fakeMarkingAggregate) UpdateCodesStatus(_ context.Context, in domainagg.UpdateCodesStatusInput) (domainagg.UpdateCodesStatusResult, error) {
	f.codesStatusCalls++
	f.lastCodesStatus = in
	return domainagg.UpdateCodesStatusResult{UpdatedCodeCount: len(in.CodeIDs)}, f.err
}

func (f *fakeMarkingAggregate) UpdateBatchStatus(_ context.Context, in domainagg.UpdateBatchStatusInput) (domainagg.UpdateBatchStatusResult, error) {
	f.batchStatusCalls++
	f.lastBatchStatus = in
	return domainagg.UpdateBatchStatusResult{BatchID: in.BatchID, Status: in.TargetStatus}, f.err
}

type fakePrintBus struct {
	published []redisclient.PrintEvent
	err       error
}

func (f *fakePrintBus) Publish(_ context.Context, evt redisclient.PrintEvent) error {
	f.published = append(f.published, evt)
	return f.err
}

func (f *fakePrintBus) Subscribe(_ context.Context, _ func(redisclient.PrintEvent)) error {
	return nil
}

func (f *fakePrintBus) Close() error { return nil }

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func TestMarkingServiceGenerateBatchDelegatesAndPublishes(t *testing.T) {
	fakeAgg := &fakeMarkingAggregate{
		generateResult: domainagg.GenerateBatchResult{
			BatchID:      uuid.New(),
			BatchLabel:   "GLB-500|01|V1 to GLB-500|02|V1",
			ProductCode:  "GLB-500",
			VoyageNumber: "V1",
			Status:       domain.BatchStatusGenerated,
			Codes:        make([]domainagg.GeneratedCode, 2),
		},
	}
	bus := &fakePrintBus{}
	svc := NewMarkingService(testLogger(t), fakeAgg, bus, nil, DefaultLabelProfile())

	out, err := svc.GenerateBatch(context.Background(), domainagg.GenerateBatchInput{
		ProductCode: "GLB-500", VoyageNumber: "V1", Quantity: 2,
	})
	if err != nil {
		t.Fatalf("GenerateBatch: %v", err)
	}
	if fakeAgg.generateCalls != 1 || fakeAgg.lastGenerate.Quantity != 2 {
		t.Fatalf("aggregate delegation: calls=%d in=%+v", fakeAgg.generateCalls, fakeAgg.lastGenerate)
	}
	if out.BatchID != fakeAgg.generateResult.BatchID {
		t.Fatalf("result passthrough: %+v", out)
	}
	if len(bus.published) != 1 || bus.published[0].Type != redisclient.EventBatchGenerated {
		t.Fatalf("published events: %+v", bus.published)
	}
}

func TestMarkingServiceGenerateBatchCapsQuantity(t *testing.T) {
	fakeAgg := &fakeMarkingAggregate{}
	profile := DefaultLabelProfile()
	profile.MaxBatchQuantity = 10
	svc := NewMarkingService(testLogger(t), fakeAgg, nil, nil, profile)

	_, err := svc.GenerateBatch(context.Background(), domainagg.GenerateBatchInput{
		ProductCode: "GLB-500", VoyageNumber: "V1", Quantity: 11,
	})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if fakeAgg.generateCalls != 0 {
		t.Fatalf("aggregate must not be called past the cap")
	}
}

func TestMarkingServiceGenerateBatchUncappedByDefault(t *testing.T) {
	fakeAgg := &fakeMarkingAggregate{}
	svc := NewMarkingService(testLogger(t), fakeAgg, nil, nil, DefaultLabelProfile())

	if _, err := svc.GenerateBatch(context.Background(), domainagg.GenerateBatchInput{
		ProductCode: "GLB-500", VoyageNumber: "V1", Quantity: 100000,
	}); err != nil {
		t.Fatalf("any positive quantity must pass without an operator cap: %v", err)
	}
	if fakeAgg.generateCalls != 1 {
		t.Fatalf("aggregate must receive the uncapped request")
	}
}

func TestMarkingServicePublishFailureDoesNotFailWrite(t *testing.T) {
	fakeAgg := &fakeMarkingAggregate{
		generateResult: domainagg.GenerateBatchResult{BatchID: uuid.New(), ProductCode: "GLB-500"},
	}
	bus := &fakePrintBus{err: context.DeadlineExceeded}
	svc := NewMarkingService(testLogger(t), fakeAgg, bus, nil, DefaultLabelProfile())

	if _, err := svc.GenerateBatch(context.Background(), domainagg.GenerateBatchInput{
		ProductCode: "GLB-500", VoyageNumber: "V1", Quantity: 1,
	}); err != nil {
		t.Fatalf("publish failure must not surface: %v", err)
	}
}

func TestMarkingServiceUpdateCodesStatusPublishes(t *testing.T) {
	fakeAgg := &fakeMarkingAggregate{}
	bus := &fakePrintBus{}
	svc := NewMarkingService(testLogger(t), fakeAgg, bus, nil, DefaultLabelProfile())

	ids := []uuid.UUID{uuid.New(), uuid.New()}
	out, err := svc.UpdateCodesStatus(context.Background(), domainagg.UpdateCodesStatusInput{
		CodeIDs: ids, TargetStatus: domain.CodeStatusPrinted,
	})
	if err != nil {
		t.Fatalf("UpdateCodesStatus: %v", err)
	}
	if out.UpdatedCodeCount != 2 {
		t.Fatalf("result: %+v", out)
	}
	if len(bus.published) != 1 || bus.published[0].Type != redisclient.EventCodesStatusUpdated {
		t.Fatalf("published events: %+v", bus.published)
	}
}

func TestMarkingServiceUpdateBatchStatusPublishes(t *testing.T) {
	fakeAgg := &fakeMarkingAggregate{}
	bus := &fakePrintBus{}
	svc := NewMarkingService(testLogger(t), fakeAgg, bus, nil, DefaultLabelProfile())

	batchID := uuid.New()
	out, err := svc.UpdateBatchStatus(context.Background(), domainagg.UpdateBatchStatusInput{
		BatchID: batchID, TargetStatus: domain.CodeStatusFailed,
	})
	if err != nil {
		t.Fatalf("UpdateBatchStatus: %v", err)
	}
	if out.BatchID != batchID || out.Status != domain.CodeStatusFailed {
		t.Fatalf("result: %+v", out)
	}
	if len(bus.published) != 1 || bus.published[0].Type != redisclient.EventBatchStatusUpdated {
		t.Fatalf("published events: %+v", bus.published)
	}
}
