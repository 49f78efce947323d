package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	redisclient "github.com/harborline/cargomark-backend/internal/clients/redis"
	domainagg "github.com/harborline/cargomark-backend/internal/domain/aggregates"
	"github.com/harborline/cargomark-backend/internal/observability"
	"github.com/harborline/cargomark-backend/internal/platform/logger"
)

// MarkingService orchestrates marking writes: validation belongs to the
// aggregate, this layer adds quantity capping, event fan-out, and metrics.
type MarkingService interface {
	GenerateBatch(ctx context.Context, in domainagg.GenerateBatchInput) (domainagg.GenerateBatchResult, error)
	UpdateCodesStatus(ctx context.Context, in domainagg.UpdateCodesStatusInput) (domainagg.UpdateCodesStatusResult, error)
	UpdateBatchStatus(ctx context.Context, in domainagg.UpdateBatchStatusInput) (domainagg.UpdateBatchStatusResult, error)
}

type markingService struct {
	log     *logger.Logger
	agg     domainagg.MarkingAggregate
	bus     redisclient.PrintBus
	metrics *observability.Metrics
	profile LabelProfile
}

func NewMarkingService(
	baseLog *logger.Logger,
	agg domainagg.MarkingAggregate,
	bus redisclient.PrintBus,
	metrics *observability.Metrics,
	profile LabelProfile,
) MarkingService {
	return &markingService{
		log:     baseLog.With("service", "MarkingService"),
		agg:     agg,
		bus:     bus,
		metrics: metrics,
		profile: profile,
	}
}

func (s *markingService) GenerateBatch(ctx context.Context, in domainagg.GenerateBatchInput) (domainagg.GenerateBatchResult, error) {
	if s == nil || s.agg == nil {
		return domainagg.GenerateBatchResult{}, fmt.Errorf("marking service not configured")
	}
	if max := s.profile.MaxBatchQuantity; max > 0 && in.Quantity > max {
		return domainagg.GenerateBatchResult{}, domainagg.NewError(
			domainagg.CodeValidation,
			"Marking.GenerateBatch",
			fmt.Sprintf("quantity %d exceeds limit %d", in.Quantity, max),
			nil,
		)
	}

	out, err := s.agg.GenerateBatch(ctx, in)
	if err != nil {
		return out, err
	}

	s.metrics.AddCodesGenerated(out.ProductCode, len(out.Codes))
	s.publish(ctx, redisclient.PrintEvent{
		Type:         redisclient.EventBatchGenerated,
		BatchID:      out.BatchID.String(),
		ProductCode:  out.ProductCode,
		VoyageNumber: out.VoyageNumber,
		Status:       out.Status,
		Data: map[string]any{
			"batch_label": out.BatchLabel,
			"quantity":    len(out.Codes),
		},
	})
	s.log.Info("batch generated",
		"batch_id", out.BatchID.String(),
		"product_code", out.ProductCode,
		"voyage_number", out.VoyageNumber,
		"quantity", len(out.Codes),
	)
	return out, nil
}

func (s *markingService) UpdateCodesStatus(ctx context.Context, in domainagg.UpdateCodesStatusInput) (domainagg.UpdateCodesStatusResult, error) {
	if s == nil || s.agg == nil {
		return domainagg.UpdateCodesStatusResult{}, fmt.Errorf("marking service not configured")
	}
	out, err := s.agg.UpdateCodesStatus(ctx, in)
	if err != nil {
		return out, err
	}

	s.metrics.AddPrintOutcomes(in.TargetStatus, out.UpdatedCodeCount)
	s.publish(ctx, redisclient.PrintEvent{
		Type:   redisclient.EventCodesStatusUpdated,
		Status: in.TargetStatus,
		Data: map[string]any{
			"updated_code_count":  out.UpdatedCodeCount,
			"updated_batch_count": out.UpdatedBatchCount,
			"touched_batch_ids":   uuidStrings(out.TouchedBatchIDs),
		},
	})
	return out, nil
}

func (s *markingService) UpdateBatchStatus(ctx context.Context, in domainagg.UpdateBatchStatusInput) (domainagg.UpdateBatchStatusResult, error) {
	if s == nil || s.agg == nil {
		return domainagg.UpdateBatchStatusResult{}, fmt.Errorf("marking service not configured")
	}
	out, err := s.agg.UpdateBatchStatus(ctx, in)
	if err != nil {
		return out, err
	}

	s.metrics.AddPrintOutcomes(out.Status, out.UpdatedCodeCount)
	s.publish(ctx, redisclient.PrintEvent{
		Type:    redisclient.EventBatchStatusUpdated,
		BatchID: out.BatchID.String(),
		Status:  out.Status,
		Data: map[string]any{
			"updated_code_count": out.UpdatedCodeCount,
		},
	})
	s.log.Info("batch status overridden",
		"batch_id", out.BatchID.String(),
		"status", out.Status,
		"updated_code_count", out.UpdatedCodeCount,
	)
	return out, nil
}

// publish is fire-and-forget: a dead bus never fails a committed write.
func (s *markingService) publish(ctx context.Context, evt redisclient.PrintEvent) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		s.log.Warn("print event publish failed", "type", evt.Type, "error", err)
	}
}

func uuidStrings(in []uuid.UUID) []string {
	out := make([]string, 0, len(in))
	for _, id := range in {
		out = append(out, id.String())
	}
	return out
}
