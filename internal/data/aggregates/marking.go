package aggregates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harborline/cargomark-backend/internal/data/repos"
	"github.com/harborline/cargomark-backend/internal/domain"
	domainagg "github.com/harborline/cargomark-backend/internal/domain/aggregates"
	"github.com/harborline/cargomark-backend/internal/platform/dbctx"
)

type MarkingAggregateDeps struct {
	Base BaseDeps

	Voyages repos.VoyageRepo
	Batches repos.MarkBatchRepo
	Codes   repos.MarkCodeRepo
}

type markingAggregate struct {
	deps MarkingAggregateDeps
}

func NewMarkingAggregate(deps MarkingAggregateDeps) domainagg.MarkingAggregate {
	deps.Base = deps.Base.withDefaults()
	return &markingAggregate{deps: deps}
}

func (a *markingAggregate) Contract() domainagg.Contract {
	return domainagg.MarkingAggregateContract
}

func (a *markingAggregate) GenerateBatch(ctx context.Context, in domainagg.GenerateBatchInput) (domainagg.GenerateBatchResult, error) {
	const op = "Marking.GenerateBatch"
	var out domainagg.GenerateBatchResult

	productCode := strings.TrimSpace(in.ProductCode)
	voyageNumber := strings.TrimSpace(in.VoyageNumber)
	if productCode == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing product_code", nil)
	}
	if voyageNumber == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing voyage_number", nil)
	}
	if in.Quantity <= 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("quantity must be positive, got %d", in.Quantity), nil)
	}
	if a.deps.Voyages == nil || a.deps.Batches == nil || a.deps.Codes == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "marking aggregate repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		// Row lock serializes the read-then-increment for this voyage. The
		// unique code index backstops any race the lock did not cover.
		voyage, err := a.deps.Voyages.LockByVoyageNumber(dbc, voyageNumber)
		if err != nil {
			return err
		}
		if voyage == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("voyage not found: %s", voyageNumber), nil)
		}

		lastIssued := voyage.LastIssuedFor(productCode)
		firstSeq := lastIssued + 1
		lastSeq := lastIssued + in.Quantity
		now := time.Now().UTC()

		batch := &domain.MarkBatch{
			ID:            uuid.New(),
			BatchLabel:    domain.RenderBatchLabel(productCode, firstSeq, lastSeq, voyageNumber),
			ProductCode:   productCode,
			VoyageNumber:  voyageNumber,
			Status:        domain.BatchStatusGenerated,
			Quantity:      in.Quantity,
			FirstSequence: firstSeq,
			LastSequence:  lastSeq,
			BranchID:      in.BranchID,
			CreatedBy:     in.CreatedBy,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if _, err := a.deps.Batches.Create(dbc, []*domain.MarkBatch{batch}); err != nil {
			return err
		}

		codes := make([]*domain.MarkCode, 0, in.Quantity)
		for seq := firstSeq; seq <= lastSeq; seq++ {
			codes = append(codes, &domain.MarkCode{
				ID:             uuid.New(),
				ProductCode:    productCode,
				SequenceNumber: seq,
				VoyageNumber:   voyageNumber,
				Status:         domain.CodeStatusGenerated,
				BatchID:        batch.ID,
				BranchID:       in.BranchID,
				CreatedAt:      now,
				UpdatedAt:      now,
			})
		}
		if _, err := a.deps.Codes.Create(dbc, codes); err != nil {
			return err
		}

		if err := a.deps.Voyages.UpdateLastIssued(dbc, voyage.ID, voyage.AdvanceLastIssued(productCode, in.Quantity)); err != nil {
			return err
		}

		generated := make([]domainagg.GeneratedCode, 0, len(codes))
		for _, c := range codes {
			generated = append(generated, domainagg.GeneratedCode{
				ID:             c.ID,
				ProductCode:    c.ProductCode,
				SequenceNumber: c.SequenceNumber,
				VoyageNumber:   c.VoyageNumber,
				DisplayCode:    c.DisplayCode(),
				Status:         c.Status,
			})
		}
		out = domainagg.GenerateBatchResult{
			BatchID:      batch.ID,
			BatchLabel:   batch.BatchLabel,
			ProductCode:  batch.ProductCode,
			VoyageNumber: batch.VoyageNumber,
			Status:       batch.Status,
			Codes:        generated,
			GeneratedAt:  now,
		}
		return nil
	})
	return out, err
}

func (a *markingAggregate) UpdateCodesStatus(ctx context.Context, in domainagg.UpdateCodesStatusInput) (domainagg.UpdateCodesStatusResult, error) {
	const op = "Marking.UpdateCodesStatus"
	var out domainagg.UpdateCodesStatusResult

	if len(in.CodeIDs) == 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "code_ids must not be empty", nil)
	}
	target := strings.TrimSpace(in.TargetStatus)
	if !domain.IsTerminalCodeStatus(target) {
		return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("status must be %q or %q, got %q", domain.CodeStatusPrinted, domain.CodeStatusFailed, target), nil)
	}
	if a.deps.Batches == nil || a.deps.Codes == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "marking aggregate repos not configured", nil)
	}

	ids := dedupeUUIDs(in.CodeIDs)
	for _, id := range ids {
		if id == uuid.Nil {
			return out, domainagg.NewError(domainagg.CodeValidation, op, "code_ids contains a nil id", nil)
		}
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		codes, err := a.deps.Codes.GetByIDs(dbc, ids)
		if err != nil {
			return err
		}
		if len(codes) != len(ids) {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("codes not found: requested %d, matched %d", len(ids), len(codes)), nil)
		}

		now := time.Now().UTC()
		updated, err := a.deps.Codes.ApplyPrintOutcome(dbc, ids, target, now)
		if err != nil {
			return err
		}

		batchIDs := distinctBatchIDs(codes)
		updatedBatches := 0
		for _, batchID := range batchIDs {
			changed, err := a.rederiveBatchStatus(dbc, batchID)
			if err != nil {
				return err
			}
			if changed {
				updatedBatches++
			}
		}

		out = domainagg.UpdateCodesStatusResult{
			UpdatedCodeCount:  int(updated),
			UpdatedBatchCount: updatedBatches,
			TouchedBatchIDs:   batchIDs,
		}
		return nil
	})
	return out, err
}

// UpdateBatchStatus bypasses derivation on purpose: a bulk re-print
// confirmation may set a batch to failed even when some codes were already
// printed. The next per-code update re-establishes the derived status.
func (a *markingAggregate) UpdateBatchStatus(ctx context.Context, in domainagg.UpdateBatchStatusInput) (domainagg.UpdateBatchStatusResult, error) {
	const op = "Marking.UpdateBatchStatus"
	var out domainagg.UpdateBatchStatusResult

	if in.BatchID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing batch_id", nil)
	}
	target := strings.TrimSpace(in.TargetStatus)
	if !domain.IsTerminalCodeStatus(target) {
		return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("status must be %q or %q, got %q", domain.CodeStatusPrinted, domain.CodeStatusFailed, target), nil)
	}
	if a.deps.Batches == nil || a.deps.Codes == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "marking aggregate repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		batch, err := a.deps.Batches.LockByID(dbc, in.BatchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("batch not found: %s", in.BatchID.String()), nil)
		}

		if err := a.deps.Batches.UpdateStatus(dbc, batch.ID, target); err != nil {
			return err
		}
		now := time.Now().UTC()
		updated, err := a.deps.Codes.ForceBatchOutcome(dbc, batch.ID, target, now)
		if err != nil {
			return err
		}

		out = domainagg.UpdateBatchStatusResult{
			BatchID:          batch.ID,
			Status:           target,
			UpdatedCodeCount: int(updated),
		}
		return nil
	})
	return out, err
}

// rederiveBatchStatus recomputes a batch's status from the current status of
// ALL its codes and persists it only when the derived value differs. The
// batch row lock serializes concurrent updates touching disjoint code subsets
// of the same batch; without it both would derive from a stale member view.
func (a *markingAggregate) rederiveBatchStatus(dbc dbctx.Context, batchID uuid.UUID) (bool, error) {
	batch, err := a.deps.Batches.LockByID(dbc, batchID)
	if err != nil {
		return false, err
	}
	if batch == nil {
		return false, domainagg.NewError(domainagg.CodeNotFound, "Marking.UpdateCodesStatus", fmt.Sprintf("batch not found: %s", batchID.String()), nil)
	}
	members, err := a.deps.Codes.ListByBatchID(dbc, batchID)
	if err != nil {
		return false, err
	}
	statuses := make([]string, 0, len(members))
	for _, c := range members {
		statuses = append(statuses, c.Status)
	}
	derived := domain.DeriveBatchStatus(statuses)
	if derived == "" || derived == batch.Status {
		return false, nil
	}
	if err := a.deps.Batches.UpdateStatus(dbc, batchID, derived); err != nil {
		return false, err
	}
	return true, nil
}

func dedupeUUIDs(in []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(in))
	out := make([]uuid.UUID, 0, len(in))
	for _, id := range in {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func distinctBatchIDs(codes []*domain.MarkCode) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(codes))
	out := make([]uuid.UUID, 0, len(codes))
	for _, c := range codes {
		if c == nil || c.BatchID == uuid.Nil {
			continue
		}
		if _, ok := seen[c.BatchID]; ok {
			continue
		}
		seen[c.BatchID] = struct{}{}
		out = append(out, c.BatchID)
	}
	return out
}
