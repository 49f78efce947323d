package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
)

var MarkingAggregateContract = Contract{
	Name:             "Marking.MarkingAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns atomic counter advance + batch/code creation and the print-status state machine.",
}

// MarkingAggregate owns the marking write invariants: contiguous per-voyage
// sequence allocation and batch/code status consistency.
//
// Write method failures return *aggregates.Error with codes CodeValidation,
// CodeNotFound, CodeConflict, CodeInvariantViolation, CodeRetryable,
// CodeInternal. Conflicts are not retried internally; retry policy belongs
// to the caller.
type MarkingAggregate interface {
	Aggregate

	// GenerateBatch atomically allocates the next quantity sequence numbers
	// for (productCode, voyageNumber), persists the batch plus its codes, and
	// advances the voyage counter. All-or-nothing.
	GenerateBatch(ctx context.Context, in GenerateBatchInput) (GenerateBatchResult, error)

	// UpdateCodesStatus applies a print outcome to individual codes and
	// re-derives the status of every touched batch from all of its codes.
	UpdateCodesStatus(ctx context.Context, in UpdateCodesStatusInput) (UpdateCodesStatusResult, error)

	// UpdateBatchStatus is the bulk override: it sets the batch status
	// directly and force-applies the same outcome to every member code,
	// bypassing derivation. The batch may momentarily contradict a purely
	// derived status until the next per-code update reconciles it.
	UpdateBatchStatus(ctx context.Context, in UpdateBatchStatusInput) (UpdateBatchStatusResult, error)
}

type GenerateBatchInput struct {
	ProductCode  string
	VoyageNumber string
	Quantity     int
	BranchID     *uuid.UUID
	CreatedBy    *uuid.UUID
}

type GeneratedCode struct {
	ID             uuid.UUID `json:"id"`
	ProductCode    string    `json:"product_code"`
	SequenceNumber int       `json:"sequence_number"`
	VoyageNumber   string    `json:"voyage_number"`
	DisplayCode    string    `json:"display_code"`
	Status         string    `json:"status"`
}

type GenerateBatchResult struct {
	BatchID      uuid.UUID       `json:"batch_id"`
	BatchLabel   string          `json:"batch_label"`
	ProductCode  string          `json:"product_code"`
	VoyageNumber string          `json:"voyage_number"`
	Status       string          `json:"status"`
	Codes        []GeneratedCode `json:"codes"`
	GeneratedAt  time.Time       `json:"generated_at"`
}

type UpdateCodesStatusInput struct {
	CodeIDs      []uuid.UUID
	TargetStatus string
	ActorID      *uuid.UUID
}

type UpdateCodesStatusResult struct {
	UpdatedCodeCount  int         `json:"updated_code_count"`
	UpdatedBatchCount int         `json:"updated_batch_count"`
	TouchedBatchIDs   []uuid.UUID `json:"touched_batch_ids"`
}

type UpdateBatchStatusInput struct {
	BatchID      uuid.UUID
	TargetStatus string
	ActorID      *uuid.UUID
}

type UpdateBatchStatusResult struct {
	BatchID          uuid.UUID `json:"batch_id"`
	Status           string    `json:"status"`
	UpdatedCodeCount int       `json:"updated_code_count"`
}
