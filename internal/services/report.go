package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/harborline/cargomark-backend/internal/data/repos"
	"github.com/harborline/cargomark-backend/internal/domain"
	domainagg "github.com/harborline/cargomark-backend/internal/domain/aggregates"
	"github.com/harborline/cargomark-backend/internal/platform/dbctx"
	"github.com/harborline/cargomark-backend/internal/platform/logger"
)

// CodeView is the read-model shape for one code.
type CodeView struct {
	ID                 uuid.UUID `json:"id"`
	ProductCode        string    `json:"product_code"`
	SequenceNumber     int       `json:"sequence_number"`
	VoyageNumber       string    `json:"voyage_number"`
	DisplayCode        string    `json:"display_code"`
	Status             string    `json:"status"`
	PrintAttempts      int       `json:"print_attempts"`
	LastPrintAttemptAt string    `json:"last_print_attempt_at,omitempty"`
	BatchID            uuid.UUID `json:"batch_id"`
}

// BatchView is the read-model shape for one batch, optionally with codes.
type BatchView struct {
	ID            uuid.UUID  `json:"id"`
	BatchLabel    string     `json:"batch_label"`
	ProductCode   string     `json:"product_code"`
	VoyageNumber  string     `json:"voyage_number"`
	Status        string     `json:"status"`
	Quantity      int        `json:"quantity"`
	FirstSequence int        `json:"first_sequence"`
	LastSequence  int        `json:"last_sequence"`
	CreatedAt     string     `json:"created_at"`
	Codes         []CodeView `json:"codes,omitempty"`
}

// VoyageSummary groups one voyage's code counts and recent batches.
type VoyageSummary struct {
	VoyageNumber  string           `json:"voyage_number"`
	StatusCounts  map[string]int64 `json:"status_counts"`
	RecentBatches []BatchView      `json:"recent_batches"`
}

// ProductSummary is the cross-voyage aggregation for one product code.
// Computed at read time, never persisted.
type ProductSummary struct {
	ProductCode string           `json:"product_code"`
	ByVoyage    []VoyageSummary  `json:"by_voyage"`
	Totals      map[string]int64 `json:"totals"`
}

type ReportService interface {
	ListBatches(ctx context.Context, filter repos.BatchFilter, limit int) ([]BatchView, error)
	GetBatch(ctx context.Context, id uuid.UUID) (BatchView, error)
	ListFailedCodes(ctx context.Context, filter repos.CodeFilter) ([]CodeView, error)
	GetProductSummary(ctx context.Context, productCode string) (ProductSummary, error)
}

type reportService struct {
	log     *logger.Logger
	batches repos.MarkBatchRepo
	codes   repos.MarkCodeRepo
	profile LabelProfile
}

func NewReportService(
	baseLog *logger.Logger,
	batches repos.MarkBatchRepo,
	codes repos.MarkCodeRepo,
	profile LabelProfile,
) ReportService {
	return &reportService{
		log:     baseLog.With("service", "ReportService"),
		batches: batches,
		codes:   codes,
		profile: profile,
	}
}

func (s *reportService) ListBatches(ctx context.Context, filter repos.BatchFilter, limit int) ([]BatchView, error) {
	if s == nil || s.batches == nil {
		return nil, fmt.Errorf("report service not configured")
	}
	if limit <= 0 || limit > s.profile.MaxBatchListLimit {
		limit = s.profile.MaxBatchListLimit
	}
	rows, err := s.batches.List(dbctx.Context{Ctx: ctx}, filter, limit)
	if err != nil {
		return nil, err
	}
	out := make([]BatchView, 0, len(rows))
	for _, b := range rows {
		out = append(out, batchView(b, false))
	}
	return out, nil
}

func (s *reportService) GetBatch(ctx context.Context, id uuid.UUID) (BatchView, error) {
	if s == nil || s.batches == nil {
		return BatchView{}, fmt.Errorf("report service not configured")
	}
	if id == uuid.Nil {
		return BatchView{}, domainagg.NewError(domainagg.CodeValidation, "Marking.GetBatch", "missing batch id", nil)
	}
	batch, err := s.batches.GetByIDWithCodes(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return BatchView{}, err
	}
	if batch == nil {
		return BatchView{}, domainagg.NewError(domainagg.CodeNotFound, "Marking.GetBatch", fmt.Sprintf("batch not found: %s", id.String()), nil)
	}
	return batchView(batch, true), nil
}

func (s *reportService) ListFailedCodes(ctx context.Context, filter repos.CodeFilter) ([]CodeView, error) {
	if s == nil || s.codes == nil {
		return nil, fmt.Errorf("report service not configured")
	}
	rows, err := s.codes.ListByStatus(dbctx.Context{Ctx: ctx}, domain.CodeStatusFailed, filter, s.profile.FailedCodesLimit)
	if err != nil {
		return nil, err
	}
	out := make([]CodeView, 0, len(rows))
	for _, c := range rows {
		out = append(out, codeView(c))
	}
	return out, nil
}

func (s *reportService) GetProductSummary(ctx context.Context, productCode string) (ProductSummary, error) {
	if s == nil || s.codes == nil || s.batches == nil {
		return ProductSummary{}, fmt.Errorf("report service not configured")
	}
	productCode = strings.TrimSpace(productCode)
	if productCode == "" {
		return ProductSummary{}, domainagg.NewError(domainagg.CodeValidation, "Marking.GetProductSummary", "missing product_code", nil)
	}

	counts, err := s.codes.CountByVoyageStatus(dbctx.Context{Ctx: ctx}, productCode)
	if err != nil {
		return ProductSummary{}, err
	}

	byVoyage := map[string]map[string]int64{}
	for _, row := range counts {
		if byVoyage[row.VoyageNumber] == nil {
			byVoyage[row.VoyageNumber] = map[string]int64{}
		}
		byVoyage[row.VoyageNumber][row.Status] += row.Count
	}

	voyageNumbers := make([]string, 0, len(byVoyage))
	for v := range byVoyage {
		voyageNumbers = append(voyageNumbers, v)
	}
	sort.Strings(voyageNumbers)

	// Recent batches load independently per voyage; fan out.
	recent := make(map[string][]BatchView, len(voyageNumbers))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, voyageNumber := range voyageNumbers {
		voyageNumber := voyageNumber
		g.Go(func() error {
			rows, err := s.batches.ListRecentByVoyage(dbctx.Context{Ctx: gctx}, productCode, voyageNumber, s.profile.RecentBatchesLimit)
			if err != nil {
				return err
			}
			views := make([]BatchView, 0, len(rows))
			for _, b := range rows {
				views = append(views, batchView(b, false))
			}
			mu.Lock()
			recent[voyageNumber] = views
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ProductSummary{}, err
	}

	summary := ProductSummary{
		ProductCode: productCode,
		ByVoyage:    make([]VoyageSummary, 0, len(voyageNumbers)),
		Totals:      map[string]int64{},
	}
	for _, voyageNumber := range voyageNumbers {
		statusCounts := byVoyage[voyageNumber]
		for status, n := range statusCounts {
			summary.Totals[status] += n
		}
		summary.ByVoyage = append(summary.ByVoyage, VoyageSummary{
			VoyageNumber:  voyageNumber,
			StatusCounts:  statusCounts,
			RecentBatches: recent[voyageNumber],
		})
	}
	return summary, nil
}

func codeView(c *domain.MarkCode) CodeView {
	view := CodeView{
		ID:             c.ID,
		ProductCode:    c.ProductCode,
		SequenceNumber: c.SequenceNumber,
		VoyageNumber:   c.VoyageNumber,
		DisplayCode:    c.DisplayCode(),
		Status:         c.Status,
		PrintAttempts:  c.PrintAttempts,
		BatchID:        c.BatchID,
	}
	if c.LastPrintAttemptAt != nil {
		view.LastPrintAttemptAt = c.LastPrintAttemptAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return view
}

func batchView(b *domain.MarkBatch, withCodes bool) BatchView {
	view := BatchView{
		ID:            b.ID,
		BatchLabel:    b.BatchLabel,
		ProductCode:   b.ProductCode,
		VoyageNumber:  b.VoyageNumber,
		Status:        b.Status,
		Quantity:      b.Quantity,
		FirstSequence: b.FirstSequence,
		LastSequence:  b.LastSequence,
		CreatedAt:     b.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if withCodes {
		view.Codes = make([]CodeView, 0, len(b.Codes))
		for i := range b.Codes {
			view.Codes = append(view.Codes, codeView(&b.Codes[i]))
		}
	}
	return view
}
