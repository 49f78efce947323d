package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harborline/cargomark-backend/internal/data/repos"
	domainagg "github.com/harborline/cargomark-backend/internal/domain/aggregates"
	"github.com/harborline/cargomark-backend/internal/http/response"
	"github.com/harborline/cargomark-backend/internal/requestdata"
	"github.com/harborline/cargomark-backend/internal/services"
)

type BatchHandler struct {
	marking services.MarkingService
	reports services.ReportService
}

func NewBatchHandler(marking services.MarkingService, reports services.ReportService) *BatchHandler {
	return &BatchHandler{marking: marking, reports: reports}
}

type generateBatchRequest struct {
	ProductCode  string `json:"product_code" binding:"required"`
	VoyageNumber string `json:"voyage_number" binding:"required"`
	Quantity     int    `json:"quantity" binding:"required"`
}

// POST /api/batches
func (h *BatchHandler) GenerateBatch(c *gin.Context) {
	var req generateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	userID, branchID := requestdata.Actor(c.Request.Context())
	result, err := h.marking.GenerateBatch(c.Request.Context(), domainagg.GenerateBatchInput{
		ProductCode:  req.ProductCode,
		VoyageNumber: req.VoyageNumber,
		Quantity:     req.Quantity,
		BranchID:     branchID,
		CreatedBy:    userID,
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"batch": result})
}

// GET /api/batches
func (h *BatchHandler) ListBatches(c *gin.Context) {
	filter := repos.BatchFilter{
		VoyageNumber: c.Query("voyage_number"),
		ProductCode:  c.Query("product_code"),
		Status:       c.Query("status"),
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	batches, err := h.reports.ListBatches(c.Request.Context(), filter, limit)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"batches": batches})
}

// GET /api/batches/:id
func (h *BatchHandler) GetBatch(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_batch_id", err)
		return
	}
	batch, err := h.reports.GetBatch(c.Request.Context(), batchID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"batch": batch})
}

type updateBatchStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PATCH /api/batches/:id/status
func (h *BatchHandler) UpdateBatchStatus(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_batch_id", err)
		return
	}
	var req updateBatchStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	userID, _ := requestdata.Actor(c.Request.Context())
	result, err := h.marking.UpdateBatchStatus(c.Request.Context(), domainagg.UpdateBatchStatusInput{
		BatchID:      batchID,
		TargetStatus: req.Status,
		ActorID:      userID,
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"result": result})
}
