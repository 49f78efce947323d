package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harborline/cargomark-backend/internal/data/repos"
	domainagg "github.com/harborline/cargomark-backend/internal/domain/aggregates"
	"github.com/harborline/cargomark-backend/internal/http/response"
	"github.com/harborline/cargomark-backend/internal/requestdata"
	"github.com/harborline/cargomark-backend/internal/services"
)

type CodeHandler struct {
	marking services.MarkingService
	reports services.ReportService
}

func NewCodeHandler(marking services.MarkingService, reports services.ReportService) *CodeHandler {
	return &CodeHandler{marking: marking, reports: reports}
}

type updateCodesStatusRequest struct {
	CodeIDs []string `json:"code_ids" binding:"required"`
	Status  string   `json:"status" binding:"required"`
}

// PATCH /api/codes/status
func (h *CodeHandler) UpdateCodesStatus(c *gin.Context) {
	var req updateCodesStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	codeIDs := make([]uuid.UUID, 0, len(req.CodeIDs))
	for _, raw := range req.CodeIDs {
		codeID, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_code_id", err)
			return
		}
		codeIDs = append(codeIDs, codeID)
	}
	userID, _ := requestdata.Actor(c.Request.Context())
	result, err := h.marking.UpdateCodesStatus(c.Request.Context(), domainagg.UpdateCodesStatusInput{
		CodeIDs:      codeIDs,
		TargetStatus: req.Status,
		ActorID:      userID,
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"result": result})
}

// GET /api/codes/failed
func (h *CodeHandler) ListFailedCodes(c *gin.Context) {
	filter := repos.CodeFilter{
		VoyageNumber: c.Query("voyage_number"),
		ProductCode:  c.Query("product_code"),
	}
	if raw := c.Query("batch_id"); raw != "" {
		batchID, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_batch_id", err)
			return
		}
		filter.BatchID = batchID
	}
	codes, err := h.reports.ListFailedCodes(c.Request.Context(), filter)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"codes": codes})
}
