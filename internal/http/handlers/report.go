package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/harborline/cargomark-backend/internal/http/response"
	"github.com/harborline/cargomark-backend/internal/services"
)

type ReportHandler struct {
	reports services.ReportService
}

func NewReportHandler(reports services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// GET /api/products/:product_code/summary
func (h *ReportHandler) GetProductSummary(c *gin.Context) {
	summary, err := h.reports.GetProductSummary(c.Request.Context(), c.Param("product_code"))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"summary": summary})
}
