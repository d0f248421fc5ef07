package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NexHire-2025/interview-service/internal/services"
)

// ReportHandler serves XLSX exports of interview outcomes.
type ReportHandler struct {
	reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// DownloadJobReport handles GET /api/v1/jobs/:id/report.xlsx
func (h *ReportHandler) DownloadJobReport(c *gin.Context) {
	company, ok := companyID(c)
	if !ok {
		return
	}
	jobID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="interview-report-job-%d.xlsx"`, jobID))

	if err := h.reports.WriteJobReport(c.Request.Context(), company, jobID, c.Writer); err != nil {
		// Nothing was written yet on ownership and lookup failures; reset the
		// download headers before the JSON error body.
		c.Header("Content-Type", "application/json")
		c.Header("Content-Disposition", "")
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
