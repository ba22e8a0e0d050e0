package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mtsuda/groupware-api/internal/dto"
	apierrors "github.com/mtsuda/groupware-api/internal/errors"
	"github.com/mtsuda/groupware-api/internal/services"
	"github.com/mtsuda/groupware-api/internal/utils"
)

// ReportHandler coordinates report review HTTP handlers.
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// ListReports returns reports with task and assigner details, newest first
func (h *ReportHandler) ListReports(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	reports, total, err := h.reportService.ListReports(params)
	if err != nil {
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.ToReportListResponse(reports, params, total))
}

// DeleteReports handles both bulk deletion and completion confirmation,
// dispatching on the request body.
func (h *ReportHandler) DeleteReports(c *gin.Context) {
	type deleteReportsRequest struct {
		ReportIDs *[]uint64 `json:"reportIds"`
		Action    string    `json:"action"`
		ReportID  uint64    `json:"reportId"`
		TaskID    uint64    `json:"taskId"`
	}

	var req deleteReportsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	switch {
	case req.ReportIDs != nil:
		count, err := h.reportService.BulkDelete(*req.ReportIDs)
		if err != nil {
			if errors.Is(err, services.ErrNoReportIDs) {
				apierrors.BadRequest(c, "No report IDs provided for deletion")
				return
			}
			apierrors.InternalError(c, err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("%d reports deleted successfully", count),
		})

	case req.Action == "confirmComplete" && req.ReportID != 0 && req.TaskID != 0:
		if err := h.reportService.ConfirmCompletion(req.ReportID, req.TaskID); err != nil {
			switch {
			case errors.Is(err, services.ErrReportNotFound),
				errors.Is(err, services.ErrTaskNotFound):
				apierrors.NotFound(c, err.Error())
			default:
				apierrors.InternalError(c, err.Error())
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Completion confirmed for report %d and task %d", req.ReportID, req.TaskID),
		})

	default:
		apierrors.BadRequest(c, "Invalid request body for delete operation")
	}
}
