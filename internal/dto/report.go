package dto

import (
	"time"

	"github.com/mtsuda/groupware-api/internal/models"
	"github.com/mtsuda/groupware-api/internal/utils"
)

// ReportTaskDTO is the task block nested inside a report detail
type ReportTaskDTO struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
	AssignerID  uint64    `json:"assigner_id"`
	Assigner    *UserDTO  `json:"assigner,omitempty"`
}

// ReportDetailDTO represents a report joined with its task and the task's
// assigner, as the review screen consumes it.
type ReportDetailDTO struct {
	ID          uint64         `json:"id"`
	TaskID      uint64         `json:"task_id"`
	PreProgress int            `json:"pre_progress"`
	Progress    int            `json:"progress"`
	Comment     string         `json:"comment"`
	CreatedAt   time.Time      `json:"created_at"`
	Task        *ReportTaskDTO `json:"task,omitempty"`
}

// ReportListResponse represents a paginated list of reports
type ReportListResponse struct {
	Reports    []ReportDetailDTO        `json:"reports"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToReportDetailDTO converts a Report model to ReportDetailDTO
func ToReportDetailDTO(report models.Report) ReportDetailDTO {
	dto := ReportDetailDTO{
		ID:          report.ID,
		TaskID:      report.TaskID,
		PreProgress: report.PreProgress,
		Progress:    report.Progress,
		Comment:     report.Comment,
		CreatedAt:   report.CreatedAt,
	}

	// Include task if preloaded
	if report.Task.ID != 0 {
		task := ReportTaskDTO{
			ID:          report.Task.ID,
			Title:       report.Task.Title,
			Description: report.Task.Description,
			Deadline:    report.Task.Deadline,
			AssignerID:  report.Task.AssignerID,
		}
		if report.Task.Assigner.ID != 0 {
			assigner := ToUserDTO(report.Task.Assigner)
			task.Assigner = &assigner
		}
		dto.Task = &task
	}

	return dto
}

// ToReportListResponse converts a slice of reports to ReportListResponse
func ToReportListResponse(reports []models.Report, params utils.PaginationParams, total int64) ReportListResponse {
	items := make([]ReportDetailDTO, len(reports))
	for i, report := range reports {
		items[i] = ToReportDetailDTO(report)
	}

	return ReportListResponse{
		Reports: items,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}
