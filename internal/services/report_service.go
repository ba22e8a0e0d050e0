package services

import (
	"errors"
	"fmt"

	"github.com/mtsuda/groupware-api/internal/models"
	"github.com/mtsuda/groupware-api/internal/repository"
	"github.com/mtsuda/groupware-api/internal/utils"
)

var (
	ErrNoReportIDs    = errors.New("at least one report ID is required")
	ErrReportNotFound = errors.New("report not found")
)

// ReportService handles progress-report review: listing, bulk deletion and
// completion confirmation.
type ReportService struct {
	reportRepo repository.ReportRepository
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo repository.ReportRepository) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
	}
}

// ListReports returns all reports with task and assigner details,
// newest first.
func (s *ReportService) ListReports(params utils.PaginationParams) ([]models.Report, int64, error) {
	reports, total, err := s.reportRepo.List(params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, total, nil
}

// BulkDelete removes the given report rows and returns how many were deleted
func (s *ReportService) BulkDelete(reportIDs []uint64) (int64, error) {
	if len(reportIDs) == 0 {
		return 0, ErrNoReportIDs
	}

	count, err := s.reportRepo.DeleteByIDs(reportIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to delete reports: %w", err)
	}

	return count, nil
}

// ConfirmCompletion archives a finished task: the report and its parent task
// are deleted together, or not at all.
func (s *ReportService) ConfirmCompletion(reportID, taskID uint64) error {
	if err := s.reportRepo.ConfirmCompletion(reportID, taskID); err != nil {
		switch {
		case errors.Is(err, repository.ErrReportMissing):
			return ErrReportNotFound
		case errors.Is(err, repository.ErrTaskMissing):
			return ErrTaskNotFound
		default:
			return fmt.Errorf("failed to confirm completion: %w", err)
		}
	}
	return nil
}
