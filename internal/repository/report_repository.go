package repository

import (
	"errors"
	"fmt"

	"github.com/mtsuda/groupware-api/internal/database"
	"github.com/mtsuda/groupware-api/internal/models"
	"github.com/mtsuda/groupware-api/internal/utils"
	"gorm.io/gorm"
)

var (
	// ErrReportMissing is returned when the report delete matched no rows.
	ErrReportMissing = errors.New("report repository: report not found")
	// ErrTaskMissing is returned when the task delete matched no rows.
	ErrTaskMissing = errors.New("report repository: task not found")
)

// GormReportRepository is a GORM implementation of ReportRepository
type GormReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &GormReportRepository{db: db}
}

// Create appends a report row
func (r *GormReportRepository) Create(report *models.Report) error {
	return r.db.Create(report).Error
}

// List retrieves reports with task and assigner details,
// ordered by creation time descending.
func (r *GormReportRepository) List(params utils.PaginationParams) ([]models.Report, int64, error) {
	var reports []models.Report

	query := r.db.Model(&models.Report{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("reports.created_at DESC").
		Scopes(database.Paginate(params))

	if err := listQuery.
		Preload("Task").
		Preload("Task.Assigner").
		Find(&reports).Error; err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

// DeleteByIDs deletes all reports matching the given IDs
func (r *GormReportRepository) DeleteByIDs(ids []uint64) (int64, error) {
	result := r.db.Where("id IN ?", ids).Delete(&models.Report{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ConfirmCompletion deletes the report and its parent task within a single
// transaction. A missing report or task rolls the whole operation back.
func (r *GormReportRepository) ConfirmCompletion(reportID, taskID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", reportID).Delete(&models.Report{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete report %d: %w", reportID, result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrReportMissing
		}

		result = tx.Where("id = ?", taskID).Delete(&models.Task{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete task %d: %w", taskID, result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrTaskMissing
		}

		return nil
	})
}
