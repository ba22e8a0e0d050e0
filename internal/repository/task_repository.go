package repository

import (
	"errors"
	"fmt"

	"github.com/mtsuda/groupware-api/internal/database"
	"github.com/mtsuda/groupware-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrUpdateTask is returned when the progress update fails inside the transaction.
	ErrUpdateTask = errors.New("task repository: update task failed")
	// ErrInsertReport is returned when the report insert fails inside the transaction.
	ErrInsertReport = errors.New("task repository: insert report failed")
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})

	if filter.AssignerID != nil {
		query = query.Where("tasks.assigner_id = ?", *filter.AssignerID)
	}
	if filter.ManagerID != nil {
		query = query.Where("tasks.manager_id = ?", *filter.ManagerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.deadline ASC").
		Scopes(database.Paginate(filter.Pagination))

	if err := listQuery.Preload("Assigner").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// ListByAssigner retrieves a user's assigned tasks ordered by deadline ascending
func (r *GormTaskRepository) ListByAssigner(assignerID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Where("assigner_id = ?", assignerID).
		Order("deadline ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// SetProgress sets the task's progress without an audit report
func (r *GormTaskRepository) SetProgress(taskID uint64, progress int) (int64, error) {
	result := r.db.Model(&models.Task{}).
		Where("id = ?", taskID).
		Update("progress", progress)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// UpdateProgress sets the task's progress and appends the audit report within
// a single transaction, so task state and audit history cannot diverge.
func (r *GormTaskRepository) UpdateProgress(taskID uint64, newProgress int, report *models.Report) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("id = ?", taskID).
			Update("progress", newProgress).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrUpdateTask, err)
		}

		report.TaskID = taskID
		if err := tx.Create(report).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrInsertReport, err)
		}

		return nil
	})
}
