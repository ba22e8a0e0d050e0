package repository

import (
	"time"

	"github.com/mtsuda/groupware-api/internal/models"
	"github.com/mtsuda/groupware-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// SetWorkNow flips the server-tracked "currently clocked in" flag
	SetWorkNow(userID uint64, workNow bool) error
}

// TaskFilter holds filtering and pagination options for listing tasks
type TaskFilter struct {
	AssignerID *uint64
	ManagerID  *uint64
	Pagination utils.PaginationParams
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// ListByAssigner retrieves a user's assigned tasks ordered by deadline ascending
	ListByAssigner(assignerID uint64) ([]models.Task, error)

	// UpdateProgress sets the task's progress and appends the audit report
	// within a single transaction.
	UpdateProgress(taskID uint64, newProgress int, report *models.Report) error

	// SetProgress sets the task's progress without an audit report and
	// returns the number of rows updated. Used by the bulk correction path.
	SetProgress(taskID uint64, progress int) (int64, error)
}

// ReportRepository defines the interface for report data access
type ReportRepository interface {
	// Create appends a report row
	Create(report *models.Report) error

	// List retrieves reports with task and assigner details,
	// ordered by creation time descending.
	List(params utils.PaginationParams) ([]models.Report, int64, error)

	// DeleteByIDs deletes all reports matching the given IDs and
	// returns the number of rows removed.
	DeleteByIDs(ids []uint64) (int64, error)

	// ConfirmCompletion deletes the report and its parent task within a
	// single transaction. Neither row is removed unless both deletes match.
	ConfirmCompletion(reportID, taskID uint64) error
}

// StampRepository defines the interface for attendance stamp data access
type StampRepository interface {
	// Create inserts a new open stamp
	Create(stamp *models.Stamp) error

	// FindByStampID finds a stamp by its token
	FindByStampID(stampID string) (*models.Stamp, error)

	// ListByUserID retrieves a user's stamps ordered by clock-in ascending
	ListByUserID(userID uint64) ([]models.Stamp, error)

	// Close sets clock_out on the stamp matching the token and returns
	// the number of rows updated.
	Close(stampID string, clockOut time.Time) (int64, error)
}
