package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mtsuda/groupware-api/internal/constants"
	"github.com/mtsuda/groupware-api/internal/models"
	"github.com/mtsuda/groupware-api/internal/repository"
	"github.com/mtsuda/groupware-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrNotTaskAssigner     = errors.New("only the task assigner can update progress")
	ErrManagerRoleRequired = errors.New("manager role required")
	ErrTitleRequired       = errors.New("title is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrDeadlineRequired    = errors.New("deadline is required")
	ErrAssignerRequired    = errors.New("assigner id is required")
	ErrAssignerNotFound    = errors.New("assigner does not exist")
	ErrCommentRequired     = errors.New("comment is required")
	ErrProgressOutOfRange  = errors.New("progress must be between 0 and 100")
	ErrNoUpdatesProvided   = errors.New("at least one progress update is required")
)

// TaskService handles the task lifecycle: creation by a manager, progress
// updates by the assignee, and the audit report derived from each update.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Deadline    time.Time
	AssignerID  uint64
}

// CreateTask creates a new task. The manager is the resolved identity of the
// caller and must hold the admin role.
func (s *TaskService) CreateTask(manager *models.User, input CreateTaskInput) (*models.Task, error) {
	if manager.Role != models.RoleAdmin {
		return nil, ErrManagerRoleRequired
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, ErrDescriptionRequired
	}
	if input.Deadline.IsZero() {
		return nil, ErrDeadlineRequired
	}
	if input.AssignerID == 0 {
		return nil, ErrAssignerRequired
	}

	if _, err := s.userRepo.FindByID(input.AssignerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignerNotFound
		}
		return nil, fmt.Errorf("failed to verify assigner: %w", err)
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Deadline:    input.Deadline,
		Status:      models.TaskStatusOpen,
		Progress:    0,
		ManagerID:   manager.ID,
		AssignerID:  input.AssignerID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Assigner", "Manager")
}

// ListTasks returns tasks, optionally filtered by assigner
func (s *TaskService) ListTasks(assignerID *uint64, params utils.PaginationParams) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		AssignerID: assignerID,
		Pagination: params,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// ListMyTasks returns the caller's assigned tasks ordered by deadline ascending
func (s *TaskService) ListMyTasks(userID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByAssigner(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateProgress sets a task's progress on behalf of its assigner and appends
// the audit report in the same transaction. pre_progress is the stored
// progress immediately before this call.
func (s *TaskService) UpdateProgress(actorID, taskID uint64, newProgress int, comment string) (*models.Task, error) {
	if strings.TrimSpace(comment) == "" {
		return nil, ErrCommentRequired
	}
	if newProgress < constants.MinProgress || newProgress > constants.MaxProgress {
		return nil, ErrProgressOutOfRange
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.AssignerID != actorID {
		return nil, ErrNotTaskAssigner
	}

	report := &models.Report{
		PreProgress: task.Progress,
		Progress:    newProgress,
		Comment:     comment,
	}

	if err := s.taskRepo.UpdateProgress(task.ID, newProgress, report); err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Assigner")
}

// ProgressUpdate is one item of a bulk progress correction
type ProgressUpdate struct {
	ID       uint64
	Progress int
}

// BulkUpdateResult reports how far a bulk update got. Applied counts the
// items written before the first failure; FailedID names the item that
// stopped the run, if any.
type BulkUpdateResult struct {
	Applied  int
	FailedID uint64
}

// BulkUpdateProgress applies each update independently in order on behalf of
// a manager. The correction path bypasses the assigner check and the audit
// report, so only admins may use it. Already applied items are not rolled
// back when a later one fails; the result makes the partial outcome explicit.
func (s *TaskService) BulkUpdateProgress(actor *models.User, updates []ProgressUpdate) (BulkUpdateResult, error) {
	result := BulkUpdateResult{}

	if actor.Role != models.RoleAdmin {
		return result, ErrManagerRoleRequired
	}
	if len(updates) == 0 {
		return result, ErrNoUpdatesProvided
	}

	for _, u := range updates {
		if u.Progress < constants.MinProgress || u.Progress > constants.MaxProgress {
			result.FailedID = u.ID
			return result, ErrProgressOutOfRange
		}

		rows, err := s.taskRepo.SetProgress(u.ID, u.Progress)
		if err != nil {
			result.FailedID = u.ID
			return result, fmt.Errorf("failed to update task %d: %w", u.ID, err)
		}
		if rows == 0 {
			result.FailedID = u.ID
			return result, ErrTaskNotFound
		}

		result.Applied++
	}

	return result, nil
}
