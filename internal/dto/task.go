package dto

import (
	"time"

	"github.com/mtsuda/groupware-api/internal/models"
	"github.com/mtsuda/groupware-api/internal/utils"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID      uint64          `json:"id"`
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Image   string          `json:"image,omitempty"`
	Role    models.UserRole `json:"role"`
	WorkNow bool            `json:"work_now"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Deadline    time.Time         `json:"deadline"`
	Status      models.TaskStatus `json:"status"`
	Progress    int               `json:"progress"`
	ManagerID   uint64            `json:"manager_id"`
	AssignerID  uint64            `json:"assigner_id"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Assigner    *UserDTO          `json:"assigner,omitempty"`
	Manager     *UserDTO          `json:"manager,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Image:   user.Image,
		Role:    user.Role,
		WorkNow: user.WorkNow,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Deadline:    task.Deadline,
		Status:      task.Status,
		Progress:    task.Progress,
		ManagerID:   task.ManagerID,
		AssignerID:  task.AssignerID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	// Include assigner if preloaded
	if task.Assigner.ID != 0 {
		assigner := ToUserDTO(task.Assigner)
		dto.Assigner = &assigner
	}

	// Include manager if preloaded
	if task.Manager.ID != 0 {
		manager := ToUserDTO(task.Manager)
		dto.Manager = &manager
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, params utils.PaginationParams, total int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks: items,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}
