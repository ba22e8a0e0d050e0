package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mtsuda/groupware-api/internal/dto"
	apierrors "github.com/mtsuda/groupware-api/internal/errors"
	"github.com/mtsuda/groupware-api/internal/middleware"
	"github.com/mtsuda/groupware-api/internal/services"
	"github.com/mtsuda/groupware-api/internal/utils"
)

// TaskHandler coordinates task lifecycle HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
	authService *services.AuthService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService, authService *services.AuthService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		authService: authService,
	}
}

// ListTasks returns all tasks, optionally filtered by assigner
func (h *TaskHandler) ListTasks(c *gin.Context) {
	var assignerID *uint64
	if raw := c.Query("assigner_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assigner_id")
			return
		}
		assignerID = &id
	}

	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.ListTasks(assignerID, params)
	if err != nil {
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params, total))
}

// PostTasks dispatches on the request's action field: "add" creates a task,
// "updateProgress" applies a bulk progress correction.
func (h *TaskHandler) PostTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "Not authenticated")
		return
	}

	type taskUpdateItem struct {
		ID       uint64 `json:"id"`
		Progress int    `json:"progress"`
	}
	type taskActionRequest struct {
		Action      string           `json:"action" binding:"required"`
		Title       string           `json:"title"`
		Description string           `json:"description"`
		Deadline    string           `json:"deadline"`
		AssignerID  uint64           `json:"assigner_id"`
		Updates     []taskUpdateItem `json:"updates"`
	}

	var req taskActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	switch req.Action {
	case "add":
		manager, err := h.authService.GetUser(userID)
		if err != nil {
			respondAuthError(c, err)
			return
		}

		deadline, err := parseDeadline(req.Deadline)
		if err != nil {
			apierrors.BadRequest(c, "Invalid deadline")
			return
		}

		task, err := h.taskService.CreateTask(manager, services.CreateTaskInput{
			Title:       req.Title,
			Description: req.Description,
			Deadline:    deadline,
			AssignerID:  req.AssignerID,
		})
		if err != nil {
			respondTaskError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Task created successfully",
			"task":    dto.ToTaskDTO(*task),
		})

	case "updateProgress":
		actor, err := h.authService.GetUser(userID)
		if err != nil {
			respondAuthError(c, err)
			return
		}

		updates := make([]services.ProgressUpdate, len(req.Updates))
		for i, u := range req.Updates {
			updates[i] = services.ProgressUpdate{ID: u.ID, Progress: u.Progress}
		}

		result, err := h.taskService.BulkUpdateProgress(actor, updates)
		if err != nil {
			msg := fmt.Sprintf("%v (task %d, %d updates applied before failure)",
				err, result.FailedID, result.Applied)
			switch {
			case errors.Is(err, services.ErrNoUpdatesProvided):
				apierrors.BadRequest(c, err.Error())
			case errors.Is(err, services.ErrManagerRoleRequired):
				apierrors.Forbidden(c, err.Error())
			case errors.Is(err, services.ErrProgressOutOfRange):
				apierrors.BadRequest(c, msg)
			case errors.Is(err, services.ErrTaskNotFound):
				apierrors.NotFound(c, msg)
			default:
				apierrors.InternalError(c, msg)
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("%d tasks updated successfully", result.Applied),
		})

	default:
		apierrors.BadRequest(c, "Invalid action")
	}
}

// ListMyTasks returns the caller's assigned tasks ordered by deadline
func (h *TaskHandler) ListMyTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "Not authenticated")
		return
	}

	tasks, err := h.taskService.ListMyTasks(userID)
	if err != nil {
		apierrors.InternalError(c, err.Error())
		return
	}

	items := make([]dto.TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = dto.ToTaskDTO(task)
	}

	c.JSON(http.StatusOK, items)
}

// UpdateMyTaskProgress updates the progress of one of the caller's tasks and
// appends the progress report.
func (h *TaskHandler) UpdateMyTaskProgress(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "Not authenticated")
		return
	}

	type updateProgressRequest struct {
		TaskID      uint64 `json:"taskId" binding:"required"`
		NewProgress *int   `json:"newProgress" binding:"required"`
		Comment     string `json:"comment" binding:"required"`
	}

	var req updateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Task ID, new progress and comment are required")
		return
	}

	task, err := h.taskService.UpdateProgress(userID, req.TaskID, *req.NewProgress, req.Comment)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrDescriptionRequired),
		errors.Is(err, services.ErrDeadlineRequired),
		errors.Is(err, services.ErrAssignerRequired),
		errors.Is(err, services.ErrAssignerNotFound),
		errors.Is(err, services.ErrCommentRequired),
		errors.Is(err, services.ErrProgressOutOfRange):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrManagerRoleRequired),
		errors.Is(err, services.ErrNotTaskAssigner):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, err.Error())
	}
}

// parseDeadline accepts a plain date or a full timestamp.
func parseDeadline(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
