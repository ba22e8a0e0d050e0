package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mtsuda/groupware-api/internal/dto"
	apierrors "github.com/mtsuda/groupware-api/internal/errors"
	"github.com/mtsuda/groupware-api/internal/services"
)

// StampHandler coordinates attendance HTTP handlers.
type StampHandler struct {
	stampService *services.StampService
}

// NewStampHandler creates a new StampHandler.
func NewStampHandler(stampService *services.StampService) *StampHandler {
	return &StampHandler{
		stampService: stampService,
	}
}

// ListStamps returns a user's stamps ordered by clock-in
func (h *StampHandler) ListStamps(c *gin.Context) {
	email := c.Query("email")

	stamps, err := h.stampService.ListForEmail(email)
	if err != nil {
		respondStampError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStampDTOs(stamps))
}

// PostStamp clocks a user in or out depending on the action field
func (h *StampHandler) PostStamp(c *gin.Context) {
	type stampActionRequest struct {
		Action  string `json:"action" binding:"required"`
		Email   string `json:"email"`
		StampID string `json:"stamp_id"`
	}

	var req stampActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Action is required")
		return
	}

	switch req.Action {
	case "clockIn":
		stampID, err := h.stampService.ClockIn(req.Email)
		if err != nil {
			respondStampError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":  "Clocked in successfully",
			"stamp_id": stampID,
		})

	case "clockOut":
		if err := h.stampService.ClockOut(req.StampID); err != nil {
			respondStampError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Clocked out successfully",
		})

	default:
		apierrors.BadRequest(c, "Invalid action")
	}
}

func respondStampError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrStampIDRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrStampNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, err.Error())
	}
}
