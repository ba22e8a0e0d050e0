package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mtsuda/groupware-api/internal/dto"
	apierrors "github.com/mtsuda/groupware-api/internal/errors"
	"github.com/mtsuda/groupware-api/internal/services"
)

// UserHandler exposes the identity resolver over HTTP.
type UserHandler struct {
	identity *services.IdentityService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(identity *services.IdentityService) *UserHandler {
	return &UserHandler{
		identity: identity,
	}
}

// GetUser resolves a user by email.
func (h *UserHandler) GetUser(c *gin.Context) {
	email := c.Query("email")

	user, err := h.identity.Resolve(email)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailRequired):
			apierrors.BadRequest(c, "Email is required")
		case errors.Is(err, services.ErrUserNotFound):
			apierrors.NotFound(c, err.Error())
		default:
			apierrors.InternalError(c, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// RegisterUser registers a user on first sign-in. Registration is
// idempotent; an existing row is left untouched.
func (h *UserHandler) RegisterUser(c *gin.Context) {
	type RegisterRequest struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Image string `json:"image"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	created, err := h.identity.EnsureRegistered(services.EnsureRegisteredInput{
		Name:  req.Name,
		Email: req.Email,
		Image: req.Image,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailRequired):
			apierrors.BadRequest(c, "Email is required")
		default:
			apierrors.InternalError(c, err.Error())
		}
		return
	}

	if created {
		c.JSON(http.StatusOK, gin.H{"message": "User registered successfully"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User already exists"})
}
