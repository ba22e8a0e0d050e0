package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mtsuda/groupware-api/internal/models"
	"github.com/mtsuda/groupware-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrEmailRequired = errors.New("email is required")
	ErrUserNotFound  = errors.New("user not found")
)

// IdentityService maps an authenticated principal (email) to the internal
// user record, and registers first-time sign-ins.
type IdentityService struct {
	userRepo repository.UserRepository
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(userRepo repository.UserRepository) *IdentityService {
	return &IdentityService{
		userRepo: userRepo,
	}
}

// Resolve looks up the user for an email. Registration of absent users is
// the caller's concern, not this method's.
func (s *IdentityService) Resolve(email string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// EnsureRegisteredInput carries the profile presented on first sign-in.
type EnsureRegisteredInput struct {
	Name  string
	Email string
	Image string
}

// EnsureRegistered inserts a user row for the email if none exists.
// A returning user's profile fields are never refreshed; the first
// registration wins. Returns true when a row was created.
func (s *IdentityService) EnsureRegistered(input EnsureRegisteredInput) (bool, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return false, ErrEmailRequired
	}

	_, err := s.userRepo.FindByEmail(email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to check user: %w", err)
	}

	user := &models.User{
		Name:  strings.TrimSpace(input.Name),
		Email: email,
		Image: input.Image,
		Role:  models.RoleMember,
	}

	if err := s.userRepo.Create(user); err != nil {
		// Two first sign-ins can race past the lookup; the loser hits the
		// unique email index. Re-check before treating it as a failure.
		if _, findErr := s.userRepo.FindByEmail(email); findErr == nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to register user: %w", err)
	}

	return true, nil
}
