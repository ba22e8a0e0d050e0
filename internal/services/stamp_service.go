package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mtsuda/groupware-api/internal/models"
	"github.com/mtsuda/groupware-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrStampNotFound   = errors.New("stamp not found")
	ErrStampIDRequired = errors.New("stamp id is required")
)

// StampService records clock-in/clock-out pairs. Stamps reference users by
// id; the email on the wire is resolved first.
type StampService struct {
	stampRepo repository.StampRepository
	identity  *IdentityService
	userRepo  repository.UserRepository
}

// NewStampService creates a new StampService
func NewStampService(stampRepo repository.StampRepository, userRepo repository.UserRepository, identity *IdentityService) *StampService {
	return &StampService{
		stampRepo: stampRepo,
		identity:  identity,
		userRepo:  userRepo,
	}
}

// ClockIn opens a new stamp for the user and returns its token. An already
// open stamp does not block a new clock-in; the latest action wins.
func (s *StampService) ClockIn(email string) (string, error) {
	user, err := s.identity.Resolve(email)
	if err != nil {
		return "", err
	}

	stamp := &models.Stamp{
		StampID: uuid.NewString(),
		UserID:  user.ID,
		ClockIn: time.Now(),
	}

	if err := s.stampRepo.Create(stamp); err != nil {
		return "", fmt.Errorf("failed to clock in: %w", err)
	}

	// The stamp is already recorded; a failed flag update only degrades the
	// derived work_now display.
	if err := s.userRepo.SetWorkNow(user.ID, true); err != nil {
		log.Printf("clock-in recorded for user %d but work_now update failed: %v", user.ID, err)
	}

	return stamp.StampID, nil
}

// ClockOut closes the stamp matching the token
func (s *StampService) ClockOut(stampID string) error {
	if stampID == "" {
		return ErrStampIDRequired
	}

	stamp, err := s.stampRepo.FindByStampID(stampID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStampNotFound
		}
		return fmt.Errorf("failed to find stamp: %w", err)
	}

	rows, err := s.stampRepo.Close(stampID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to clock out: %w", err)
	}
	if rows == 0 {
		return ErrStampNotFound
	}

	if err := s.userRepo.SetWorkNow(stamp.UserID, false); err != nil {
		log.Printf("clock-out recorded for user %d but work_now update failed: %v", stamp.UserID, err)
	}

	return nil
}

// ListForEmail returns the user's stamps ordered by clock-in ascending
func (s *StampService) ListForEmail(email string) ([]models.Stamp, error) {
	user, err := s.identity.Resolve(email)
	if err != nil {
		return nil, err
	}

	stamps, err := s.stampRepo.ListByUserID(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stamps: %w", err)
	}

	return stamps, nil
}
