package repository

import (
	"time"

	"github.com/mtsuda/groupware-api/internal/models"
	"gorm.io/gorm"
)

// GormStampRepository is a GORM implementation of StampRepository
type GormStampRepository struct {
	db *gorm.DB
}

// NewStampRepository creates a new StampRepository
func NewStampRepository(db *gorm.DB) StampRepository {
	return &GormStampRepository{db: db}
}

// Create inserts a new open stamp
func (r *GormStampRepository) Create(stamp *models.Stamp) error {
	return r.db.Create(stamp).Error
}

// FindByStampID finds a stamp by its token
func (r *GormStampRepository) FindByStampID(stampID string) (*models.Stamp, error) {
	var stamp models.Stamp
	if err := r.db.Where("stamp_id = ?", stampID).First(&stamp).Error; err != nil {
		return nil, err
	}
	return &stamp, nil
}

// ListByUserID retrieves a user's stamps ordered by clock-in ascending
func (r *GormStampRepository) ListByUserID(userID uint64) ([]models.Stamp, error) {
	var stamps []models.Stamp
	if err := r.db.Where("user_id = ?", userID).
		Order("clock_in ASC").
		Find(&stamps).Error; err != nil {
		return nil, err
	}
	return stamps, nil
}

// Close sets clock_out on the stamp matching the token
func (r *GormStampRepository) Close(stampID string, clockOut time.Time) (int64, error) {
	result := r.db.Model(&models.Stamp{}).
		Where("stamp_id = ?", stampID).
		Update("clock_out", clockOut)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
