package models

import (
	"time"

	"gorm.io/gorm"
)

// Report is an append-only audit record: one row per progress-changing action.
type Report struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	TaskID      uint64         `gorm:"not null;index" json:"task_id"`
	PreProgress int            `gorm:"not null" json:"pre_progress"`
	Progress    int            `gorm:"not null" json:"progress"`
	Comment     string         `gorm:"type:text;not null" json:"comment"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
}
