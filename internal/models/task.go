package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusOpen TaskStatus = "OPEN"
)

type Task struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Deadline    time.Time      `gorm:"not null" json:"deadline"`
	Status      TaskStatus     `gorm:"type:varchar(20);not null;default:'OPEN'" json:"status"`
	Progress    int            `gorm:"not null;default:0" json:"progress"`
	ManagerID   uint64         `gorm:"not null" json:"manager_id"`
	AssignerID  uint64         `gorm:"not null" json:"assigner_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Manager  User     `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	Assigner User     `gorm:"foreignKey:AssignerID" json:"assigner,omitempty"`
	Reports  []Report `gorm:"foreignKey:TaskID" json:"reports,omitempty"`
}
