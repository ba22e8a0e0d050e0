package models

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Image        string    `gorm:"type:varchar(512)" json:"image"`
	Role         UserRole  `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	WorkNow      bool      `gorm:"not null;default:false" json:"work_now"`
	PasswordHash string    `gorm:"type:varchar(255)" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	AssignedTasks []Task  `gorm:"foreignKey:AssignerID" json:"-"`
	ManagedTasks  []Task  `gorm:"foreignKey:ManagerID" json:"-"`
	Stamps        []Stamp `gorm:"foreignKey:UserID" json:"-"`
}
