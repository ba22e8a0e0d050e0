package models

import "time"

// Stamp is one clock-in/clock-out pair. ClockOut stays nil while the
// user is still working.
type Stamp struct {
	ID        uint64     `gorm:"primarykey" json:"id"`
	StampID   string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"stamp_id"`
	UserID    uint64     `gorm:"not null;index" json:"user_id"`
	ClockIn   time.Time  `gorm:"not null" json:"clock_in"`
	ClockOut  *time.Time `json:"clock_out"`
	CreatedAt time.Time  `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
