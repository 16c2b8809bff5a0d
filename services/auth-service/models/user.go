package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a staff account: admins moderate reports, moderators triage their
// team's queue.
type User struct {
	ID        string         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Name      string         `gorm:"not null" json:"name"`
	Role      string         `gorm:"default:'moderator'" json:"role"`
	Team      string         `gorm:"default:'general'" json:"team"`
	Phone     string         `json:"phone,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
