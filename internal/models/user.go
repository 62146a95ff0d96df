package models

import "time"

// User represents an account that can own and be assigned tasks.
type User struct {
	BaseModel

	Username string `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	// Email is optional; nil (not "") when absent so the unique index does
	// not collide on accounts registered without one.
	Email        *string `gorm:"type:varchar(255);uniqueIndex" json:"email,omitempty"`
	DisplayName  string  `gorm:"type:varchar(120)" json:"display_name"`
	PasswordHash string  `gorm:"type:varchar(255);not null" json:"-"`
	IsActive     bool    `gorm:"default:true" json:"is_active"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}
