package models

import "gorm.io/datatypes"

// TaskTemplate captures reusable defaults for creating tasks.
type TaskTemplate struct {
	BaseModel

	Name        string `gorm:"type:varchar(120);not null;uniqueIndex" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	DefaultTitle       string         `gorm:"type:varchar(200)" json:"default_title,omitempty"`
	DefaultDescription string         `gorm:"type:text" json:"default_description,omitempty"`
	DefaultPriority    string         `gorm:"type:varchar(20);default:'medium'" json:"default_priority"`
	DefaultLabels      datatypes.JSON `json:"default_labels,omitempty"`

	OwnerUserID string `gorm:"type:uuid;index;not null" json:"owner_user_id"`
}
