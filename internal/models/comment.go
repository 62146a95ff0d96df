package models

// Comment represents a message in a task's discussion thread.
type Comment struct {
	BaseModel

	TaskID       string `gorm:"type:uuid;index;not null" json:"task_id"`
	AuthorUserID string `gorm:"type:uuid;index;not null" json:"author_user_id"`
	Body         string `gorm:"type:text;not null" json:"body"`

	Task *Task `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
