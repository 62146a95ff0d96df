package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Task statuses form a simple progression; there is no workflow engine behind them.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusBlocked    = "blocked"
	TaskStatusDone       = "done"
)

const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

// Task represents a unit of work tracked by the application.
type Task struct {
	BaseModel

	Title       string         `gorm:"type:varchar(200);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	Status      string         `gorm:"type:varchar(20);not null;index;default:'todo'" json:"status"`
	Priority    string         `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	Labels      datatypes.JSON `json:"labels,omitempty"`

	OwnerUserID    string  `gorm:"type:uuid;index;not null" json:"owner_user_id"`
	AssigneeUserID *string `gorm:"type:uuid;index" json:"assignee_user_id,omitempty"`
	TemplateID     *string `gorm:"type:uuid;index" json:"template_id,omitempty"`

	DueAt       *time.Time `gorm:"index" json:"due_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Normalise lower-cases the enumerated fields.
func (t *Task) Normalise() {
	t.Status = strings.ToLower(strings.TrimSpace(t.Status))
	t.Priority = strings.ToLower(strings.TrimSpace(t.Priority))
}

// ValidTaskStatus reports whether the supplied status is one of the known values.
func ValidTaskStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusBlocked, TaskStatusDone:
		return true
	}
	return false
}

// ValidTaskPriority reports whether the supplied priority is one of the known values.
func ValidTaskPriority(priority string) bool {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}
