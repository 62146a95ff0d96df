package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/trackit-app/trackit/internal/models"
	"github.com/trackit-app/trackit/pkg/logger"
)

// TaskService manages the task lifecycle.
type TaskService struct {
	db            *gorm.DB
	templates     *TemplateService
	notifications *NotificationService
}

// NewTaskService constructs a task service. The template service is optional;
// without it, creating tasks from templates is rejected. The notification
// service is optional; without it, assignment events are not announced.
func NewTaskService(db *gorm.DB, templates *TemplateService, notifications *NotificationService) (*TaskService, error) {
	if db == nil {
		return nil, errors.New("task service: db is required")
	}
	return &TaskService{db: db, templates: templates, notifications: notifications}, nil
}

// ListTasksOptions controls how tasks are filtered and paginated.
type ListTasksOptions struct {
	OwnerUserID    string
	AssigneeUserID string
	Status         string
	Priority       string
	Search         string
	DueBefore      *time.Time
	Limit          int
	Offset         int
}

// CreateTaskInput captures required fields when creating a task.
type CreateTaskInput struct {
	Title          string
	Description    string
	Status         string
	Priority       string
	Labels         []string
	OwnerUserID    string
	AssigneeUserID string
	TemplateID     string
	DueAt          *time.Time
}

// UpdateTaskInput describes mutable task fields. A nil pointer indicates no change.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	Status         *string
	Priority       *string
	Labels         *[]string
	AssigneeUserID *string
	DueAt          *time.Time
	ClearDueAt     bool
}

// List retrieves tasks matching the supplied options ordered by recency.
func (s *TaskService) List(ctx context.Context, opts ListTasksOptions) ([]models.Task, int64, error) {
	if s == nil {
		return nil, 0, errors.New("task service: service not initialised")
	}
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Model(&models.Task{})

	if owner := strings.TrimSpace(opts.OwnerUserID); owner != "" {
		query = query.Where("owner_user_id = ?", owner)
	}
	if assignee := strings.TrimSpace(opts.AssigneeUserID); assignee != "" {
		query = query.Where("assignee_user_id = ?", assignee)
	}
	if status := strings.ToLower(strings.TrimSpace(opts.Status)); status != "" {
		if !models.ValidTaskStatus(status) {
			return nil, 0, fmt.Errorf("task service: unsupported status %s", status)
		}
		query = query.Where("status = ?", status)
	}
	if priority := strings.ToLower(strings.TrimSpace(opts.Priority)); priority != "" {
		if !models.ValidTaskPriority(priority) {
			return nil, 0, fmt.Errorf("task service: unsupported priority %s", priority)
		}
		query = query.Where("priority = ?", priority)
	}
	if search := strings.TrimSpace(opts.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	if opts.DueBefore != nil {
		query = query.Where("due_at IS NOT NULL AND due_at <= ?", opts.DueBefore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("task service: count tasks: %w", err)
	}

	limit := clampLimit(opts.Limit, 25, 100)
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	var tasks []models.Task
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&tasks).Error; err != nil {
		return nil, 0, fmt.Errorf("task service: list tasks: %w", err)
	}
	return tasks, total, nil
}

// Get retrieves a task by identifier.
func (s *TaskService) Get(ctx context.Context, id string) (*models.Task, error) {
	if s == nil {
		return nil, errors.New("task service: service not initialised")
	}
	ctx = ensureContext(ctx)

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("task service: id is required")
	}

	var task models.Task
	if err := s.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// Create persists a new task. When a template id is supplied, the template's
// defaults fill any fields the input leaves blank.
func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	if s == nil {
		return nil, errors.New("task service: service not initialised")
	}
	ctx = ensureContext(ctx)

	owner := strings.TrimSpace(input.OwnerUserID)
	if owner == "" {
		return nil, errors.New("task service: owner user id is required")
	}

	task := models.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      defaultIfEmpty(input.Status, models.TaskStatusTodo),
		Priority:    strings.TrimSpace(input.Priority),
		OwnerUserID: owner,
		DueAt:       input.DueAt,
	}

	if templateID := strings.TrimSpace(input.TemplateID); templateID != "" {
		if s.templates == nil {
			return nil, errors.New("task service: templates are not available")
		}
		template, err := s.templates.Get(ctx, templateID)
		if err != nil {
			return nil, err
		}
		applyTemplateDefaults(&task, template)
		task.TemplateID = &template.ID
	}

	if task.Title == "" {
		return nil, errors.New("task service: title is required")
	}
	task.Priority = defaultIfEmpty(task.Priority, models.TaskPriorityMedium)

	task.Normalise()
	if !models.ValidTaskStatus(task.Status) {
		return nil, fmt.Errorf("task service: unsupported status %s", task.Status)
	}
	if !models.ValidTaskPriority(task.Priority) {
		return nil, fmt.Errorf("task service: unsupported priority %s", task.Priority)
	}

	if assignee := strings.TrimSpace(input.AssigneeUserID); assignee != "" {
		task.AssigneeUserID = &assignee
	}
	if len(input.Labels) > 0 {
		labels, err := encodeLabels(input.Labels)
		if err != nil {
			return nil, err
		}
		task.Labels = labels
	}

	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, fmt.Errorf("task service: create task: %w", err)
	}

	s.notifyAssigned(ctx, &task)
	return &task, nil
}

// Update applies the provided changes to an existing task. Moving a task to
// done stamps CompletedAt; moving it away clears it.
func (s *TaskService) Update(ctx context.Context, id string, input UpdateTaskInput) (*models.Task, error) {
	if s == nil {
		return nil, errors.New("task service: service not initialised")
	}
	ctx = ensureContext(ctx)

	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	previousAssignee := ""
	if task.AssigneeUserID != nil {
		previousAssignee = *task.AssigneeUserID
	}

	if input.Title != nil {
		task.Title = strings.TrimSpace(*input.Title)
		if task.Title == "" {
			return nil, errors.New("task service: title is required")
		}
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*input.Status))
		if !models.ValidTaskStatus(status) {
			return nil, fmt.Errorf("task service: unsupported status %s", status)
		}
		if status == models.TaskStatusDone && task.Status != models.TaskStatusDone {
			now := time.Now().UTC()
			task.CompletedAt = &now
		}
		if status != models.TaskStatusDone {
			task.CompletedAt = nil
		}
		task.Status = status
	}
	if input.Priority != nil {
		priority := strings.ToLower(strings.TrimSpace(*input.Priority))
		if !models.ValidTaskPriority(priority) {
			return nil, fmt.Errorf("task service: unsupported priority %s", priority)
		}
		task.Priority = priority
	}
	if input.Labels != nil {
		labels, err := encodeLabels(*input.Labels)
		if err != nil {
			return nil, err
		}
		task.Labels = labels
	}
	if input.AssigneeUserID != nil {
		assignee := strings.TrimSpace(*input.AssigneeUserID)
		if assignee == "" {
			task.AssigneeUserID = nil
		} else {
			task.AssigneeUserID = &assignee
		}
	}
	if input.ClearDueAt {
		task.DueAt = nil
	} else if input.DueAt != nil {
		task.DueAt = input.DueAt
	}

	task.Normalise()

	if err := s.db.WithContext(ctx).Save(task).Error; err != nil {
		return nil, fmt.Errorf("task service: update task: %w", err)
	}

	if task.AssigneeUserID != nil && *task.AssigneeUserID != previousAssignee {
		s.notifyAssigned(ctx, task)
	}
	return task, nil
}

// Delete removes a task and its comments.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if s == nil {
		return errors.New("task service: service not initialised")
	}
	ctx = ensureContext(ctx)

	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("task service: id is required")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("task service: delete comments: %w", err)
		}
		result := tx.Delete(&models.Task{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("task service: delete task: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}
		return nil
	})
}

// notifyAssigned announces an assignment to the assignee. Best effort: a
// failed notification never fails the task operation.
func (s *TaskService) notifyAssigned(ctx context.Context, task *models.Task) {
	if s.notifications == nil || task.AssigneeUserID == nil {
		return
	}
	assignee := *task.AssigneeUserID
	if assignee == "" || assignee == task.OwnerUserID {
		return
	}

	if _, err := s.notifications.Create(ctx, CreateNotificationInput{
		UserID:   assignee,
		Type:     "task.assigned",
		Title:    "Task assigned to you",
		Message:  task.Title,
		Metadata: map[string]any{"task_id": task.ID},
	}); err != nil {
		logger.Warn("task assignment notification failed",
			zap.String("task_id", task.ID),
			zap.Error(err),
		)
	}
}

func applyTemplateDefaults(task *models.Task, template *models.TaskTemplate) {
	if task.Title == "" {
		task.Title = template.DefaultTitle
	}
	if task.Description == "" {
		task.Description = template.DefaultDescription
	}
	if strings.TrimSpace(task.Priority) == "" {
		task.Priority = template.DefaultPriority
	}
	if len(task.Labels) == 0 && len(template.DefaultLabels) > 0 {
		task.Labels = append(datatypes.JSON(nil), template.DefaultLabels...)
	}
}

func encodeLabels(labels []string) (datatypes.JSON, error) {
	cleaned := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		label = strings.ToLower(strings.TrimSpace(label))
		if label == "" {
			continue
		}
		if _, exists := seen[label]; exists {
			continue
		}
		seen[label] = struct{}{}
		cleaned = append(cleaned, label)
	}
	if len(cleaned) == 0 {
		return nil, nil
	}

	data, err := json.Marshal(cleaned)
	if err != nil {
		return nil, fmt.Errorf("task service: encode labels: %w", err)
	}
	return datatypes.JSON(data), nil
}
