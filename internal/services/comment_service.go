package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/trackit-app/trackit/internal/models"
	"github.com/trackit-app/trackit/pkg/logger"
)

// CommentService manages task discussion threads.
type CommentService struct {
	db            *gorm.DB
	tasks         *TaskService
	notifications *NotificationService
}

// NewCommentService constructs a comment service. The notification service is
// optional; without it, new comments are not announced.
func NewCommentService(db *gorm.DB, tasks *TaskService, notifications *NotificationService) (*CommentService, error) {
	if db == nil {
		return nil, errors.New("comment service: db is required")
	}
	if tasks == nil {
		return nil, errors.New("comment service: task service is required")
	}
	return &CommentService{db: db, tasks: tasks, notifications: notifications}, nil
}

// CreateCommentInput captures required fields when posting a comment.
type CreateCommentInput struct {
	TaskID       string
	AuthorUserID string
	Body         string
}

// ListForTask returns the comments of a task in chronological order.
func (s *CommentService) ListForTask(ctx context.Context, taskID string) ([]models.Comment, error) {
	if s == nil {
		return nil, errors.New("comment service: service not initialised")
	}
	ctx = ensureContext(ctx)

	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return nil, errors.New("comment service: task id is required")
	}

	// Surface a proper not-found instead of an empty thread for bogus ids.
	if _, err := s.tasks.Get(ctx, taskID); err != nil {
		return nil, err
	}

	var comments []models.Comment
	if err := s.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("comment service: list comments: %w", err)
	}
	return comments, nil
}

// Create posts a comment on a task.
func (s *CommentService) Create(ctx context.Context, input CreateCommentInput) (*models.Comment, error) {
	if s == nil {
		return nil, errors.New("comment service: service not initialised")
	}
	ctx = ensureContext(ctx)

	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, errors.New("comment service: body is required")
	}
	author := strings.TrimSpace(input.AuthorUserID)
	if author == "" {
		return nil, errors.New("comment service: author user id is required")
	}

	task, err := s.tasks.Get(ctx, input.TaskID)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		TaskID:       task.ID,
		AuthorUserID: author,
		Body:         body,
	}

	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("comment service: create comment: %w", err)
	}

	s.notifyCommented(ctx, task, &comment)
	return &comment, nil
}

// notifyCommented announces a new comment to the task owner and assignee,
// skipping the comment's author. Best effort: a failed notification never
// fails the comment.
func (s *CommentService) notifyCommented(ctx context.Context, task *models.Task, comment *models.Comment) {
	if s.notifications == nil {
		return
	}

	recipients := make([]string, 0, 2)
	if task.OwnerUserID != "" && task.OwnerUserID != comment.AuthorUserID {
		recipients = append(recipients, task.OwnerUserID)
	}
	if task.AssigneeUserID != nil {
		assignee := *task.AssigneeUserID
		if assignee != "" && assignee != comment.AuthorUserID && assignee != task.OwnerUserID {
			recipients = append(recipients, assignee)
		}
	}

	for _, recipient := range recipients {
		if _, err := s.notifications.Create(ctx, CreateNotificationInput{
			UserID:   recipient,
			Type:     "comment.added",
			Title:    "New comment on " + task.Title,
			Message:  comment.Body,
			Metadata: map[string]any{"task_id": task.ID, "comment_id": comment.ID},
		}); err != nil {
			logger.Warn("comment notification failed",
				zap.String("task_id", task.ID),
				zap.Error(err),
			)
		}
	}
}

// Delete removes a comment. Only the author may delete their comment.
func (s *CommentService) Delete(ctx context.Context, commentID, requesterUserID string) error {
	if s == nil {
		return errors.New("comment service: service not initialised")
	}
	ctx = ensureContext(ctx)

	commentID = strings.TrimSpace(commentID)
	if commentID == "" {
		return errors.New("comment service: id is required")
	}

	result := s.db.WithContext(ctx).
		Where("id = ? AND author_user_id = ?", commentID, strings.TrimSpace(requesterUserID)).
		Delete(&models.Comment{})
	if result.Error != nil {
		return fmt.Errorf("comment service: delete comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}
