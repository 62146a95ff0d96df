package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trackit-app/trackit/internal/database/testutil"
)

func newCommentFixture(t *testing.T) (*CommentService, *TaskService) {
	t.Helper()
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	templates, err := NewTemplateService(db)
	require.NoError(t, err)
	tasks, err := NewTaskService(db, templates, nil)
	require.NoError(t, err)
	comments, err := NewCommentService(db, tasks, nil)
	require.NoError(t, err)
	return comments, tasks
}

func TestCommentServiceCreateAndList(t *testing.T) {
	comments, tasks := newCommentFixture(t)
	ctx := context.Background()

	task, err := tasks.Create(ctx, CreateTaskInput{Title: "x", OwnerUserID: ownerID})
	require.NoError(t, err)

	first, err := comments.Create(ctx, CreateCommentInput{
		TaskID:       task.ID,
		AuthorUserID: ownerID,
		Body:         "first",
	})
	require.NoError(t, err)

	_, err = comments.Create(ctx, CreateCommentInput{
		TaskID:       task.ID,
		AuthorUserID: ownerID,
		Body:         "second",
	})
	require.NoError(t, err)

	thread, err := comments.ListForTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	require.Equal(t, first.ID, thread[0].ID, "comments are chronological")
}

func TestCommentServiceCreateNotifiesOwnerAndAssignee(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	notifications, err := NewNotificationService(db, nil)
	require.NoError(t, err)
	tasks, err := NewTaskService(db, nil, notifications)
	require.NoError(t, err)
	comments, err := NewCommentService(db, tasks, notifications)
	require.NoError(t, err)
	ctx := context.Background()

	author := "55555555-5555-5555-5555-555555555555"
	task, err := tasks.Create(ctx, CreateTaskInput{
		Title:          "x",
		OwnerUserID:    ownerID,
		AssigneeUserID: assigneeID,
	})
	require.NoError(t, err)

	_, err = comments.Create(ctx, CreateCommentInput{TaskID: task.ID, AuthorUserID: author, Body: "ping"})
	require.NoError(t, err)

	ownerFeed, err := notifications.ListForUser(ctx, ListNotificationsInput{UserID: ownerID})
	require.NoError(t, err)
	require.Len(t, ownerFeed, 1)
	require.Equal(t, "comment.added", ownerFeed[0].Type)

	// The assignee already holds the assignment notification.
	assigneeFeed, err := notifications.ListForUser(ctx, ListNotificationsInput{UserID: assigneeID})
	require.NoError(t, err)
	require.Len(t, assigneeFeed, 2)

	// Authors are not notified about their own comments.
	_, err = comments.Create(ctx, CreateCommentInput{TaskID: task.ID, AuthorUserID: ownerID, Body: "reply"})
	require.NoError(t, err)
	ownerFeed, err = notifications.ListForUser(ctx, ListNotificationsInput{UserID: ownerID})
	require.NoError(t, err)
	require.Len(t, ownerFeed, 1)
}

func TestCommentServiceUnknownTask(t *testing.T) {
	comments, _ := newCommentFixture(t)
	ctx := context.Background()

	_, err := comments.ListForTask(ctx, "44444444-4444-4444-4444-444444444444")
	require.ErrorIs(t, err, ErrTaskNotFound)

	_, err = comments.Create(ctx, CreateCommentInput{
		TaskID:       "44444444-4444-4444-4444-444444444444",
		AuthorUserID: ownerID,
		Body:         "hello",
	})
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestCommentServiceDeleteRequiresAuthor(t *testing.T) {
	comments, tasks := newCommentFixture(t)
	ctx := context.Background()

	task, err := tasks.Create(ctx, CreateTaskInput{Title: "x", OwnerUserID: ownerID})
	require.NoError(t, err)

	comment, err := comments.Create(ctx, CreateCommentInput{
		TaskID:       task.ID,
		AuthorUserID: ownerID,
		Body:         "mine",
	})
	require.NoError(t, err)

	err = comments.Delete(ctx, comment.ID, "55555555-5555-5555-5555-555555555555")
	require.ErrorIs(t, err, ErrCommentNotFound)

	require.NoError(t, comments.Delete(ctx, comment.ID, ownerID))
}

func TestCommentServiceValidation(t *testing.T) {
	comments, tasks := newCommentFixture(t)
	ctx := context.Background()

	task, err := tasks.Create(ctx, CreateTaskInput{Title: "x", OwnerUserID: ownerID})
	require.NoError(t, err)

	_, err = comments.Create(ctx, CreateCommentInput{TaskID: task.ID, AuthorUserID: ownerID, Body: "   "})
	require.Error(t, err)

	_, err = comments.Create(ctx, CreateCommentInput{TaskID: task.ID, Body: "hello"})
	require.Error(t, err)
}
