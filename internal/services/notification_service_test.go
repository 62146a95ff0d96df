package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trackit-app/trackit/internal/database/testutil"
)

func newNotificationService(t *testing.T) *NotificationService {
	t.Helper()
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewNotificationService(db, nil)
	require.NoError(t, err)
	return svc
}

func TestNotificationServiceCreateAndList(t *testing.T) {
	svc := newNotificationService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateNotificationInput{
		UserID:   ownerID,
		Type:     "task.assigned",
		Title:    "Task assigned",
		Message:  "You were assigned a task",
		Metadata: map[string]any{"task_id": "t-1"},
	})
	require.NoError(t, err)
	require.Equal(t, "info", created.Severity)
	require.Equal(t, "t-1", created.Metadata["task_id"])

	list, err := svc.ListForUser(ctx, ListNotificationsInput{UserID: ownerID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.False(t, list[0].IsRead)
}

func TestNotificationServiceUnreadFlow(t *testing.T) {
	svc := newNotificationService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, CreateNotificationInput{UserID: ownerID, Type: "task.due"})
		require.NoError(t, err)
	}

	count, err := svc.UnreadCount(ctx, ownerID)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)

	list, err := svc.ListForUser(ctx, ListNotificationsInput{UserID: ownerID})
	require.NoError(t, err)

	marked, err := svc.MarkRead(ctx, ownerID, list[0].ID)
	require.NoError(t, err)
	require.True(t, marked.IsRead)
	require.NotNil(t, marked.ReadAt)

	count, err = svc.UnreadCount(ctx, ownerID)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	unread, err := svc.ListForUser(ctx, ListNotificationsInput{UserID: ownerID, UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, unread, 2)

	require.NoError(t, svc.MarkAllRead(ctx, ownerID))
	count, err = svc.UnreadCount(ctx, ownerID)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestNotificationServiceOwnershipChecks(t *testing.T) {
	svc := newNotificationService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateNotificationInput{UserID: ownerID, Type: "task.due"})
	require.NoError(t, err)

	other := "99999999-9999-9999-9999-999999999999"
	_, err = svc.MarkRead(ctx, other, created.ID)
	require.ErrorIs(t, err, ErrNotificationNotFound)

	require.ErrorIs(t, svc.Delete(ctx, other, created.ID), ErrNotificationNotFound)
	require.NoError(t, svc.Delete(ctx, ownerID, created.ID))
}

func TestNotificationServicePurgeRead(t *testing.T) {
	svc := newNotificationService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateNotificationInput{UserID: ownerID, Type: "task.due"})
	require.NoError(t, err)
	_, err = svc.MarkRead(ctx, ownerID, created.ID)
	require.NoError(t, err)

	// Cutoff in the past keeps the fresh notification.
	removed, err := svc.PurgeRead(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Zero(t, removed)

	removed, err = svc.PurgeRead(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)
}
