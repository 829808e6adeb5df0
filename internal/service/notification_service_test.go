package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fazeltamana/Portal/internal/models"
	"github.com/fazeltamana/Portal/pkg/config"
	appErrors "github.com/fazeltamana/Portal/pkg/errors"
)

type notificationStoreStub struct {
	notifications []models.Notification
	lastUnread    bool
	lastLimit     int
}

func (s *notificationStoreStub) Create(ctx context.Context, notification *models.Notification) error {
	s.notifications = append(s.notifications, *notification)
	return nil
}

func (s *notificationStoreStub) ListInbox(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	s.lastUnread = unreadOnly
	s.lastLimit = limit

	result := make([]models.Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		result = append(result, n)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].IsRead != result[j].IsRead {
			return !result[i].IsRead
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *notificationStoreStub) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	var marked int64
	for i := range s.notifications {
		if s.notifications[i].UserID == userID && !s.notifications[i].IsRead {
			s.notifications[i].IsRead = true
			marked++
		}
	}
	return marked, nil
}

func newTestNotificationService(store *notificationStoreStub, limit int) *NotificationService {
	return NewNotificationService(store, config.NotificationsConfig{InboxLimit: limit}, zap.NewNop())
}

func TestNotificationServiceInboxUnreadFirst(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store := &notificationStoreStub{notifications: []models.Notification{
		{ID: "n-1", UserID: "user-1", Message: "oldest unread", CreatedAt: base},
		{ID: "n-2", UserID: "user-1", Message: "read but newest", CreatedAt: base.Add(2 * time.Hour), IsRead: true},
		{ID: "n-3", UserID: "user-1", Message: "newest unread", CreatedAt: base.Add(time.Hour)},
		{ID: "n-4", UserID: "user-2", Message: "someone else's", CreatedAt: base.Add(3 * time.Hour)},
	}}
	svc := newTestNotificationService(store, 10)
	actor := &models.Actor{ID: "user-1", Roles: []models.UserRole{models.RoleCitizen}}

	inbox, err := svc.ListInbox(context.Background(), actor, false)
	require.NoError(t, err)
	require.Len(t, inbox, 3)
	assert.Equal(t, "n-3", inbox[0].ID)
	assert.Equal(t, "n-1", inbox[1].ID)
	assert.Equal(t, "n-2", inbox[2].ID)
	assert.Equal(t, 10, store.lastLimit)
}

func TestNotificationServiceInboxUnreadOnly(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store := &notificationStoreStub{notifications: []models.Notification{
		{ID: "n-1", UserID: "user-1", CreatedAt: base},
		{ID: "n-2", UserID: "user-1", CreatedAt: base.Add(time.Hour), IsRead: true},
	}}
	svc := newTestNotificationService(store, 10)
	actor := &models.Actor{ID: "user-1", Roles: []models.UserRole{models.RoleCitizen}}

	inbox, err := svc.ListInbox(context.Background(), actor, true)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, "n-1", inbox[0].ID)
	assert.True(t, store.lastUnread)
}

func TestNotificationServiceMarkAllReadIdempotent(t *testing.T) {
	store := &notificationStoreStub{notifications: []models.Notification{
		{ID: "n-1", UserID: "user-1"},
		{ID: "n-2", UserID: "user-1"},
		{ID: "n-3", UserID: "user-2"},
	}}
	svc := newTestNotificationService(store, 10)
	actor := &models.Actor{ID: "user-1", Roles: []models.UserRole{models.RoleCitizen}}

	marked, err := svc.MarkAllRead(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked)

	marked, err = svc.MarkAllRead(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, int64(0), marked)

	// Another user's notification stays untouched.
	assert.False(t, store.notifications[2].IsRead)
}

func TestNotificationServiceRequiresIdentity(t *testing.T) {
	svc := newTestNotificationService(&notificationStoreStub{}, 10)

	_, err := svc.ListInbox(context.Background(), nil, false)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = svc.MarkAllRead(context.Background(), &models.Actor{})
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestNotificationServiceEnqueueValidation(t *testing.T) {
	store := &notificationStoreStub{}
	svc := newTestNotificationService(store, 10)

	err := svc.Enqueue(context.Background(), &models.Notification{UserID: "user-1"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	err = svc.Enqueue(context.Background(), &models.Notification{UserID: "user-1", Message: "hello"})
	require.NoError(t, err)
	require.Len(t, store.notifications, 1)
}
