package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/fazeltamana/Portal/internal/models"
	"github.com/fazeltamana/Portal/pkg/config"
	appErrors "github.com/fazeltamana/Portal/pkg/errors"
)

type notificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListInbox(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

// NotificationService surfaces a user's inbox. Notifications tied to request
// transitions are written inside the transition transaction by the request
// repository; Enqueue exists for out-of-band messages.
type NotificationService struct {
	store  notificationStore
	limit  int
	logger *zap.Logger
}

// NewNotificationService wires the notification service.
func NewNotificationService(store notificationStore, cfg config.NotificationsConfig, logger *zap.Logger) *NotificationService {
	return &NotificationService{store: store, limit: cfg.InboxLimit, logger: logger}
}

// Enqueue persists a standalone notification.
func (s *NotificationService) Enqueue(ctx context.Context, notification *models.Notification) error {
	if notification.UserID == "" || notification.Message == "" {
		return appErrors.Clone(appErrors.ErrValidation, "notification needs a recipient and a message")
	}
	if err := s.store.Create(ctx, notification); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "create notification")
	}
	return nil
}

// ListInbox returns the actor's notifications, unread first, newest first
// within each group, bounded by the configured inbox limit.
func (s *NotificationService) ListInbox(ctx context.Context, actor *models.Actor, unreadOnly bool) ([]models.Notification, error) {
	if err := Authorize(actor); err != nil {
		return nil, err
	}
	notifications, err := s.store.ListInbox(ctx, actor.ID, unreadOnly, s.limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "list inbox")
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return notifications, nil
}

// MarkAllRead marks the actor's unread notifications as read and returns how
// many rows changed. Calling it again immediately is a no-op, not an error.
func (s *NotificationService) MarkAllRead(ctx context.Context, actor *models.Actor) (int64, error) {
	if err := Authorize(actor); err != nil {
		return 0, err
	}
	marked, err := s.store.MarkAllRead(ctx, actor.ID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "mark inbox read")
	}
	if marked > 0 {
		s.logger.Debug("inbox marked read", zap.String("user_id", actor.ID), zap.Int64("marked", marked))
	}
	return marked, nil
}
