package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fazeltamana/Portal/internal/models"
)

func newNotificationRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	cleanup := func() {
		_ = sqlxDB.Close()
		db.Close()
	}
	return sqlxDB, mock, cleanup
}

func TestNotificationRepositoryListInboxUnreadFirstOrdering(t *testing.T) {
	db, mock, cleanup := newNotificationRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(`(?s)SELECT id, user_id, request_id, message, created_at, is_read.+ORDER BY is_read ASC, created_at DESC, id DESC LIMIT 10`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "request_id", "message", "created_at", "is_read"}).
			AddRow("n-2", "user-1", nil, "newest unread", now, false).
			AddRow("n-1", "user-1", nil, "older unread", now.Add(-time.Hour), false).
			AddRow("n-3", "user-1", nil, "read", now.Add(time.Hour), true))

	notifications, err := repo.ListInbox(context.Background(), "user-1", false, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 3)
	assert.Equal(t, "n-2", notifications[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryListInboxUnreadOnly(t *testing.T) {
	db, mock, cleanup := newNotificationRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectQuery(`(?s)SELECT id, user_id, request_id, message, created_at, is_read.+AND is_read = false.+ORDER BY is_read ASC`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "request_id", "message", "created_at", "is_read"}))

	notifications, err := repo.ListInbox(context.Background(), "user-1", true, 0)
	require.NoError(t, err)
	assert.Empty(t, notifications)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryMarkAllReadCountsRows(t *testing.T) {
	db, mock, cleanup := newNotificationRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false")).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	marked, err := repo.MarkAllRead(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), marked)

	// Second run with nothing unread is a no-op, not an error.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false")).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	marked, err = repo.MarkAllRead(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Zero(t, marked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryCreateDefaultsIDAndTimestamp(t *testing.T) {
	db, mock, cleanup := newNotificationRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	notification := &models.Notification{UserID: "user-1", Message: "Your request req-1 has been APPROVED."}
	err := repo.Create(context.Background(), notification)
	require.NoError(t, err)
	assert.NotEmpty(t, notification.ID)
	assert.False(t, notification.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
