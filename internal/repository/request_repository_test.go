package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fazeltamana/Portal/internal/models"
)

func newRequestRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
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

func TestRequestRepositoryCreateSubmissionCommitsOneTransaction(t *testing.T) {
	db, mock, cleanup := newRequestRepoMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO requests")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO documents")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payments")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	request := &models.Request{
		CitizenID:     "citizen-1",
		ServiceID:     "svc-1",
		FeeCents:      5000,
		PaymentStatus: models.PaymentStatusPaid,
	}
	err := repo.CreateSubmission(context.Background(), CreateSubmissionParams{
		Request:   request,
		Documents: []models.Document{{FileName: "id-card.pdf", FilePath: "123_id-card.pdf", MimeType: "application/pdf"}},
		Payment:   &models.Payment{AmountCents: 5000, Status: models.PaymentStatusSuccess},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, request.ID)
	assert.Equal(t, models.RequestStatusSubmitted, request.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepositoryCreateSubmissionRollsBackOnPaymentFailure(t *testing.T) {
	db, mock, cleanup := newRequestRepoMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO requests")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payments")).
		WillReturnError(errors.New("payments table unavailable"))
	mock.ExpectRollback()

	err := repo.CreateSubmission(context.Background(), CreateSubmissionParams{
		Request: &models.Request{CitizenID: "citizen-1", ServiceID: "svc-1"},
		Payment: &models.Payment{AmountCents: 5000, Status: models.PaymentStatusSuccess},
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepositoryTransitionGuardedUpdate(t *testing.T) {
	db, mock, cleanup := newRequestRepoMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM requests WHERE id = $1 FOR UPDATE")).
		WithArgs("req-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("UNDER_REVIEW"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE requests")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO request_history")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	from, err := repo.Transition(context.Background(), TransitionParams{
		RequestID:    "req-1",
		FromStatuses: []models.RequestStatus{models.RequestStatusSubmitted, models.RequestStatusUnderReview},
		ToStatus:     models.RequestStatusApproved,
		ReviewerID:   "officer-1",
		ReviewedAt:   time.Now().UTC(),
		Notification: &models.Notification{UserID: "citizen-1", Message: "Your request req-1 has been APPROVED."},
	})
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusUnderReview, from)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepositoryTransitionFinalizedConflict(t *testing.T) {
	db, mock, cleanup := newRequestRepoMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM requests WHERE id = $1 FOR UPDATE")).
		WithArgs("req-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("APPROVED"))
	mock.ExpectRollback()

	_, err := repo.Transition(context.Background(), TransitionParams{
		RequestID:    "req-1",
		FromStatuses: []models.RequestStatus{models.RequestStatusSubmitted, models.RequestStatusUnderReview},
		ToStatus:     models.RequestStatusRejected,
		ReviewerID:   "officer-1",
		ReviewedAt:   time.Now().UTC(),
	})
	assert.ErrorIs(t, err, ErrRequestFinalized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepositoryTransitionUnknownRequest(t *testing.T) {
	db, mock, cleanup := newRequestRepoMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM requests WHERE id = $1 FOR UPDATE")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Transition(context.Background(), TransitionParams{
		RequestID:    "missing",
		FromStatuses: []models.RequestStatus{models.RequestStatusSubmitted},
		ToStatus:     models.RequestStatusApproved,
		ReviewerID:   "officer-1",
		ReviewedAt:   time.Now().UTC(),
	})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepositoryListCitizenScopeLeadsWhereClause(t *testing.T) {
	db, mock, cleanup := newRequestRepoMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectQuery(`(?s)SELECT COUNT\(\*\).+WHERE r\.citizen_id = \$1 AND r\.status IN \(\$2\)`).
		WithArgs("citizen-1", models.RequestStatusApproved).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`(?s)SELECT r\.id.+WHERE r\.citizen_id = \$1 AND r\.status IN \(\$2\).+ORDER BY r\.submitted_at DESC`).
		WithArgs("citizen-1", models.RequestStatusApproved).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "fee_cents", "payment_status", "submitted_at", "citizen_name", "service_name", "department_name"}).
			AddRow("req-1", "APPROVED", 5000, "PAID", time.Now().UTC(), "Alice", "Birth Certificate", "Civil Registry"))

	summaries, total, err := repo.List(context.Background(),
		models.RequestScope{CitizenID: "citizen-1"},
		models.RequestCriteria{Statuses: []models.RequestStatus{models.RequestStatusApproved}})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, summaries, 1)
	assert.Equal(t, "req-1", summaries[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepositoryListOwnerlessScopeMatchesNothing(t *testing.T) {
	db, mock, cleanup := newRequestRepoMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectQuery(`(?s)SELECT COUNT\(\*\).+WHERE 1 = 0`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`(?s)SELECT r\.id.+WHERE 1 = 0`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "fee_cents", "payment_status", "submitted_at", "citizen_name", "service_name", "department_name"}))

	summaries, total, err := repo.List(context.Background(), models.RequestScope{}, models.RequestCriteria{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, summaries)
	assert.NoError(t, mock.ExpectationsWereMet())
}
