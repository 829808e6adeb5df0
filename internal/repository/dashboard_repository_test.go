package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fazeltamana/Portal/internal/models"
)

func newDashboardRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
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

func TestDashboardRepositoryDepartmentCountsBusiestFirst(t *testing.T) {
	db, mock, cleanup := newDashboardRepoMock(t)
	defer cleanup()
	repo := NewDashboardRepository(db)

	mock.ExpectQuery(`(?s)SELECT d\.id AS department_id.+ORDER BY total_requests DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"department_id", "department_name", "total_requests"}).
			AddRow("dept-1", "Civil Registry", 12).
			AddRow("dept-2", "Transport", 3))

	counts, err := repo.DepartmentCounts(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "Civil Registry", counts[0].DepartmentName)
	assert.Equal(t, int64(12), counts[0].TotalRequests)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardRepositoryStatusCounts(t *testing.T) {
	db, mock, cleanup := newDashboardRepoMock(t)
	defer cleanup()
	repo := NewDashboardRepository(db)

	mock.ExpectQuery(`SELECT status, COUNT\(\*\) AS count FROM requests GROUP BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("APPROVED", 7).
			AddRow("SUBMITTED", 4))

	counts, err := repo.StatusCounts(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, models.RequestStatusApproved, counts[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardRepositoryTotalCollected(t *testing.T) {
	db, mock, cleanup := newDashboardRepoMock(t)
	defer cleanup()
	repo := NewDashboardRepository(db)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount_cents\), 0\) FROM payments WHERE status = \$1`).
		WithArgs(models.PaymentStatusSuccess).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(125000))

	total, err := repo.TotalCollected(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(125000), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
