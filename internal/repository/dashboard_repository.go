package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fazeltamana/Portal/internal/models"
)

// DashboardRepository computes portal-wide aggregates for administrators.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs the repository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// DepartmentCounts returns per-department request totals, busiest first.
func (r *DashboardRepository) DepartmentCounts(ctx context.Context) ([]models.DepartmentRequestCount, error) {
	const query = `SELECT d.id AS department_id, d.name AS department_name, COUNT(r.id) AS total_requests
	FROM departments d
	LEFT JOIN services s ON s.department_id = d.id
	LEFT JOIN requests r ON r.service_id = s.id
	GROUP BY d.id, d.name
	ORDER BY total_requests DESC, d.name`
	var counts []models.DepartmentRequestCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("department counts: %w", err)
	}
	return counts, nil
}

// StatusCounts returns the number of requests per lifecycle status.
func (r *DashboardRepository) StatusCounts(ctx context.Context) ([]models.StatusCount, error) {
	const query = `SELECT status, COUNT(*) AS count FROM requests GROUP BY status ORDER BY status`
	var counts []models.StatusCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}
	return counts, nil
}

// TotalCollected sums all successfully settled payments.
func (r *DashboardRepository) TotalCollected(ctx context.Context) (int64, error) {
	const query = `SELECT COALESCE(SUM(amount_cents), 0) FROM payments WHERE status = $1`
	var total int64
	if err := r.db.GetContext(ctx, &total, query, models.PaymentStatusSuccess); err != nil {
		return 0, fmt.Errorf("total collected: %w", err)
	}
	return total, nil
}
