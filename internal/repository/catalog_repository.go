package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fazeltamana/Portal/internal/models"
)

// CatalogRepository reads the department and service catalog.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs the repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListDepartments returns all departments ordered by name.
func (r *CatalogRepository) ListDepartments(ctx context.Context) ([]models.Department, error) {
	const query = `SELECT id, name, created_at FROM departments ORDER BY name ASC`
	var departments []models.Department
	if err := r.db.SelectContext(ctx, &departments, query); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return departments, nil
}

// ListActiveServices returns services open for applications with their
// department names.
func (r *CatalogRepository) ListActiveServices(ctx context.Context) ([]models.Service, error) {
	const query = `SELECT s.id, s.department_id, s.name, s.base_fee_cents, s.active, s.created_at,
       d.name AS department_name
	FROM services s
	JOIN departments d ON d.id = s.department_id
	WHERE s.active = true
	ORDER BY d.name, s.name`
	var services []models.Service
	if err := r.db.SelectContext(ctx, &services, query); err != nil {
		return nil, fmt.Errorf("list active services: %w", err)
	}
	return services, nil
}

// ListDepartmentServices returns a department's services for filter dropdowns.
func (r *CatalogRepository) ListDepartmentServices(ctx context.Context, departmentID string) ([]models.Service, error) {
	const query = `SELECT s.id, s.department_id, s.name, s.base_fee_cents, s.active, s.created_at,
       d.name AS department_name
	FROM services s
	JOIN departments d ON d.id = s.department_id
	WHERE s.department_id = $1
	ORDER BY s.name`
	var services []models.Service
	if err := r.db.SelectContext(ctx, &services, query, departmentID); err != nil {
		return nil, fmt.Errorf("list department services: %w", err)
	}
	return services, nil
}

// GetService fetches a single service with its department name.
func (r *CatalogRepository) GetService(ctx context.Context, id string) (*models.Service, error) {
	const query = `SELECT s.id, s.department_id, s.name, s.base_fee_cents, s.active, s.created_at,
       d.name AS department_name
	FROM services s
	JOIN departments d ON d.id = s.department_id
	WHERE s.id = $1`
	var service models.Service
	if err := r.db.GetContext(ctx, &service, query, id); err != nil {
		return nil, err
	}
	return &service, nil
}
