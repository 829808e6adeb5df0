package service

import (
	"context"

	"github.com/fazeltamana/Portal/internal/models"
	appErrors "github.com/fazeltamana/Portal/pkg/errors"
)

type catalogStore interface {
	ListDepartments(ctx context.Context) ([]models.Department, error)
	ListActiveServices(ctx context.Context) ([]models.Service, error)
	ListDepartmentServices(ctx context.Context, departmentID string) ([]models.Service, error)
}

// CatalogService exposes the public department and service catalog. It is the
// one read surface open without a session: applicants browse it before they
// register.
type CatalogService struct {
	store catalogStore
}

// NewCatalogService wires the catalog service.
func NewCatalogService(store catalogStore) *CatalogService {
	return &CatalogService{store: store}
}

// Departments lists all departments.
func (s *CatalogService) Departments(ctx context.Context) ([]models.Department, error) {
	departments, err := s.store.ListDepartments(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "list departments")
	}
	if departments == nil {
		departments = []models.Department{}
	}
	return departments, nil
}

// Services lists services open for applications, optionally narrowed to a
// department.
func (s *CatalogService) Services(ctx context.Context, departmentID string) ([]models.Service, error) {
	var (
		services []models.Service
		err      error
	)
	if departmentID != "" {
		services, err = s.store.ListDepartmentServices(ctx, departmentID)
	} else {
		services, err = s.store.ListActiveServices(ctx)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "list services")
	}
	if services == nil {
		services = []models.Service{}
	}
	return services, nil
}
