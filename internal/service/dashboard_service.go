package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fazeltamana/Portal/internal/models"
	appErrors "github.com/fazeltamana/Portal/pkg/errors"
)

const dashboardCacheKey = "dashboard:stats"

type dashboardStore interface {
	DepartmentCounts(ctx context.Context) ([]models.DepartmentRequestCount, error)
	StatusCounts(ctx context.Context) ([]models.StatusCount, error)
	TotalCollected(ctx context.Context) (int64, error)
}

// DashboardService assembles the admin dashboard aggregates, cached for a
// short window since the figures drive informational panels, not decisions.
type DashboardService struct {
	store  dashboardStore
	cache  *CacheService
	ttl    time.Duration
	logger *zap.Logger
}

// NewDashboardService wires the dashboard service.
func NewDashboardService(store dashboardStore, cache *CacheService, ttl time.Duration, logger *zap.Logger) *DashboardService {
	return &DashboardService{store: store, cache: cache, ttl: ttl, logger: logger}
}

// Stats returns portal-wide aggregates for administrators.
func (s *DashboardService) Stats(ctx context.Context, actor *models.Actor) (*models.DashboardStats, error) {
	if err := Authorize(actor, models.RoleAdmin); err != nil {
		return nil, err
	}

	var cached models.DashboardStats
	if hit, err := s.cache.Get(ctx, dashboardCacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	departments, err := s.store.DepartmentCounts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "department counts")
	}
	statuses, err := s.store.StatusCounts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "status counts")
	}
	collected, err := s.store.TotalCollected(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "total collected")
	}

	stats := &models.DashboardStats{
		Departments:         departments,
		StatusCounts:        statuses,
		TotalCollectedCents: collected,
	}
	if err := s.cache.Set(ctx, dashboardCacheKey, stats, s.ttl); err != nil {
		s.logger.Warn("dashboard cache store failed", zap.Error(err))
	}
	return stats, nil
}

// InvalidateStats drops the cached dashboard aggregates. Request transitions
// call it so admins see fresh figures without waiting out the TTL.
func (s *DashboardService) InvalidateStats(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, dashboardCacheKey); err != nil {
		s.logger.Warn("dashboard cache invalidate failed", zap.Error(err))
	}
}
