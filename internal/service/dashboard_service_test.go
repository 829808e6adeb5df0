package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fazeltamana/Portal/internal/models"
	appErrors "github.com/fazeltamana/Portal/pkg/errors"
)

type dashboardStoreStub struct {
	departmentCalls int
	statusCalls     int
	collectedCalls  int
}

func (s *dashboardStoreStub) DepartmentCounts(ctx context.Context) ([]models.DepartmentRequestCount, error) {
	s.departmentCalls++
	return []models.DepartmentRequestCount{
		{DepartmentID: "dept-1", DepartmentName: "Civil Registry", TotalRequests: 12},
		{DepartmentID: "dept-2", DepartmentName: "Transport", TotalRequests: 3},
	}, nil
}

func (s *dashboardStoreStub) StatusCounts(ctx context.Context) ([]models.StatusCount, error) {
	s.statusCalls++
	return []models.StatusCount{
		{Status: models.RequestStatusApproved, Count: 7},
		{Status: models.RequestStatusSubmitted, Count: 8},
	}, nil
}

func (s *dashboardStoreStub) TotalCollected(ctx context.Context) (int64, error) {
	s.collectedCalls++
	return 125000, nil
}

type memoryCacheRepo struct {
	values map[string]interface{}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	value, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	stats, ok := dest.(*models.DashboardStats)
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*stats = *(value.(*models.DashboardStats))
	return nil
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.values == nil {
		m.values = make(map[string]interface{})
	}
	m.values[key] = value
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.values = nil
	return nil
}

func adminActor() *models.Actor {
	return &models.Actor{ID: "admin-1", Roles: []models.UserRole{models.RoleAdmin}}
}

func TestDashboardServiceStatsAdminOnly(t *testing.T) {
	store := &dashboardStoreStub{}
	cacheSvc := NewCacheService(&memoryCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	svc := NewDashboardService(store, cacheSvc, time.Minute, zap.NewNop())

	_, err := svc.Stats(context.Background(), citizenActor("citizen-1"))
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.Stats(context.Background(), officerActor("officer-1", "dept-1"))
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	assert.Zero(t, store.departmentCalls)
}

func TestDashboardServiceStatsAggregates(t *testing.T) {
	store := &dashboardStoreStub{}
	cacheSvc := NewCacheService(&memoryCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	svc := NewDashboardService(store, cacheSvc, time.Minute, zap.NewNop())

	stats, err := svc.Stats(context.Background(), adminActor())
	require.NoError(t, err)
	require.Len(t, stats.Departments, 2)
	assert.Equal(t, "Civil Registry", stats.Departments[0].DepartmentName)
	assert.Equal(t, int64(125000), stats.TotalCollectedCents)
}

func TestDashboardServiceStatsServedFromCache(t *testing.T) {
	store := &dashboardStoreStub{}
	cacheSvc := NewCacheService(&memoryCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	svc := NewDashboardService(store, cacheSvc, time.Minute, zap.NewNop())

	_, err := svc.Stats(context.Background(), adminActor())
	require.NoError(t, err)
	_, err = svc.Stats(context.Background(), adminActor())
	require.NoError(t, err)

	assert.Equal(t, 1, store.departmentCalls)
	assert.Equal(t, 1, store.statusCalls)
	assert.Equal(t, 1, store.collectedCalls)
}

func TestDashboardServiceInvalidateStats(t *testing.T) {
	store := &dashboardStoreStub{}
	cacheSvc := NewCacheService(&memoryCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	svc := NewDashboardService(store, cacheSvc, time.Minute, zap.NewNop())

	_, err := svc.Stats(context.Background(), adminActor())
	require.NoError(t, err)

	svc.InvalidateStats(context.Background())

	_, err = svc.Stats(context.Background(), adminActor())
	require.NoError(t, err)
	assert.Equal(t, 2, store.departmentCalls)
}
