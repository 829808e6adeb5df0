package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fazeltamana/Portal/internal/models"
)

func TestAuditTrailPersistsEntriesInBackground(t *testing.T) {
	store := &auditStub{}
	trail := NewAuditTrail(store, zap.NewNop())
	trail.Start(context.Background())
	defer trail.Stop()

	userID := "user-1"
	err := trail.CreateAuditLog(context.Background(), &models.AuditLog{
		UserID:   &userID,
		Action:   models.AuditActionUserCreate,
		Resource: "users",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return len(store.logs) == 1
	}, time.Second, 10*time.Millisecond)

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Equal(t, models.AuditActionUserCreate, store.logs[0].Action)
	require.Equal(t, "users", store.logs[0].Resource)
}

func TestAuditTrailRejectsWritesBeforeStart(t *testing.T) {
	trail := NewAuditTrail(&auditStub{}, zap.NewNop())

	err := trail.CreateAuditLog(context.Background(), &models.AuditLog{Action: "LOGIN"})
	require.Error(t, err)
}
