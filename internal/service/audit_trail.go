package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fazeltamana/Portal/internal/models"
	"github.com/fazeltamana/Portal/pkg/jobs"
)

const auditJobType = "audit.write"

// AuditTrail persists audit log entries through a background worker queue
// so request handling never waits on trail writes. It satisfies the same
// CreateAuditLog contract the repositories expose, which lets services and
// middleware swap between direct and queued persistence freely.
type AuditTrail struct {
	queue *jobs.Queue
}

// NewAuditTrail builds a trail backed by the given store.
func NewAuditTrail(store auditRecorder, logger *zap.Logger) *AuditTrail {
	queue := jobs.NewQueue(auditJobType, func(ctx context.Context, job jobs.Job) error {
		entry, ok := job.Payload.(*models.AuditLog)
		if !ok {
			return fmt.Errorf("unexpected audit payload type %T", job.Payload)
		}
		return store.CreateAuditLog(ctx, entry)
	}, jobs.QueueConfig{
		Workers:    2,
		BufferSize: 256,
		Logger:     logger,
	})

	return &AuditTrail{queue: queue}
}

// Start launches the trail workers. Writes before Start fail fast.
func (t *AuditTrail) Start(ctx context.Context) {
	t.queue.Start(ctx)
}

// Stop drains the workers.
func (t *AuditTrail) Stop() {
	t.queue.Stop()
}

// CreateAuditLog enqueues the entry for asynchronous persistence. The
// passed context is ignored on purpose: the write outlives the request
// that produced it and runs under the queue's own lifecycle.
func (t *AuditTrail) CreateAuditLog(_ context.Context, entry *models.AuditLog) error {
	return t.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    auditJobType,
		Payload: entry,
	})
}
