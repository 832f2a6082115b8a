package database

import (
	"context"
	"sync"
	"time"

	"layanan_publik_tracker/internal/domain/notification"

	"github.com/google/uuid"
)

// MemoryNotificationLogRepository is an in-memory notification.Repository.
// Append-only, like the real table.
type MemoryNotificationLogRepository struct {
	mu   sync.RWMutex
	logs []notification.Log
}

func NewMemoryNotificationLogRepository() *MemoryNotificationLogRepository {
	return &MemoryNotificationLogRepository{logs: make([]notification.Log, 0)}
}

func (r *MemoryNotificationLogRepository) Create(_ context.Context, l *notification.Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.CreatedAt = time.Now()
	r.logs = append(r.logs, *l)
	return nil
}

func (r *MemoryNotificationLogRepository) ListBySubmission(_ context.Context, submissionID uuid.UUID) ([]*notification.Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	logs := make([]*notification.Log, 0)
	for i := range r.logs {
		if r.logs[i].SubmissionID == submissionID {
			copied := r.logs[i]
			logs = append(logs, &copied)
		}
	}
	return logs, nil
}
