package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"layanan_publik_tracker/internal/domain/submission"

	"github.com/google/uuid"
)

// MemorySubmissionRepository is an in-memory submission.Repository with the
// same contract as the Postgres implementation, including atomic per-record
// status updates. Used by tests and local development.
type MemorySubmissionRepository struct {
	mu         sync.RWMutex
	byID       map[uuid.UUID]*submission.Submission
	byTracking map[string]uuid.UUID
}

func NewMemorySubmissionRepository() *MemorySubmissionRepository {
	return &MemorySubmissionRepository{
		byID:       make(map[uuid.UUID]*submission.Submission),
		byTracking: make(map[string]uuid.UUID),
	}
}

func (r *MemorySubmissionRepository) Insert(_ context.Context, s *submission.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byTracking[s.TrackingCode]; exists {
		return ErrDuplicateTrackingCode
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	stored := *s
	r.byID[s.ID] = &stored
	r.byTracking[s.TrackingCode] = s.ID
	return nil
}

func (r *MemorySubmissionRepository) GetByID(_ context.Context, id uuid.UUID) (*submission.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return nil, ErrSubmissionNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *MemorySubmissionRepository) GetByTrackingCode(_ context.Context, code string) (*submission.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byTracking[code]
	if !ok {
		return nil, ErrSubmissionNotFound
	}
	copied := *r.byID[id]
	return &copied, nil
}

func (r *MemorySubmissionRepository) UpdateStatus(_ context.Context, id uuid.UUID, newStatus submission.Status) (*submission.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return nil, ErrSubmissionNotFound
	}
	s.Status = newStatus
	s.UpdatedAt = time.Now()
	copied := *s
	return &copied, nil
}

func (r *MemorySubmissionRepository) UpdateStatusBulk(_ context.Context, ids []uuid.UUID, newStatus submission.Status) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var updated int64
	now := time.Now()
	for _, id := range ids {
		if s, ok := r.byID[id]; ok {
			s.Status = newStatus
			s.UpdatedAt = now
			updated++
		}
	}
	return updated, nil
}

func (r *MemorySubmissionRepository) List(_ context.Context, filter submission.ListFilter) ([]*submission.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	submissions := make([]*submission.Submission, 0, len(r.byID))
	for _, s := range r.byID {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.JenisLayanan != "" && s.JenisLayanan != filter.JenisLayanan {
			continue
		}
		copied := *s
		submissions = append(submissions, &copied)
	}
	sort.Slice(submissions, func(i, j int) bool {
		if filter.OrderAsc {
			return submissions[i].CreatedAt.Before(submissions[j].CreatedAt)
		}
		return submissions[i].CreatedAt.After(submissions[j].CreatedAt)
	})
	return submissions, nil
}

func (r *MemorySubmissionRepository) CountByStatus(_ context.Context, status submission.Status) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, s := range r.byID {
		if s.Status == status {
			count++
		}
	}
	return count, nil
}
