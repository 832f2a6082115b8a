package submission

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows and orders List results. Zero values mean "no filter";
// ordering defaults to most-recent-first.
type ListFilter struct {
	Status       Status
	JenisLayanan ServiceType
	OrderAsc     bool
}

// Repository defines the operations for persisting and retrieving Submission
// entities. Insert must enforce tracking_code uniqueness atomically, and
// UpdateStatus must be atomic per record: two concurrent transitions on the
// same id may race, but the stored row always reflects exactly one of them.
type Repository interface {
	Insert(ctx context.Context, s *Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (*Submission, error)
	GetByTrackingCode(ctx context.Context, code string) (*Submission, error)
	// UpdateStatus sets the status and bumps updated_at, returning the updated row.
	UpdateStatus(ctx context.Context, id uuid.UUID, newStatus Status) (*Submission, error)
	// UpdateStatusBulk sets the status on every listed id and returns how many
	// rows changed. Used by the admin bulk action; it does not notify.
	UpdateStatusBulk(ctx context.Context, ids []uuid.UUID, newStatus Status) (int64, error)
	List(ctx context.Context, filter ListFilter) ([]*Submission, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
}
