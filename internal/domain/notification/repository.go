package notification

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the operations for the notification audit trail.
type Repository interface {
	Create(ctx context.Context, l *Log) error
	ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]*Log, error)
}
