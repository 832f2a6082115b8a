package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"layanan_publik_tracker/internal/domain/submission"

	"github.com/google/uuid"
	"github.com/lib/pq" // For pq.Array and driver registration
)

// Custom errors specific to the submission repository.
var ErrSubmissionNotFound = fmt.Errorf("submission not found")
var ErrDuplicateTrackingCode = fmt.Errorf("submission with this tracking code already exists")

type PostgresSubmissionRepository struct {
	db *sql.DB
}

func NewPostgresSubmissionRepository(db *sql.DB) *PostgresSubmissionRepository {
	return &PostgresSubmissionRepository{db: db}
}

const submissionColumns = `id, tracking_code, nama, nik, email, no_wa, jenis_layanan, status, created_at, updated_at`

func scanSubmission(row interface {
	Scan(dest ...interface{}) error
}) (*submission.Submission, error) {
	s := &submission.Submission{}
	err := row.Scan(&s.ID, &s.TrackingCode, &s.Nama, &s.NIK, &s.Email, &s.NoWA,
		&s.JenisLayanan, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *PostgresSubmissionRepository) Insert(ctx context.Context, s *submission.Submission) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	query := `INSERT INTO submissions (id, tracking_code, nama, nik, email, no_wa, jenis_layanan, status)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
               RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		s.ID, s.TrackingCode, s.Nama, s.NIK, s.Email, s.NoWA, s.JenisLayanan, s.Status,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "unique constraint") && strings.Contains(err.Error(), "submissions_tracking_code_key") {
			return ErrDuplicateTrackingCode
		}
		return fmt.Errorf("error creating submission: %w", err)
	}
	return nil
}

func (r *PostgresSubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*submission.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`
	s, err := scanSubmission(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("error getting submission by ID: %w", err)
	}
	return s, nil
}

func (r *PostgresSubmissionRepository) GetByTrackingCode(ctx context.Context, code string) (*submission.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE tracking_code = $1`
	s, err := scanSubmission(r.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("error getting submission by tracking code: %w", err)
	}
	return s, nil
}

// UpdateStatus sets the status and bumps updated_at in a single statement, so
// two concurrent transitions on the same row cannot interleave: the stored row
// always reflects exactly one of them (last writer wins).
func (r *PostgresSubmissionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus submission.Status) (*submission.Submission, error) {
	query := `UPDATE submissions
               SET status = $1, updated_at = NOW()
               WHERE id = $2
               RETURNING ` + submissionColumns
	s, err := scanSubmission(r.db.QueryRowContext(ctx, query, newStatus, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("error updating submission status: %w", err)
	}
	return s, nil
}

func (r *PostgresSubmissionRepository) UpdateStatusBulk(ctx context.Context, ids []uuid.UUID, newStatus submission.Status) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	idsAsStrings := make([]string, len(ids))
	for i, id := range ids {
		idsAsStrings[i] = id.String()
	}

	query := `UPDATE submissions
               SET status = $1, updated_at = NOW()
               WHERE id = ANY($2::uuid[])`
	res, err := r.db.ExecContext(ctx, query, newStatus, pq.Array(idsAsStrings))
	if err != nil {
		return 0, fmt.Errorf("error bulk updating submission status: %w", err)
	}
	updated, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading bulk update row count: %w", err)
	}
	return updated, nil
}

func (r *PostgresSubmissionRepository) List(ctx context.Context, filter submission.ListFilter) ([]*submission.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions`
	conditions := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.JenisLayanan != "" {
		args = append(args, filter.JenisLayanan)
		conditions = append(conditions, fmt.Sprintf("jenis_layanan = $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	if filter.OrderAsc {
		query += " ORDER BY created_at ASC"
	} else {
		query += " ORDER BY created_at DESC"
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing submissions: %w", err)
	}
	defer rows.Close()

	submissions := make([]*submission.Submission, 0)
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning submission row: %w", err)
		}
		submissions = append(submissions, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submission rows: %w", err)
	}
	return submissions, nil
}

func (r *PostgresSubmissionRepository) CountByStatus(ctx context.Context, status submission.Status) (int64, error) {
	query := `SELECT COUNT(*) FROM submissions WHERE status = $1`
	var count int64
	if err := r.db.QueryRowContext(ctx, query, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting submissions by status: %w", err)
	}
	return count, nil
}
