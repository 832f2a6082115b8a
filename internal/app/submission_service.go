package app

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"layanan_publik_tracker/internal/domain/phone"
	"layanan_publik_tracker/internal/domain/submission"
	idb "layanan_publik_tracker/internal/infra/database"
	"layanan_publik_tracker/internal/infra/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// maxTrackingCodeAttempts bounds regenerate-and-retry on tracking code collisions.
const maxTrackingCodeAttempts = 3

var (
	nikPattern   = regexp.MustCompile(`^\d{16}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// CreateInput is the untrusted request for a new submission.
type CreateInput struct {
	Nama         string
	NIK          string
	Email        string
	NoWA         string
	JenisLayanan string
	Consent      bool
}

// CreateResult returns the durable handle the requester uses for all future
// status checks.
type CreateResult struct {
	SubmissionID uuid.UUID
	TrackingCode string
}

// TransitionResult reports a completed status change for caller confirmation.
type TransitionResult struct {
	OldStatus submission.Status
	NewStatus submission.Status
}

// SubmissionService orchestrates the submission lifecycle: intake with full
// validation, tracking code assignment, status transitions and the admin list.
type SubmissionService struct {
	subs     submission.Repository
	notifier *Notifier
	metrics  *metrics.Metrics
	logger   *logrus.Logger
	now      func() time.Time
}

func NewSubmissionService(subs submission.Repository, notifier *Notifier, m *metrics.Metrics, logger *logrus.Logger) *SubmissionService {
	return &SubmissionService{
		subs:     subs,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// validateCreate collects every field problem instead of failing on the first.
func validateCreate(in CreateInput) *ValidationError {
	verr := NewValidationError()

	if strings.TrimSpace(in.Nama) == "" {
		verr.Add("nama", "Nama wajib diisi")
	}

	if strings.TrimSpace(in.NIK) == "" {
		verr.Add("nik", "NIK wajib diisi")
	} else if !nikPattern.MatchString(in.NIK) {
		verr.Add("nik", "NIK harus 16 digit")
	}

	if in.Email != "" && !emailPattern.MatchString(in.Email) {
		verr.Add("email", "Format email tidak valid")
	}

	if strings.TrimSpace(in.NoWA) == "" {
		verr.Add("no_wa", "Nomor WhatsApp wajib diisi")
	} else if !phone.IsValidMobile(phone.Normalize(in.NoWA)) {
		verr.Add("no_wa", "Nomor WhatsApp tidak valid")
	}

	if in.JenisLayanan == "" {
		verr.Add("jenis_layanan", "Jenis layanan wajib dipilih")
	} else if !submission.ServiceType(in.JenisLayanan).IsValid() {
		verr.Add("jenis_layanan", "Jenis layanan tidak valid")
	}

	if !in.Consent {
		verr.Add("consent", "Persetujuan pemrosesan data wajib dicentang")
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// Create validates the input, persists a new submission with status
// PENGAJUAN_BARU and notifies the requester. A tracking code collision is
// retried with a fresh code a bounded number of times; notification failures
// never roll back the created submission.
func (s *SubmissionService) Create(ctx context.Context, in CreateInput) (*CreateResult, error) {
	if verr := validateCreate(in); verr != nil {
		return nil, verr
	}

	var email sql.NullString
	if in.Email != "" {
		email = sql.NullString{String: in.Email, Valid: true}
	}

	sub := &submission.Submission{
		Nama:         strings.TrimSpace(in.Nama),
		NIK:          in.NIK,
		Email:        email,
		NoWA:         phone.Normalize(in.NoWA),
		JenisLayanan: submission.ServiceType(in.JenisLayanan),
		Status:       submission.StatusPengajuanBaru,
	}

	var inserted bool
	for attempt := 1; attempt <= maxTrackingCodeAttempts; attempt++ {
		sub.TrackingCode = submission.GenerateTrackingCode(s.now())
		err := s.subs.Insert(ctx, sub)
		if err == nil {
			inserted = true
			break
		}
		if err == idb.ErrDuplicateTrackingCode {
			s.logger.Warnf("Tracking code collision on %s (attempt %d/%d), regenerating", sub.TrackingCode, attempt, maxTrackingCodeAttempts)
			continue
		}
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}
	if !inserted {
		return nil, ErrTrackingCodeConflict
	}

	s.metrics.SubmissionsCreated.Inc()
	s.logger.Infof("Submission %s created with tracking code %s (%s)", sub.ID, sub.TrackingCode, sub.JenisLayanan)

	// Fire-and-confirm: the result is logged per channel, never propagated.
	s.notifier.NotifyCreated(ctx, sub)

	return &CreateResult{SubmissionID: sub.ID, TrackingCode: sub.TrackingCode}, nil
}

// Transition moves a submission to newStatus. A repeated identical update is a
// client error, not a silent success. The store write happens before the
// notification dispatch, so a slow or failed channel cannot block the update.
func (s *SubmissionService) Transition(ctx context.Context, id uuid.UUID, newStatus submission.Status) (*TransitionResult, error) {
	if !newStatus.IsValid() {
		return nil, ErrInvalidStatus
	}

	current, err := s.subs.GetByID(ctx, id)
	if err != nil {
		if err == idb.ErrSubmissionNotFound {
			return nil, idb.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to load submission %s: %w", id, err)
	}

	if current.Status == newStatus {
		return nil, ErrSameStatus
	}

	updated, err := s.subs.UpdateStatus(ctx, id, newStatus)
	if err != nil {
		if err == idb.ErrSubmissionNotFound {
			return nil, idb.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to update status for submission %s: %w", id, err)
	}

	s.metrics.StatusTransitions.WithLabelValues(string(newStatus)).Inc()
	s.logger.Infof("Submission %s transitioned %s -> %s", id, current.Status, updated.Status)

	s.notifier.NotifyStatusChanged(ctx, updated)

	return &TransitionResult{OldStatus: current.Status, NewStatus: updated.Status}, nil
}

// TransitionBulk sets one status on many submissions at once and returns the
// number of rows changed. Bulk updates do not dispatch notifications and do
// not apply the same-status guard; they exist for admin cleanup actions.
func (s *SubmissionService) TransitionBulk(ctx context.Context, ids []uuid.UUID, newStatus submission.Status) (int64, error) {
	if !newStatus.IsValid() {
		return 0, ErrInvalidStatus
	}
	if len(ids) == 0 {
		verr := NewValidationError()
		verr.Add("submission_ids", "submissionIds harus berupa array yang tidak kosong")
		return 0, verr
	}

	updated, err := s.subs.UpdateStatusBulk(ctx, ids, newStatus)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk update status: %w", err)
	}
	s.logger.Infof("Bulk update: %d submissions updated to status %s", updated, newStatus)
	return updated, nil
}

// List returns submissions for the admin dashboard, most recent first by default.
func (s *SubmissionService) List(ctx context.Context, filter submission.ListFilter) ([]*submission.Submission, error) {
	subs, err := s.subs.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return subs, nil
}

// CountPending returns how many submissions still await processing.
func (s *SubmissionService) CountPending(ctx context.Context) (int64, error) {
	count, err := s.subs.CountByStatus(ctx, submission.StatusPengajuanBaru)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending submissions: %w", err)
	}
	return count, nil
}
