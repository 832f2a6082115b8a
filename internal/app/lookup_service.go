package app

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"layanan_publik_tracker/internal/domain/submission"
	idb "layanan_publik_tracker/internal/infra/database"

	"github.com/sirupsen/logrus"
)

var last4Pattern = regexp.MustCompile(`^\d{4}$`)

// StatusView is the subset of submission fields safe to return to an
// unauthenticated caller who has proven partial identity knowledge.
// It never carries the NIK, phone number or email.
type StatusView struct {
	TrackingCode      string
	Nama              string
	JenisLayanan      submission.ServiceType
	JenisLayananLabel string
	Status            submission.Status
	StatusLabel       string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// LookupService answers public status checks: tracking code plus the last four
// NIK digits as proof of identity.
type LookupService struct {
	subs   submission.Repository
	logger *logrus.Logger
}

func NewLookupService(subs submission.Repository, logger *logrus.Logger) *LookupService {
	return &LookupService{subs: subs, logger: logger}
}

// Check validates the tracking code / last-4 pair and returns a redacted view.
// A wrong last-4 yields ErrForbidden; callers rendering the response must not
// let its content reveal whether the tracking code exists at all.
func (s *LookupService) Check(ctx context.Context, trackingCode, last4NIK string) (*StatusView, error) {
	verr := NewValidationError()
	if trackingCode == "" {
		verr.Add("tracking_code", "Kode tracking wajib diisi")
	}
	if !last4Pattern.MatchString(last4NIK) {
		verr.Add("last4_nik", "4 digit terakhir NIK harus berupa angka")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	sub, err := s.subs.GetByTrackingCode(ctx, trackingCode)
	if err != nil {
		if err == idb.ErrSubmissionNotFound {
			return nil, idb.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to look up tracking code: %w", err)
	}

	if len(sub.NIK) < 4 || sub.NIK[len(sub.NIK)-4:] != last4NIK {
		s.logger.Warnf("Identity check failed for tracking code %s", trackingCode)
		return nil, ErrForbidden
	}

	return &StatusView{
		TrackingCode:      sub.TrackingCode,
		Nama:              sub.Nama,
		JenisLayanan:      sub.JenisLayanan,
		JenisLayananLabel: sub.JenisLayanan.Label(),
		Status:            sub.Status,
		StatusLabel:       sub.Status.Label(),
		CreatedAt:         sub.CreatedAt,
		UpdatedAt:         sub.UpdatedAt,
	}, nil
}
