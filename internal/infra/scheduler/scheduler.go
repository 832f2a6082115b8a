package scheduler

import (
	"context"
	"time"

	"layanan_publik_tracker/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RecapScheduler runs the daily pending-submissions recap: count the
// submissions still in PENGAJUAN_BARU and email the number to the admin
// address. Notification retries do not belong here; a failed recap is logged
// and picked up again the next day.
type RecapScheduler struct {
	cronEngine      *cron.Cron
	submissions     *app.SubmissionService
	notifier        *app.Notifier
	logger          *logrus.Logger
	cronSpec        string
	adminRecapEmail string
}

func NewRecapScheduler(
	submissions *app.SubmissionService,
	notifier *app.Notifier,
	logger *logrus.Logger,
	cronSpec string,
	adminRecapEmail string,
) *RecapScheduler {
	return &RecapScheduler{
		cronEngine:      cron.New(cron.WithLocation(time.Local)),
		submissions:     submissions,
		notifier:        notifier,
		logger:          logger,
		cronSpec:        cronSpec,
		adminRecapEmail: adminRecapEmail,
	}
}

func (s *RecapScheduler) Start() {
	if s.adminRecapEmail == "" {
		s.logger.Info("ADMIN_RECAP_EMAIL not set, daily recap job disabled")
		return
	}

	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Info("Cron job triggered for daily pending recap")
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		s.runRecap(ctx)
	})
	if err != nil {
		s.logger.Fatalf("Could not add daily recap cron job: %v", err)
	}

	s.cronEngine.Start()
	s.logger.Infof("Recap scheduler started (spec %q, recipient %s)", s.cronSpec, s.adminRecapEmail)
}

func (s *RecapScheduler) runRecap(ctx context.Context) {
	pending, err := s.submissions.CountPending(ctx)
	if err != nil {
		s.logger.Errorf("Failed to count pending submissions for recap: %v", err)
		return
	}
	if err := s.notifier.SendAdminRecap(ctx, s.adminRecapEmail, pending); err != nil {
		s.logger.Errorf("Failed to send daily recap: %v", err)
		return
	}
	s.logger.Infof("Daily recap sent: %d pending submissions", pending)
}

func (s *RecapScheduler) Stop() {
	ctx := s.cronEngine.Stop() // Waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Recap scheduler stopped")
}
