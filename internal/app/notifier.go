package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"layanan_publik_tracker/internal/domain/notification"
	"layanan_publik_tracker/internal/domain/submission"
	"layanan_publik_tracker/internal/infra/metrics"

	"github.com/sirupsen/logrus"
)

// Outcome is the result of one channel attempt.
type Outcome struct {
	Channel           notification.Channel
	Success           bool
	ProviderMessageID string
	Error             string
}

// NotifyResult reports both channel attempts for one event. Email is nil when
// the submission has no email address (skipped, not failed).
type NotifyResult struct {
	WhatsApp Outcome
	Email    *Outcome
}

// Notifier fans a submission event out to the WhatsApp and email channels and
// records every attempt in the notification log. Channel failures are recorded,
// never propagated: notification is non-fatal to the operation that triggered it.
type Notifier struct {
	logs        notification.Repository
	whatsapp    notification.Sender
	email       notification.Sender
	metrics     *metrics.Metrics
	logger      *logrus.Logger
	appBaseURL  string
	sendTimeout time.Duration
}

func NewNotifier(
	logs notification.Repository,
	whatsapp notification.Sender,
	email notification.Sender,
	m *metrics.Metrics,
	logger *logrus.Logger,
	appBaseURL string,
	sendTimeout time.Duration,
) *Notifier {
	return &Notifier{
		logs:        logs,
		whatsapp:    whatsapp,
		email:       email,
		metrics:     m,
		logger:      logger,
		appBaseURL:  appBaseURL,
		sendTimeout: sendTimeout,
	}
}

// TrackingURL is the self-service status page for a tracking code.
func (n *Notifier) TrackingURL(trackingCode string) string {
	return fmt.Sprintf("%s/public?tab=status&tracking_code=%s", n.appBaseURL, trackingCode)
}

// NotifyCreated notifies the requester that their submission was received.
func (n *Notifier) NotifyCreated(ctx context.Context, s *submission.Submission) NotifyResult {
	url := n.TrackingURL(s.TrackingCode)
	waBody := fmt.Sprintf(
		"Halo %s, pengajuan %s Anda telah kami terima dengan kode tracking #%s. Status: %s. Cek: %s",
		s.Nama, s.JenisLayanan.Label(), s.TrackingCode, s.Status.Label(), url,
	)
	subject := fmt.Sprintf("Pengajuan Diterima - %s", s.TrackingCode)
	return n.dispatch(ctx, s, subject, waBody)
}

// NotifyStatusChanged notifies the requester after a status transition.
// s must already carry the new status.
func (n *Notifier) NotifyStatusChanged(ctx context.Context, s *submission.Submission) NotifyResult {
	url := n.TrackingURL(s.TrackingCode)
	waBody := fmt.Sprintf(
		"Halo %s, pengajuan %s (#%s) kini berstatus: %s. Cek: %s",
		s.Nama, s.JenisLayanan.Label(), s.TrackingCode, s.Status.Label(), url,
	)
	subject := fmt.Sprintf("Update Status Pengajuan - %s", s.TrackingCode)
	return n.dispatch(ctx, s, subject, waBody)
}

// dispatch runs both channel attempts concurrently and waits for both to be
// sent AND logged before returning. There is no ordering guarantee between the
// two channels; failure of one never prevents the attempt or the log of the other.
func (n *Notifier) dispatch(ctx context.Context, s *submission.Submission, subject, waBody string) NotifyResult {
	url := n.TrackingURL(s.TrackingCode)
	base := notification.Message{
		Name:         s.Nama,
		TrackingCode: s.TrackingCode,
		ServiceLabel: s.JenisLayanan.Label(),
		StatusLabel:  s.Status.Label(),
		TrackingURL:  url,
	}

	waMsg := base
	waMsg.To = s.NoWA
	waMsg.Body = waBody

	var result NotifyResult
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		result.WhatsApp = n.attempt(ctx, s, n.whatsapp, waMsg)
	}()

	if s.Email.Valid && s.Email.String != "" {
		emailMsg := base
		emailMsg.To = s.Email.String
		emailMsg.Subject = subject
		emailMsg.Body = renderEmailHTML(s, url)

		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome := n.attempt(ctx, s, n.email, emailMsg)
			result.Email = &outcome
		}()
	}

	wg.Wait()
	return result
}

// attempt sends on one channel, bounded by the configured timeout, and writes
// exactly one notification log row for the outcome.
func (n *Notifier) attempt(ctx context.Context, s *submission.Submission, sender notification.Sender, msg notification.Message) Outcome {
	channel := sender.Channel()
	sendCtx, cancel := context.WithTimeout(ctx, n.sendTimeout)
	providerID, err := sender.Send(sendCtx, msg)
	cancel()

	outcome := Outcome{Channel: channel, Success: err == nil, ProviderMessageID: providerID}
	payload := notification.Payload{
		Destination:       msg.To,
		Message:           msg.Body,
		ProviderMessageID: providerID,
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			payload.Error = fmt.Sprintf("timeout after %s: %v", n.sendTimeout, err)
		} else {
			payload.Error = err.Error()
		}
		outcome.Error = payload.Error
		n.logger.Errorf("Failed to send %s notification for submission %s: %v", channel, s.ID, err)
		n.metrics.NotificationsSent.WithLabelValues(string(channel), "failed").Inc()
	} else {
		n.logger.Infof("Sent %s notification for submission %s (provider id %s)", channel, s.ID, providerID)
		n.metrics.NotificationsSent.WithLabelValues(string(channel), "success").Inc()
	}

	status := notification.SendSuccess
	if err != nil {
		status = notification.SendFailed
	}
	logRow := notification.Log{
		SubmissionID: s.ID,
		Channel:      channel,
		SendStatus:   status,
		Payload:      payload,
	}
	if logErr := n.logs.Create(ctx, &logRow); logErr != nil {
		// The audit row is lost but the primary operation must not fail.
		n.logger.Errorf("Failed to record %s notification log for submission %s: %v", channel, s.ID, logErr)
	}
	return outcome
}

// SendAdminRecap emails the daily count of submissions still waiting to be
// processed to the configured admin address.
func (n *Notifier) SendAdminRecap(ctx context.Context, adminEmail string, pending int64) error {
	sendCtx, cancel := context.WithTimeout(ctx, n.sendTimeout)
	defer cancel()

	msg := notification.Message{
		To:      adminEmail,
		Subject: "Rekap Harian Pengajuan Layanan",
		Body: fmt.Sprintf(
			"<p>Terdapat <strong>%d</strong> pengajuan dengan status Pengajuan Baru yang menunggu diproses.</p>",
			pending,
		),
	}
	if _, err := n.email.Send(sendCtx, msg); err != nil {
		return fmt.Errorf("failed to send admin recap email: %w", err)
	}
	return nil
}

func renderEmailHTML(s *submission.Submission, trackingURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Status Pengajuan</title></head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1 style="background: #0ea5e9; color: white; padding: 20px; text-align: center;">Status Pengajuan</h1>
    <p>Halo <strong>%s</strong>,</p>
    <div style="background: #e0f2fe; padding: 15px; border-radius: 8px;">
      <strong>Kode Tracking:</strong> %s<br>
      <strong>Jenis Layanan:</strong> %s<br>
      <strong>Status:</strong> %s
    </div>
    <p>Anda dapat mengecek status terbaru melalui link berikut:</p>
    <p><a href="%s">%s</a></p>
    <p>Terima kasih telah menggunakan layanan kami.</p>
    <p style="color: #666; font-size: 14px;">Email ini dikirim otomatis oleh sistem Layanan Publik.</p>
  </div>
</body>
</html>`, s.Nama, s.TrackingCode, s.JenisLayanan.Label(), s.Status.Label(), trackingURL, trackingURL)
}
