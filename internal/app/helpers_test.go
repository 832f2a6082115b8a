package app

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"layanan_publik_tracker/internal/domain/notification"
	idb "layanan_publik_tracker/internal/infra/database"
	"layanan_publik_tracker/internal/infra/metrics"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// fakeSender is a notification.Sender that records what it was asked to send.
type fakeSender struct {
	mu      sync.Mutex
	channel notification.Channel
	err     error
	delay   time.Duration
	sent    []notification.Message
}

func (f *fakeSender) Channel() notification.Channel { return f.channel }

func (f *fakeSender) Send(ctx context.Context, msg notification.Message) (string, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	f.mu.Lock()
	f.sent = append(f.sent, msg)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return "MSG-" + string(f.channel), nil
}

func (f *fakeSender) sentMessages() []notification.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notification.Message{}, f.sent...)
}

func metricsForTest() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// testStack bundles everything the lifecycle tests need, backed by the
// in-memory repositories.
type testStack struct {
	subs     *idb.MemorySubmissionRepository
	logs     *idb.MemoryNotificationLogRepository
	wa       *fakeSender
	email    *fakeSender
	notifier *Notifier
	service  *SubmissionService
	lookup   *LookupService
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	subs := idb.NewMemorySubmissionRepository()
	logs := idb.NewMemoryNotificationLogRepository()
	wa := &fakeSender{channel: notification.ChannelWhatsApp}
	email := &fakeSender{channel: notification.ChannelEmail}
	m := metrics.New(prometheus.NewRegistry())
	logger := newTestLogger()
	n := NewNotifier(logs, wa, email, m, logger, "http://localhost:8080", 2*time.Second)
	return &testStack{
		subs:     subs,
		logs:     logs,
		wa:       wa,
		email:    email,
		notifier: n,
		service:  NewSubmissionService(subs, n, m, logger),
		lookup:   NewLookupService(subs, logger),
	}
}

func validInput() CreateInput {
	return CreateInput{
		Nama:         "Budi",
		NIK:          "1234567890123456",
		NoWA:         "081234567890",
		JenisLayanan: "KTP",
		Consent:      true,
	}
}

// logCounts tallies notification log rows per channel for one submission.
func logCounts(t *testing.T, logs notification.Repository, submissionID uuid.UUID) (whatsapp, email int) {
	t.Helper()
	rows, err := logs.ListBySubmission(context.Background(), submissionID)
	require.NoError(t, err)
	for _, row := range rows {
		switch row.Channel {
		case notification.ChannelWhatsApp:
			whatsapp++
		case notification.ChannelEmail:
			email++
		}
	}
	return whatsapp, email
}
