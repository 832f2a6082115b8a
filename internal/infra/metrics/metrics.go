package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the Prometheus collectors for the submission pipeline.
type Metrics struct {
	SubmissionsCreated prometheus.Counter
	StatusTransitions  *prometheus.CounterVec
	NotificationsSent  *prometheus.CounterVec
}

// New registers the collectors on reg and returns them. Pass a fresh registry
// in tests to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SubmissionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "layanan_submissions_created_total",
			Help: "Number of submissions successfully created.",
		}),
		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "layanan_status_transitions_total",
			Help: "Number of successful status transitions by new status.",
		}, []string{"status"}),
		NotificationsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "layanan_notifications_total",
			Help: "Notification attempts by channel and outcome.",
		}, []string{"channel", "outcome"}),
	}
}
