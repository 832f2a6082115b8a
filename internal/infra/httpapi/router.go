// Package httpapi is the HTTP plumbing around the submission lifecycle core.
// Handlers stay thin: decode, delegate to a service, map errors to statuses.
package httpapi

import (
	"net/http"

	"layanan_publik_tracker/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type Server struct {
	submissions *app.SubmissionService
	lookup      *app.LookupService
	logger      *logrus.Logger
	adminToken  string
}

func NewServer(submissions *app.SubmissionService, lookup *app.LookupService, logger *logrus.Logger, adminToken string) *Server {
	return &Server{
		submissions: submissions,
		lookup:      lookup,
		logger:      logger,
		adminToken:  adminToken,
	}
}

// NewRouter wires all endpoints. metricsHandler serves the Prometheus registry
// and is injected so the router does not depend on a global registry.
func (s *Server) NewRouter(metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/submissions", s.handleCreateSubmission)
		r.Get("/submissions/{trackingCode}", s.handleCheckStatus)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Get("/submissions", s.handleListSubmissions)
			r.Patch("/submissions/bulk-status", s.handleBulkStatus)
			r.Patch("/submissions/{id}/status", s.handleTransition)
		})
	})

	return r
}
