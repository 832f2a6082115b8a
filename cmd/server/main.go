package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"layanan_publik_tracker/internal/app"
	"layanan_publik_tracker/internal/domain/notification"
	"layanan_publik_tracker/internal/infra/config"
	idb "layanan_publik_tracker/internal/infra/database"
	"layanan_publik_tracker/internal/infra/httpapi"
	"layanan_publik_tracker/internal/infra/logger"
	"layanan_publik_tracker/internal/infra/metrics"
	"layanan_publik_tracker/internal/infra/notify"
	"layanan_publik_tracker/internal/infra/scheduler"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Configuration loaded. Environment: %s, WhatsApp provider: %s", cfg.Environment, cfg.WAProvider)

	// Initialize database connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	// Repositories
	submissionRepo := idb.NewPostgresSubmissionRepository(db)
	notificationLogRepo := idb.NewPostgresNotificationLogRepository(db)

	// Channel senders, selected by configuration
	var waSender notification.Sender
	switch cfg.WAProvider {
	case config.ProviderTwilio:
		waSender = notify.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWAFrom)
	default:
		waSender = notify.NewSiCubaSender(cfg.SiCubaAPIToken, cfg.SiCubaCampaignID)
	}
	emailSender, err := notify.NewSESSender(context.Background(), cfg.AWSRegion, cfg.EmailFrom)
	if err != nil {
		log.Fatalf("Could not initialize email sender: %v", err)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	appMetrics := metrics.New(registry)

	// Services
	notifier := app.NewNotifier(notificationLogRepo, waSender, emailSender, appMetrics, log, cfg.AppBaseURL, cfg.NotifyTimeout)
	submissionService := app.NewSubmissionService(submissionRepo, notifier, appMetrics, log)
	lookupService := app.NewLookupService(submissionRepo, log)

	// Daily recap scheduler
	recapScheduler := scheduler.NewRecapScheduler(submissionService, notifier, log, cfg.CronSpecDailyRecap, cfg.AdminRecapEmail)
	recapScheduler.Start()

	// HTTP server
	apiServer := httpapi.NewServer(submissionService, lookupService, log, cfg.AdminAPIToken)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           apiServer.NewRouter(metricsHandler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Infof("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down application...")
	recapScheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}
	log.Info("Application shut down gracefully")
}
