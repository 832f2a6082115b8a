package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// WhatsApp provider names accepted in WA_PROVIDER.
const (
	ProviderSiCuba = "sicuba"
	ProviderTwilio = "twilio"
)

// AppConfig holds all configuration for the application.
type AppConfig struct {
	DatabaseURL   string
	HTTPAddr      string
	AdminAPIToken string
	AppBaseURL    string
	LogLevel      string
	Environment   string

	WAProvider       string // "sicuba" or "twilio"
	SiCubaAPIToken   string
	SiCubaCampaignID string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioWAFrom     string

	EmailFrom string
	AWSRegion string

	NotifyTimeout time.Duration // per-channel send timeout

	CronSpecDailyRecap string
	AdminRecapEmail    string // recap job is disabled when empty
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.AdminAPIToken = os.Getenv("ADMIN_API_TOKEN")
	if cfg.AdminAPIToken == "" {
		return nil, fmt.Errorf("ADMIN_API_TOKEN is not set")
	}

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	cfg.AppBaseURL = strings.TrimRight(os.Getenv("APP_BASE_URL"), "/")
	if cfg.AppBaseURL == "" {
		cfg.AppBaseURL = "http://localhost:8080"
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.WAProvider = strings.ToLower(os.Getenv("WA_PROVIDER"))
	if cfg.WAProvider == "" {
		cfg.WAProvider = ProviderSiCuba
	}
	switch cfg.WAProvider {
	case ProviderSiCuba:
		cfg.SiCubaAPIToken = os.Getenv("SICUBA_API_TOKEN")
		if cfg.SiCubaAPIToken == "" {
			return nil, fmt.Errorf("SICUBA_API_TOKEN is not set")
		}
		cfg.SiCubaCampaignID = os.Getenv("SICUBA_CAMPAIGN_ID")
		if cfg.SiCubaCampaignID == "" {
			return nil, fmt.Errorf("SICUBA_CAMPAIGN_ID is not set")
		}
	case ProviderTwilio:
		cfg.TwilioAccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
		cfg.TwilioAuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
		cfg.TwilioWAFrom = os.Getenv("TWILIO_WHATSAPP_FROM")
		if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioWAFrom == "" {
			return nil, fmt.Errorf("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_WHATSAPP_FROM must be set")
		}
	default:
		return nil, fmt.Errorf("invalid WA_PROVIDER %q (expected %q or %q)", cfg.WAProvider, ProviderSiCuba, ProviderTwilio)
	}

	cfg.EmailFrom = os.Getenv("EMAIL_FROM")
	if cfg.EmailFrom == "" {
		return nil, fmt.Errorf("EMAIL_FROM is not set")
	}

	cfg.AWSRegion = os.Getenv("AWS_REGION")
	if cfg.AWSRegion == "" {
		cfg.AWSRegion = "ap-southeast-1"
	}

	timeoutStr := os.Getenv("NOTIFY_TIMEOUT_SECONDS")
	if timeoutStr == "" {
		cfg.NotifyTimeout = 10 * time.Second
	} else {
		seconds, err := strconv.Atoi(timeoutStr)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("invalid NOTIFY_TIMEOUT_SECONDS: %q", timeoutStr)
		}
		cfg.NotifyTimeout = time.Duration(seconds) * time.Second
	}

	cfg.CronSpecDailyRecap = os.Getenv("CRON_SPEC_DAILY_RECAP")
	if cfg.CronSpecDailyRecap == "" {
		cfg.CronSpecDailyRecap = "0 8 * * *" // Default: 8:00 AM daily
	}
	cfg.AdminRecapEmail = os.Getenv("ADMIN_RECAP_EMAIL")

	return cfg, nil
}
