package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultRateSalt   = "dev_salt_change_me"
	DefaultEmailFrom  = "Wissens-Bank <briefing@localhost>"
	DefaultSiteURL    = "http://localhost:8888"
	DefaultBatchLimit = 80
	MaxBatchLimit     = 200
)

type Config struct {
	Addr      string
	DBPath    string
	SiteURL   string
	SiteName  string
	LogLevel  string
	LogFormat string

	RateSalt         string
	RateLimitBackend string
	RedisURL         string

	CronSecret      string
	AlertBatchLimit int

	ResendAPIKey      string
	EmailFrom         string
	MailRatePerSecond float64

	StaticDir        string
	EnableSwagger    bool
	ScanSchedule     string
	BriefingSchedule string
	DocumentFeeds    []string
	ProxyURL         string
	ShutdownGrace    time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:      envOr("APP_ADDR", ":8080"),
		DBPath:    filepath.Clean(envOr("APP_DB_PATH", "./data/alerts.db")),
		SiteURL:   strings.TrimRight(firstNonEmpty(os.Getenv("APP_SITE_URL"), os.Getenv("URL"), os.Getenv("DEPLOY_PRIME_URL"), DefaultSiteURL), "/"),
		SiteName:  envOr("APP_SITE_NAME", "Wissens-Bank"),
		LogLevel:  envOr("LOG_LEVEL", "info"),
		LogFormat: envOr("LOG_FORMAT", "console"),

		RateSalt:         envOr("RATE_SALT", DefaultRateSalt),
		RateLimitBackend: strings.ToLower(envOr("RATE_LIMIT_BACKEND", "sqlite")),
		RedisURL:         os.Getenv("REDIS_URL"),

		CronSecret:      os.Getenv("CRON_SECRET"),
		AlertBatchLimit: ClampBatchLimit(os.Getenv("ALERTS_BATCH_LIMIT")),

		ResendAPIKey:      os.Getenv("RESEND_API_KEY"),
		EmailFrom:         envOr("EMAIL_FROM", DefaultEmailFrom),
		MailRatePerSecond: parseFloat(os.Getenv("MAIL_RATE_PER_SECOND"), 2),

		StaticDir:        os.Getenv("APP_STATIC_DIR"),
		EnableSwagger:    parseBool(os.Getenv("APP_ENABLE_SWAGGER")),
		ScanSchedule:     strings.TrimSpace(os.Getenv("SCHEDULE_SCAN")),
		BriefingSchedule: strings.TrimSpace(os.Getenv("SCHEDULE_BRIEFING")),
		DocumentFeeds:    splitList(os.Getenv("DOCUMENT_FEEDS")),
		ProxyURL:         os.Getenv("APP_PROXY_URL"),
		ShutdownGrace:    10 * time.Second,
	}
}

// ClampBatchLimit parses raw and bounds it to 1..MaxBatchLimit, defaulting to
// DefaultBatchLimit when unset or unparseable.
func ClampBatchLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n == 0 {
		return DefaultBatchLimit
	}
	if n < 1 {
		return 1
	}
	if n > MaxBatchLimit {
		return MaxBatchLimit
	}
	return n
}

func parseBool(raw string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && v
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func parseFloat(raw string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
