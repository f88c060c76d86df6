package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Database (optional, enables question analytics)
	DatabaseURL string

	// Redis (optional, session storage for chat transcripts)
	RedisURL string

	// TLS/mTLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string
	TLSCAFile   string // CA for verifying client certs (mTLS)

	// OIDC (optional, protects the admin dashboard)
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string
	AdminEmails      []string // env: ADMIN_EMAILS, comma-separated

	// Session
	SessionSecret string // Used for signing cookies (min 32 chars)

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Knowledge base
	KnowledgeFile string // env: KNOWLEDGE_FILE, default: "" (embedded knowledge base)

	// Chat
	MaxQuestionLength  int // env: MAX_QUESTION_LENGTH, default: 500
	HistoryLimit       int // env: HISTORY_LIMIT, default: 50 messages kept per session
	RateLimitPerMinute int // env: RATE_LIMIT_PER_MINUTE, default: 60

	// Support links
	SupportURL string // env: SUPPORT_URL
	DocsURL    string // env: DOCS_URL

	// SMTP (optional, unanswered question digest)
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
	SMTPTLS      string // env: SMTP_TLS, "none", "tls" or "starttls" (default)
	DigestTo     []string // env: DIGEST_TO, comma-separated

	// Background jobs
	DigestInterval  time.Duration // env: DIGEST_INTERVAL, default: 24h
	DigestSize      int           // env: DIGEST_SIZE, default: 20
	RetentionPeriod time.Duration // env: RETENTION_PERIOD, default: 2160h (90 days)
	RetentionCheck  time.Duration // env: RETENTION_CHECK_INTERVAL, default: 6h
	LinkCheck       time.Duration // env: LINK_CHECK_INTERVAL, default: 24h, 0 disables
	MetricsEnabled  bool          // env: METRICS_ENABLED
	MetricsPath     string        // env: METRICS_PATH, default: "/metrics"

	// Site Branding
	SiteTitle   string // env: SITE_TITLE, default: "Email Backup Wizard Support"
	SiteTagline string // env: SITE_TAGLINE
	SiteFooter  string // env: SITE_FOOTER
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:              getEnv("ENV", "development"),
		ServerAddr:       getEnv("SERVER_ADDR", ":3000"),
		BaseURL:          getEnv("BASE_URL", "http://localhost:3000"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		RedisURL:         getEnv("REDIS_URL", ""),
		TLSEnabled:       getEnv("TLS_ENABLED", "") != "",
		TLSCertFile:      getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:       getEnv("TLS_KEY_FILE", ""),
		TLSCAFile:        getEnv("TLS_CA_FILE", ""),
		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:  getEnv("OIDC_REDIRECT_URL", "http://localhost:3000/auth/callback"),
		AdminEmails:      splitList(getEnv("ADMIN_EMAILS", "")),
		SessionSecret:    getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),
		CORSOrigins:      getEnv("CORS_ORIGINS", ""),

		KnowledgeFile: getEnv("KNOWLEDGE_FILE", ""),

		MaxQuestionLength:  getEnvInt("MAX_QUESTION_LENGTH", 500),
		HistoryLimit:       getEnvInt("HISTORY_LIMIT", 50),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		SupportURL: getEnv("SUPPORT_URL", "https://emailbackupwizard.com/support.html"),
		DocsURL:    getEnv("DOCS_URL", "https://emailbackupwizard.com"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "Support Bot"),
		SMTPTLS:      getEnv("SMTP_TLS", "starttls"),
		DigestTo:     splitList(getEnv("DIGEST_TO", "")),

		DigestInterval:  getEnvDuration("DIGEST_INTERVAL", 24*time.Hour),
		DigestSize:      getEnvInt("DIGEST_SIZE", 20),
		RetentionPeriod: getEnvDuration("RETENTION_PERIOD", 90*24*time.Hour),
		RetentionCheck:  getEnvDuration("RETENTION_CHECK_INTERVAL", 6*time.Hour),
		LinkCheck:       getEnvDuration("LINK_CHECK_INTERVAL", 24*time.Hour),
		MetricsEnabled:  getEnv("METRICS_ENABLED", "") != "",
		MetricsPath:     getEnv("METRICS_PATH", "/metrics"),

		SiteTitle:   getEnv("SITE_TITLE", "Email Backup Wizard Support"),
		SiteTagline: getEnv("SITE_TAGLINE", "Ask me anything about email backup and migration!"),
		SiteFooter:  getEnv("SITE_FOOTER", "Email Backup Wizard Support Bot"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsMTLSEnabled returns true if mTLS is configured with a CA file.
func (c *Config) IsMTLSEnabled() bool {
	return c.TLSEnabled && c.TLSCAFile != ""
}

// IsAuthEnabled returns true if OIDC is configured for the admin dashboard.
func (c *Config) IsAuthEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCClientID != ""
}

// IsEmailEnabled returns true if SMTP is configured.
func (c *Config) IsEmailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}

// IsAnalyticsEnabled returns true if a database is configured for question analytics.
func (c *Config) IsAnalyticsEnabled() bool {
	return c.DatabaseURL != ""
}

// IsAdminEmail reports whether email may use the admin dashboard.
func (c *Config) IsAdminEmail(email string) bool {
	if email == "" {
		return false
	}
	for _, admin := range c.AdminEmails {
		if strings.EqualFold(admin, email) {
			return true
		}
	}
	return false
}
