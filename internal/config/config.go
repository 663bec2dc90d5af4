// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// The submission endpoint is a public form target, so the default is "*".
	// Set CORS_ORIGINS to a comma-separated list to restrict it.
	CORSOrigins []string

	// ResendAPIKey authenticates against the Resend email API. Required.
	ResendAPIKey string

	// NotifyFrom and NotifyTo are the sender and recipient of the
	// notification email. Both required.
	NotifyFrom string
	NotifyTo   string

	// SubmitRateMax requests per SubmitRateWindow are allowed per caller
	// identifier. Defaults: 10 per 15m.
	SubmitRateMax    int
	SubmitRateWindow time.Duration

	// GlobalRateMax requests per GlobalRateWindow are allowed across all
	// callers combined. Defaults: 100 per 1m.
	GlobalRateMax    int
	GlobalRateWindow time.Duration

	// MaxBodyBytes caps request body size at the transport level.
	// Defaults to 10240, slightly above the validator's own payload gate
	// so in-band oversize payloads get a field error rather than a read
	// failure.
	MaxBodyBytes int64
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		CORSOrigins:      splitCSV(getEnv("CORS_ORIGINS", "*")),
		SubmitRateMax:    getEnvInt("SUBMIT_RATE_MAX", 10),
		SubmitRateWindow: getEnvDuration("SUBMIT_RATE_WINDOW", 15*time.Minute),
		GlobalRateMax:    getEnvInt("GLOBAL_RATE_MAX", 100),
		GlobalRateWindow: getEnvDuration("GLOBAL_RATE_WINDOW", time.Minute),
		MaxBodyBytes:     int64(getEnvInt("MAX_BODY_BYTES", 10240)),
	}

	var missing []string

	cfg.ResendAPIKey = os.Getenv("RESEND_API_KEY")
	if cfg.ResendAPIKey == "" {
		missing = append(missing, "RESEND_API_KEY")
	}
	cfg.NotifyFrom = os.Getenv("NOTIFY_FROM")
	if cfg.NotifyFrom == "" {
		missing = append(missing, "NOTIFY_FROM")
	}
	cfg.NotifyTo = os.Getenv("NOTIFY_TO")
	if cfg.NotifyTo == "" {
		missing = append(missing, "NOTIFY_TO")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// EmailConfigured reports whether every email-dependency setting is present.
// Load already fails without them, but the health probe keeps its own check
// so a future relaxation of Load can't silently break it.
func (c Config) EmailConfigured() bool {
	return c.ResendAPIKey != "" && c.NotifyFrom != "" && c.NotifyTo != ""
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt parses a positive integer variable, falling back on absence or
// bad input.
func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// getEnvDuration parses a Go duration string (e.g. "15m", "90s"), falling
// back on absence or bad input.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
