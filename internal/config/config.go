// Package config provides application configuration loaded from
// environment variables with defaults and validation. It centralizes
// the reservation policy knobs (loan period, renewal window, reminder
// lead time) together with runtime settings such as the database path
// and logging.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Policy holds the reservation policy constants. It is injected into
// the order service and the sweeps at construction; nothing reads these
// values from ambient globals.
type Policy struct {
	// LoanPeriodDays is the length of a reading-room loan, measured
	// from the moment an order is ORDERED with the record in the
	// reading room.
	LoanPeriodDays int
	// RenewalWindowDays is the trailing window before the deadline in
	// which a renewal is allowed.
	RenewalWindowDays int
	// ReminderLeadDays is how many days before the deadline the renewal
	// reminder is sent.
	ReminderLeadDays int
}

// Config holds all configuration values for the application.
type Config struct {
	// App
	DBPath    string // SQLite path
	ClientURL string // public site URL used in notification bodies

	// Observability
	MetricsPushURL string // Pushgateway base URL; empty disables pushing

	// Logging
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool   // pretty console logs in dev

	// Reservation policy
	Policy Policy
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		DBPath:    getenv("DB_PATH", "orders.db"),
		ClientURL: strings.TrimRight(getenv("CLIENT_URL", ""), "/"),

		MetricsPushURL: strings.TrimRight(getenv("METRICS_PUSH_URL", ""), "/"),

		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),

		Policy: Policy{
			LoanPeriodDays:    getint("LOAN_PERIOD_DAYS", 30),
			RenewalWindowDays: getint("RENEWAL_WINDOW_DAYS", 5),
			ReminderLeadDays:  getint("REMINDER_LEAD_DAYS", 5),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.Policy.LoanPeriodDays < 1 {
		return cfg, errors.New("LOAN_PERIOD_DAYS must be >= 1")
	}
	if cfg.Policy.RenewalWindowDays < 0 {
		return cfg, errors.New("RENEWAL_WINDOW_DAYS must be >= 0")
	}
	if cfg.Policy.ReminderLeadDays < 0 {
		return cfg, errors.New("REMINDER_LEAD_DAYS must be >= 0")
	}
	if cfg.Policy.ReminderLeadDays > cfg.Policy.LoanPeriodDays {
		return cfg, errors.New("REMINDER_LEAD_DAYS must not exceed LOAN_PERIOD_DAYS")
	}

	return cfg, nil
}

// LoanPeriod returns the loan period as a duration.
func (p Policy) LoanPeriod() time.Duration {
	return time.Duration(p.LoanPeriodDays) * 24 * time.Hour
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
