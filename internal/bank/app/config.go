package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
	Port      int    // HTTP server port (default: 8080)

	DatabaseFile string // Optional: path to SQLite database file (default: ./bank.db)
	PepperFile   string // Path to the instance secret key file used to pepper password hashes (default: ./pepper)

	SessionTTL          time.Duration // Logical session lifetime (default: 15m)
	CleanupInterval     time.Duration // Expired-session sweep interval (default: 1m)
	StoreTimeout        time.Duration // Per-operation store timeout (default: 5s)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	// AutoProvision seeds the staff, scoring and team accounts on first boot
	// when the store is empty. Intended for dev and event bring-up.
	AutoProvision   bool
	StaffPassword   string // Optional: fixed staff password (random when empty)
	StaffPIN        string // Optional: fixed staff account PIN (random when empty)
	ScoringPassword string // Optional: fixed scoring password (random when empty)
	Teams           int    // Number of team accounts to seed (default: 0)
	TeamPassword    string // Optional: shared team password (random per team when empty)
	TeamPIN         string // Optional: shared team account PIN (random per team when empty)
	TeamBalance     string // Starting team balance as a decimal string (default: 85000.00)
}

func LoadConfig() Config {
	return Config{
		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
		Port:      getEnvIntOrDefault("PORT", 8080),

		DatabaseFile: getEnvOrDefault("BANK_DATABASE_FILE", "bank.db"),
		PepperFile:   getEnvOrDefault("BANK_PEPPER_FILE", "pepper"),

		SessionTTL:          getEnvDurationOrDefault("BANK_SESSION_TTL", 15*time.Minute),
		CleanupInterval:     getEnvDurationOrDefault("BANK_CLEANUP_INTERVAL", time.Minute),
		StoreTimeout:        getEnvDurationOrDefault("BANK_STORE_TIMEOUT", 5*time.Second),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),

		AutoProvision:   getEnvBoolOrDefault("BANK_AUTOPROVISION", false),
		StaffPassword:   os.Getenv("BANK_STAFF_PASSWORD"),
		StaffPIN:        os.Getenv("BANK_STAFF_PIN"),
		ScoringPassword: os.Getenv("BANK_SCORING_PASSWORD"),
		Teams:           getEnvIntOrDefault("BANK_TEAMS", 0),
		TeamPassword:    os.Getenv("BANK_TEAM_PASSWORD"),
		TeamPIN:         os.Getenv("BANK_TEAM_PIN"),
		TeamBalance:     getEnvOrDefault("BANK_TEAM_BALANCE", "85000.00"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
