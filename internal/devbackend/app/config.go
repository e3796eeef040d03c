package app

import (
	"io"
	"os"
	"strconv"
	"time"

	httpapi "github.com/aussiebroadwan/shiftboard/internal/devbackend/http"
)

type Config struct {
	Issuer          string        // Optional: issuer claim for tokens (default: shiftboard-dev)
	AccessTTL       time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTTL      time.Duration // Optional: refresh token lifetime (default: 7 days)
	SeedPassword    string        // Optional: password for every seeded account (default: shiftboard)
	AdminTOTPSecret string        // Optional: base32 TOTP secret enrolled on the seeded admin
	PepperFile      string        // Optional: path to the password pepper file; empty disables the pepper
	DatabaseFile    string        // Optional: path to SQLite database file (default: ./devbackend.db)
	SigningKeyFile  string        // Optional: Ed25519 PEM key path; empty generates an ephemeral key

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)

	// Not read from the environment. Tests use these to quiet logging and
	// loosen rate limits.
	LogOutput io.Writer
	Limits    *httpapi.Limits
}

func LoadConfig() Config {
	return Config{
		Issuer:          getEnvOrDefault("DEVBACKEND_ISSUER", "shiftboard-dev"),
		AccessTTL:       getEnvDurationOrDefault("DEVBACKEND_ACCESS_TTL", 15*time.Minute),
		RefreshTTL:      getEnvDurationOrDefault("DEVBACKEND_REFRESH_TTL", 7*24*time.Hour),
		SeedPassword:    getEnvOrDefault("DEVBACKEND_SEED_PASSWORD", "shiftboard"),
		AdminTOTPSecret: os.Getenv("DEVBACKEND_ADMIN_TOTP_SECRET"),
		PepperFile:      os.Getenv("DEVBACKEND_PEPPER"),
		DatabaseFile:    getEnvOrDefault("DEVBACKEND_DATABASE_FILE", "devbackend.db"),
		SigningKeyFile:  os.Getenv("DEVBACKEND_SIGNING_KEY"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
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

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
