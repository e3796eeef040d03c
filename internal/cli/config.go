package cli

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/aussiebroadwan/shiftboard/pkg/dashsdk"
)

type Config struct {
	APIURL        string        // Backend base URL (default: http://localhost:8080)
	EndpointsFile string        // Optional: YAML or TOML endpoint map
	SessionStore  string        // Session driver: file, sqlite, redis, memory (default: file)
	SessionFile   string        // Optional: file driver path (default: <config dir>/shiftboard/session.json)
	SessionDB     string        // Optional: sqlite driver path (default: <config dir>/shiftboard/session.db)
	RedisAddr     string        // Redis address for the redis driver (default: localhost:6379)
	SessionKey    string        // Optional: record key for the sqlite and redis drivers
	RefreshWindow time.Duration // Refresh this long before expiry (default: 5m)
	HTTPTimeout   time.Duration // Per-request timeout (default: 10s)
	TOTPSecret    string        // Optional: base32 secret used to generate login codes

	Env       string // Environment (dev, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: warn)
	LogFormat string // Log format (json, text) (default: text)
}

// LoadDotEnv loads variables from the given files, or ./.env when none are
// named. A missing default file is not an error. Variables already set in
// the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	}
	return godotenv.Load(paths...)
}

func LoadConfig() Config {
	return Config{
		APIURL:        getEnvOrDefault("SHIFTBOARD_API_URL", "http://localhost:8080"),
		EndpointsFile: os.Getenv("SHIFTBOARD_ENDPOINTS_FILE"),
		SessionStore:  getEnvOrDefault("SHIFTBOARD_SESSION_STORE", "file"),
		SessionFile:   os.Getenv("SHIFTBOARD_SESSION_FILE"),
		SessionDB:     os.Getenv("SHIFTBOARD_SESSION_DB"),
		RedisAddr:     getEnvOrDefault("SHIFTBOARD_REDIS_ADDR", "localhost:6379"),
		SessionKey:    os.Getenv("SHIFTBOARD_SESSION_KEY"),
		RefreshWindow: getEnvDurationOrDefault("SHIFTBOARD_REFRESH_WINDOW", dashsdk.DefaultRefreshWindow),
		HTTPTimeout:   getEnvDurationOrDefault("SHIFTBOARD_HTTP_TIMEOUT", dashsdk.DefaultTimeout),
		TOTPSecret:    os.Getenv("SHIFTBOARD_TOTP_SECRET"),

		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "warn"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "text"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
