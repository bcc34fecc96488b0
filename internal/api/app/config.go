package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kikundi/chama/pkg/httpx"
	"github.com/kikundi/chama/pkg/jwtx"
)

type Config struct {
	Issuer        string        // Optional: issuer claim for access tokens (default: chama-api)
	NumKeys       int           // Optional: number of signing keys to generate (default: 1, max: 10)
	DatabaseFile  string        // Optional: path to SQLite database file (default: ./chama.db)
	PepperFile    string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	AccessTTL     time.Duration // Optional: access token lifetime (default: 5m)
	RefreshTTL    time.Duration // Optional: refresh token lifetime (default: 24h)
	RotateRefresh bool          // Optional: issue a new refresh token on every refresh (default: true)

	AdminUsername string // Optional: staff account created or promoted on startup
	AdminPassword string // Optional: password for a newly created staff account

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
	TokenRetention       time.Duration // How long revoked refresh tokens are kept (default: 24h)

	RateLimits httpx.RateLimits
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:        getEnvOrDefault("CHAMA_ISSUER", "chama-api"),
		NumKeys:       getEnvIntOrDefault("CHAMA_NUM_KEYS", 1),
		DatabaseFile:  getEnvOrDefault("CHAMA_DATABASE_FILE", "chama.db"),
		PepperFile:    getEnvOrDefault("CHAMA_PEPPER_FILE", "pepper"),
		AccessTTL:     getEnvDurationOrDefault("CHAMA_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL:    getEnvDurationOrDefault("CHAMA_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),
		RotateRefresh: getEnvBoolOrDefault("CHAMA_ROTATE_REFRESH", true),

		AdminUsername: strings.TrimSpace(os.Getenv("CHAMA_ADMIN_USERNAME")),
		AdminPassword: os.Getenv("CHAMA_ADMIN_PASSWORD"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		TokenRetention:       getEnvDurationOrDefault("TOKEN_RETENTION", 24*time.Hour),

		RateLimits: httpx.RateLimitsFromEnv(),
	}

	// A non-positive lifetime would issue tokens that are dead on arrival
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = jwtx.DefaultAccessTokenTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = jwtx.DefaultRefreshTokenTTL
	}

	return cfg
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

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
