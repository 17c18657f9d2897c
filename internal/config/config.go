package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Env    string
	Port   string
	AppURL string

	FirebaseCredentialsPath string
	FirebaseAPIKey          string
	FirebaseProjectID       string

	DatabaseURL string
	RedisURL    string

	SessionTTL    time.Duration
	NavigatorIdle time.Duration
	CompanionsTTL time.Duration
	ReminderLead  time.Duration

	LogFormat string
	LogLevel  string
}

// Load reads the .env file if present and collects configuration from the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using system environment")
	}

	return &Config{
		Env:    getEnv("ENV", "development"),
		Port:   getEnv("PORT", "8080"),
		AppURL: getEnv("APP_URL", "http://localhost:8080"),

		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase-service-account.json"),
		FirebaseAPIKey:          os.Getenv("FIREBASE_API_KEY"),
		FirebaseProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		SessionTTL:    getDuration("SESSION_TTL", 5*24*time.Hour),
		NavigatorIdle: getDuration("NAVIGATOR_IDLE", 24*time.Hour),
		CompanionsTTL: getDuration("COMPANIONS_CACHE_TTL", time.Minute),
		ReminderLead:  getDuration("TRIP_REMINDER_LEAD", 24*time.Hour),

		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}
}

// IsProduction reports whether cookies should be marked secure
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// getDuration accepts Go durations ("90m") or plain seconds ("3600")
func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	slog.Warn("invalid duration, using default", "key", key, "value", raw)
	return fallback
}
