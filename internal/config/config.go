package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Share    ShareConfig
	Audit    AuditConfig
	Otel     OtelConfig
}

type AppConfig struct {
	Port               string
	ClientURL          string
	Environment        string
	LogFilePath        string
	AuditLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string // empty keeps OAuth state in memory
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JwtSecret          string
	JwtTTL             time.Duration
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	StateTTL           time.Duration
}

type ShareConfig struct {
	TokenTTL        time.Duration // zero means tokens never expire
	PublicRateLimit int           // requests per minute per IP on public share views
}

// AuditConfig bounds how long the fork audit consumer retries a failing store.
type AuditConfig struct {
	MaxAttempts int
	RetryDelay  time.Duration // grows linearly with the attempt number
}

type OtelConfig struct {
	Enabled  bool
	Endpoint string
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Environment, "production")
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			ClientURL:          strings.TrimRight(getEnv("CLIENT_URL", "http://localhost:5173"), "/"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			AuditLogFilePath:   getEnv("AUDIT_LOG_FILE_PATH", "fork_audit.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JwtSecret:          getEnv("JWT_SECRET", "change-me"),
			JwtTTL:             getEnvAsDuration("JWT_TTL", 24*time.Hour),
			GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:3000/api/auth/callback"),
			StateTTL:           getEnvAsDuration("OAUTH_STATE_TTL", 10*time.Minute),
		},
		Share: ShareConfig{
			TokenTTL:        getEnvAsDuration("SHARE_TOKEN_TTL", 0),
			PublicRateLimit: getEnvAsInt("SHARE_PUBLIC_RATE_LIMIT", 60),
		},
		Audit: AuditConfig{
			MaxAttempts: getEnvAsInt("AUDIT_MAX_ATTEMPTS", 5),
			RetryDelay:  getEnvAsDuration("AUDIT_RETRY_DELAY", time.Second),
		},
		Otel: OtelConfig{
			Enabled:  getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("72h") or a bare number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
