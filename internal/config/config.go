package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvLocal       = "local"
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Uploads   UploadsConfig
	LLM       LLMConfig
	Survey    SurveyConfig
	Jobs      JobsConfig
	Metrics   MetricsConfig
	Logging   LoggingConfig
}

// AppConfig holds application-level configuration
type AppConfig struct {
	Name  string
	Env   string // local, development, or production
	Port  int
	Debug bool // derived from Env
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxConnections int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	Enabled  bool
}

// JWTConfig holds session token configuration
type JWTConfig struct {
	Secret         string
	ExpiryDuration time.Duration
	CookieName     string
	CookieSecure   bool
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	Enabled           bool
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// UploadsConfig holds file upload configuration
type UploadsConfig struct {
	Dir         string
	MaxFileSize int64
}

// LLMConfig holds the external completion-API configuration
type LLMConfig struct {
	APIKey           string
	BaseURL          string
	Model            string
	AppName          string
	TimeoutSeconds   int
	RetryAttempts    int
	RetryWaitSeconds int
	Enabled          bool
}

// SurveyConfig holds survey behavior configuration
type SurveyConfig struct {
	// AllowMultipleResponses controls whether a user may submit more than one
	// response to the same template.
	AllowMultipleResponses bool
}

// JobsConfig holds background job configuration
type JobsConfig struct {
	Workers             int
	PollIntervalSeconds int
	Enabled             bool
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string
	JSONFormat bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// .env is useful for local dev and ignored in production when vars are set
	_ = godotenv.Load()

	appEnv := getEnv("APP_ENV", EnvLocal)
	debug := appEnv != EnvProduction
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	cfg := &Config{
		App: AppConfig{
			Name:  getEnv("APP_NAME", "benefits-portal"),
			Env:   appEnv,
			Port:  getEnvAsInt("APP_PORT", 8080),
			Debug: debug,
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnvAsInt("DB_PORT", 5432),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASS", "postgres"),
			Name:           getEnv("DB_NAME", "benefits"),
			SSLMode:        getEnv("DB_SSL_MODE", "disable"),
			MaxConnections: getEnvAsInt("DB_MAX_CONNECTIONS", 50),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASS", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},
		JWT: JWTConfig{
			Secret:         getEnv("JWT_SECRET", "insecure-jwt-secret"),
			ExpiryDuration: getEnvAsDuration("JWT_EXPIRY", 24*time.Hour),
			CookieName:     getEnv("SESSION_COOKIE_NAME", "session"),
			CookieSecure:   getEnvAsBool("SESSION_COOKIE_SECURE", appEnv == EnvProduction),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsFloat64("RATE_LIMIT_RPS", 20),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 40),
			Enabled:           getEnvAsBool("RATE_LIMIT_ENABLED", true),
		},
		CORS: CORSConfig{
			AllowedOrigins:   splitNonEmpty(getEnv("CORS_ALLOWED_ORIGINS", "*")),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", true),
			MaxAge:           getEnvAsDuration("CORS_MAX_AGE", 12*time.Hour),
		},
		Uploads: UploadsConfig{
			Dir:         getEnv("UPLOADS_DIR", "uploads"),
			MaxFileSize: int64(getEnvAsInt("UPLOADS_MAX_FILE_SIZE", 20<<20)),
		},
		LLM: LLMConfig{
			APIKey:           getEnv("LLM_API_KEY", ""),
			BaseURL:          getEnv("LLM_BASE_URL", "https://openrouter.ai/api/v1"),
			Model:            getEnv("LLM_MODEL", "openai/gpt-4o-mini"),
			AppName:          getEnv("LLM_APP_NAME", "benefits-portal"),
			TimeoutSeconds:   getEnvAsInt("LLM_TIMEOUT_SECONDS", 60),
			RetryAttempts:    getEnvAsInt("LLM_RETRY_ATTEMPTS", 3),
			RetryWaitSeconds: getEnvAsInt("LLM_RETRY_WAIT_SECONDS", 1),
			Enabled:          getEnvAsBool("LLM_ENABLED", true),
		},
		Survey: SurveyConfig{
			AllowMultipleResponses: getEnvAsBool("SURVEY_ALLOW_MULTIPLE_RESPONSES", true),
		},
		Jobs: JobsConfig{
			Workers:             getEnvAsInt("JOBS_WORKERS", 2),
			PollIntervalSeconds: getEnvAsInt("JOBS_POLL_INTERVAL_SECONDS", 5),
			Enabled:             getEnvAsBool("JOBS_ENABLED", true),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBool("METRICS_ENABLED", true),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", logLevel),
			JSONFormat: getEnvAsBool("LOG_JSON", appEnv == EnvProduction),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid APP_PORT: %d", c.App.Port)
	}
	if c.App.Env == EnvProduction && c.JWT.Secret == "insecure-jwt-secret" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.LLM.Enabled && c.LLM.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY must be set when LLM_ENABLED is true")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsFloat64(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
