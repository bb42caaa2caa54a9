package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is only acceptable outside release mode.
const DefaultJWTSecret = "secret"

type Config struct {
	Port        string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	AutoMigrate bool
	GinMode     string

	CacheBackend     string
	RedisURL         string
	ReportCacheTTL   time.Duration
	AnalyticsTimeout time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	AnalyticsAPIURL    string

	JWTSecret string
}

func Load() *Config {
	_ = godotenv.Load() // no .env outside local development

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "agency"),
		DBPassword:  getEnv("DB_PASSWORD", "agency_secret"),
		DBName:      getEnv("DB_NAME", "agency"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		AutoMigrate: getEnv("AUTO_MIGRATE", "false") == "true",
		GinMode:     getEnv("GIN_MODE", "debug"),

		CacheBackend:     getEnv("CACHE_BACKEND", "postgres"),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379"),
		ReportCacheTTL:   getEnvDuration("REPORT_CACHE_TTL", 7*24*time.Hour),
		AnalyticsTimeout: getEnvDuration("ANALYTICS_TIMEOUT", 10*time.Second),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/v1/integrations/google/callback"),
		AnalyticsAPIURL:    getEnv("ANALYTICS_API_URL", "https://www.googleapis.com"),

		JWTSecret: getEnv("JWT_SECRET", DefaultJWTSecret),
	}
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// Validate rejects settings that are unsafe to serve traffic with.
func (c *Config) Validate() error {
	if c.GinMode == "release" && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		return errors.New("JWT_SECRET must be set in release mode")
	}
	return nil
}

func (c *Config) AnalyticsConfigured() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
