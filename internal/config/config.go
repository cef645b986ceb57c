// Package config loads the storefront settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tair/pickup-store/pkg/database"
)

// Config holds everything `storefront serve` needs
type Config struct {
	ServiceName string
	Version     string
	Environment string
	LogLevel    string
	HTTPPort    string

	Database database.Config

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
	RateLimit     int

	KafkaBrokers []string
	KafkaTopic   string
	KafkaAudit   bool

	JWTSecret   string
	JWTTTL      time.Duration
	Tracing     bool
	JaegerURL   string
	SeedOnStart bool
}

// IsDevelopment reports whether human readable logs are wanted.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads the configuration from environment variables
func Load() *Config {
	return &Config{
		ServiceName: getEnv("OTEL_SERVICE_NAME", "storefront"),
		Version:     getEnv("SERVICE_VERSION", "1.0.0"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		HTTPPort:    getEnv("HTTP_PORT", "8080"),

		Database: database.Config{
			Driver:   getEnv("DB_DRIVER", database.DriverSQLite),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "storefront"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Path:     getEnv("DB_PATH", "storefront.db"),
		},

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", 30*time.Second),
		RateLimit:     getEnvInt("RATE_LIMIT_PER_MINUTE", 300),

		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "storefront-orders"),
		KafkaAudit:   getEnvBool("KAFKA_AUDIT", false),

		JWTSecret:   getEnv("JWT_SECRET", "storefront-dev-secret"),
		JWTTTL:      getEnvDuration("JWT_TTL", 24*time.Hour),
		Tracing:     getEnvBool("TRACING_ENABLED", false),
		JaegerURL:   getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		SeedOnStart: getEnvBool("SEED_DATA", true),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
