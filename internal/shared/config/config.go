package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type DatabaseConfig struct {
	Host        string
	User        string
	Password    string
	Name        string
	Port        string
	SSLMode     string
	AutoMigrate bool
}

type Config struct {
	Port     string
	Env      string
	Database DatabaseConfig

	RedisAddr   string
	KafkaBroker string
	JWTSecret   string

	RBACModelPath string
	SeedFile      string
	ReportDir     string

	ServiceFeeRateBps int
	DisburseTimeout   time.Duration
	DisburseLockTTL   time.Duration
	TaxRateCacheTTL   time.Duration
	OutboxPollEvery   time.Duration
	ConnectRetries    int

	VerifyRatePerSecond float64
	VerifyRateBurst     int
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "3000"),
		Env:  getEnv("APP_ENV", "development"),
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", ""),
			Name:        getEnv("DB_NAME", "kazini_payroll"),
			Port:        getEnv("DB_PORT", "5432"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", false),
		},
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBroker:         getEnv("KAFKA_BROKER", ""),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		RBACModelPath:       getEnv("RBAC_MODEL_PATH", "internal/rbac/infra/model.conf"),
		SeedFile:            getEnv("SEED_FILE", ""),
		ReportDir:           getEnv("REPORT_DIR", "var/reports"),
		ServiceFeeRateBps:   getEnvInt("PAYROLL_SERVICE_FEE_BPS", 200),
		DisburseTimeout:     getEnvDuration("DISBURSE_TIMEOUT", 15*time.Second),
		DisburseLockTTL:     getEnvDuration("DISBURSE_LOCK_TTL", time.Minute),
		TaxRateCacheTTL:     getEnvDuration("TAX_RATE_CACHE_TTL", time.Hour),
		OutboxPollEvery:     getEnvDuration("OUTBOX_POLL_INTERVAL", 3*time.Second),
		ConnectRetries:      getEnvInt("CONNECT_RETRIES", 5),
		VerifyRatePerSecond: getEnvFloat("VERIFY_RATE_PER_SECOND", 2),
		VerifyRateBurst:     getEnvInt("VERIFY_RATE_BURST", 5),
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" && c.Env == "production" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.ServiceFeeRateBps < 0 || c.ServiceFeeRateBps > 10000 {
		return fmt.Errorf("PAYROLL_SERVICE_FEE_BPS must be between 0 and 10000")
	}
	if c.DisburseTimeout <= 0 {
		return fmt.Errorf("DISBURSE_TIMEOUT must be positive")
	}
	if c.DisburseLockTTL < c.DisburseTimeout {
		return fmt.Errorf("DISBURSE_LOCK_TTL must not be shorter than DISBURSE_TIMEOUT")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
