package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Scheduler SchedulerConfig
	Trigger   TriggerConfig
	SMTP      SMTPConfig
	CORS      CORSConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// SchedulerConfig controls the background sweep cadence and sweep execution
// limits. The cron spec runs hourly by default; the accrual sweep's
// once-per-calendar-day guard holds regardless of how often it fires.
type SchedulerConfig struct {
	CronSpec       string
	CatchUpOnStart bool
	WorkerLimit    int           // bounded parallelism per sweep
	ItemTimeout    time.Duration // per-investment budget for credit + persist
	RunBudget      time.Duration // whole-sweep budget for manual triggers
}

// TriggerConfig gates the operational sweep-trigger endpoints. Tokens are
// fernet tokens minted with cmd/sweeptoken from the same key.
type TriggerConfig struct {
	FernetKey string
	TokenTTL  time.Duration
}

// SMTPConfig holds outbound mail settings for the notifier. Leaving Host
// empty disables mail delivery (notifications are logged instead).
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/investment_engine.db"),
		},
		Scheduler: SchedulerConfig{
			CronSpec:       getEnv("SWEEP_CRON", "0 * * * *"),
			CatchUpOnStart: getEnvBool("SWEEP_CATCHUP_ON_START", true),
			WorkerLimit:    getEnvInt("SWEEP_WORKER_LIMIT", 4),
			ItemTimeout:    getEnvDuration("SWEEP_ITEM_TIMEOUT", 10*time.Second),
			RunBudget:      getEnvDuration("SWEEP_RUN_BUDGET", 5*time.Minute),
		},
		Trigger: TriggerConfig{
			FernetKey: os.Getenv("SWEEP_TRIGGER_KEY"),
			TokenTTL:  getEnvDuration("SWEEP_TRIGGER_TTL", 5*time.Minute),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("SMTP_FROM", "no-reply@topmart.example"),
		},
		CORS: CORSConfig{
			AllowedOrigins: strings.Split(
				getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost"),
				",",
			),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	if config.Scheduler.WorkerLimit < 1 {
		return nil, fmt.Errorf("SWEEP_WORKER_LIMIT must be at least 1")
	}

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
