package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database     DatabaseConfig
	JWT          JWTConfig
	App          AppConfig
	Leave        LeaveConfig
	Notification NotificationConfig
	Migrations   MigrationsConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// LeaveConfig holds the paid-leave accrual policy
type LeaveConfig struct {
	YearStartMonth time.Month
	DaysPerMonth   decimal.Decimal
	MaxDays        decimal.Decimal
	ReminderHour   int
}

// NotificationConfig sizes the notification queue and its workers
type NotificationConfig struct {
	WorkerCount   int
	BatchSize     int
	FlushInterval time.Duration
	QueueSize     int
}

type MigrationsConfig struct {
	Dir     string
	AutoRun bool
}

// Load reads configuration from the environment. A .env file is loaded
// first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	} else if err != nil {
		slog.Debug("No .env file found, using process environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "homecare"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Leave policy
	startMonth, err := strconv.Atoi(getEnv("LEAVE_YEAR_START_MONTH", "6"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_YEAR_START_MONTH: %w", err)
	}
	daysPerMonth, err := decimal.NewFromString(getEnv("LEAVE_DAYS_PER_MONTH", "2.5"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_DAYS_PER_MONTH: %w", err)
	}
	maxDays, err := decimal.NewFromString(getEnv("LEAVE_MAX_DAYS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_MAX_DAYS: %w", err)
	}
	reminderHour, err := strconv.Atoi(getEnv("JUSTIFICATION_REMINDER_HOUR", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid JUSTIFICATION_REMINDER_HOUR: %w", err)
	}

	config.Leave = LeaveConfig{
		YearStartMonth: time.Month(startMonth),
		DaysPerMonth:   daysPerMonth,
		MaxDays:        maxDays,
		ReminderHour:   reminderHour,
	}

	// Notification queue
	workers, err := strconv.Atoi(getEnv("NOTIFICATION_WORKERS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_WORKERS: %w", err)
	}
	batchSize, err := strconv.Atoi(getEnv("NOTIFICATION_BATCH_SIZE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_BATCH_SIZE: %w", err)
	}
	flushInterval, err := time.ParseDuration(getEnv("NOTIFICATION_FLUSH_INTERVAL", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_FLUSH_INTERVAL: %w", err)
	}
	queueSize, err := strconv.Atoi(getEnv("NOTIFICATION_QUEUE_SIZE", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_QUEUE_SIZE: %w", err)
	}

	config.Notification = NotificationConfig{
		WorkerCount:   workers,
		BatchSize:     batchSize,
		FlushInterval: flushInterval,
		QueueSize:     queueSize,
	}

	// Migrations
	autoRun, err := strconv.ParseBool(getEnv("MIGRATIONS_AUTO_RUN", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid MIGRATIONS_AUTO_RUN: %w", err)
	}

	config.Migrations = MigrationsConfig{
		Dir:     getEnv("MIGRATIONS_DIR", "migrations"),
		AutoRun: autoRun,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Leave.YearStartMonth < time.January || c.Leave.YearStartMonth > time.December {
		return fmt.Errorf("LEAVE_YEAR_START_MONTH must be between 1 and 12")
	}
	if !c.Leave.DaysPerMonth.IsPositive() {
		return fmt.Errorf("LEAVE_DAYS_PER_MONTH must be positive")
	}
	if !c.Leave.MaxDays.IsPositive() {
		return fmt.Errorf("LEAVE_MAX_DAYS must be positive")
	}
	if c.Leave.ReminderHour < 0 || c.Leave.ReminderHour > 23 {
		return fmt.Errorf("JUSTIFICATION_REMINDER_HOUR must be between 0 and 23")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// LogLevel maps LOG_LEVEL to a slog level.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
