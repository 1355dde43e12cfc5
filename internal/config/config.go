package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	App        AppConfig
	JWT        JWTConfig
	Attendance AttendanceConfig
	SMTP       SMTPConfig
	Cron       CronConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

type JWTConfig struct {
	Secret string
}

// AttendanceConfig holds the organization-wide attendance policy.
// LateThreshold and WorkdayEnd are "15:04:05" clock strings. The threshold is
// applied at clock-in time only; changing it never recomputes existing sessions.
type AttendanceConfig struct {
	LateThreshold string
	WorkdayEnd    string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Enabled  bool
}

type CronConfig struct {
	Enabled          bool
	CloseoutInterval time.Duration
	ReminderInterval time.Duration
}

func Load() (*Config, error) {
	// .env is optional; real environment variables win either way
	_ = godotenv.Load()

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hrops"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	config.Attendance = AttendanceConfig{
		LateThreshold: getEnv("ATTENDANCE_LATE_THRESHOLD", "09:00:00"),
		WorkdayEnd:    getEnv("ATTENDANCE_WORKDAY_END", "17:00:00"),
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "no-reply@peopledesk.io"),
		Enabled:  getEnv("SMTP_HOST", "") != "",
	}

	closeoutInterval, err := time.ParseDuration(getEnv("CRON_CLOSEOUT_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_CLOSEOUT_INTERVAL: %w", err)
	}

	reminderInterval, err := time.ParseDuration(getEnv("CRON_REMINDER_INTERVAL", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_REMINDER_INTERVAL: %w", err)
	}

	config.Cron = CronConfig{
		Enabled:          getEnv("CRON_ENABLED", "true") == "true",
		CloseoutInterval: closeoutInterval,
		ReminderInterval: reminderInterval,
	}

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

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
