package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Env      string
	LogLevel string

	// Telegram
	BotToken      string
	OwnerChatID   int64
	UpdateTimeout int

	// Support contacts surfaced in FAQ answers and /help.
	SupportEmail  string
	ContactNumber string

	// Storage. Empty DatabaseURL means in-memory stores (development).
	DatabaseURL string

	// Optional Redis session backend for multi-replica deployments.
	RedisAddr     string
	RedisPassword string
	SessionTTL    time.Duration

	// Dispatcher
	WorkerCount int
	QueueBuffer int

	// Ops HTTP surface (health + metrics).
	OpsPort string

	// SendGrid email notifications.
	SendGridAPIKey         string
	SendGridFromEmail      string
	SendGridFromName       string
	OrderNotificationEmail string
}

// Startup validation failures. Fatal in main.
var (
	ErrMissingBotToken    = errors.New("config: BOT_TOKEN is required")
	ErrMissingOwnerChatID = errors.New("config: OWNER_CHAT_ID is required")
	ErrInvalidOwnerChatID = errors.New("config: OWNER_CHAT_ID must be a numeric chat id")
)

// Load reads configuration from environment variables. It fails fast when the
// bot credential or the operator chat id is absent.
func Load() (*Config, error) {
	cfg := &Config{
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		BotToken:      strings.TrimSpace(getEnv("BOT_TOKEN", "")),
		UpdateTimeout: getEnvAsInt("UPDATE_TIMEOUT_SECONDS", 30),

		SupportEmail:  getEnv("SUPPORT_EMAIL", "support@yourshop.com"),
		ContactNumber: getEnv("CONTACT_NUMBER", "+1-234-567-8900"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),

		WorkerCount: getEnvAsInt("WORKER_COUNT", 4),
		QueueBuffer: getEnvAsInt("QUEUE_BUFFER", 256),

		OpsPort: getEnv("OPS_PORT", "8080"),

		SendGridAPIKey:         getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail:      getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:       getEnv("SENDGRID_FROM_NAME", "Kirana Bot"),
		OrderNotificationEmail: getEnv("ORDER_NOTIFICATION_EMAIL", ""),
	}

	if cfg.BotToken == "" {
		return nil, ErrMissingBotToken
	}

	rawOwner := strings.TrimSpace(getEnv("OWNER_CHAT_ID", ""))
	if rawOwner == "" {
		return nil, ErrMissingOwnerChatID
	}
	owner, err := strconv.ParseInt(rawOwner, 10, 64)
	if err != nil {
		return nil, ErrInvalidOwnerChatID
	}
	cfg.OwnerChatID = owner

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
