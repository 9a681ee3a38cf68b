package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	Telegram TelegramConfig
	Server   ServerConfig
	App      AppConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// RedisConfig holds the optional advisory hint cache settings. An empty Host
// disables the cache entirely.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// TelegramConfig holds bot credentials and operator channel settings
type TelegramConfig struct {
	BotToken          string
	WithdrawChannelID int64
	VerifyMembership  bool
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port string
}

// AppConfig holds application-specific settings
type AppConfig struct {
	JWTSecret string
	LogLevel  string
	// Channel references users can complete TG_JOIN tasks for.
	ChannelRefs []string
	// When true the referrer bonus requires both milestone conditions
	// (channel joins AND ad views) instead of either one.
	MilestoneRequireBoth bool
	AuditInterval        string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	channelID, err := strconv.ParseInt(getEnv("WITHDRAW_CHANNEL_ID", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("WITHDRAW_CHANNEL_ID must be an integer: %w", err)
	}

	config := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "asearnhub"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Telegram: TelegramConfig{
			BotToken:          getEnv("TELEGRAM_BOT_TOKEN", ""),
			WithdrawChannelID: channelID,
			VerifyMembership:  getEnv("VERIFY_MEMBERSHIP", "true") == "true",
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		App: AppConfig{
			JWTSecret:            getEnv("JWT_SECRET", ""),
			LogLevel:             getEnv("LOG_LEVEL", "info"),
			ChannelRefs:          splitChannels(getEnv("TASK_CHANNELS", "")),
			MilestoneRequireBoth: getEnv("REFERRAL_MILESTONE_REQUIRE_BOTH", "false") == "true",
			AuditInterval:        getEnv("AUDIT_INTERVAL", "1h"),
		},
	}

	// Validate required fields
	if config.App.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if config.Telegram.BotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	return config, nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// RedisAddr returns the host:port of the hint cache, or "" when disabled.
func (c *Config) RedisAddr() string {
	if c.Redis.Host == "" {
		return ""
	}
	return c.Redis.Host + ":" + c.Redis.Port
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitChannels(raw string) []string {
	var refs []string
	for _, part := range strings.Split(raw, ",") {
		if ref := strings.TrimSpace(part); ref != "" {
			refs = append(refs, ref)
		}
	}
	return refs
}
