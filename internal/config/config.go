package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Postgres PostgresConfig
	Server   ServerConfig
	OpenAI   OpenAIConfig
	Chat     ChatConfig
	Logging  LoggingConfig
}

// PostgresConfig holds PostgreSQL database configuration
type PostgresConfig struct {
	DSN                string // full connection string, takes precedence when set
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string
	Port           int
	GinMode        string
	AllowedOrigins string
}

// OpenAIConfig holds the completion service configuration
type OpenAIConfig struct {
	APIKey             string
	APIBase            string
	ChatModel          string
	ExtractTemperature float64
	ReplyTemperature   float64
	ReplyMaxTokens     int
	Timeout            int // seconds
	Enabled            bool
}

// ChatConfig holds chat pipeline tuning
type ChatConfig struct {
	HistoryWindow int // how many trailing history turns the extractor sees
	MaxCars       int // cap on cars returned and rendered per turn
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Postgres: PostgresConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "car_advisor"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
		},
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		OpenAI: OpenAIConfig{
			APIKey:             getEnv("OPENAI_API_KEY", ""),
			APIBase:            getEnv("OPENAI_API_BASE", "https://api.openai.com/v1"),
			ChatModel:          getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			ExtractTemperature: getEnvAsFloat("OPENAI_EXTRACT_TEMPERATURE", 0.1),
			ReplyTemperature:   getEnvAsFloat("OPENAI_REPLY_TEMPERATURE", 0.7),
			ReplyMaxTokens:     getEnvAsInt("OPENAI_REPLY_MAX_TOKENS", 500),
			Timeout:            getEnvAsInt("OPENAI_TIMEOUT", 30),
		},
		Chat: ChatConfig{
			HistoryWindow: getEnvAsInt("CHAT_HISTORY_WINDOW", 4),
			MaxCars:       getEnvAsInt("CHAT_MAX_CARS", 5),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	cfg.OpenAI.Enabled = cfg.OpenAI.APIKey != ""

	return cfg, nil
}

// GetPostgresDSN returns the connection string, building it from the
// individual fields when no full DSN is configured
func (c *Config) GetPostgresDSN() string {
	if c.Postgres.DSN != "" {
		return c.Postgres.DSN
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Postgres.Host, c.Postgres.Port, c.Postgres.User,
		c.Postgres.Password, c.Postgres.Database, c.Postgres.SSLMode)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
