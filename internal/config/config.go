package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/social-media-monitor/internal/models"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration; nil when no store is configured
	Database *DatabaseConfig

	// Graph API configuration
	Graph GraphConfig

	// Monitored accounts per channel
	Accounts AccountsConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// GraphConfig holds upstream Graph API settings
type GraphConfig struct {
	BaseURL string
	Timeout time.Duration
}

// AccountsConfig holds the configured accounts per channel
type AccountsConfig struct {
	Facebook []models.Account
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 300*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Graph: GraphConfig{
			BaseURL: getEnv("GRAPH_API_BASE_URL", "https://graph.facebook.com/"),
			Timeout: getDurationEnv("GRAPH_API_TIMEOUT", 30*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	accounts, err := loadAccounts("FACEBOOK_PAGES")
	if err != nil {
		return nil, err
	}
	cfg.Accounts.Facebook = accounts

	db, err := loadDatabase()
	if err != nil {
		return nil, err
	}
	cfg.Database = db

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadAccounts parses a JSON account list from the given environment variable
func loadAccounts(key string) ([]models.Account, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return nil, nil
	}

	var accounts []models.Account
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		return nil, fmt.Errorf("%s is not a valid account list: %w", key, err)
	}
	return accounts, nil
}

// loadDatabase reads the optional store configuration. The connection options
// are required together: a partially specified set is a configuration error,
// a fully absent set means the store is unused.
func loadDatabase() (*DatabaseConfig, error) {
	host := os.Getenv("DB_HOST")
	name := os.Getenv("DB_NAME")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")

	if host == "" && name == "" && user == "" && password == "" {
		return nil, nil
	}
	if host == "" || name == "" || user == "" {
		return nil, fmt.Errorf("invalid database options: DB_HOST, DB_NAME and DB_USER are required together")
	}

	return &DatabaseConfig{
		Host:         host,
		Port:         getEnv("DB_PORT", "5432"),
		User:         user,
		Password:     password,
		Name:         name,
		SSLMode:      getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 5),
		MaxLifetime:  getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
	}, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Graph.BaseURL == "" {
		return fmt.Errorf("GRAPH_API_BASE_URL is required")
	}
	for _, account := range c.Accounts.Facebook {
		if account.ID == "" || account.Token == "" {
			return fmt.Errorf("FACEBOOK_PAGES entries require both id and token")
		}
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
