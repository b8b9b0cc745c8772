// Package config loads process configuration from the environment
// following Clean Architecture principles: adapters receive their
// settings here, never read the environment themselves.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Catalog backends selectable via CATALOG_BACKEND.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds all configuration for the FluentMind services.
type Config struct {
	Catalog   CatalogConfig
	OpenAI    OpenAIConfig
	Execution ExecutionConfig
	App       AppConfig
}

type CatalogConfig struct {
	Backend        string // memory, sqlite or postgres
	MaxMemoryMB    int64  // memory backend cap
	SQLitePath     string
	DatabaseURL    string // overrides the DB_* parts when set
	Host           string
	Port           int
	Name           string
	User           string
	Password       string
	SSLMode        string
	MaxConnections int
	MinConnections int
	Dimensions     int
}

type OpenAIConfig struct {
	APIKey         string // empty disables embedding and search
	BaseURL        string
	EmbeddingModel string
	RequestTimeout time.Duration
}

type ExecutionConfig struct {
	BaseURL string // empty disables flow submission
	APIKey  string
	Timeout time.Duration
}

type AppConfig struct {
	LogLevel       string
	ServerPort     int
	RequestTimeout time.Duration
	SeedOnStart    bool
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Catalog: CatalogConfig{
			Backend:        getEnvWithDefault("CATALOG_BACKEND", BackendMemory),
			MaxMemoryMB:    int64(getEnvAsInt("CATALOG_MAX_MEMORY_MB", 256)),
			SQLitePath:     getEnvWithDefault("SQLITE_PATH", "fluentmind.db"),
			DatabaseURL:    getEnvWithDefault("DATABASE_URL", ""),
			Host:           getEnvWithDefault("DB_HOST", "localhost"),
			Port:           getEnvAsInt("DB_PORT", 5432),
			Name:           getEnvWithDefault("DB_NAME", "fluentmind"),
			User:           getEnvWithDefault("DB_USER", "postgres"),
			Password:       getEnvWithDefault("DB_PASSWORD", ""),
			SSLMode:        getEnvWithDefault("DB_SSL_MODE", "disable"),
			MaxConnections: getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections: getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			Dimensions:     getEnvAsInt("VECTOR_DIMENSIONS", 1536),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnvWithDefault("OPENAI_API_KEY", ""),
			BaseURL:        getEnvWithDefault("OPENAI_BASE_URL", ""),
			EmbeddingModel: getEnvWithDefault("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			RequestTimeout: getEnvAsDuration("OPENAI_REQUEST_TIMEOUT", 30*time.Second),
		},
		Execution: ExecutionConfig{
			BaseURL: getEnvWithDefault("EXECUTION_BASE_URL", ""),
			APIKey:  getEnvWithDefault("EXECUTION_API_KEY", ""),
			Timeout: getEnvAsDuration("EXECUTION_TIMEOUT", 30*time.Second),
		},
		App: AppConfig{
			LogLevel:       getEnvWithDefault("LOG_LEVEL", "info"),
			ServerPort:     getEnvAsInt("SERVER_PORT", 8080),
			RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 30*time.Second),
			SeedOnStart:    getEnvAsBool("SEED_ON_START", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Catalog.Backend {
	case BackendMemory, BackendSQLite, BackendPostgres:
	default:
		return fmt.Errorf("CATALOG_BACKEND must be %s, %s or %s", BackendMemory, BackendSQLite, BackendPostgres)
	}

	if c.Catalog.Backend == BackendPostgres && c.Catalog.DatabaseURL == "" && c.Catalog.Password == "" {
		return fmt.Errorf("DB_PASSWORD or DATABASE_URL is required for the postgres backend")
	}

	if c.Catalog.Backend == BackendSQLite && c.Catalog.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
	}

	if c.Catalog.Dimensions <= 0 {
		return fmt.Errorf("VECTOR_DIMENSIONS must be positive")
	}

	if c.App.ServerPort <= 0 || c.App.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT must be a valid port")
	}

	return nil
}

// GetDatabaseURL returns the PostgreSQL connection string: the explicit
// DATABASE_URL when set, otherwise one assembled from the DB_* parts.
func (c *Config) GetDatabaseURL() string {
	if c.Catalog.DatabaseURL != "" {
		return c.Catalog.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Catalog.Host,
		c.Catalog.Port,
		c.Catalog.User,
		c.Catalog.Password,
		c.Catalog.Name,
		c.Catalog.SSLMode,
	)
}

// EmbeddingEnabled reports whether an embedder can be constructed.
func (c *Config) EmbeddingEnabled() bool {
	return c.OpenAI.APIKey != ""
}

// SubmissionEnabled reports whether an execution host is configured.
func (c *Config) SubmissionEnabled() bool {
	return c.Execution.BaseURL != ""
}

// Helper functions for environment variable parsing

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if valueStr := os.Getenv(key); valueStr != "" {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if valueStr := os.Getenv(key); valueStr != "" {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if valueStr := os.Getenv(key); valueStr != "" {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
