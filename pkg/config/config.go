package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// BackendConfig holds the hosted backend connection parameters. The platform
// runs in demo mode (canned catalog, no persistence) when either of the two
// required parameters is missing.
type BackendConfig struct {
	DatabaseURL     string
	ServiceKey      string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        logger.LogLevel
}

// Configured reports whether a live backend is available. Decided once at
// startup; the rest of the process never re-reads the environment.
func (c *BackendConfig) Configured() bool {
	return c.DatabaseURL != "" && c.ServiceKey != ""
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey      string
	ExpirationHours int
}

// OpenAIConfig holds the assistant API configuration. When APIKey is empty the
// chat surface stays up but replies come from the simulated orchestrator.
type OpenAIConfig struct {
	APIKey       string
	PollInterval time.Duration
	RunTimeout   time.Duration
}

// Configured reports whether live assistant runs can be performed.
func (c *OpenAIConfig) Configured() bool {
	return c.APIKey != ""
}

// OAuthConfig holds the Google OAuth client used for social sign-in.
type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

// Configured reports whether OAuth sign-in is available.
func (c *OAuthConfig) Configured() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// AccessConfig holds the subscription access-check policy.
// FailOpen grants access when subscription records cannot be read.
type AccessConfig struct {
	FailOpen bool
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Prefix string
}

// Config holds all configuration
type Config struct {
	ServiceName string
	Server      ServerConfig
	Backend     BackendConfig
	JWT         JWTConfig
	OpenAI      OpenAIConfig
	OAuth       OAuthConfig
	Access      AccessConfig
	Log         LogConfig
	Metrics     MetricsConfig
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Not returning error as .env file is optional
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}

	config := &Config{
		ServiceName: serviceName,
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Backend: BackendConfig{
			DatabaseURL:     getEnv("BACKEND_DATABASE_URL", ""),
			ServiceKey:      getEnv("BACKEND_SERVICE_KEY", ""),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 1*time.Hour),
			LogLevel:        getEnvAsLogLevel("DB_LOG_LEVEL", logger.Warn),
		},
		JWT: JWTConfig{
			SigningKey:      getEnv("JWT_SIGNING_KEY", "defaultsecretkey"),
			ExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		},
		OpenAI: OpenAIConfig{
			APIKey:       getEnv("OPENAI_API_KEY", ""),
			PollInterval: getEnvAsDuration("OPENAI_POLL_INTERVAL", 1*time.Second),
			RunTimeout:   getEnvAsDuration("OPENAI_RUN_TIMEOUT", 2*time.Minute),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     getEnv("GOOGLE_OAUTH_CLIENT_ID", ""),
			GoogleClientSecret: getEnv("GOOGLE_OAUTH_CLIENT_SECRET", ""),
			GoogleRedirectURL:  getEnv("GOOGLE_OAUTH_REDIRECT_URL", "http://localhost:8080/auth/oauth/google/callback"),
		},
		Access: AccessConfig{
			FailOpen: getEnvAsBool("ACCESS_CHECK_FAIL_OPEN", true),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", serviceName),
		},
	}

	return config, nil
}

// LogConfig returns the configuration as a zap logger-friendly format
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("server_port", c.Server.Port),
		zap.Bool("backend_configured", c.Backend.Configured()),
		zap.Bool("openai_configured", c.OpenAI.Configured()),
		zap.Bool("oauth_configured", c.OAuth.Configured()),
		zap.Bool("access_fail_open", c.Access.FailOpen),
	}
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as integers
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as booleans
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as log levels
func getEnvAsLogLevel(key string, defaultValue logger.LogLevel) logger.LogLevel {
	valueStr := getEnv(key, "")
	switch valueStr {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return defaultValue
	}
}
