package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Local dashboard API
	Server ServerConfig

	// Remote ticket API
	Remote RemoteConfig

	// Ticket sync poller
	Sync SyncConfig

	// History search
	Search SearchConfig

	// Interaction snapshot storage
	Storage StorageConfig

	// Session credential
	Session SessionConfig

	// Rate limiting configuration
	RateLimit RateLimitConfig

	// WebSocket configuration
	WebSocket WebSocketConfig

	// Logging configuration
	Logging LoggingConfig

	// Application metadata
	App AppConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// RemoteConfig locates the ticket API.
type RemoteConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	StartupWait    time.Duration // 0 disables the readiness wait
}

// SyncConfig tunes the ticket poller.
type SyncConfig struct {
	Interval     time.Duration
	ClearOnError bool
	TriggerRPS   float64 // focus/visibility refreshes
	TriggerBurst int
}

// SearchConfig tunes history search.
type SearchConfig struct {
	Debounce  time.Duration
	CacheSize int
}

// StorageConfig locates the interaction profile. An empty ProfileDir keeps
// snapshots in memory.
type StorageConfig struct {
	ProfileDir string
}

// SessionConfig locates the bearer credential.
type SessionConfig struct {
	File  string
	Token string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	ActionRPS         float64 // Stricter limit for admin write endpoints
	ActionBurst       int
}

// WebSocketConfig holds WebSocket configuration
type WebSocketConfig struct {
	AllowedOrigins  []string
	ReadBufferSize  int
	WriteBufferSize int
	PingInterval    time.Duration
	PongWait        time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, text
	File       string // optional rotating log file
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	profileDir := defaultProfileDir()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", "127.0.0.1:8090"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getDurationOrDefault("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
			AllowedOrigins:  getStringSliceOrDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://127.0.0.1:3000"}),
		},
		Remote: RemoteConfig{
			BaseURL:        getEnvOrDefault("TICKET_API_URL", "http://127.0.0.1:8000"),
			RequestTimeout: getDurationOrDefault("TICKET_API_TIMEOUT", 10*time.Second),
			StartupWait:    getDurationOrDefault("TICKET_API_STARTUP_WAIT", 0),
		},
		Sync: SyncConfig{
			Interval:     getDurationOrDefault("SYNC_INTERVAL", 3*time.Second),
			ClearOnError: getBoolOrDefault("SYNC_CLEAR_ON_ERROR", false),
			TriggerRPS:   getFloatOrDefault("SYNC_TRIGGER_RPS", 1),
			TriggerBurst: getIntOrDefault("SYNC_TRIGGER_BURST", 2),
		},
		Search: SearchConfig{
			Debounce:  getDurationOrDefault("SEARCH_DEBOUNCE", 350*time.Millisecond),
			CacheSize: getIntOrDefault("SEARCH_CACHE_SIZE", 64),
		},
		Storage: StorageConfig{
			ProfileDir: getEnvOrDefault("PROFILE_DIR", profileDir),
		},
		Session: SessionConfig{
			File:  getEnvOrDefault("SESSION_FILE", joinIfSet(profileDir, "session.json")),
			Token: os.Getenv("TICKET_API_TOKEN"),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getBoolOrDefault("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: getFloatOrDefault("RATE_LIMIT_RPS", 20),
			BurstSize:         getIntOrDefault("RATE_LIMIT_BURST", 40),
			ActionRPS:         getFloatOrDefault("RATE_LIMIT_ACTION_RPS", 2),
			ActionBurst:       getIntOrDefault("RATE_LIMIT_ACTION_BURST", 5),
		},
		WebSocket: WebSocketConfig{
			AllowedOrigins:  getStringSliceOrDefault("WS_ALLOWED_ORIGINS", []string{}),
			ReadBufferSize:  getIntOrDefault("WS_READ_BUFFER_SIZE", 1024),
			WriteBufferSize: getIntOrDefault("WS_WRITE_BUFFER_SIZE", 1024),
			PingInterval:    getDurationOrDefault("WS_PING_INTERVAL", 54*time.Second),
			PongWait:        getDurationOrDefault("WS_PONG_WAIT", 60*time.Second),
		},
		Logging: LoggingConfig{
			Level:      getEnvOrDefault("LOG_LEVEL", "info"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
			File:       os.Getenv("LOG_FILE"),
			MaxSizeMB:  getIntOrDefault("LOG_MAX_SIZE_MB", 10),
			MaxBackups: getIntOrDefault("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getIntOrDefault("LOG_MAX_AGE_DAYS", 28),
		},
		App: AppConfig{
			Name:        getEnvOrDefault("APP_NAME", "ticket-sync"),
			Version:     getEnvOrDefault("APP_VERSION", "dev"),
			Environment: getEnvOrDefault("APP_ENV", "development"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []string

	// Required fields
	if c.Remote.BaseURL == "" {
		errs = append(errs, "TICKET_API_URL is required")
	} else if u, err := url.Parse(c.Remote.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, "TICKET_API_URL must be an absolute http(s) URL")
	}

	if c.Sync.Interval <= 0 {
		errs = append(errs, "SYNC_INTERVAL must be positive")
	}

	if c.Search.Debounce <= 0 {
		errs = append(errs, "SEARCH_DEBOUNCE must be positive")
	}

	if c.Search.CacheSize <= 0 {
		errs = append(errs, "SEARCH_CACHE_SIZE must be positive")
	}

	// Security validations
	if c.IsProduction() {
		if len(c.WebSocket.AllowedOrigins) == 0 {
			errs = append(errs, "WS_ALLOWED_ORIGINS must be set in production")
		}
	}

	// Logical validations
	if c.Sync.TriggerRPS > 0 && c.Sync.TriggerBurst < 1 {
		errs = append(errs, "SYNC_TRIGGER_BURST must be at least 1 when SYNC_TRIGGER_RPS is set")
	}

	if c.Remote.RequestTimeout <= 0 {
		errs = append(errs, "TICKET_API_TIMEOUT must be positive")
	}

	if len(errs) > 0 {
		return errors.New("configuration errors:\n  - " + strings.Join(errs, "\n  - "))
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions

func defaultProfileDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ticket-sync")
}

func joinIfSet(dir, name string) string {
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, name)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// String returns a redacted string representation of the config (safe for logging)
func (c *Config) String() string {
	token := ""
	if c.Session.Token != "" {
		token = "[REDACTED]"
	}
	return fmt.Sprintf(
		"Config{Server: %s, Remote: %s, Sync: %s, Profile: %s, Token: %s, RateLimit: %v, Environment: %s}",
		c.Server.Port,
		redactURL(c.Remote.BaseURL),
		c.Sync.Interval,
		c.Storage.ProfileDir,
		token,
		c.RateLimit.Enabled,
		c.App.Environment,
	)
}

// redactURL strips user info and query from a URL
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "[REDACTED]"
	}
	if u.User != nil {
		u.User = url.User("[REDACTED]")
	}
	u.RawQuery = ""
	return u.String()
}
