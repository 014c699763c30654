package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultReceiptSecret signs receipts when RECEIPT_SIGNING_SECRET is unset.
// It is public, so release mode refuses to start with it.
const DefaultReceiptSecret = "gamespace-receipt-secret"

var ErrDefaultReceiptSecret = errors.New("RECEIPT_SIGNING_SECRET must be set in release mode")

// Config holds all configuration for our application
type Config struct {
	// Server configuration
	Port           string
	GinMode        string
	APIVersion     string
	APIPrefix      string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int

	// Browser origins allowed by CORS and the websocket upgrade; empty
	// allows every origin
	AllowedOrigins []string

	// Remote GameSpace API
	API APIConfig

	// Database configuration (games inventory)
	Database DatabaseConfig

	// Redis configuration
	Redis RedisConfig

	// Browser sessions
	Session SessionConfig

	// Rate limiting
	RateLimit RateLimitConfig

	// Kafka booking notifications
	Kafka KafkaConfig

	// Live availability push
	Live LiveConfig

	// Booking flow knobs
	Booking BookingConfig

	// Room layouts
	Layout LayoutConfig

	// Logging
	LogLevel string
}

// APIConfig describes the upstream REST API every service wrapper talks to
type APIConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	DSN      string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	Addr     string
}

// SessionConfig holds the browser session settings
type SessionConfig struct {
	CookieName    string
	CookieSecure  bool
	TTL           time.Duration
	SubmitLockTTL time.Duration
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled         bool          `json:"enabled"`
	WindowDuration  time.Duration `json:"window_duration"`
	DefaultRequests int           `json:"default_requests"`
	PublicRequests  int           `json:"public_requests"`
	AuthRequests    int           `json:"auth_requests"`
	BookingRequests int           `json:"booking_requests"`
	HealthRequests  int           `json:"health_requests"`
	WhitelistedIPs  []string      `json:"whitelisted_ips"`
}

// KafkaConfig holds Kafka producer and consumer configuration
type KafkaConfig struct {
	Enabled      bool
	Brokers      []string
	BookingTopic string
	ClientID     string

	// ConsumerGroup must differ per instance: every instance needs every
	// booking event to drop its own cached slots
	ConsumerGroup string
}

// LiveConfig controls the availability refresh job and websocket hub
type LiveConfig struct {
	Enabled     bool
	RefreshSpec string
}

// BookingConfig holds booking modal settings
type BookingConfig struct {
	// SlotsEnvelope is "object" for {availableSlots: [...]} or "array" for a bare list
	SlotsEnvelope string
	// FullTablePricing is "flat" or "per_player"
	FullTablePricing string
	SeatPrice        float64
	FullTableFlat    float64
	PerPlayerPrice   float64
	MaxDaysAhead     int
	ReceiptSecret    string
}

// LayoutConfig selects where room table layouts come from
type LayoutConfig struct {
	// Source is "static" or "api"
	Source string
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		// Server configuration
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		APIVersion:     getEnv("API_VERSION", "v1"),
		APIPrefix:      getEnv("API_PREFIX", "/api"),
		ReadTimeout:    getDurationEnv("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getDurationEnv("WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:    getDurationEnv("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes: getIntEnv("MAX_HEADER_BYTES", 1<<20), // 1 MB
		AllowedOrigins: getStringSliceEnv("ALLOWED_ORIGINS", nil),

		API: APIConfig{
			BaseURL:           strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:5000/api"), "/"),
			Timeout:           getDurationEnv("API_TIMEOUT", 10*time.Second),
			RequestsPerSecond: getFloatEnv("API_REQUESTS_PER_SECOND", 50),
			Burst:             getIntEnv("API_BURST", 20),
		},

		// Database configuration
		Database: DatabaseConfig{
			Enabled:  getBoolEnv("DB_ENABLED", true),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "gamespace_db"),
			User:     getEnv("DB_USER", "gamespace_user"),
			Password: getEnv("DB_PASSWORD", "gamespace_password"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		// Redis configuration
		Redis: RedisConfig{
			Enabled:  getBoolEnv("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},

		Session: SessionConfig{
			CookieName:    getEnv("SESSION_COOKIE_NAME", "gs_session"),
			CookieSecure:  getBoolEnv("SESSION_COOKIE_SECURE", false),
			TTL:           getDurationEnv("SESSION_TTL", 24*time.Hour),
			SubmitLockTTL: getDurationEnv("SESSION_SUBMIT_LOCK_TTL", 15*time.Second),
		},

		// Rate limiting
		RateLimit: RateLimitConfig{
			Enabled:         getBoolEnv("RATE_LIMIT_ENABLED", true),
			WindowDuration:  getDurationEnv("RATE_LIMIT_WINDOW_DURATION", 60*time.Second),
			DefaultRequests: getIntEnv("RATE_LIMIT_DEFAULT_REQUESTS", 60),
			PublicRequests:  getIntEnv("RATE_LIMIT_PUBLIC_REQUESTS", 120),
			AuthRequests:    getIntEnv("RATE_LIMIT_AUTH_REQUESTS", 10),
			BookingRequests: getIntEnv("RATE_LIMIT_BOOKING_REQUESTS", 30),
			HealthRequests:  getIntEnv("RATE_LIMIT_HEALTH_REQUESTS", 300),
			WhitelistedIPs:  getStringSliceEnv("RATE_LIMIT_WHITELISTED_IPS", []string{}),
		},

		Kafka: KafkaConfig{
			Enabled:       getBoolEnv("KAFKA_ENABLED", false),
			Brokers:       getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
			BookingTopic:  getEnv("KAFKA_BOOKING_TOPIC", "gamespace.bookings"),
			ClientID:      getEnv("KAFKA_CLIENT_ID", "gamespace-web"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "gamespace-web-"+hostname()),
		},

		Live: LiveConfig{
			Enabled:     getBoolEnv("LIVE_ENABLED", true),
			RefreshSpec: getEnv("LIVE_REFRESH_SPEC", "@every 1m"),
		},

		Booking: BookingConfig{
			SlotsEnvelope:    getEnv("SLOTS_RESPONSE_ENVELOPE", "object"),
			FullTablePricing: getEnv("PRICING_FULL_TABLE_MODE", "flat"),
			SeatPrice:        getFloatEnv("PRICING_SEAT", 10),
			FullTableFlat:    getFloatEnv("PRICING_FULL_TABLE_FLAT", 40),
			PerPlayerPrice:   getFloatEnv("PRICING_PER_PLAYER", 15),
			MaxDaysAhead:     getIntEnv("BOOKING_MAX_DAYS_AHEAD", 30),
			ReceiptSecret:    getEnv("RECEIPT_SIGNING_SECRET", DefaultReceiptSecret),
		},

		Layout: LayoutConfig{
			Source: getEnv("LAYOUT_SOURCE", "static"),
		},

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}

	// Build composite values
	cfg.Database.DSN = buildDatabaseDSN(cfg.Database)
	cfg.Redis.Addr = cfg.Redis.Host + ":" + cfg.Redis.Port

	return cfg
}

// buildDatabaseDSN builds the database connection string
func buildDatabaseDSN(db DatabaseConfig) string {
	return "host=" + db.Host +
		" port=" + db.Port +
		" user=" + db.User +
		" password=" + db.Password +
		" dbname=" + db.Name +
		" sslmode=" + db.SSLMode
}

func hostname() string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	return "local"
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getFloatEnv gets a float environment variable with a fallback value
func getFloatEnv(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

// getDurationEnv gets a duration environment variable with a fallback value
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getStringSliceEnv gets a comma-separated string environment variable as a slice
func getStringSliceEnv(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		var result []string
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

// Validate rejects settings that are only acceptable during development
func (c *Config) Validate() error {
	if c.IsProduction() && c.UsesDefaultReceiptSecret() {
		return ErrDefaultReceiptSecret
	}
	return nil
}

// UsesDefaultReceiptSecret reports whether receipts are signed with the
// built-in secret
func (c *Config) UsesDefaultReceiptSecret() bool {
	return c.Booking.ReceiptSecret == DefaultReceiptSecret
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GinMode == "debug"
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

// GetAPIBasePath returns the API base path
func (c *Config) GetAPIBasePath() string {
	return c.APIPrefix + "/" + c.APIVersion
}
