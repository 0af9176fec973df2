// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for our application
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Admin    AdminConfig
	Security SecurityConfig
	External ExternalConfig
	Cart     CartConfig
	Upload   UploadConfig
	Logging  LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name           string
	Version        string
	Environment    string
	Debug          bool
	PublicURL      string
	CompanyName    string
	CompanyEmail   string
	CompanyPhone   string
	CompanyAddress string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// MongoConfig contains MongoDB connection configuration
type MongoConfig struct {
	URI      string
	Database string
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// AdminConfig contains the admin panel account and session configuration
type AdminConfig struct {
	Email         string
	PasswordHash  string
	SessionSecret string
	SessionExpiry time.Duration
	CookieName    string
	CookieSecure  bool
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	TrustedProxies     []string
}

// ExternalConfig contains external service configurations
type ExternalConfig struct {
	Payment   PaymentConfig
	Freight   FreightConfig
	Email     EmailConfig
	ImageHost ImageHostConfig
}

// PaymentConfig contains the hosted-checkout payment provider configuration
type PaymentConfig struct {
	BaseURL       string
	APIKey        string
	WebhookSecret string
}

// FreightConfig contains the shipping-rate provider configuration
type FreightConfig struct {
	BaseURL     string
	OriginCEP   string
	Timeout     time.Duration
	BreakerName string
}

// EmailConfig contains email service configuration
type EmailConfig struct {
	FromEmail    string
	FromName     string
	AdminEmail   string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
	SMTPDisabled bool
}

// ImageHostConfig contains the external image host configuration
type ImageHostConfig struct {
	UploadURL string
	APIKey    string
}

// CartConfig contains cart persistence configuration
type CartConfig struct {
	TTL time.Duration
}

// UploadConfig contains image upload configuration
type UploadConfig struct {
	MaxSize           int64
	AllowedExtensions []string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:           getEnv("APP_NAME", "Tapecar Store"),
			Version:        getEnv("APP_VERSION", "1.0.0"),
			Environment:    getEnv("APP_ENV", "development"),
			Debug:          getEnvAsBool("APP_DEBUG", true),
			PublicURL:      getEnv("APP_PUBLIC_URL", "http://localhost:8080"),
			CompanyName:    getEnv("COMPANY_NAME", "Tapecar Acessórios Automotivos"),
			CompanyEmail:   getEnv("COMPANY_EMAIL", "contato@tapecar.example"),
			CompanyPhone:   getEnv("COMPANY_PHONE", ""),
			CompanyAddress: getEnv("COMPANY_ADDRESS", ""),
		},
		Server: ServerConfig{
			Port:         getEnv("APP_PORT", "8080"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "tapecar"),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
		},
		Admin: AdminConfig{
			Email:         getEnv("ADMIN_EMAIL", "admin@tapecar.example"),
			PasswordHash:  getEnv("ADMIN_PASSWORD_HASH", ""),
			SessionSecret: getEnv("ADMIN_SESSION_SECRET", "change-me-to-a-long-random-string-in-production"),
			SessionExpiry: getEnvAsDuration("ADMIN_SESSION_EXPIRY", 12*time.Hour),
			CookieName:    getEnv("ADMIN_COOKIE_NAME", "admin_session"),
			CookieSecure:  getEnvAsBool("ADMIN_COOKIE_SECURE", false),
		},
		Security: SecurityConfig{
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
			TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", []string{}),
		},
		External: ExternalConfig{
			Payment: PaymentConfig{
				BaseURL:       getEnv("PAYMENT_BASE_URL", ""),
				APIKey:        getEnv("PAYMENT_API_KEY", ""),
				WebhookSecret: getEnv("PAYMENT_WEBHOOK_SECRET", ""),
			},
			Freight: FreightConfig{
				BaseURL:     getEnv("FREIGHT_BASE_URL", ""),
				OriginCEP:   getEnv("FREIGHT_ORIGIN_CEP", "01001000"),
				Timeout:     getEnvAsDuration("FREIGHT_TIMEOUT", 10*time.Second),
				BreakerName: getEnv("FREIGHT_BREAKER_NAME", "freight-rates"),
			},
			Email: EmailConfig{
				FromEmail:    getEnv("FROM_EMAIL", "pedidos@tapecar.example"),
				FromName:     getEnv("FROM_NAME", "Tapecar"),
				AdminEmail:   getEnv("ORDER_NOTIFY_EMAIL", "vendas@tapecar.example"),
				SMTPHost:     getEnv("SMTP_HOST", ""),
				SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
				SMTPUser:     getEnv("SMTP_USER", ""),
				SMTPPass:     getEnv("SMTP_PASS", ""),
				SMTPDisabled: getEnvAsBool("SMTP_DISABLED", false),
			},
			ImageHost: ImageHostConfig{
				UploadURL: getEnv("IMAGE_HOST_UPLOAD_URL", ""),
				APIKey:    getEnv("IMAGE_HOST_API_KEY", ""),
			},
		},
		Cart: CartConfig{
			TTL: getEnvAsDuration("CART_TTL", 720*time.Hour),
		},
		Upload: UploadConfig{
			MaxSize:           getEnvAsInt64("UPLOAD_MAX_SIZE", 10485760), // 10MB
			AllowedExtensions: getEnvAsSlice("UPLOAD_ALLOWED_EXTENSIONS", []string{"jpg", "jpeg", "png", "webp"}),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "debug"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Admin.SessionSecret) < 32 {
		return fmt.Errorf("ADMIN_SESSION_SECRET must be at least 32 characters long")
	}

	if c.Mongo.URI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("MONGO_DATABASE is required")
	}

	if c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	if c.Cart.TTL <= 0 {
		return fmt.Errorf("CART_TTL must be positive")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
