package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the whole application configuration.
// Populated from environment variables.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	MinIO    MinIOConfig
	PayPal   PayPalConfig
	Checkout CheckoutConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  int // minutes
	RefreshTokenExpiry int // hours
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// PayPalConfig configures the instant redirect gateway
type PayPalConfig struct {
	BaseURL    string
	ClientID   string
	HashSecret string
	ReturnURL  string
}

// CheckoutConfig holds checkout-path tunables
type CheckoutConfig struct {
	// GatewayTimeout bounds a synchronous call to an external payment gateway.
	// The order is already persisted before any such call is made.
	GatewayTimeout time.Duration

	// ContextTTL is how long an abandoned checkout context (coupon,
	// shipping selection) survives in Redis.
	ContextTTL time.Duration
}

// Load reads config from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Storefront API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "storefront"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", ""),
			AccessTokenExpiry:  getEnvInt("JWT_ACCESS_EXPIRY", 15),
			RefreshTokenExpiry: getEnvInt("JWT_REFRESH_EXPIRY", 168),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "storefront"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		PayPal: PayPalConfig{
			BaseURL:    getEnv("PAYPAL_BASE_URL", "https://www.sandbox.paypal.com/checkout"),
			ClientID:   getEnv("PAYPAL_CLIENT_ID", ""),
			HashSecret: getEnv("PAYPAL_HASH_SECRET", ""),
			ReturnURL:  getEnv("PAYPAL_RETURN_URL", "http://localhost:3000/checkout/return"),
		},
		Checkout: CheckoutConfig{
			GatewayTimeout: time.Duration(getEnvInt("CHECKOUT_GATEWAY_TIMEOUT_SECONDS", 15)) * time.Second,
			ContextTTL:     time.Duration(getEnvInt("CHECKOUT_CONTEXT_TTL_HOURS", 24)) * time.Hour,
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
