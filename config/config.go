package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Govind-619/MakeOffer/utils"
	"github.com/joho/godotenv"
)

// Attempt store backends
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StoreDatabase = "database"
)

// Config holds all configuration for the application
type Config struct {
	Port string
	Env  string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	SQLitePath string

	AttemptStore   string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string
	AttemptTTL     time.Duration

	JWTSecret     string
	SessionSecret string
	CookieSecure  bool
	AllowedOrigin string

	CartURL        string
	ProductURL     string
	CurrencySymbol string

	// Legacy compatibility switches, both off by default
	LenientCartFailures bool
	TrustClientCounter  bool

	OfferRateLimit  int
	OfferRateWindow time.Duration

	LogDir string

	SMTP             utils.EmailConfig
	AdminNotifyEmail string

	AdminEmail     string
	AdminPassword  string
	AdminFirstName string
	AdminLastName  string
}

// LoadConfig loads configuration from the environment, reading .env first
// when present
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %v", err)
	}

	config := &Config{
		Port: getEnv("PORT", utils.DefaultPort),
		Env:  getEnv("ENV", "development"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", utils.DefaultDBDriver)),
		DBHost:     getEnv("DB_HOST", utils.DefaultDBHost),
		DBPort:     getEnv("DB_PORT", utils.DefaultDBPort),
		DBUser:     getEnv("DB_USER", utils.DefaultDBUser),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", utils.DefaultDBName),
		SQLitePath: getEnv("SQLITE_PATH", utils.DefaultSQLitePath),

		AttemptStore:   strings.ToLower(getEnv("ATTEMPT_STORE", StoreDatabase)),
		RedisAddr:      getEnv("REDIS_ADDR", utils.DefaultRedisAddr),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		RedisKeyPrefix: getEnv("REDIS_KEY_PREFIX", "makeoffer"),
		AttemptTTL:     getEnvDuration("ATTEMPT_TTL", 24*time.Hour),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		CookieSecure:  getEnvBool("COOKIE_SECURE", false),
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),

		CartURL:        getEnv("CART_URL", utils.DefaultCartURL),
		ProductURL:     os.Getenv("PRODUCT_URL"),
		CurrencySymbol: getEnv("CURRENCY_SYMBOL", utils.DefaultCurrencySymbol),

		LenientCartFailures: getEnvBool("LENIENT_CART_FAILURES", false),
		TrustClientCounter:  getEnvBool("TRUST_CLIENT_COUNTER", false),

		OfferRateLimit:  getEnvInt("OFFER_RATE_LIMIT", utils.DefaultOfferRateLimit),
		OfferRateWindow: getEnvDuration("OFFER_RATE_WINDOW", utils.DefaultOfferRateWindow),

		LogDir: getEnv("LOG_DIR", utils.DefaultLogDir),

		SMTP: utils.EmailConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
		AdminNotifyEmail: os.Getenv("ADMIN_NOTIFY_EMAIL"),

		AdminEmail:     os.Getenv("ADMIN_EMAIL"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		AdminFirstName: os.Getenv("ADMIN_FIRST_NAME"),
		AdminLastName:  os.Getenv("ADMIN_LAST_NAME"),
	}

	if config.SessionSecret == "" {
		config.SessionSecret = config.JWTSecret
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// Validate checks the settings that have no usable default
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.AttemptStore {
	case StoreMemory, StoreRedis, StoreDatabase:
	default:
		return fmt.Errorf("unsupported ATTEMPT_STORE %q", c.AttemptStore)
	}
	if c.OfferRateLimit < 1 {
		return errors.New("OFFER_RATE_LIMIT must be positive")
	}
	return nil
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// MailerConfigured reports whether offer emails can be delivered
func (c *Config) MailerConfigured() bool {
	return c.SMTP.Host != "" && c.AdminNotifyEmail != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
