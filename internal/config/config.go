package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr            = ":8080"
	defaultDatabaseURL         = "hotel.db"
	defaultJWTSecret           = "change-me-jwt-secret"
	defaultJWTTTL              = "24h"
	defaultAutoCheckout        = "1h"
	defaultHotelName           = "Hotel"
	defaultTaxID               = "ATU00000000"
	defaultSMTPPort            = "587"
	defaultPaymentBaseURL      = "https://api.stripe.com"
	defaultPaymentRedirectBase = "http://localhost:4200/#"
	defaultLockAPIURL          = "https://api.nuki.io"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	HotelName string
	TaxID     string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool

	KafkaBrokers     []string
	KafkaTopicPrefix string

	PaymentBaseURL      string
	PaymentSecretKey    string
	PaymentRedirectBase string
	PaymentCurrency     string

	LockAPIURL   string
	LockAPIToken string

	AutoCheckoutInterval time.Duration
	CORSAllowedOrigins   []string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:              strings.ToLower(getEnv("APP_ENV", "dev")),
		HTTPAddr:            getEnv("HTTP_ADDR", defaultHTTPAddr),
		DatabaseURL:         getEnv("DATABASE_URL", defaultDatabaseURL),
		JWTSecret:           strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret)),
		HotelName:           getEnv("HOTEL_NAME", defaultHotelName),
		TaxID:               getEnv("TAX_ID", defaultTaxID),
		SMTPHost:            os.Getenv("SMTP_HOST"),
		SMTPUsername:        os.Getenv("SMTP_USERNAME"),
		SMTPPassword:        os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:            getEnv("SMTP_FROM", "no-reply@hotel.local"),
		S3Endpoint:          os.Getenv("S3_ENDPOINT"),
		S3AccessKey:         os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:         os.Getenv("S3_SECRET_KEY"),
		S3Bucket:            getEnv("S3_BUCKET", "hotel-documents"),
		S3UseSSL:            parseBoolEnv("S3_USE_SSL", "false"),
		KafkaBrokers:        splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopicPrefix:    os.Getenv("KAFKA_TOPIC_PREFIX"),
		PaymentBaseURL:      getEnv("PAYMENT_BASE_URL", defaultPaymentBaseURL),
		PaymentSecretKey:    os.Getenv("PAYMENT_SECRET_KEY"),
		PaymentRedirectBase: getEnv("PAYMENT_REDIRECT_BASE", defaultPaymentRedirectBase),
		PaymentCurrency:     getEnv("PAYMENT_CURRENCY", "eur"),
		LockAPIURL:          getEnv("LOCK_API_URL", defaultLockAPIURL),
		LockAPIToken:        os.Getenv("LOCK_API_TOKEN"),
		CORSAllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:4200")),
	}

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}
	if cfg.AutoCheckoutInterval, err = parseDurationEnv("AUTO_CHECKOUT_INTERVAL", defaultAutoCheckout); err != nil {
		return nil, err
	}
	port := getEnv("SMTP_PORT", defaultSMTPPort)
	if cfg.SMTPPort, err = strconv.Atoi(port); err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT value %q: %w", port, err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) MailEnabled() bool    { return c.SMTPHost != "" }
func (c *Config) S3Enabled() bool      { return c.S3Endpoint != "" }
func (c *Config) KafkaEnabled() bool   { return len(c.KafkaBrokers) > 0 }
func (c *Config) PaymentEnabled() bool { return c.PaymentSecretKey != "" }
func (c *Config) LockEnabled() bool    { return c.LockAPIToken != "" }

func validateConfig(cfg *Config) error {
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.AutoCheckoutInterval <= 0 {
		return fmt.Errorf("AUTO_CHECKOUT_INTERVAL must be > 0")
	}
	if cfg.SMTPPort <= 0 || cfg.SMTPPort > 65535 {
		return fmt.Errorf("SMTP_PORT must be a valid port")
	}
	if cfg.S3Enabled() && (cfg.S3AccessKey == "" || cfg.S3SecretKey == "") {
		return fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY are required when S3_ENDPOINT is set")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if !strings.HasPrefix(cfg.DatabaseURL, "postgres") {
			return fmt.Errorf("in prod/release DATABASE_URL must point to PostgreSQL")
		}
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
