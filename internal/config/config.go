// Package config loads the backend configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Config holds application configuration
type Config struct {
	APIURL           *url.URL
	DatabaseDSN      string
	JWTSecret        string
	TokenTTL         time.Duration
	CORSAllowOrigins []string
	EnablePprof      bool
	GatewayTimeout   time.Duration

	Stripe     Stripe
	GoCardless GoCardless
	SMTP       SMTP

	SubscriptionPrice    decimal.Decimal
	SubscriptionCurrency currency.Unit
	SubscriptionPeriod   time.Duration
	PaywallEnabled       bool
	ExpirySchedule       string
}

type Stripe struct {
	APIKey        string
	WebhookSecret string
	APIURL        string
}

type GoCardless struct {
	SecretID  string
	SecretKey string
	APIURL    string
}

type SMTP struct {
	Addr     string
	User     string
	Password string
	From     string
}

// Enabled reports if mails can be sent.
func (s SMTP) Enabled() bool {
	return s.Addr != "" && s.From != ""
}

// Load reads an optional .env file in the working directory and then
// builds the configuration from the environment. Variables that are
// already set take precedence over the .env file.
func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not read .env file: %w", err)
	}

	return New()
}

// New builds the configuration from environment variables
func New() (*Config, error) {
	apiURL, ok := os.LookupEnv("API_URL")
	if !ok || apiURL == "" {
		return nil, errors.New("environment variable API_URL must be set")
	}

	u, err := url.Parse(strings.TrimSuffix(apiURL, "/"))
	if err != nil || !u.IsAbs() {
		return nil, fmt.Errorf("environment variable API_URL must be an absolute URL, got %q", apiURL)
	}

	cfg := &Config{
		APIURL:             u,
		DatabaseDSN:        getEnv("DATABASE_DSN", "data/walleta.db"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		TokenTTL:           24 * time.Hour,
		CORSAllowOrigins:   strings.Fields(getEnv("CORS_ALLOW_ORIGINS", "")),
		SubscriptionPeriod: 30 * 24 * time.Hour,
		ExpirySchedule:     getEnv("EXPIRY_SCHEDULE", "@hourly"),
		Stripe: Stripe{
			APIKey:        getEnv("STRIPE_API_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			APIURL:        getEnv("STRIPE_API_URL", "https://api.stripe.com"),
		},
		GoCardless: GoCardless{
			SecretID:  getEnv("GOCARDLESS_SECRET_ID", ""),
			SecretKey: getEnv("GOCARDLESS_SECRET_KEY", ""),
			APIURL:    getEnv("GOCARDLESS_API_URL", "https://bankaccountdata.gocardless.com/api/v2"),
		},
		SMTP: SMTP{
			Addr:     getEnv("SMTP_ADDR", ""),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("MAIL_FROM", ""),
		},
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("environment variable JWT_SECRET must be set")
	}

	cfg.EnablePprof, err = getBool("ENABLE_PPROF")
	if err != nil {
		return nil, err
	}

	cfg.PaywallEnabled, err = getBool("PAYWALL_ENABLED")
	if err != nil {
		return nil, err
	}

	timeout := getEnv("GATEWAY_TIMEOUT", "10s")
	cfg.GatewayTimeout, err = time.ParseDuration(timeout)
	if err != nil || cfg.GatewayTimeout <= 0 {
		return nil, fmt.Errorf("environment variable GATEWAY_TIMEOUT must be a positive duration, got %q", timeout)
	}

	price := getEnv("SUBSCRIPTION_PRICE", "4.99")
	cfg.SubscriptionPrice, err = decimal.NewFromString(price)
	if err != nil || !cfg.SubscriptionPrice.IsPositive() {
		return nil, fmt.Errorf("environment variable SUBSCRIPTION_PRICE must be a positive decimal, got %q", price)
	}

	cfg.SubscriptionCurrency, err = currency.ParseISO(strings.ToUpper(getEnv("SUBSCRIPTION_CURRENCY", "EUR")))
	if err != nil {
		return nil, fmt.Errorf("environment variable SUBSCRIPTION_CURRENCY must be an ISO 4217 currency code: %w", err)
	}

	_, err = cron.ParseStandard(cfg.ExpirySchedule)
	if err != nil {
		return nil, fmt.Errorf("environment variable EXPIRY_SCHEDULE is not a valid cron schedule: %w", err)
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getBool(key string) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return false, nil
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("environment variable %s must be a boolean, got %q", key, value)
	}
	return b, nil
}
