// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/walican/walican/internal/money"
	"github.com/walican/walican/pkg/logging"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	DBPath string

	// Logging
	LogLevel string

	// Money
	DefaultCurrency  string
	MaxExpenseAmount decimal.Decimal

	// Rate limiting
	EventRateLimit   int
	ExpenseRateLimit int
	RateLimitWindow  time.Duration
	RateLimitBlock   time.Duration
	RateLimitMaxKeys int
	RateLimitSweep   time.Duration
}

// Load reads an optional .env file and then the process environment.
// Malformed numbers and durations fall back to their defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	return &Config{
		Port:     getEnv("PORT", "8080"),
		DBPath:   getEnv("DB_PATH", "./data/walican.db"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DefaultCurrency:  money.Normalize(getEnv("DEFAULT_CURRENCY", money.DefaultCurrency)),
		MaxExpenseAmount: getEnvDecimal("MAX_EXPENSE_AMOUNT", decimal.NewFromInt(10_000_000)),

		EventRateLimit:   getEnvInt("EVENT_RATE_LIMIT", 3),
		ExpenseRateLimit: getEnvInt("EXPENSE_RATE_LIMIT", 10),
		RateLimitWindow:  getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		RateLimitBlock:   getEnvDuration("RATE_LIMIT_BLOCK", 5*time.Minute),
		RateLimitMaxKeys: getEnvInt("RATE_LIMIT_MAX_KEYS", 10000),
		RateLimitSweep:   getEnvDuration("RATE_LIMIT_SWEEP", time.Minute),
	}
}

// Validate validates the configuration and returns an error listing every problem found.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		errors = append(errors, "database path cannot be empty")
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}

	if _, ok := money.Lookup(c.DefaultCurrency); !ok {
		errors = append(errors, fmt.Sprintf("unsupported default currency '%s': must be one of %v", c.DefaultCurrency, money.Codes()))
	}

	if !c.MaxExpenseAmount.IsPositive() {
		errors = append(errors, fmt.Sprintf("invalid max expense amount %s: must be positive", c.MaxExpenseAmount))
	} else if _, err := money.FromDecimal(c.MaxExpenseAmount); err != nil {
		errors = append(errors, fmt.Sprintf("invalid max expense amount %s: %v", c.MaxExpenseAmount, err))
	}

	if c.EventRateLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid event rate limit %d: must be at least 1", c.EventRateLimit))
	}
	if c.ExpenseRateLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid expense rate limit %d: must be at least 1", c.ExpenseRateLimit))
	}
	if c.RateLimitWindow < time.Second {
		errors = append(errors, fmt.Sprintf("invalid rate limit window %v: must be at least 1 second", c.RateLimitWindow))
	}
	if c.RateLimitBlock < 0 {
		errors = append(errors, fmt.Sprintf("invalid rate limit block %v: must not be negative", c.RateLimitBlock))
	}
	if c.RateLimitMaxKeys < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit key bound %d: must be at least 1", c.RateLimitMaxKeys))
	}
	if c.RateLimitSweep < time.Second {
		errors = append(errors, fmt.Sprintf("invalid rate limit sweep interval %v: must be at least 1 second", c.RateLimitSweep))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}
