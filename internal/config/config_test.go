package config

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validConfig() Config {
	return Config{
		Port:             "8080",
		DBPath:           "./data/walican.db",
		LogLevel:         "info",
		DefaultCurrency:  "JPY",
		MaxExpenseAmount: decimal.NewFromInt(10_000_000),
		EventRateLimit:   3,
		ExpenseRateLimit: 10,
		RateLimitWindow:  time.Minute,
		RateLimitBlock:   5 * time.Minute,
		RateLimitMaxKeys: 10000,
		RateLimitSweep:   time.Minute,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid config",
			modify:  func(*Config) {},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			modify:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range high",
			modify:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "empty database path",
			modify:      func(c *Config) { c.DBPath = "" },
			wantErr:     true,
			errorString: "database path cannot be empty",
		},
		{
			name:        "unknown log level",
			modify:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
		{
			name:        "unsupported currency",
			modify:      func(c *Config) { c.DefaultCurrency = "XYZ" },
			wantErr:     true,
			errorString: "unsupported default currency 'XYZ'",
		},
		{
			name:        "zero max amount",
			modify:      func(c *Config) { c.MaxExpenseAmount = decimal.Zero },
			wantErr:     true,
			errorString: "invalid max expense amount 0: must be positive",
		},
		{
			name:        "zero expense rate limit",
			modify:      func(c *Config) { c.ExpenseRateLimit = 0 },
			wantErr:     true,
			errorString: "invalid expense rate limit 0: must be at least 1",
		},
		{
			name:        "window too short",
			modify:      func(c *Config) { c.RateLimitWindow = 10 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid rate limit window 10ms: must be at least 1 second",
		},
		{
			name: "multiple errors are all reported",
			modify: func(c *Config) {
				c.Port = "0"
				c.RateLimitMaxKeys = 0
			},
			wantErr:     true,
			errorString: "invalid rate limit key bound 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Validate() expected error but got none")
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Validate() error = %v, want error containing %v", err, tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Validate() unexpected error = %v", err)
			}
		})
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEFAULT_CURRENCY", " usd ")
	t.Setenv("MAX_EXPENSE_AMOUNT", "5000.50")
	t.Setenv("EVENT_RATE_LIMIT", "7")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_BLOCK", "not-a-duration")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %s, want 9090", cfg.Port)
	}
	if cfg.DefaultCurrency != "USD" {
		t.Errorf("DefaultCurrency = %s, want USD", cfg.DefaultCurrency)
	}
	if !cfg.MaxExpenseAmount.Equal(decimal.RequireFromString("5000.50")) {
		t.Errorf("MaxExpenseAmount = %s, want 5000.50", cfg.MaxExpenseAmount)
	}
	if cfg.EventRateLimit != 7 {
		t.Errorf("EventRateLimit = %d, want 7", cfg.EventRateLimit)
	}
	if cfg.RateLimitWindow != 30*time.Second {
		t.Errorf("RateLimitWindow = %v, want 30s", cfg.RateLimitWindow)
	}
	if cfg.RateLimitBlock != 5*time.Minute {
		t.Errorf("RateLimitBlock = %v, want default 5m", cfg.RateLimitBlock)
	}
	if cfg.ExpenseRateLimit != 10 {
		t.Errorf("ExpenseRateLimit = %d, want default 10", cfg.ExpenseRateLimit)
	}
	if cfg.Addr() != ":9090" {
		t.Errorf("Addr() = %s, want :9090", cfg.Addr())
	}
}
