package payment

import (
	"fmt"
	"os"
	"strings"
)

// Config holds payment provider settings.
type Config struct {
	SecretKey  string `toml:"secret_key"`
	Currency   string `toml:"currency"`
	SuccessURL string `toml:"success_url"`
	CancelURL  string `toml:"cancel_url"`
	// BackendURL overrides the provider API base URL, e.g. for stripe-mock.
	BackendURL string `toml:"backend_url"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	SecretKey  string
	Currency   string
	SuccessURL string
	CancelURL  string
	BackendURL string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.SecretKey != "" {
		c.SecretKey = overlay.SecretKey
	}
	if overlay.Currency != "" {
		c.Currency = overlay.Currency
	}
	if overlay.SuccessURL != "" {
		c.SuccessURL = overlay.SuccessURL
	}
	if overlay.CancelURL != "" {
		c.CancelURL = overlay.CancelURL
	}
	if overlay.BackendURL != "" {
		c.BackendURL = overlay.BackendURL
	}
}

func (c *Config) loadDefaults() {
	if c.Currency == "" {
		c.Currency = "usd"
	}
	if c.SuccessURL == "" {
		c.SuccessURL = "http://localhost:3000/checkout/success"
	}
	if c.CancelURL == "" {
		c.CancelURL = "http://localhost:3000/checkout/cancel"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.SecretKey != "" {
		if v := os.Getenv(env.SecretKey); v != "" {
			c.SecretKey = v
		}
	}
	if env.Currency != "" {
		if v := os.Getenv(env.Currency); v != "" {
			c.Currency = v
		}
	}
	if env.SuccessURL != "" {
		if v := os.Getenv(env.SuccessURL); v != "" {
			c.SuccessURL = v
		}
	}
	if env.CancelURL != "" {
		if v := os.Getenv(env.CancelURL); v != "" {
			c.CancelURL = v
		}
	}
	if env.BackendURL != "" {
		if v := os.Getenv(env.BackendURL); v != "" {
			c.BackendURL = v
		}
	}
}

func (c *Config) validate() error {
	c.Currency = strings.ToLower(c.Currency)
	if len(c.Currency) != 3 {
		return fmt.Errorf("currency must be a three-letter ISO code")
	}
	return nil
}
