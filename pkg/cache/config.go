package cache

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Config selects and configures the key/value backend.
type Config struct {
	Driver     string `toml:"driver"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	Prefix     string `toml:"prefix"`
	DefaultTTL string `toml:"default_ttl"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Driver     string
	Addr       string
	Password   string
	DB         string
	Prefix     string
	DefaultTTL string
}

// DefaultTTLDuration returns DefaultTTL as a time.Duration.
func (c *Config) DefaultTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.DefaultTTL)
	return d
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
	if overlay.Driver != "" {
		c.Driver = overlay.Driver
	}
	if overlay.Addr != "" {
		c.Addr = overlay.Addr
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.DB != 0 {
		c.DB = overlay.DB
	}
	if overlay.Prefix != "" {
		c.Prefix = overlay.Prefix
	}
	if overlay.DefaultTTL != "" {
		c.DefaultTTL = overlay.DefaultTTL
	}
}

func (c *Config) loadDefaults() {
	if c.Driver == "" {
		c.Driver = DriverMemory
	}
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.Prefix == "" {
		c.Prefix = "keepsake"
	}
	if c.DefaultTTL == "" {
		c.DefaultTTL = "1h"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Driver != "" {
		if v := os.Getenv(env.Driver); v != "" {
			c.Driver = v
		}
	}
	if env.Addr != "" {
		if v := os.Getenv(env.Addr); v != "" {
			c.Addr = v
		}
	}
	if env.Password != "" {
		if v := os.Getenv(env.Password); v != "" {
			c.Password = v
		}
	}
	if env.DB != "" {
		if v := os.Getenv(env.DB); v != "" {
			if db, err := strconv.Atoi(v); err == nil {
				c.DB = db
			}
		}
	}
	if env.Prefix != "" {
		if v := os.Getenv(env.Prefix); v != "" {
			c.Prefix = v
		}
	}
	if env.DefaultTTL != "" {
		if v := os.Getenv(env.DefaultTTL); v != "" {
			c.DefaultTTL = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Driver {
	case DriverMemory, DriverRedis:
	default:
		return fmt.Errorf("unsupported driver %q", c.Driver)
	}
	if c.DB < 0 {
		return fmt.Errorf("db must not be negative")
	}
	if _, err := time.ParseDuration(c.DefaultTTL); err != nil {
		return fmt.Errorf("invalid default_ttl: %w", err)
	}
	return nil
}
