package mailer

import (
	"fmt"
	"os"
	"strconv"
)

const (
	DriverSMTP = "smtp"
	DriverLog  = "log"
)

// Config holds outbound mail settings.
type Config struct {
	Driver   string `toml:"driver"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
	// TLSMode is one of starttls, ssl or none.
	TLSMode string `toml:"tls_mode"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Driver   string
	Host     string
	Port     string
	Username string
	Password string
	From     string
	TLSMode  string
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
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	if overlay.Username != "" {
		c.Username = overlay.Username
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.From != "" {
		c.From = overlay.From
	}
	if overlay.TLSMode != "" {
		c.TLSMode = overlay.TLSMode
	}
}

func (c *Config) loadDefaults() {
	if c.Driver == "" {
		c.Driver = DriverLog
	}
	if c.Port == 0 {
		c.Port = 587
	}
	if c.From == "" {
		c.From = "no-reply@keepsake.local"
	}
	if c.TLSMode == "" {
		c.TLSMode = "starttls"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Driver != "" {
		if v := os.Getenv(env.Driver); v != "" {
			c.Driver = v
		}
	}
	if env.Host != "" {
		if v := os.Getenv(env.Host); v != "" {
			c.Host = v
		}
	}
	if env.Port != "" {
		if v := os.Getenv(env.Port); v != "" {
			if port, err := strconv.Atoi(v); err == nil {
				c.Port = port
			}
		}
	}
	if env.Username != "" {
		if v := os.Getenv(env.Username); v != "" {
			c.Username = v
		}
	}
	if env.Password != "" {
		if v := os.Getenv(env.Password); v != "" {
			c.Password = v
		}
	}
	if env.From != "" {
		if v := os.Getenv(env.From); v != "" {
			c.From = v
		}
	}
	if env.TLSMode != "" {
		if v := os.Getenv(env.TLSMode); v != "" {
			c.TLSMode = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Driver {
	case DriverLog:
	case DriverSMTP:
		if c.Host == "" {
			return fmt.Errorf("host required for smtp driver")
		}
	default:
		return fmt.Errorf("unsupported driver %q", c.Driver)
	}
	switch c.TLSMode {
	case "starttls", "ssl", "none":
	default:
		return fmt.Errorf("unsupported tls_mode %q", c.TLSMode)
	}
	return nil
}
