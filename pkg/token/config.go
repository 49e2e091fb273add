package token

import (
	"fmt"
	"os"
	"time"
)

const minSecretLength = 32

// Config holds JWT signing parameters.
type Config struct {
	Secret     string `toml:"secret"`
	Issuer     string `toml:"issuer"`
	AccessTTL  string `toml:"access_ttl"`
	RefreshTTL string `toml:"refresh_ttl"`
	Leeway     string `toml:"leeway"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Secret     string
	Issuer     string
	AccessTTL  string
	RefreshTTL string
	Leeway     string
}

// AccessTTLDuration returns AccessTTL as a time.Duration.
func (c *Config) AccessTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.AccessTTL)
	return d
}

// RefreshTTLDuration returns RefreshTTL as a time.Duration.
func (c *Config) RefreshTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.RefreshTTL)
	return d
}

// LeewayDuration returns Leeway as a time.Duration.
func (c *Config) LeewayDuration() time.Duration {
	d, _ := time.ParseDuration(c.Leeway)
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
	if overlay.Secret != "" {
		c.Secret = overlay.Secret
	}
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.AccessTTL != "" {
		c.AccessTTL = overlay.AccessTTL
	}
	if overlay.RefreshTTL != "" {
		c.RefreshTTL = overlay.RefreshTTL
	}
	if overlay.Leeway != "" {
		c.Leeway = overlay.Leeway
	}
}

func (c *Config) loadDefaults() {
	if c.Issuer == "" {
		c.Issuer = "keepsake"
	}
	if c.AccessTTL == "" {
		c.AccessTTL = "15m"
	}
	if c.RefreshTTL == "" {
		c.RefreshTTL = "168h"
	}
	if c.Leeway == "" {
		c.Leeway = "30s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Secret != "" {
		if v := os.Getenv(env.Secret); v != "" {
			c.Secret = v
		}
	}
	if env.Issuer != "" {
		if v := os.Getenv(env.Issuer); v != "" {
			c.Issuer = v
		}
	}
	if env.AccessTTL != "" {
		if v := os.Getenv(env.AccessTTL); v != "" {
			c.AccessTTL = v
		}
	}
	if env.RefreshTTL != "" {
		if v := os.Getenv(env.RefreshTTL); v != "" {
			c.RefreshTTL = v
		}
	}
	if env.Leeway != "" {
		if v := os.Getenv(env.Leeway); v != "" {
			c.Leeway = v
		}
	}
}

func (c *Config) validate() error {
	if len(c.Secret) < minSecretLength {
		return fmt.Errorf("secret must be at least %d characters", minSecretLength)
	}

	access, err := time.ParseDuration(c.AccessTTL)
	if err != nil {
		return fmt.Errorf("invalid access_ttl: %w", err)
	}
	refresh, err := time.ParseDuration(c.RefreshTTL)
	if err != nil {
		return fmt.Errorf("invalid refresh_ttl: %w", err)
	}
	if refresh <= access {
		return fmt.Errorf("refresh_ttl must exceed access_ttl")
	}
	if _, err := time.ParseDuration(c.Leeway); err != nil {
		return fmt.Errorf("invalid leeway: %w", err)
	}
	return nil
}
