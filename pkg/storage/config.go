package storage

import (
	"fmt"
	"os"
	"time"
)

// Config holds Azure Blob Storage connection and URL signing parameters.
// The connection string must carry an account key so URLs can be signed.
type Config struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	UploadTTL        string `toml:"upload_ttl"`
	ReadTTL          string `toml:"read_ttl"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ContainerName    string
	ConnectionString string
	UploadTTL        string
	ReadTTL          string
}

// UploadTTLDuration returns UploadTTL as a time.Duration.
func (c *Config) UploadTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.UploadTTL)
	return d
}

// ReadTTLDuration returns ReadTTL as a time.Duration.
func (c *Config) ReadTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.ReadTTL)
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
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.UploadTTL != "" {
		c.UploadTTL = overlay.UploadTTL
	}
	if overlay.ReadTTL != "" {
		c.ReadTTL = overlay.ReadTTL
	}
}

func (c *Config) loadDefaults() {
	if c.ContainerName == "" {
		c.ContainerName = "keepsake"
	}
	if c.UploadTTL == "" {
		c.UploadTTL = "15m"
	}
	if c.ReadTTL == "" {
		c.ReadTTL = "1h"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.ContainerName != "" {
		if v := os.Getenv(env.ContainerName); v != "" {
			c.ContainerName = v
		}
	}
	if env.ConnectionString != "" {
		if v := os.Getenv(env.ConnectionString); v != "" {
			c.ConnectionString = v
		}
	}
	if env.UploadTTL != "" {
		if v := os.Getenv(env.UploadTTL); v != "" {
			c.UploadTTL = v
		}
	}
	if env.ReadTTL != "" {
		if v := os.Getenv(env.ReadTTL); v != "" {
			c.ReadTTL = v
		}
	}
}

func (c *Config) validate() error {
	if c.ContainerName == "" {
		return fmt.Errorf("container_name required")
	}
	if c.ConnectionString == "" {
		return fmt.Errorf("connection_string required")
	}
	for name, v := range map[string]string{"upload_ttl": c.UploadTTL, "read_ttl": c.ReadTTL} {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}
