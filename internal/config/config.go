// Package config loads keepsake configuration from TOML files, an optional .env
// file and KEEPSAKE_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/keepsake/pkg/cache"
	"github.com/JaimeStill/keepsake/pkg/database"
	"github.com/JaimeStill/keepsake/pkg/mailer"
	"github.com/JaimeStill/keepsake/pkg/payment"
	"github.com/JaimeStill/keepsake/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	DotEnvFile           = ".env"

	EnvKeepsakeEnv             = "KEEPSAKE_ENV"
	EnvKeepsakeShutdownTimeout = "KEEPSAKE_SHUTDOWN_TIMEOUT"
	EnvKeepsakeVersion         = "KEEPSAKE_VERSION"
)

var databaseEnv = &database.Env{
	URL:             "KEEPSAKE_DB_URL",
	Host:            "KEEPSAKE_DB_HOST",
	Port:            "KEEPSAKE_DB_PORT",
	Name:            "KEEPSAKE_DB_NAME",
	User:            "KEEPSAKE_DB_USER",
	Password:        "KEEPSAKE_DB_PASSWORD",
	SSLMode:         "KEEPSAKE_DB_SSL_MODE",
	MaxOpenConns:    "KEEPSAKE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "KEEPSAKE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "KEEPSAKE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "KEEPSAKE_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "KEEPSAKE_STORAGE_CONTAINER_NAME",
	ConnectionString: "KEEPSAKE_STORAGE_CONNECTION_STRING",
	UploadTTL:        "KEEPSAKE_STORAGE_UPLOAD_TTL",
	ReadTTL:          "KEEPSAKE_STORAGE_READ_TTL",
}

var cacheEnv = &cache.Env{
	Driver:     "KEEPSAKE_CACHE_DRIVER",
	Addr:       "KEEPSAKE_CACHE_ADDR",
	Password:   "KEEPSAKE_CACHE_PASSWORD",
	DB:         "KEEPSAKE_CACHE_DB",
	Prefix:     "KEEPSAKE_CACHE_PREFIX",
	DefaultTTL: "KEEPSAKE_CACHE_DEFAULT_TTL",
}

var mailEnv = &mailer.Env{
	Driver:   "KEEPSAKE_MAIL_DRIVER",
	Host:     "KEEPSAKE_MAIL_HOST",
	Port:     "KEEPSAKE_MAIL_PORT",
	Username: "KEEPSAKE_MAIL_USERNAME",
	Password: "KEEPSAKE_MAIL_PASSWORD",
	From:     "KEEPSAKE_MAIL_FROM",
	TLSMode:  "KEEPSAKE_MAIL_TLS_MODE",
}

var paymentEnv = &payment.Env{
	SecretKey:  "KEEPSAKE_PAYMENT_SECRET_KEY",
	Currency:   "KEEPSAKE_PAYMENT_CURRENCY",
	SuccessURL: "KEEPSAKE_PAYMENT_SUCCESS_URL",
	CancelURL:  "KEEPSAKE_PAYMENT_CANCEL_URL",
	BackendURL: "KEEPSAKE_PAYMENT_BACKEND_URL",
}

// Config is the root configuration for the keepsake service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	Cache           cache.Config    `toml:"cache"`
	Mail            mailer.Config   `toml:"mail"`
	Auth            AuthConfig      `toml:"auth"`
	Payment         payment.Config  `toml:"payment"`
	API             APIConfig       `toml:"api"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the KEEPSAKE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvKeepsakeEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads .env (if present) into the process environment without overriding
// variables already set, then the base config (if present), applies any environment
// overlay, and finalizes all values.
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Cache.Merge(&overlay.Cache)
	c.Mail.Merge(&overlay.Mail)
	c.Auth.Merge(&overlay.Auth)
	c.Payment.Merge(&overlay.Payment)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Cache.Finalize(cacheEnv); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := c.Mail.Finalize(mailEnv); err != nil {
		return fmt.Errorf("mail: %w", err)
	}
	if err := c.Auth.Finalize(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Payment.Finalize(paymentEnv); err != nil {
		return fmt.Errorf("payment: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvKeepsakeShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvKeepsakeVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvKeepsakeEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
