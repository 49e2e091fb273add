package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/keepsake/pkg/token"
)

const (
	EnvAuthResetCodeTTL = "KEEPSAKE_AUTH_RESET_CODE_TTL"
	EnvAuthBcryptCost   = "KEEPSAKE_AUTH_BCRYPT_COST"
)

var tokenEnv = &token.Env{
	Secret:     "KEEPSAKE_AUTH_JWT_SECRET",
	Issuer:     "KEEPSAKE_AUTH_JWT_ISSUER",
	AccessTTL:  "KEEPSAKE_AUTH_ACCESS_TTL",
	RefreshTTL: "KEEPSAKE_AUTH_REFRESH_TTL",
	Leeway:     "KEEPSAKE_AUTH_LEEWAY",
}

// AuthConfig holds credential, token and password reset settings.
type AuthConfig struct {
	Token        token.Config `toml:"token"`
	ResetCodeTTL string       `toml:"reset_code_ttl"`
	BcryptCost   int          `toml:"bcrypt_cost"`
}

// ResetCodeTTLDuration returns ResetCodeTTL as a time.Duration.
func (c *AuthConfig) ResetCodeTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.ResetCodeTTL)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AuthConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Token.Finalize(tokenEnv); err != nil {
		return fmt.Errorf("token: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *AuthConfig) Merge(overlay *AuthConfig) {
	if overlay.ResetCodeTTL != "" {
		c.ResetCodeTTL = overlay.ResetCodeTTL
	}
	if overlay.BcryptCost != 0 {
		c.BcryptCost = overlay.BcryptCost
	}
	c.Token.Merge(&overlay.Token)
}

func (c *AuthConfig) loadDefaults() {
	if c.ResetCodeTTL == "" {
		c.ResetCodeTTL = "15m"
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = 12
	}
}

func (c *AuthConfig) loadEnv() {
	if v := os.Getenv(EnvAuthResetCodeTTL); v != "" {
		c.ResetCodeTTL = v
	}
	if v := os.Getenv(EnvAuthBcryptCost); v != "" {
		if cost, err := strconv.Atoi(v); err == nil {
			c.BcryptCost = cost
		}
	}
}

func (c *AuthConfig) validate() error {
	d, err := time.ParseDuration(c.ResetCodeTTL)
	if err != nil {
		return fmt.Errorf("invalid reset_code_ttl: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("reset_code_ttl must be positive")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("bcrypt_cost must be between 4 and 31")
	}
	return nil
}
