// Package cache provides expiring key/value state backed by Redis or process memory.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/keepsake/pkg/lifecycle"
)

// System stores short-lived string values.
type System interface {
	// Get returns the value for key or ErrMiss.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key. A zero ttl uses the configured default.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Incr adds one to the counter under key and returns the new value.
	// ttl applies only when the counter is created.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Ready() bool
	Start(lc *lifecycle.Coordinator) error
}

// New creates the backend selected by cfg.Driver.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	logger = logger.With("system", "cache", "driver", cfg.Driver)

	switch cfg.Driver {
	case DriverMemory:
		return newMemory(cfg, logger), nil
	case DriverRedis:
		return newRedis(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", cfg.Driver)
	}
}
