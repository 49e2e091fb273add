// Package database opens the PostgreSQL pool through the pgx stdlib driver and
// reports its readiness to the lifecycle coordinator.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/keepsake/pkg/lifecycle"
)

const (
	startupAttempts = 5
	initialBackoff  = 500 * time.Millisecond
)

// System owns the connection pool.
type System interface {
	Connection() *sql.DB
	// Check pings the database within the configured timeout and records the
	// outcome for Ready.
	Check(ctx context.Context) error
	Ready() bool
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
}

type database struct {
	pool        *sql.DB
	logger      *slog.Logger
	connTimeout time.Duration
	ready       atomic.Bool
}

// New configures the pool without connecting; sql.Open only validates the DSN.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	pool, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &database{
		pool:        pool,
		logger:      logger.With("system", "database"),
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (d *database) Connection() *sql.DB { return d.pool }

func (d *database) Ready() bool { return d.ready.Load() }

func (d *database) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, d.connTimeout)
	defer cancel()

	err := d.pool.PingContext(ctx)
	d.ready.Store(err == nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotReady, err)
	}
	return nil
}

func (d *database) Start(lc *lifecycle.Coordinator) error {
	lc.Track("database", d)

	lc.OnStartup(func() {
		if err := d.connect(lc.Context()); err != nil {
			d.logger.Error("database unavailable", "attempts", startupAttempts, "error", err)
			return
		}
		stats := d.pool.Stats()
		d.logger.Info("database connected", "open_connections", stats.OpenConnections)
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		d.ready.Store(false)

		if err := d.pool.Close(); err != nil {
			d.logger.Error("database close failed", "error", err)
			return
		}
		d.logger.Info("database pool closed")
	})

	return nil
}

// connect pings with exponential backoff so the service tolerates a database
// that comes up shortly after it.
func (d *database) connect(ctx context.Context) error {
	backoff := initialBackoff

	var err error
	for attempt := 1; attempt <= startupAttempts; attempt++ {
		if err = d.Check(ctx); err == nil {
			return nil
		}
		if attempt == startupAttempts {
			break
		}

		d.logger.Warn("database ping failed", "attempt", attempt, "retry_in", backoff, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}
