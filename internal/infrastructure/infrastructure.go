// Package infrastructure provides core service initialization for application startup.
// It assembles the shared systems (logging, database, storage, cache, mail, tokens,
// passwords, payments, metrics) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/JaimeStill/keepsake/internal/config"
	"github.com/JaimeStill/keepsake/pkg/cache"
	"github.com/JaimeStill/keepsake/pkg/database"
	"github.com/JaimeStill/keepsake/pkg/lifecycle"
	"github.com/JaimeStill/keepsake/pkg/mailer"
	"github.com/JaimeStill/keepsake/pkg/middleware"
	"github.com/JaimeStill/keepsake/pkg/password"
	"github.com/JaimeStill/keepsake/pkg/payment"
	"github.com/JaimeStill/keepsake/pkg/storage"
	"github.com/JaimeStill/keepsake/pkg/token"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Cache     cache.System
	Mailer    mailer.System
	Tokens    token.System
	Passwords password.Hasher
	Payments  payment.Gateway
	Registry  *prometheus.Registry
	Metrics   *middleware.Metrics
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	kv, err := cache.New(&cfg.Cache, logger)
	if err != nil {
		return nil, fmt.Errorf("cache init failed: %w", err)
	}

	mail, err := mailer.New(&cfg.Mail, logger)
	if err != nil {
		return nil, fmt.Errorf("mailer init failed: %w", err)
	}

	registry, metrics, err := newRegistry(db)
	if err != nil {
		return nil, fmt.Errorf("metrics init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Cache:     kv,
		Mailer:    mail,
		Tokens:    token.New(&cfg.Auth.Token),
		Passwords: password.New(cfg.Auth.BcryptCost),
		Payments:  payment.New(&cfg.Payment),
		Registry:  registry,
		Metrics:   metrics,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if err := i.Cache.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("cache start failed: %w", err)
	}
	return nil
}

func newRegistry(db database.System) (*prometheus.Registry, *middleware.Metrics, error) {
	reg := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db.Connection(), "keepsake"),
	} {
		if err := reg.Register(c); err != nil {
			return nil, nil, err
		}
	}

	metrics, err := middleware.NewMetrics(reg)
	if err != nil {
		return nil, nil, err
	}
	return reg, metrics, nil
}
