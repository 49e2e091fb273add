package main

import (
	"context"
	"fmt"
	"time"

	"github.com/JaimeStill/keepsake/internal/config"
	"github.com/JaimeStill/keepsake/internal/infrastructure"
)

// Server owns the infrastructure, the mounted modules and the HTTP listener.
type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	http    *httpServer
	version string
	env     string
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	modules.Mount(router)

	return &Server{
		infra:   infra,
		modules: modules,
		http:    newHTTPServer(&cfg.Server, router, infra.Logger),
		version: cfg.Version,
		env:     cfg.Env(),
	}, nil
}

// Run starts every subsystem, serves until ctx is cancelled, then drains
// within timeout.
func (s *Server) Run(ctx context.Context, timeout time.Duration) error {
	logger := s.infra.Logger
	logger.Info("keepsake starting", "version", s.version, "env", s.env, "modules", s.modules.API.Prefix())

	if err := s.infra.Start(); err != nil {
		return err
	}
	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		logger.Info("subsystems started", "status", s.infra.Lifecycle.Status())
	}()

	<-ctx.Done()
	logger.Info("initiating shutdown", "timeout", timeout)

	if err := s.infra.Lifecycle.Shutdown(timeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("keepsake stopped")
	return nil
}
