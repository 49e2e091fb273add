package main

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JaimeStill/keepsake/internal/api"
	"github.com/JaimeStill/keepsake/internal/config"
	"github.com/JaimeStill/keepsake/internal/infrastructure"
	"github.com/JaimeStill/keepsake/pkg/handlers"
	"github.com/JaimeStill/keepsake/pkg/module"
)

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{API: apiModule}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

type readiness struct {
	Status  string          `json:"status"`
	Systems map[string]bool `json:"systems"`
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		body := readiness{Status: "ready", Systems: infra.Lifecycle.Status()}
		status := http.StatusOK
		if !infra.Lifecycle.Ready() {
			body.Status = "not ready"
			status = http.StatusServiceUnavailable
		}
		handlers.RespondJSON(w, status, body)
	})

	router.Handle("GET /metrics", promhttp.HandlerFor(infra.Registry, promhttp.HandlerOpts{
		ErrorLog: slog.NewLogLogger(infra.Logger.Handler(), slog.LevelError),
	}))

	return router
}
