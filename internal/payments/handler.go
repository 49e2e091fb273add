package payments

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/keepsake/pkg/handlers"
	"github.com/JaimeStill/keepsake/pkg/payment"
	"github.com/JaimeStill/keepsake/pkg/routes"
)

type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "payments"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/payments",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/preferences", Handler: h.CreatePreference},
		},
	}
}

func (h *Handler) CreatePreference(w http.ResponseWriter, r *http.Request) {
	pref, err := handlers.Decode[payment.Preference](r)
	if err != nil {
		handlers.RespondFailure(w, h.logger, err)
		return
	}

	result, err := h.sys.CreatePreference(r.Context(), pref)
	if err != nil {
		handlers.RespondFailure(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}
