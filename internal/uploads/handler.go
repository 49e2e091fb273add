package uploads

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/keepsake/pkg/handlers"
	"github.com/JaimeStill/keepsake/pkg/routes"
)

type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "uploads"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/uploads",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/presigned-url", Handler: h.Presign},
		},
	}
}

func (h *Handler) Presign(w http.ResponseWriter, r *http.Request) {
	cmd, err := handlers.Decode[PresignCommand](r)
	if err != nil {
		handlers.RespondFailure(w, h.logger, err)
		return
	}

	presigned, err := h.sys.GeneratePresignedURL(cmd.ContentType)
	if err != nil {
		handlers.RespondFailure(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, presigned)
}
