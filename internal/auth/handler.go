package auth

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/keepsake/pkg/handlers"
	"github.com/JaimeStill/keepsake/pkg/middleware"
	"github.com/JaimeStill/keepsake/pkg/routes"
)

// Handler provides HTTP endpoints for authentication.
type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "auth"),
	}
}

// PublicRoutes returns endpoints reachable without a token.
func (h *Handler) PublicRoutes() routes.Group {
	return routes.Group{
		Prefix: "/auth",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/login", Handler: h.Login},
			{Method: "POST", Pattern: "/password/forgot", Handler: h.Forgot},
			{Method: "POST", Pattern: "/password/reset", Handler: h.Reset},
		},
	}
}

// Routes returns endpoints that require an access token.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/auth",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/logout", Handler: h.Logout},
			{Method: "GET", Pattern: "/me", Handler: h.Me},
		},
	}
}

// RefreshRoutes returns endpoints that require a refresh token.
func (h *Handler) RefreshRoutes() routes.Group {
	return routes.Group{
		Prefix: "/auth",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/refresh", Handler: h.Refresh},
		},
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	cmd, err := handlers.Decode[LoginCommand](r)
	if err != nil {
		handlers.RespondFailure(w, h.logger, err)
		return
	}

	session, err := h.sys.Login(r.Context(), cmd)
	if err != nil {
		handlers.RespondFailure(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, session)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondFailure(w, h.logger, ErrUnauthenticated)
		return
	}

	if err := h.sys.Logout(r.Context(), userID); err != nil {
		handlers.RespondFailure(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	raw, hasToken := middleware.BearerToken(r.Context())
	if !ok || !hasToken {
		handlers.RespondFailure(w, h.logger, ErrUnauthenticated)
		return
	}

	access, err := h.sys.Refresh(r.Context(), userID, raw)
	if err != nil {
		handlers.RespondFailure(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, access)
}

func (h *Handler) Forgot(w http.ResponseWriter, r *http.Request) {
	cmd, err := handlers.Decode[ForgotCommand](r)
	if err != nil {
		handlers.RespondFailure(w, h.logger, err)
		return
	}

	if err := h.sys.RequestPasswordReset(r.Context(), cmd.Email); err != nil {
		handlers.RespondFailure(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	cmd, err := handlers.Decode[ResetCommand](r)
	if err != nil {
		handlers.RespondFailure(w, h.logger, err)
		return
	}

	if err := h.sys.ResetPassword(r.Context(), cmd); err != nil {
		handlers.RespondFailure(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondFailure(w, h.logger, ErrUnauthenticated)
		return
	}

	profile, err := h.sys.Me(r.Context(), userID)
	if err != nil {
		handlers.RespondFailure(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, profile)
}
