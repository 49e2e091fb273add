package institutions

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/keepsake/pkg/handlers"
	"github.com/JaimeStill/keepsake/pkg/pagination"
	"github.com/JaimeStill/keepsake/pkg/routes"
)

// Handler provides HTTP endpoints for institution operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "institutions"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for institution endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/institutions",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// List returns a page of institutions. The search parameter matches contract numbers.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondFailure(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns an institution with its events and users.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondFailure(w, h.logger, ErrInvalidID)
		return
	}

	details, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondFailure(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, details)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	cmd, err := handlers.Decode[CreateCommand](r)
	if err != nil {
		handlers.RespondFailure(w, h.logger, err)
		return
	}

	inst, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondFailure(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, inst)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondFailure(w, h.logger, ErrInvalidID)
		return
	}

	cmd, err := handlers.Decode[UpdateCommand](r)
	if err != nil {
		handlers.RespondFailure(w, h.logger, err)
		return
	}

	inst, err := h.sys.Update(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondFailure(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, inst)
}

// Delete permanently removes an institution and its events.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondFailure(w, h.logger, ErrInvalidID)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondFailure(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
