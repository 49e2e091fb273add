// Package handlers provides JSON response helpers shared by HTTP handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/keepsake/pkg/apperror"
	"github.com/JaimeStill/keepsake/pkg/validation"
)

// ErrorResponse is the JSON body written for failed requests.
type ErrorResponse struct {
	Error  string                 `json:"error"`
	Fields validation.FieldErrors `json:"fields,omitempty"`
}

// RespondJSON writes data as JSON with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs err and writes it as a JSON error body with the given status code.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Debug("request rejected", "status", status, "error", err)
	}

	RespondJSON(w, status, ErrorResponse{
		Error:  err.Error(),
		Fields: validation.Fields(err),
	})
}

// RespondFailure writes err with the status derived from its apperror kind.
func RespondFailure(w http.ResponseWriter, logger *slog.Logger, err error) {
	RespondError(w, logger, apperror.HTTPStatus(err), err)
}

// Decode reads a JSON request body into T and validates it.
// Decode failures are reported as validation errors.
func Decode[T any](r *http.Request) (T, error) {
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		return v, apperror.Wrap(apperror.Validation, "invalid request body", err)
	}
	if err := validation.Struct(v); err != nil {
		return v, err
	}
	return v, nil
}
