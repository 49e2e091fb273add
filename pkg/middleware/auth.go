package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/keepsake/pkg/apperror"
	"github.com/JaimeStill/keepsake/pkg/handlers"
	"github.com/JaimeStill/keepsake/pkg/token"
)

type contextKey int

const (
	userIDKey contextKey = iota
	bearerKey
)

var (
	errMissingAuth = apperror.New(apperror.Unauthorized, "authorization header required")
	errAuthFormat  = apperror.New(apperror.Unauthorized, "invalid authorization format")
)

// TokenVerifier verifies a raw bearer token of the given kind.
type TokenVerifier interface {
	Verify(raw string, kind token.Kind) (*token.Claims, error)
}

// Authenticate returns middleware that requires a bearer token of the given kind.
// The token's user id and the raw token are stored on the request context.
func Authenticate(verifier TokenVerifier, kind token.Kind, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := bearer(r)
			if err != nil {
				handlers.RespondFailure(w, logger, err)
				return
			}

			claims, err := verifier.Verify(raw, kind)
			if err != nil {
				handlers.RespondFailure(w, logger, err)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			ctx = context.WithValue(ctx, bearerKey, raw)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user id from ctx.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

// BearerToken returns the raw bearer token accepted by Authenticate.
func BearerToken(ctx context.Context) (string, bool) {
	raw, ok := ctx.Value(bearerKey).(string)
	return raw, ok
}

func bearer(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errMissingAuth
	}

	scheme, raw, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
		return "", errAuthFormat
	}
	return strings.TrimSpace(raw), nil
}
