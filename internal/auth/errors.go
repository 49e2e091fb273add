package auth

import "github.com/JaimeStill/keepsake/pkg/apperror"

var (
	ErrInvalidCredentials = apperror.New(apperror.Unauthorized, "invalid email or password")
	ErrInactive           = apperror.New(apperror.Unauthorized, "account is inactive")
	ErrSessionInvalid     = apperror.New(apperror.Unauthorized, "session expired or revoked")
	ErrInvalidResetCode   = apperror.New(apperror.Unauthorized, "invalid or expired reset code")
	ErrUnauthenticated    = apperror.New(apperror.Unauthorized, "authentication required")
)
