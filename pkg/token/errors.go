package token

import "github.com/JaimeStill/keepsake/pkg/apperror"

var (
	ErrInvalid   = apperror.New(apperror.Unauthorized, "invalid token")
	ErrExpired   = apperror.New(apperror.Unauthorized, "token expired")
	ErrWrongKind = apperror.New(apperror.Unauthorized, "wrong token type")
)
