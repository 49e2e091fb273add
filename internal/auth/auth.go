// Package auth implements credential login, refresh sessions, and
// password reset codes on top of the user domain.
package auth

import (
	"time"

	"github.com/JaimeStill/keepsake/internal/users"
)

// LoginCommand carries user credentials.
type LoginCommand struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotCommand requests a password reset code for an email address.
type ForgotCommand struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetCommand redeems a reset code for a new password.
type ResetCommand struct {
	Email    string `json:"email" validate:"required,email"`
	Code     string `json:"code" validate:"required,len=6,numeric"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// AccessToken is a freshly issued bearer token.
type AccessToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Session is the result of a successful login.
type Session struct {
	AccessToken
	RefreshToken     string          `json:"refresh_token"`
	RefreshExpiresAt time.Time       `json:"refresh_expires_at"`
	User             *users.Response `json:"user"`
}

const tokenType = "Bearer"

// MaxResetAttempts is the number of wrong codes that discards a pending reset.
const MaxResetAttempts = 5

func sessionKey(id string) string {
	return "session:" + id
}

func resetKey(email string) string {
	return "reset:" + email
}

func attemptsKey(email string) string {
	return resetKey(email) + ":attempts"
}
