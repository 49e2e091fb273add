package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/keepsake/internal/users"
	"github.com/JaimeStill/keepsake/pkg/apperror"
	"github.com/JaimeStill/keepsake/pkg/cache"
	"github.com/JaimeStill/keepsake/pkg/mailer"
	"github.com/JaimeStill/keepsake/pkg/password"
	"github.com/JaimeStill/keepsake/pkg/token"
	"github.com/JaimeStill/keepsake/pkg/validation"
)

// Credentials is the subset of the user repository authentication needs.
type Credentials interface {
	FindByEmail(ctx context.Context, email string) (*users.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
}

// Profiles renders the public shape of a user.
type Profiles interface {
	Find(ctx context.Context, id uuid.UUID) (*users.Response, error)
}

// System defines the authentication use cases.
type System interface {
	Handler() *Handler

	Login(ctx context.Context, cmd LoginCommand) (*Session, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	Refresh(ctx context.Context, userID uuid.UUID, refreshToken string) (*AccessToken, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, cmd ResetCommand) error
	Me(ctx context.Context, userID uuid.UUID) (*users.Response, error)
}

// Dependencies groups the collaborators of the auth system.
type Dependencies struct {
	Credentials Credentials
	Profiles    Profiles
	Tokens      token.System
	Sessions    cache.System
	Mailer      mailer.System
	Hasher      password.Hasher
}

type system struct {
	creds    Credentials
	profiles Profiles
	tokens   token.System
	sessions cache.System
	mail     mailer.System
	hasher   password.Hasher
	resetTTL time.Duration
	logger   *slog.Logger
}

// New creates the auth system. Reset codes live for resetTTL.
func New(deps Dependencies, resetTTL time.Duration, logger *slog.Logger) System {
	return &system{
		creds:    deps.Credentials,
		profiles: deps.Profiles,
		tokens:   deps.Tokens,
		sessions: deps.Sessions,
		mail:     deps.Mailer,
		hasher:   deps.Hasher,
		resetTTL: resetTTL,
		logger:   logger.With("system", "auth"),
	}
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *system) Login(ctx context.Context, cmd LoginCommand) (*Session, error) {
	u, err := s.creds.FindByEmail(ctx, cmd.Email)
	if err != nil {
		if apperror.Is(err, apperror.NotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.hasher.Compare(u.PasswordHash, cmd.Password); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !u.Active() {
		return nil, ErrInactive
	}

	access, err := s.tokens.Issue(u.ID, token.Access)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.Issue(u.ID, token.Refresh)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Set(ctx, sessionKey(u.ID.String()), digest(refresh.Token), s.tokens.Lifetime(token.Refresh)); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	profile, err := s.profiles.Find(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", u.ID)

	return &Session{
		AccessToken: AccessToken{
			AccessToken: access.Token,
			TokenType:   tokenType,
			ExpiresAt:   access.ExpiresAt,
		},
		RefreshToken:     refresh.Token,
		RefreshExpiresAt: refresh.ExpiresAt,
		User:             profile,
	}, nil
}

func (s *system) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.sessions.Delete(ctx, sessionKey(userID.String())); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	s.logger.Info("user logged out", "user_id", userID)
	return nil
}

func (s *system) Refresh(ctx context.Context, userID uuid.UUID, refreshToken string) (*AccessToken, error) {
	claims, err := s.tokens.Verify(refreshToken, token.Refresh)
	if err != nil {
		return nil, err
	}
	if claims.UserID != userID {
		return nil, ErrSessionInvalid
	}

	stored, err := s.sessions.Get(ctx, sessionKey(userID.String()))
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return nil, ErrSessionInvalid
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(digest(refreshToken))) != 1 {
		return nil, ErrSessionInvalid
	}

	profile, err := s.profiles.Find(ctx, userID)
	if err != nil && !apperror.Is(err, apperror.NotFound) {
		return nil, err
	}
	if profile == nil || profile.Status != users.StatusActive {
		if err := s.sessions.Delete(ctx, sessionKey(userID.String())); err != nil {
			s.logger.Warn("stale session cleanup failed", "user_id", userID, "error", err)
		}
		return nil, ErrSessionInvalid
	}

	access, err := s.tokens.Issue(userID, token.Access)
	if err != nil {
		return nil, err
	}

	return &AccessToken{
		AccessToken: access.Token,
		TokenType:   tokenType,
		ExpiresAt:   access.ExpiresAt,
	}, nil
}

func (s *system) RequestPasswordReset(ctx context.Context, email string) error {
	email = users.NormalizeEmail(email)

	u, err := s.creds.FindByEmail(ctx, email)
	if err != nil {
		if apperror.Is(err, apperror.NotFound) {
			s.logger.Debug("password reset for unknown email")
			return nil
		}
		return err
	}
	if !u.Active() {
		s.logger.Debug("password reset for inactive user", "user_id", u.ID)
		return nil
	}

	code, err := resetCode()
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(code)
	if err != nil {
		return err
	}

	if err := s.sessions.Set(ctx, resetKey(email), hash, s.resetTTL); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}
	if err := s.sessions.Delete(ctx, attemptsKey(email)); err != nil {
		return fmt.Errorf("clear reset attempts: %w", err)
	}

	msg := mailer.Message{
		To:      email,
		Subject: "Your password reset code",
		Text: fmt.Sprintf(
			"Hello %s,\n\nYour password reset code is %s. It expires in %s.\n",
			u.Name, code, s.resetTTL,
		),
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return apperror.Wrap(apperror.Upstream, "reset email could not be sent", err)
	}

	s.logger.Info("password reset requested", "user_id", u.ID)
	return nil
}

func (s *system) ResetPassword(ctx context.Context, cmd ResetCommand) error {
	if err := validation.Struct(cmd); err != nil {
		return err
	}

	email := users.NormalizeEmail(cmd.Email)

	stored, err := s.sessions.Get(ctx, resetKey(email))
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return ErrInvalidResetCode
		}
		return fmt.Errorf("load reset code: %w", err)
	}

	if err := s.hasher.Compare(stored, cmd.Code); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return s.resetMiss(ctx, email)
		}
		return err
	}

	u, err := s.creds.FindByEmail(ctx, email)
	if err != nil {
		if apperror.Is(err, apperror.NotFound) {
			return ErrInvalidResetCode
		}
		return err
	}

	hash, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return err
	}
	if err := s.creds.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}

	for _, key := range []string{resetKey(email), attemptsKey(email)} {
		if err := s.sessions.Delete(ctx, key); err != nil {
			s.logger.Warn("reset code cleanup failed", "user_id", u.ID, "error", err)
		}
	}
	if err := s.sessions.Delete(ctx, sessionKey(u.ID.String())); err != nil {
		s.logger.Warn("session revoke failed after reset", "user_id", u.ID, "error", err)
	}

	s.logger.Info("password reset", "user_id", u.ID)
	return nil
}

// resetMiss counts a wrong code and burns the pending code once
// MaxResetAttempts is reached.
func (s *system) resetMiss(ctx context.Context, email string) error {
	n, err := s.sessions.Incr(ctx, attemptsKey(email), s.resetTTL)
	if err != nil {
		return fmt.Errorf("count reset attempt: %w", err)
	}
	if n < MaxResetAttempts {
		return ErrInvalidResetCode
	}

	for _, key := range []string{resetKey(email), attemptsKey(email)} {
		if err := s.sessions.Delete(ctx, key); err != nil {
			return fmt.Errorf("discard reset code: %w", err)
		}
	}
	s.logger.Warn("reset code discarded after failed attempts", "attempts", n)
	return ErrInvalidResetCode
}

func (s *system) Me(ctx context.Context, userID uuid.UUID) (*users.Response, error) {
	return s.profiles.Find(ctx, userID)
}

func digest(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

var codeSpace = big.NewInt(1_000_000)

func resetCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("generate reset code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
