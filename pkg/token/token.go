// Package token issues and verifies HMAC-signed JWT access and refresh tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind distinguishes access tokens from refresh tokens.
type Kind string

const (
	Access  Kind = "access"
	Refresh Kind = "refresh"
)

// Claims is the verified content of a token.
type Claims struct {
	UserID    uuid.UUID
	Kind      Kind
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issued is a signed token with its expiry.
type Issued struct {
	Token     string
	ExpiresAt time.Time
}

// System issues and verifies tokens.
type System interface {
	Issue(userID uuid.UUID, kind Kind) (Issued, error)
	Verify(raw string, kind Kind) (*Claims, error)
	Lifetime(kind Kind) time.Duration
}

type claims struct {
	Kind Kind `json:"typ"`
	jwt.RegisteredClaims
}

type service struct {
	secret  []byte
	issuer  string
	access  time.Duration
	refresh time.Duration
	leeway  time.Duration
	now     func() time.Time
}

// Option customizes a token System.
type Option func(*service)

// WithClock replaces time.Now for issuing and verifying tokens.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New creates a token System from a finalized Config.
func New(cfg *Config, opts ...Option) System {
	s := &service{
		secret:  []byte(cfg.Secret),
		issuer:  cfg.Issuer,
		access:  cfg.AccessTTLDuration(),
		refresh: cfg.RefreshTTLDuration(),
		leeway:  cfg.LeewayDuration(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Lifetime(kind Kind) time.Duration {
	if kind == Refresh {
		return s.refresh
	}
	return s.access
}

func (s *service) Issue(userID uuid.UUID, kind Kind) (Issued, error) {
	now := s.now()
	expires := now.Add(s.Lifetime(kind))

	c := claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return Issued{}, fmt.Errorf("sign %s token: %w", kind, err)
	}

	return Issued{Token: signed, ExpiresAt: expires}, nil
}

func (s *service) Verify(raw string, kind Kind) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(
		raw,
		&claims{},
		func(t *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(s.issuer),
		jwt.WithLeeway(s.leeway),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalid
	}
	if c.Kind != kind {
		return nil, ErrWrongKind
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, ErrInvalid
	}

	return &Claims{
		UserID:    userID,
		Kind:      c.Kind,
		ID:        c.ID,
		IssuedAt:  c.IssuedAt.Time,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}
