// Package users implements the user domain: registration, profiles,
// status gating, and the credential lookups used by authentication.
package users

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status gates a user's availability. Deletion is refused for inactive users.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// User is the persisted user record. PasswordHash and ProfileImage are
// internal and never serialized.
type User struct {
	ID            uuid.UUID  `json:"id"`
	InstitutionID *uuid.UUID `json:"institution_id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         *string    `json:"phone"`
	PasswordHash  string     `json:"-"`
	ProfileImage  *string    `json:"-"`
	Status        Status     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Active reports whether the user may sign in and be deleted.
func (u *User) Active() bool {
	return u.Status == StatusActive
}

// CreateCommand carries a registration request.
type CreateCommand struct {
	InstitutionID *uuid.UUID `json:"institution_id"`
	Name          string     `json:"name" validate:"required,max=255"`
	Email         string     `json:"email" validate:"required,email,max=255"`
	Phone         *string    `json:"phone" validate:"omitempty,max=32"`
	Password      string     `json:"password" validate:"required,min=6,max=128"`
	ProfileImage  *string    `json:"profile_image" validate:"omitempty,max=512"`
}

// UpdateCommand carries optional profile changes. Nil fields are left untouched.
type UpdateCommand struct {
	InstitutionID *uuid.UUID `json:"institution_id"`
	Name          *string    `json:"name" validate:"omitempty,min=1,max=255"`
	Phone         *string    `json:"phone" validate:"omitempty,max=32"`
	ProfileImage  *string    `json:"profile_image" validate:"omitempty,max=512"`
	Status        *Status    `json:"status" validate:"omitempty,oneof=active inactive"`
}

// Record is the insert payload produced from a CreateCommand once the
// password has been hashed.
type Record struct {
	InstitutionID *uuid.UUID
	Name          string
	Email         string
	Phone         *string
	PasswordHash  string
	ProfileImage  *string
}

// NormalizeEmail lowercases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
