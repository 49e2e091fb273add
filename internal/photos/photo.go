// Package photos manages the event photos attached to users. Photos are
// stored as object keys and always returned as signed read URLs.
package photos

import (
	"time"

	"github.com/google/uuid"
)

// Photo is the persisted record. Key is internal and never serialized.
type Photo struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	EventID   *uuid.UUID `json:"event_id"`
	Key       string     `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
}

// Response is the outward shape of a photo.
type Response struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	EventID   *uuid.UUID `json:"event_id"`
	URL       string     `json:"url"`
	ExpiresAt time.Time  `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// CreateCommand attaches an uploaded object to a user, optionally tagging an event.
// Key is the filename returned by the presigned upload endpoint.
type CreateCommand struct {
	EventID *uuid.UUID `json:"event_id"`
	Key     string     `json:"key" validate:"required,max=512"`
}
