// Package institutions implements the institution domain: contracted
// institutions, their ordered events, and the users attached to them.
package institutions

import (
	"time"

	"github.com/google/uuid"
)

// Institution is a contracted client with an ordered list of events.
type Institution struct {
	ID             uuid.UUID `json:"id"`
	ContractNumber string    `json:"contract_number"`
	Name           string    `json:"name"`
	Observations   *string   `json:"observations"`
	Events         []Event   `json:"events,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Event is a named occasion belonging to an institution. Position preserves
// the order events were supplied in.
type Event struct {
	ID            uuid.UUID `json:"id"`
	InstitutionID uuid.UUID `json:"institution_id"`
	Name          string    `json:"name"`
	Position      int       `json:"position"`
	CreatedAt     time.Time `json:"created_at"`
}

// Member summarizes a user associated with an institution.
type Member struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Status string    `json:"status"`
}

// Details is the eager aggregate returned by Find: the institution with its
// events and member users.
type Details struct {
	Institution
	Users []Member `json:"users"`
}

// EventInput names an event to create.
type EventInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

// CreateCommand carries the data needed to create an institution and its events.
type CreateCommand struct {
	ContractNumber string       `json:"contract_number" validate:"required,max=64"`
	Name           string       `json:"name" validate:"required,max=255"`
	Observations   *string      `json:"observations" validate:"omitempty,max=2000"`
	Events         []EventInput `json:"events" validate:"omitempty,dive"`
}

// UpdateCommand carries optional changes. Nil fields are left untouched.
// A non-nil Events slice, even an empty one, becomes the full event list.
// Events are matched to existing ones by name; matched events keep their ID
// and only unmatched ones are deleted.
type UpdateCommand struct {
	ContractNumber *string      `json:"contract_number" validate:"omitempty,min=1,max=64"`
	Name           *string      `json:"name" validate:"omitempty,min=1,max=255"`
	Observations   *string      `json:"observations" validate:"omitempty,max=2000"`
	Events         []EventInput `json:"events" validate:"omitempty,dive"`
}
