package users

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/keepsake/pkg/query"
	"github.com/JaimeStill/keepsake/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "users", "u").
	Project("id", "ID").
	Project("institution_id", "InstitutionID").
	Project("name", "Name").
	Project("email", "Email").
	Project("phone", "Phone").
	Project("password_hash", "PasswordHash").
	Project("profile_image", "ProfileImage").
	Project("status", "Status").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "Name"}

// Filters contains optional filtering criteria for user queries.
type Filters struct {
	Status        *string    `json:"status,omitempty"`
	InstitutionID *uuid.UUID `json:"institution_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("InstitutionID", f.InstitutionID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s == string(StatusActive) || s == string(StatusInactive) {
		f.Status = &s
	}
	if id, err := uuid.Parse(values.Get("institution_id")); err == nil {
		f.InstitutionID = &id
	}

	return f
}

func scanUser(s repository.Scanner) (User, error) {
	var u User
	err := s.Scan(
		&u.ID,
		&u.InstitutionID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&u.PasswordHash,
		&u.ProfileImage,
		&u.Status,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}
