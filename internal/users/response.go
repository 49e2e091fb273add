package users

import (
	"time"

	"github.com/google/uuid"
)

// Response is the outward shape of a user. The stored profile image key is
// replaced by a time-limited signed URL.
type Response struct {
	ID              uuid.UUID  `json:"id"`
	InstitutionID   *uuid.UUID `json:"institution_id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Phone           *string    `json:"phone"`
	ProfileImageURL *string    `json:"profile_image_url"`
	Status          Status     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func newResponse(u *User, imageURL *string) *Response {
	return &Response{
		ID:              u.ID,
		InstitutionID:   u.InstitutionID,
		Name:            u.Name,
		Email:           u.Email,
		Phone:           u.Phone,
		ProfileImageURL: imageURL,
		Status:          u.Status,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}
