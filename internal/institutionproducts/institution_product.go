// Package institutionproducts implements the tagged association between
// institutions and the products contracted for them.
package institutionproducts

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/keepsake/internal/products"
)

// InstitutionProduct links a product to an institution. Details is free-form
// configuration interpreted relative to Flag.
type InstitutionProduct struct {
	ID            uuid.UUID      `json:"id"`
	ProductID     uuid.UUID      `json:"product_id"`
	InstitutionID uuid.UUID      `json:"institution_id"`
	Flag          products.Flag  `json:"flag"`
	Details       map[string]any `json:"details"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// ProductSummary is the product portion of a detailed association.
type ProductSummary struct {
	ID   uuid.UUID     `json:"id"`
	Name string        `json:"name"`
	Flag products.Flag `json:"flag"`
}

// InstitutionSummary is the institution portion of a detailed association.
type InstitutionSummary struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	ContractNumber string    `json:"contract_number"`
}

// Detailed is an association with its product and institution summaries.
type Detailed struct {
	ID          uuid.UUID          `json:"id"`
	Flag        products.Flag      `json:"flag"`
	Details     map[string]any     `json:"details"`
	Product     ProductSummary     `json:"product"`
	Institution InstitutionSummary `json:"institution"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// CreateCommand carries the data needed to link a product to an institution.
type CreateCommand struct {
	ProductID     uuid.UUID      `json:"product_id" validate:"required"`
	InstitutionID uuid.UUID      `json:"institution_id" validate:"required"`
	Flag          products.Flag  `json:"flag" validate:"required"`
	Details       map[string]any `json:"details"`
}
