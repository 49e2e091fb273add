// Package products implements the product catalog domain.
package products

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Flag categorizes a product. Institution-product links carry the same categories.
type Flag string

const (
	FlagAlbum        Flag = "album"
	FlagDigitalFiles Flag = "digital_files"
	FlagPhotoPrint   Flag = "photo_print"
	FlagVideo        Flag = "video"
	FlagPackage      Flag = "package"
)

// Flags lists every valid product category.
var Flags = []Flag{FlagAlbum, FlagDigitalFiles, FlagPhotoPrint, FlagVideo, FlagPackage}

// Valid reports whether f is one of Flags.
func (f Flag) Valid() bool {
	return slices.Contains(Flags, f)
}

// Product is a sellable item. Photos and Videos hold media references.
type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Flag        Flag      `json:"flag"`
	Description string    `json:"description"`
	Photos      []string  `json:"photos"`
	Videos      []string  `json:"videos"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to create a product.
type CreateCommand struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Flag        Flag     `json:"flag" validate:"required,oneof=album digital_files photo_print video package"`
	Description string   `json:"description" validate:"max=5000"`
	Photos      []string `json:"photos" validate:"omitempty,dive,required"`
	Videos      []string `json:"videos" validate:"omitempty,dive,required"`
}

// UpdateCommand carries optional changes. Nil fields are left untouched;
// non-nil media lists replace the stored lists.
type UpdateCommand struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Flag        *Flag    `json:"flag" validate:"omitempty,oneof=album digital_files photo_print video package"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	Photos      []string `json:"photos" validate:"omitempty,dive,required"`
	Videos      []string `json:"videos" validate:"omitempty,dive,required"`
}
