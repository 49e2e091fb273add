package institutionproducts

import "github.com/JaimeStill/keepsake/pkg/apperror"

// Domain errors for institution-product operations.
var (
	ErrNotFound          = apperror.New(apperror.NotFound, "institution product not found")
	ErrReferenceNotFound = apperror.New(apperror.NotFound, "product or institution not found")
	ErrDuplicate         = apperror.New(apperror.Conflict, "institution product already exists")
	ErrInvalidID         = apperror.New(apperror.Validation, "invalid institution product id")
	ErrInvalidFlag       = apperror.New(apperror.Validation, "flag must be one of album, digital_files, photo_print, video, package")
)
