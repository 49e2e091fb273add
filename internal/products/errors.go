package products

import "github.com/JaimeStill/keepsake/pkg/apperror"

// Domain errors for product operations.
var (
	ErrNotFound  = apperror.New(apperror.NotFound, "product not found")
	ErrDuplicate = apperror.New(apperror.Conflict, "product already exists")
	ErrInvalidID = apperror.New(apperror.Validation, "invalid product id")
)
