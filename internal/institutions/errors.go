package institutions

import "github.com/JaimeStill/keepsake/pkg/apperror"

// Domain errors for institution operations.
var (
	ErrNotFound  = apperror.New(apperror.NotFound, "institution not found")
	ErrDuplicate = apperror.New(apperror.Conflict, "contract number already registered")
	ErrInvalidID = apperror.New(apperror.Validation, "invalid institution id")
)
