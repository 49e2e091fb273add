package users

import "github.com/JaimeStill/keepsake/pkg/apperror"

// Domain errors for user operations.
var (
	ErrNotFound            = apperror.New(apperror.NotFound, "user not found")
	ErrDuplicate           = apperror.New(apperror.Conflict, "email already registered")
	ErrInstitutionNotFound = apperror.New(apperror.NotFound, "institution not found")
	ErrInvalidID           = apperror.New(apperror.Validation, "invalid user id")
	ErrInactive            = apperror.New(apperror.InvalidState, "user is already inactive")
	ErrDeleteFailed        = apperror.New(apperror.Internal, "user could not be deleted")
	ErrImageKey            = apperror.New(apperror.Validation, "profile_image must be a key issued for upload")
	ErrImageMissing        = apperror.New(apperror.Validation, "no uploaded object exists for profile_image")
	ErrImageInUse          = apperror.New(apperror.Conflict, "profile_image is already in use")
)
