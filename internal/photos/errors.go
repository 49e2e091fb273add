package photos

import "github.com/JaimeStill/keepsake/pkg/apperror"

// Domain errors for photo operations.
var (
	ErrNotFound      = apperror.New(apperror.NotFound, "photo not found")
	ErrDuplicate     = apperror.New(apperror.Conflict, "photo already registered")
	ErrEventNotFound = apperror.New(apperror.NotFound, "event not found")
	ErrObjectMissing = apperror.New(apperror.Validation, "no uploaded object exists for key")
	ErrInvalidKey    = apperror.New(apperror.Validation, "key must be issued for upload")
	ErrKeyInUse      = apperror.New(apperror.Conflict, "key is already attached")
	ErrInvalidID     = apperror.New(apperror.Validation, "invalid id")
)
