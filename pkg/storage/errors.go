package storage

import "github.com/JaimeStill/keepsake/pkg/apperror"

var (
	// ErrNotFound indicates the requested blob does not exist.
	ErrNotFound = apperror.New(apperror.NotFound, "blob not found")
	// ErrEmptyKey indicates an empty storage key was provided.
	ErrEmptyKey = apperror.New(apperror.Validation, "storage key must not be empty")
	// ErrInvalidKey indicates the storage key contains a path traversal segment.
	ErrInvalidKey = apperror.New(apperror.Validation, "storage key contains invalid path segment")
	// ErrUnsupportedContentType indicates uploads of the content type are not accepted.
	ErrUnsupportedContentType = apperror.New(apperror.Validation, "unsupported content type")
)
