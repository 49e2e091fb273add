package uploads

import (
	"log/slog"

	"github.com/JaimeStill/keepsake/pkg/storage"
	"github.com/JaimeStill/keepsake/pkg/validation"
)

// Signer derives upload keys and signs write URLs for them.
type Signer interface {
	RandomFilename(contentType string) (string, error)
	UploadURL(key, contentType string) (storage.Signed, error)
}

// System defines the upload use cases.
type System interface {
	Handler() *Handler
	GeneratePresignedURL(contentType string) (*Presigned, error)
}

type system struct {
	signer Signer
	logger *slog.Logger
}

func New(signer Signer, logger *slog.Logger) System {
	return &system{
		signer: signer,
		logger: logger.With("system", "uploads"),
	}
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *system) GeneratePresignedURL(contentType string) (*Presigned, error) {
	if err := validation.Var("content_type", contentType, "required"); err != nil {
		return nil, err
	}
	if !storage.Supported(contentType) {
		return nil, storage.ErrUnsupportedContentType
	}

	filename, err := s.signer.RandomFilename(contentType)
	if err != nil {
		return nil, err
	}

	signed, err := s.signer.UploadURL(filename, contentType)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("upload url issued", "filename", filename, "expires_at", signed.ExpiresAt)

	return &Presigned{
		UploadURL: signed.URL,
		Filename:  filename,
		ExpiresAt: signed.ExpiresAt,
		Headers:   signed.Headers,
	}, nil
}
