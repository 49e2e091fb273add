package photos

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/keepsake/internal/users"
	"github.com/JaimeStill/keepsake/pkg/apperror"
	"github.com/JaimeStill/keepsake/pkg/pagination"
	"github.com/JaimeStill/keepsake/pkg/storage"
)

// Owners resolves the users photos belong to.
type Owners interface {
	Find(ctx context.Context, id uuid.UUID) (*users.User, error)
}

// Blobs is the object storage surface used for photos.
type Blobs interface {
	SignedURL(key string, mode storage.Mode) (storage.Signed, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

// System defines the public contract for user event photo operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context, userID uuid.UUID, page pagination.PageRequest) (*pagination.PageResult[Response], error)
	Create(ctx context.Context, userID uuid.UUID, cmd CreateCommand) (*Response, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type system struct {
	repo       Repository
	owners     Owners
	blobs      Blobs
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the photo system.
func New(
	repo Repository,
	owners Owners,
	blobs Blobs,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &system{
		repo:       repo,
		owners:     owners,
		blobs:      blobs,
		logger:     logger.With("system", "photos"),
		pagination: pagination,
	}
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.logger, s.pagination)
}

func (s *system) List(ctx context.Context, userID uuid.UUID, page pagination.PageRequest) (*pagination.PageResult[Response], error) {
	page.Normalize(s.pagination)

	if _, err := s.owners.Find(ctx, userID); err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx, userID)
	if err != nil {
		return nil, err
	}

	var items []Response
	if !page.Beyond(total) {
		found, err := s.repo.List(ctx, userID, page)
		if err != nil {
			return nil, err
		}

		items = make([]Response, 0, len(found))
		for i := range found {
			resp, err := s.respond(&found[i])
			if err != nil {
				return nil, err
			}
			items = append(items, *resp)
		}
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (s *system) Create(ctx context.Context, userID uuid.UUID, cmd CreateCommand) (*Response, error) {
	if _, err := s.owners.Find(ctx, userID); err != nil {
		return nil, err
	}

	if !storage.UploadKey(cmd.Key) {
		return nil, ErrInvalidKey
	}
	used, err := s.repo.KeyInUse(ctx, cmd.Key)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, ErrKeyInUse
	}

	exists, err := s.blobs.Exists(ctx, cmd.Key)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrObjectMissing
	}

	p, err := s.repo.Create(ctx, userID, cmd)
	if err != nil {
		return nil, err
	}

	s.logger.Info("photo attached", "id", p.ID, "user_id", userID, "key", p.Key)
	return s.respond(p)
}

func (s *system) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.Find(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.HardDelete(ctx, id); err != nil {
		return err
	}

	used, err := s.repo.KeyInUse(ctx, p.Key)
	switch {
	case err != nil:
		s.logger.Warn("key reference check failed, keeping blob", "key", p.Key, "error", err)
	case used:
		s.logger.Warn("blob still referenced after photo delete", "key", p.Key)
	default:
		if err := s.blobs.Delete(ctx, p.Key); err != nil {
			s.logger.Warn("blob delete failed after photo delete", "key", p.Key, "error", err)
		}
	}

	s.logger.Info("photo deleted", "id", id)
	return nil
}

func (s *system) respond(p *Photo) (*Response, error) {
	signed, err := s.blobs.SignedURL(p.Key, storage.Read)
	if err != nil {
		return nil, apperror.Wrap(apperror.Upstream, "photo unavailable", err)
	}

	return &Response{
		ID:        p.ID,
		UserID:    p.UserID,
		EventID:   p.EventID,
		URL:       signed.URL,
		ExpiresAt: signed.ExpiresAt,
		CreatedAt: p.CreatedAt,
	}, nil
}
