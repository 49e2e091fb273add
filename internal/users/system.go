package users

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/keepsake/pkg/apperror"
	"github.com/JaimeStill/keepsake/pkg/pagination"
	"github.com/JaimeStill/keepsake/pkg/password"
	"github.com/JaimeStill/keepsake/pkg/storage"
)

// Blobs is the object storage surface used for profile images.
type Blobs interface {
	SignedURL(key string, mode storage.Mode) (storage.Signed, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

// System defines the public contract for user domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Response], error)

	// Find returns the user with profile_image_url signed for reading.
	Find(ctx context.Context, id uuid.UUID) (*Response, error)
	Create(ctx context.Context, cmd CreateCommand) (*Response, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Response, error)
	// Delete permanently removes an active user. Inactive users are refused
	// with ErrInactive; a delete that affects no rows is ErrDeleteFailed.
	Delete(ctx context.Context, id uuid.UUID) error
}

type system struct {
	repo       Repository
	blobs      Blobs
	hasher     password.Hasher
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the user system.
func New(
	repo Repository,
	blobs Blobs,
	hasher password.Hasher,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &system{
		repo:       repo,
		blobs:      blobs,
		hasher:     hasher,
		logger:     logger.With("system", "users"),
		pagination: pagination,
	}
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.logger, s.pagination)
}

func (s *system) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Response], error) {
	page.Normalize(s.pagination)

	total, err := s.repo.Count(ctx, page, filters)
	if err != nil {
		return nil, err
	}

	var items []Response
	if !page.Beyond(total) {
		found, err := s.repo.List(ctx, page, filters)
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

func (s *system) Find(ctx context.Context, id uuid.UUID) (*Response, error) {
	u, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(u)
}

func (s *system) Create(ctx context.Context, cmd CreateCommand) (*Response, error) {
	if err := s.claimImage(ctx, cmd.ProfileImage, nil); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.Create(ctx, Record{
		InstitutionID: cmd.InstitutionID,
		Name:          cmd.Name,
		Email:         NormalizeEmail(cmd.Email),
		Phone:         cmd.Phone,
		PasswordHash:  hash,
		ProfileImage:  cmd.ProfileImage,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created", "id", u.ID)
	return s.respond(u)
}

func (s *system) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Response, error) {
	current, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.claimImage(ctx, cmd.ProfileImage, current.ProfileImage); err != nil {
		return nil, err
	}

	u, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user updated", "id", id)
	return s.respond(u)
}

func (s *system) Delete(ctx context.Context, id uuid.UUID) error {
	u, err := s.repo.Find(ctx, id)
	if err != nil {
		return err
	}

	if !u.Active() {
		return ErrInactive
	}

	// photo rows cascade with the user, so their keys are read first
	keys, err := s.repo.PhotoKeys(ctx, id)
	if err != nil {
		return err
	}

	affected, err := s.repo.HardDelete(ctx, id)
	if err != nil {
		return err
	}
	if affected <= 0 {
		return ErrDeleteFailed
	}

	if u.ProfileImage != nil {
		keys = append(keys, *u.ProfileImage)
	}
	for _, key := range keys {
		if err := s.blobs.Delete(ctx, key); err != nil {
			s.logger.Warn("blob delete failed after user delete",
				"id", id,
				"key", key,
				"error", err,
			)
		}
	}

	s.logger.Info("user deleted", "id", id)
	return nil
}

// claimImage admits key as a profile image when it is an unreferenced
// uploaded object. Keeping the current key or clearing it with "" is
// always allowed.
func (s *system) claimImage(ctx context.Context, key, current *string) error {
	if key == nil || *key == "" || (current != nil && *key == *current) {
		return nil
	}
	if !storage.UploadKey(*key) {
		return ErrImageKey
	}

	used, err := s.repo.KeyInUse(ctx, *key)
	if err != nil {
		return err
	}
	if used {
		return ErrImageInUse
	}

	exists, err := s.blobs.Exists(ctx, *key)
	if err != nil {
		return err
	}
	if !exists {
		return ErrImageMissing
	}
	return nil
}

func (s *system) respond(u *User) (*Response, error) {
	if u.ProfileImage == nil || *u.ProfileImage == "" {
		return newResponse(u, nil), nil
	}

	signed, err := s.blobs.SignedURL(*u.ProfileImage, storage.Read)
	if err != nil {
		return nil, apperror.Wrap(apperror.Upstream, "profile image unavailable", err)
	}
	return newResponse(u, &signed.URL), nil
}
