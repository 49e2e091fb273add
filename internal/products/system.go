package products

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/keepsake/pkg/pagination"
)

// System defines the public contract for product domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Product], error)

	Find(ctx context.Context, id uuid.UUID) (*Product, error)
	Create(ctx context.Context, cmd CreateCommand) (*Product, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type system struct {
	repo       Repository
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the product system over the given repository.
func New(repo Repository, logger *slog.Logger, pagination pagination.Config) System {
	return &system{
		repo:       repo,
		logger:     logger.With("system", "products"),
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
) (*pagination.PageResult[Product], error) {
	page.Normalize(s.pagination)

	total, err := s.repo.Count(ctx, page, filters)
	if err != nil {
		return nil, err
	}

	var items []Product
	if !page.Beyond(total) {
		if items, err = s.repo.List(ctx, page, filters); err != nil {
			return nil, err
		}
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (s *system) Find(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.Find(ctx, id)
}

func (s *system) Create(ctx context.Context, cmd CreateCommand) (*Product, error) {
	p, err := s.repo.Create(ctx, cmd)
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created", "id", p.ID, "flag", p.Flag)
	return p, nil
}

func (s *system) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Product, error) {
	if _, err := s.repo.Find(ctx, id); err != nil {
		return nil, err
	}

	p, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.logger.Info("product updated", "id", id)
	return p, nil
}

func (s *system) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.Find(ctx, id); err != nil {
		return err
	}

	if err := s.repo.HardDelete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("product deleted", "id", id)
	return nil
}
