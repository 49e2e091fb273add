package institutionproducts

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/keepsake/pkg/pagination"
)

// System defines the public contract for institution-product operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Detailed], error)

	// Find returns the association with nested product and institution summaries.
	Find(ctx context.Context, id uuid.UUID) (*Detailed, error)
	// Create links an existing product to an existing institution and returns
	// the narrow projection carrying only their ids.
	Create(ctx context.Context, cmd CreateCommand) (*InstitutionProduct, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type system struct {
	repo       Repository
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the institution-product system over the given repository.
func New(repo Repository, logger *slog.Logger, pagination pagination.Config) System {
	return &system{
		repo:       repo,
		logger:     logger.With("system", "institution_products"),
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
) (*pagination.PageResult[Detailed], error) {
	page.Normalize(s.pagination)

	total, err := s.repo.Count(ctx, page, filters)
	if err != nil {
		return nil, err
	}

	var items []Detailed
	if !page.Beyond(total) {
		if items, err = s.repo.List(ctx, page, filters); err != nil {
			return nil, err
		}
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (s *system) Find(ctx context.Context, id uuid.UUID) (*Detailed, error) {
	return s.repo.Find(ctx, id)
}

func (s *system) Create(ctx context.Context, cmd CreateCommand) (*InstitutionProduct, error) {
	if !cmd.Flag.Valid() {
		return nil, ErrInvalidFlag
	}

	ip, err := s.repo.Create(ctx, cmd)
	if err != nil {
		return nil, err
	}

	s.logger.Info("institution product created",
		"id", ip.ID,
		"product_id", ip.ProductID,
		"institution_id", ip.InstitutionID,
		"flag", ip.Flag,
	)
	return ip, nil
}

func (s *system) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.Find(ctx, id); err != nil {
		return err
	}

	if err := s.repo.HardDelete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("institution product deleted", "id", id)
	return nil
}
