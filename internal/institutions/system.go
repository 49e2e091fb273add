package institutions

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/keepsake/pkg/pagination"
)

// System defines the public contract for institution domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Institution], error)

	Find(ctx context.Context, id uuid.UUID) (*Details, error)
	Create(ctx context.Context, cmd CreateCommand) (*Institution, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Institution, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type system struct {
	repo       Repository
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the institution system over the given repository.
func New(repo Repository, logger *slog.Logger, pagination pagination.Config) System {
	return &system{
		repo:       repo,
		logger:     logger.With("system", "institutions"),
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
) (*pagination.PageResult[Institution], error) {
	page.Normalize(s.pagination)

	total, err := s.repo.Count(ctx, page, filters)
	if err != nil {
		return nil, err
	}

	var items []Institution
	if !page.Beyond(total) {
		if items, err = s.repo.List(ctx, page, filters); err != nil {
			return nil, err
		}
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (s *system) Find(ctx context.Context, id uuid.UUID) (*Details, error) {
	inst, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		events  []Event
		members []Member
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if events, err = s.repo.Events(gctx, id); err != nil {
			return fmt.Errorf("load events: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if members, err = s.repo.Members(gctx, id); err != nil {
			return fmt.Errorf("load users: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if events == nil {
		events = []Event{}
	}
	if members == nil {
		members = []Member{}
	}
	inst.Events = events

	return &Details{Institution: *inst, Users: members}, nil
}

func (s *system) Create(ctx context.Context, cmd CreateCommand) (*Institution, error) {
	inst, err := s.repo.Create(ctx, cmd)
	if err != nil {
		return nil, err
	}

	s.logger.Info("institution created", "id", inst.ID, "contract_number", inst.ContractNumber)
	return inst, nil
}

func (s *system) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Institution, error) {
	if _, err := s.repo.Find(ctx, id); err != nil {
		return nil, err
	}

	inst, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.logger.Info("institution updated", "id", id)
	return inst, nil
}

func (s *system) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.Find(ctx, id); err != nil {
		return err
	}

	if err := s.repo.HardDelete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("institution deleted", "id", id)
	return nil
}
