package products

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/keepsake/pkg/pagination"
	"github.com/JaimeStill/keepsake/pkg/query"
	"github.com/JaimeStill/keepsake/pkg/repository"
)

// Repository persists products.
type Repository interface {
	Find(ctx context.Context, id uuid.UUID) (*Product, error)
	Count(ctx context.Context, page pagination.PageRequest, filters Filters) (int, error)
	List(ctx context.Context, page pagination.PageRequest, filters Filters) ([]Product, error)
	Create(ctx context.Context, cmd CreateCommand) (*Product, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Product, error)
	HardDelete(ctx context.Context, id uuid.UUID) error
}

type sqlRepository struct {
	db *sql.DB
}

// NewRepository creates a PostgreSQL-backed product repository.
func NewRepository(db *sql.DB) Repository {
	return &sqlRepository{db: db}
}

const returning = `RETURNING id, name, flag, description, photos, videos, created_at, updated_at`

func (r *sqlRepository) Find(ctx context.Context, id uuid.UUID) (*Product, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanProduct)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *sqlRepository) builder(page pagination.PageRequest, filters Filters) *query.Builder {
	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}
	return qb
}

func (r *sqlRepository) Count(ctx context.Context, page pagination.PageRequest, filters Filters) (int, error) {
	q, args := r.builder(page, filters).BuildCount()

	var total int
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return total, nil
}

func (r *sqlRepository) List(ctx context.Context, page pagination.PageRequest, filters Filters) ([]Product, error) {
	q, args := r.builder(page, filters).BuildPage(page.Page, page.PageSize)

	items, err := repository.QueryMany(ctx, r.db, q, args, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	return items, nil
}

func (r *sqlRepository) Create(ctx context.Context, cmd CreateCommand) (*Product, error) {
	photos, videos := cmd.Photos, cmd.Videos
	if photos == nil {
		photos = []string{}
	}
	if videos == nil {
		videos = []string{}
	}

	p, err := repository.QueryOne(ctx, r.db, `
		INSERT INTO products(id, name, flag, description, photos, videos)
		VALUES ($1, $2, $3, $4, $5, $6)
		`+returning,
		[]any{uuid.New(), cmd.Name, string(cmd.Flag), cmd.Description, photos, videos},
		scanProduct,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *sqlRepository) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Product, error) {
	var flag *string
	if cmd.Flag != nil {
		s := string(*cmd.Flag)
		flag = &s
	}

	p, err := repository.QueryOne(ctx, r.db, `
		UPDATE products SET
			name = COALESCE($2, name),
			flag = COALESCE($3, flag),
			description = COALESCE($4, description),
			photos = COALESCE($5, photos),
			videos = COALESCE($6, videos),
			updated_at = NOW()
		WHERE id = $1
		`+returning,
		[]any{id, cmd.Name, flag, cmd.Description, cmd.Photos, cmd.Videos},
		scanProduct,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *sqlRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	err := repository.ExecExpectOne(ctx, r.db, "DELETE FROM products WHERE id = $1", id)
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}
