package institutionproducts

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/keepsake/pkg/pagination"
	"github.com/JaimeStill/keepsake/pkg/query"
	"github.com/JaimeStill/keepsake/pkg/repository"
)

// Repository persists institution-product associations.
type Repository interface {
	Find(ctx context.Context, id uuid.UUID) (*Detailed, error)
	Count(ctx context.Context, page pagination.PageRequest, filters Filters) (int, error)
	List(ctx context.Context, page pagination.PageRequest, filters Filters) ([]Detailed, error)
	Create(ctx context.Context, cmd CreateCommand) (*InstitutionProduct, error)
	HardDelete(ctx context.Context, id uuid.UUID) error
}

type sqlRepository struct {
	db *sql.DB
}

// NewRepository creates a PostgreSQL-backed association repository.
func NewRepository(db *sql.DB) Repository {
	return &sqlRepository{db: db}
}

func (r *sqlRepository) Find(ctx context.Context, id uuid.UUID) (*Detailed, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDetailed)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *sqlRepository) builder(page pagination.PageRequest, filters Filters) *query.Builder {
	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "ProductName", "InstitutionName")

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
		return 0, fmt.Errorf("count institution products: %w", err)
	}
	return total, nil
}

func (r *sqlRepository) List(ctx context.Context, page pagination.PageRequest, filters Filters) ([]Detailed, error) {
	q, args := r.builder(page, filters).BuildPage(page.Page, page.PageSize)

	items, err := repository.QueryMany(ctx, r.db, q, args, scanDetailed)
	if err != nil {
		return nil, fmt.Errorf("query institution products: %w", err)
	}
	return items, nil
}

func (r *sqlRepository) Create(ctx context.Context, cmd CreateCommand) (*InstitutionProduct, error) {
	details, err := encodeDetails(cmd.Details)
	if err != nil {
		return nil, fmt.Errorf("encode details: %w", err)
	}

	ip, err := repository.QueryOne(ctx, r.db, `
		INSERT INTO institution_products(id, product_id, institution_id, flag, details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, product_id, institution_id, flag, details, created_at, updated_at`,
		[]any{uuid.New(), cmd.ProductID, cmd.InstitutionID, string(cmd.Flag), details},
		scanInstitutionProduct,
	)
	if err != nil {
		err = repository.MapForeignKey(err, ErrReferenceNotFound)
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &ip, nil
}

func (r *sqlRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	err := repository.ExecExpectOne(ctx, r.db, "DELETE FROM institution_products WHERE id = $1", id)
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}
