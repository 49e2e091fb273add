package photos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/keepsake/internal/users"
	"github.com/JaimeStill/keepsake/pkg/pagination"
	"github.com/JaimeStill/keepsake/pkg/query"
	"github.com/JaimeStill/keepsake/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "user_event_photos", "ph").
	Project("id", "ID").
	Project("user_id", "UserID").
	Project("event_id", "EventID").
	Project("key", "Key").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Repository persists user event photos.
type Repository interface {
	Find(ctx context.Context, id uuid.UUID) (*Photo, error)
	Count(ctx context.Context, userID uuid.UUID) (int, error)
	List(ctx context.Context, userID uuid.UUID, page pagination.PageRequest) ([]Photo, error)
	Create(ctx context.Context, userID uuid.UUID, cmd CreateCommand) (*Photo, error)
	HardDelete(ctx context.Context, id uuid.UUID) error
	// KeyInUse reports whether any photo or profile image references key.
	KeyInUse(ctx context.Context, key string) (bool, error)
}

type sqlRepository struct {
	db *sql.DB
}

// NewRepository creates a PostgreSQL-backed photo repository.
func NewRepository(db *sql.DB) Repository {
	return &sqlRepository{db: db}
}

func scanPhoto(s repository.Scanner) (Photo, error) {
	var p Photo
	err := s.Scan(&p.ID, &p.UserID, &p.EventID, &p.Key, &p.CreatedAt)
	return p, err
}

func (r *sqlRepository) Find(ctx context.Context, id uuid.UUID) (*Photo, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPhoto)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *sqlRepository) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	q, args := query.NewBuilder(projection).WhereEquals("UserID", userID).BuildCount()

	var total int
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count photos: %w", err)
	}
	return total, nil
}

func (r *sqlRepository) List(ctx context.Context, userID uuid.UUID, page pagination.PageRequest) ([]Photo, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("UserID", userID).
		BuildPage(page.Page, page.PageSize)

	items, err := repository.QueryMany(ctx, r.db, q, args, scanPhoto)
	if err != nil {
		return nil, fmt.Errorf("query photos: %w", err)
	}
	return items, nil
}

func (r *sqlRepository) Create(ctx context.Context, userID uuid.UUID, cmd CreateCommand) (*Photo, error) {
	p, err := repository.QueryOne(ctx, r.db, `
		INSERT INTO user_event_photos(id, user_id, event_id, key)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, event_id, key, created_at`,
		[]any{uuid.New(), userID, cmd.EventID, cmd.Key},
		scanPhoto,
	)
	if err != nil {
		err = repository.MapForeignKey(err, ErrEventNotFound)
		return nil, repository.MapError(err, ErrNotFound, ErrKeyInUse)
	}
	return &p, nil
}

func (r *sqlRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	err := repository.ExecExpectOne(ctx, r.db, "DELETE FROM user_event_photos WHERE id = $1", id)
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}

func (r *sqlRepository) KeyInUse(ctx context.Context, key string) (bool, error) {
	return users.KeyInUse(ctx, r.db, key)
}
