package users

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/keepsake/pkg/pagination"
	"github.com/JaimeStill/keepsake/pkg/query"
	"github.com/JaimeStill/keepsake/pkg/repository"
)

// Repository persists users, including the credential lookups used by authentication.
type Repository interface {
	Find(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Count(ctx context.Context, page pagination.PageRequest, filters Filters) (int, error)
	List(ctx context.Context, page pagination.PageRequest, filters Filters) ([]User, error)
	Create(ctx context.Context, rec Record) (*User, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	// HardDelete removes the row and reports how many rows were affected.
	HardDelete(ctx context.Context, id uuid.UUID) (int64, error)
	KeyInUse(ctx context.Context, key string) (bool, error)
	// PhotoKeys lists the object keys of the user's event photos.
	PhotoKeys(ctx context.Context, id uuid.UUID) ([]string, error)
}

type sqlRepository struct {
	db *sql.DB
}

// NewRepository creates a PostgreSQL-backed user repository.
func NewRepository(db *sql.DB) Repository {
	return &sqlRepository{db: db}
}

const returning = `RETURNING id, institution_id, name, email, phone, password_hash, profile_image, status, created_at, updated_at`

func (r *sqlRepository) Find(ctx context.Context, id uuid.UUID) (*User, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	u, err := repository.QueryOne(ctx, r.db, q, args, scanUser)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &u, nil
}

func (r *sqlRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	q, args := query.NewBuilder(projection).BuildSingle("Email", NormalizeEmail(email))

	u, err := repository.QueryOne(ctx, r.db, q, args, scanUser)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &u, nil
}

func (r *sqlRepository) builder(page pagination.PageRequest, filters Filters) *query.Builder {
	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Email")

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
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}

func (r *sqlRepository) List(ctx context.Context, page pagination.PageRequest, filters Filters) ([]User, error) {
	q, args := r.builder(page, filters).BuildPage(page.Page, page.PageSize)

	items, err := repository.QueryMany(ctx, r.db, q, args, scanUser)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	return items, nil
}

func (r *sqlRepository) Create(ctx context.Context, rec Record) (*User, error) {
	u, err := repository.QueryOne(ctx, r.db, `
		INSERT INTO users(id, institution_id, name, email, phone, password_hash, profile_image)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
		`+returning,
		[]any{uuid.New(), rec.InstitutionID, rec.Name, NormalizeEmail(rec.Email), rec.Phone, rec.PasswordHash, rec.ProfileImage},
		scanUser,
	)
	if err != nil {
		err = repository.MapForeignKey(err, ErrInstitutionNotFound)
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &u, nil
}

func (r *sqlRepository) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*User, error) {
	var status *string
	if cmd.Status != nil {
		s := string(*cmd.Status)
		status = &s
	}

	u, err := repository.QueryOne(ctx, r.db, `
		UPDATE users SET
			institution_id = COALESCE($2, institution_id),
			name = COALESCE($3, name),
			phone = COALESCE($4, phone),
			profile_image = CASE WHEN $5::text IS NULL THEN profile_image ELSE NULLIF($5, '') END,
			status = COALESCE($6, status),
			updated_at = NOW()
		WHERE id = $1
		`+returning,
		[]any{id, cmd.InstitutionID, cmd.Name, cmd.Phone, cmd.ProfileImage, status},
		scanUser,
	)
	if err != nil {
		err = repository.MapForeignKey(err, ErrInstitutionNotFound)
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &u, nil
}

func (r *sqlRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	err := repository.ExecExpectOne(ctx, r.db,
		"UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1",
		id, hash,
	)
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}

func (r *sqlRepository) HardDelete(ctx context.Context, id uuid.UUID) (int64, error) {
	return repository.ExecAffected(ctx, r.db, "DELETE FROM users WHERE id = $1", id)
}

func (r *sqlRepository) KeyInUse(ctx context.Context, key string) (bool, error) {
	return KeyInUse(ctx, r.db, key)
}

func (r *sqlRepository) PhotoKeys(ctx context.Context, id uuid.UUID) ([]string, error) {
	keys, err := repository.QueryMany(ctx, r.db,
		"SELECT key FROM user_event_photos WHERE user_id = $1",
		[]any{id},
		func(s repository.Scanner) (string, error) {
			var key string
			err := s.Scan(&key)
			return key, err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("query photo keys: %w", err)
	}
	return keys, nil
}

// KeyInUse reports whether a profile image or an event photo references the
// object key.
func KeyInUse(ctx context.Context, db repository.DBTX, key string) (bool, error) {
	var used bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE profile_image = $1)
			OR EXISTS (SELECT 1 FROM user_event_photos WHERE key = $1)`,
		key,
	).Scan(&used)
	if err != nil {
		return false, fmt.Errorf("check object key: %w", err)
	}
	return used, nil
}
