package institutions

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/JaimeStill/keepsake/pkg/pagination"
	"github.com/JaimeStill/keepsake/pkg/query"
	"github.com/JaimeStill/keepsake/pkg/repository"
)

// Repository persists institutions and their events.
type Repository interface {
	Find(ctx context.Context, id uuid.UUID) (*Institution, error)
	Events(ctx context.Context, id uuid.UUID) ([]Event, error)
	Members(ctx context.Context, id uuid.UUID) ([]Member, error)
	Count(ctx context.Context, page pagination.PageRequest, filters Filters) (int, error)
	List(ctx context.Context, page pagination.PageRequest, filters Filters) ([]Institution, error)
	Create(ctx context.Context, cmd CreateCommand) (*Institution, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Institution, error)
	HardDelete(ctx context.Context, id uuid.UUID) error
}

type sqlRepository struct {
	db *sql.DB
}

// NewRepository creates a PostgreSQL-backed institution repository.
func NewRepository(db *sql.DB) Repository {
	return &sqlRepository{db: db}
}

const returning = `RETURNING id, contract_number, name, observations, created_at, updated_at`

func (r *sqlRepository) Find(ctx context.Context, id uuid.UUID) (*Institution, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	i, err := repository.QueryOne(ctx, r.db, q, args, scanInstitution)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &i, nil
}

func (r *sqlRepository) Events(ctx context.Context, id uuid.UUID) ([]Event, error) {
	return queryEvents(ctx, r.db, id, false)
}

func queryEvents(ctx context.Context, db repository.DBTX, id uuid.UUID, lock bool) ([]Event, error) {
	q := `
		SELECT id, institution_id, name, position, created_at
		FROM events
		WHERE institution_id = $1
		ORDER BY position, created_at`
	if lock {
		q += " FOR UPDATE"
	}
	return repository.QueryMany(ctx, db, q, []any{id}, scanEvent)
}

func (r *sqlRepository) Members(ctx context.Context, id uuid.UUID) ([]Member, error) {
	return repository.QueryMany(ctx, r.db, `
		SELECT id, name, email, status
		FROM users
		WHERE institution_id = $1
		ORDER BY name`,
		[]any{id}, scanMember,
	)
}

func (r *sqlRepository) builder(page pagination.PageRequest, filters Filters) *query.Builder {
	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "ContractNumber")

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
		return 0, fmt.Errorf("count institutions: %w", err)
	}
	return total, nil
}

func (r *sqlRepository) List(ctx context.Context, page pagination.PageRequest, filters Filters) ([]Institution, error) {
	q, args := r.builder(page, filters).BuildPage(page.Page, page.PageSize)

	items, err := repository.QueryMany(ctx, r.db, q, args, scanInstitution)
	if err != nil {
		return nil, fmt.Errorf("query institutions: %w", err)
	}
	return items, nil
}

func (r *sqlRepository) Create(ctx context.Context, cmd CreateCommand) (*Institution, error) {
	i, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Institution, error) {
		inst, err := repository.QueryOne(ctx, tx, `
			INSERT INTO institutions(id, contract_number, name, observations)
			VALUES ($1, $2, $3, $4)
			`+returning,
			[]any{uuid.New(), cmd.ContractNumber, cmd.Name, cmd.Observations},
			scanInstitution,
		)
		if err != nil {
			return Institution{}, err
		}

		inst.Events, err = insertEvents(ctx, tx, inst.ID, cmd.Events)
		if err != nil {
			return Institution{}, err
		}
		return inst, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &i, nil
}

func (r *sqlRepository) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Institution, error) {
	i, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Institution, error) {
		inst, err := repository.QueryOne(ctx, tx, `
			UPDATE institutions SET
				contract_number = COALESCE($2, contract_number),
				name = COALESCE($3, name),
				observations = COALESCE($4, observations),
				updated_at = NOW()
			WHERE id = $1
			`+returning,
			[]any{id, cmd.ContractNumber, cmd.Name, cmd.Observations},
			scanInstitution,
		)
		if err != nil {
			return Institution{}, err
		}

		existing, err := queryEvents(ctx, tx, id, true)
		if err != nil {
			return Institution{}, fmt.Errorf("load events: %w", err)
		}
		if cmd.Events == nil {
			inst.Events = existing
			return inst, nil
		}

		inst.Events, err = applyEvents(ctx, tx, id, PlanEvents(existing, cmd.Events))
		if err != nil {
			return Institution{}, err
		}
		return inst, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &i, nil
}

func (r *sqlRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	err := repository.ExecExpectOne(ctx, r.db, "DELETE FROM institutions WHERE id = $1", id)
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}

func applyEvents(ctx context.Context, tx *sql.Tx, institutionID uuid.UUID, plan EventPlan) ([]Event, error) {
	for _, id := range plan.Drop {
		if _, err := tx.ExecContext(ctx, "DELETE FROM events WHERE id = $1", id); err != nil {
			return nil, fmt.Errorf("delete event: %w", err)
		}
	}

	events := make([]Event, 0, len(plan.Keep)+len(plan.Insert))
	for _, e := range plan.Keep {
		if _, err := tx.ExecContext(ctx, "UPDATE events SET position = $2 WHERE id = $1", e.ID, e.Position); err != nil {
			return nil, fmt.Errorf("reorder event %q: %w", e.Name, err)
		}
		events = append(events, e)
	}

	for _, in := range plan.Insert {
		e, err := insertEvent(ctx, tx, institutionID, in.Name, in.Position)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	slices.SortFunc(events, func(a, b Event) int { return cmp.Compare(a.Position, b.Position) })
	return events, nil
}

func insertEvent(ctx context.Context, tx *sql.Tx, institutionID uuid.UUID, name string, pos int) (Event, error) {
	e, err := repository.QueryOne(ctx, tx, `
		INSERT INTO events(id, institution_id, name, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id, institution_id, name, position, created_at`,
		[]any{uuid.New(), institutionID, name, pos},
		scanEvent,
	)
	if err != nil {
		return Event{}, fmt.Errorf("insert event %q: %w", name, err)
	}
	return e, nil
}

func insertEvents(ctx context.Context, tx *sql.Tx, institutionID uuid.UUID, inputs []EventInput) ([]Event, error) {
	events := make([]Event, 0, len(inputs))

	for pos, in := range inputs {
		e, err := insertEvent(ctx, tx, institutionID, in.Name, pos)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, nil
}
