package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// PriorityRepository persists ticket priorities.
type PriorityRepository interface {
	Create(ctx context.Context, priority *domain.Priority) error
	Update(ctx context.Context, priority *domain.Priority) error
	SetStatus(ctx context.Context, id string, status bool) error
	GetByID(ctx context.Context, id string, includeDeleted bool) (*domain.Priority, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	List(ctx context.Context, opts ListOptions) ([]domain.Priority, int, error)
	ListByStatus(ctx context.Context, status bool) ([]domain.Priority, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
}

type priorityRepository struct {
	pool *pgxpool.Pool
}

// NewPriorityRepository returns a Postgres-backed implementation.
func NewPriorityRepository(pool *pgxpool.Pool) PriorityRepository {
	return &priorityRepository{pool: pool}
}

const priorityColumns = `id, name, status, created_at, updated_at, deleted_at`

func (r *priorityRepository) Create(ctx context.Context, priority *domain.Priority) error {
	const query = `
        INSERT INTO priorities (name, status)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, priority.Name, priority.Status).
		Scan(&priority.ID, &priority.CreatedAt, &priority.UpdatedAt)
}

func (r *priorityRepository) Update(ctx context.Context, priority *domain.Priority) error {
	const query = `
        UPDATE priorities SET name=$1, updated_at=NOW()
        WHERE id=$2 AND deleted_at IS NULL`
	return execAffecting(ctx, r.pool, query, priority.Name, priority.ID)
}

func (r *priorityRepository) SetStatus(ctx context.Context, id string, status bool) error {
	const query = `UPDATE priorities SET status=$1, updated_at=NOW() WHERE id=$2 AND deleted_at IS NULL`
	return execAffecting(ctx, r.pool, query, status, id)
}

func (r *priorityRepository) GetByID(ctx context.Context, id string, includeDeleted bool) (*domain.Priority, error) {
	query := fmt.Sprintf(`SELECT %s FROM priorities WHERE id=$1 AND %s`,
		priorityColumns, visibleClause("deleted_at", includeDeleted))
	return scanPriority(r.pool.QueryRow(ctx, query, id))
}

func (r *priorityRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM priorities
            WHERE name=$1 AND deleted_at IS NULL AND ($2 = '' OR id::text <> $2)
        )`
	var exists bool
	err := r.pool.QueryRow(ctx, query, name, excludeID).Scan(&exists)
	return exists, err
}

func (r *priorityRepository) List(ctx context.Context, opts ListOptions) ([]domain.Priority, int, error) {
	where := deletedClause("deleted_at", opts.Deleted)
	total, err := countRows(ctx, r.pool, `SELECT COUNT(*) FROM priorities WHERE `+where)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM priorities WHERE %s ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		priorityColumns, where)
	rows, err := r.pool.Query(ctx, query, opts.limit(), opts.offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	priorities, err := scanPriorities(rows)
	return priorities, total, err
}

func (r *priorityRepository) ListByStatus(ctx context.Context, status bool) ([]domain.Priority, error) {
	query := fmt.Sprintf(`SELECT %s FROM priorities WHERE status=$1 AND deleted_at IS NULL ORDER BY name`, priorityColumns)
	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPriorities(rows)
}

func (r *priorityRepository) SoftDelete(ctx context.Context, id string) error {
	return softDeleteRow(ctx, r.pool, "priorities", id)
}

func (r *priorityRepository) Restore(ctx context.Context, id string) error {
	return restoreRow(ctx, r.pool, "priorities", id)
}

func scanPriorities(rows pgx.Rows) ([]domain.Priority, error) {
	var result []domain.Priority
	for rows.Next() {
		priority, err := scanPriority(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *priority)
	}
	return result, rows.Err()
}

func scanPriority(row pgx.Row) (*domain.Priority, error) {
	var priority domain.Priority
	if err := row.Scan(
		&priority.ID,
		&priority.Name,
		&priority.Status,
		&priority.CreatedAt,
		&priority.UpdatedAt,
		&priority.DeletedAt,
	); err != nil {
		return nil, err
	}
	return &priority, nil
}
