package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RoleRepository persists roles.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) error
	Update(ctx context.Context, role *domain.Role) error
	GetByID(ctx context.Context, id string, includeDeleted bool) (*domain.Role, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	List(ctx context.Context, opts ListOptions) ([]domain.Role, int, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
}

type roleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository returns a Postgres-backed implementation.
func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepository{pool: pool}
}

const roleColumns = `id, name, description, created_at, updated_at, deleted_at`

func (r *roleRepository) Create(ctx context.Context, role *domain.Role) error {
	const query = `
        INSERT INTO roles (name, description)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, role.Name, role.Description).
		Scan(&role.ID, &role.CreatedAt, &role.UpdatedAt)
}

func (r *roleRepository) Update(ctx context.Context, role *domain.Role) error {
	const query = `
        UPDATE roles SET name=$1, description=$2, updated_at=NOW()
        WHERE id=$3 AND deleted_at IS NULL`
	return execAffecting(ctx, r.pool, query, role.Name, role.Description, role.ID)
}

func (r *roleRepository) GetByID(ctx context.Context, id string, includeDeleted bool) (*domain.Role, error) {
	query := fmt.Sprintf(`SELECT %s FROM roles WHERE id=$1 AND %s`,
		roleColumns, visibleClause("deleted_at", includeDeleted))
	return scanRole(r.pool.QueryRow(ctx, query, id))
}

func (r *roleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	query := fmt.Sprintf(`SELECT %s FROM roles WHERE name=$1 AND deleted_at IS NULL`, roleColumns)
	return scanRole(r.pool.QueryRow(ctx, query, name))
}

func (r *roleRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM roles WHERE name=$1 AND ($2 = '' OR id::text <> $2)
        )`
	var exists bool
	err := r.pool.QueryRow(ctx, query, name, excludeID).Scan(&exists)
	return exists, err
}

func (r *roleRepository) List(ctx context.Context, opts ListOptions) ([]domain.Role, int, error) {
	where := deletedClause("deleted_at", opts.Deleted)
	total, err := countRows(ctx, r.pool, `SELECT COUNT(*) FROM roles WHERE `+where)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM roles WHERE %s ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		roleColumns, where)
	rows, err := r.pool.Query(ctx, query, opts.limit(), opts.offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, 0, err
		}
		roles = append(roles, *role)
	}
	return roles, total, rows.Err()
}

func (r *roleRepository) SoftDelete(ctx context.Context, id string) error {
	return softDeleteRow(ctx, r.pool, "roles", id)
}

func (r *roleRepository) Restore(ctx context.Context, id string) error {
	return restoreRow(ctx, r.pool, "roles", id)
}

func scanRole(row pgx.Row) (*domain.Role, error) {
	var role domain.Role
	if err := row.Scan(
		&role.ID,
		&role.Name,
		&role.Description,
		&role.CreatedAt,
		&role.UpdatedAt,
		&role.DeletedAt,
	); err != nil {
		return nil, err
	}
	return &role, nil
}

// IsNotFound reports whether err is a missing-row error from a lookup.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
