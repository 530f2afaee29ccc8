package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// UserRepository defines persistence access for users and their role.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	SetActive(ctx context.Context, id string, active bool) error
	SetPassword(ctx context.Context, id, passwordHash string) error
	GetByID(ctx context.Context, id string, includeDeleted bool) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	List(ctx context.Context, opts ListOptions) ([]domain.User, int, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	// DeleteUnverified removes an inactive user row for good.
	DeleteUnverified(ctx context.Context, id string) error
	RoleNameForUser(ctx context.Context, userID string) (string, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userSelect = `
        SELECT u.id, u.first_name, u.last_name, u.email, u.password, u.rol_id, u.phone, u.active,
               u.created_at, u.updated_at, u.deleted_at,
               r.id, r.name, r.description, r.created_at, r.updated_at, r.deleted_at
        FROM users u
        JOIN roles r ON r.id = u.rol_id`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (first_name, last_name, email, password, rol_id, phone, active)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.FirstName,
		user.LastName,
		domain.NormalizeEmail(user.Email),
		user.PasswordHash,
		user.RoleID,
		user.Phone,
		user.Active,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET first_name=$1, last_name=$2, email=$3, password=$4, rol_id=$5, phone=$6, updated_at=NOW()
        WHERE id=$7 AND deleted_at IS NULL`

	return execAffecting(ctx, r.pool, query,
		user.FirstName,
		user.LastName,
		domain.NormalizeEmail(user.Email),
		user.PasswordHash,
		user.RoleID,
		user.Phone,
		user.ID,
	)
}

func (r *userRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE users SET active=$1, updated_at=NOW() WHERE id=$2`
	return execAffecting(ctx, r.pool, query, active, id)
}

func (r *userRepository) SetPassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE users SET password=$1, updated_at=NOW() WHERE id=$2 AND deleted_at IS NULL`
	return execAffecting(ctx, r.pool, query, passwordHash, id)
}

func (r *userRepository) GetByID(ctx context.Context, id string, includeDeleted bool) (*domain.User, error) {
	query := fmt.Sprintf(`%s WHERE u.id=$1 AND %s`, userSelect, visibleClause("u.deleted_at", includeDeleted))
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := userSelect + ` WHERE u.email=$1 AND u.deleted_at IS NULL`
	return scanUser(r.pool.QueryRow(ctx, query, domain.NormalizeEmail(email)))
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM users WHERE email=$1 AND ($2 = '' OR id::text <> $2)
        )`
	var exists bool
	err := r.pool.QueryRow(ctx, query, domain.NormalizeEmail(email), excludeID).Scan(&exists)
	return exists, err
}

func (r *userRepository) List(ctx context.Context, opts ListOptions) ([]domain.User, int, error) {
	where := deletedClause("u.deleted_at", opts.Deleted)
	total, err := countRows(ctx, r.pool, `SELECT COUNT(*) FROM users u WHERE `+where)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY u.created_at DESC LIMIT $1 OFFSET $2`, userSelect, where)
	rows, err := r.pool.Query(ctx, query, opts.limit(), opts.offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *user)
	}
	return users, total, rows.Err()
}

func (r *userRepository) SoftDelete(ctx context.Context, id string) error {
	return softDeleteRow(ctx, r.pool, "users", id)
}

func (r *userRepository) Restore(ctx context.Context, id string) error {
	return restoreRow(ctx, r.pool, "users", id)
}

func (r *userRepository) DeleteUnverified(ctx context.Context, id string) error {
	return execAffecting(ctx, r.pool, `DELETE FROM users WHERE id=$1 AND active = FALSE`, id)
}

// RoleNameForUser resolves the role name of a live user.
func (r *userRepository) RoleNameForUser(ctx context.Context, userID string) (string, error) {
	const query = `
        SELECT r.name FROM users u
        JOIN roles r ON r.id = u.rol_id
        WHERE u.id=$1 AND u.deleted_at IS NULL`
	var name string
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&name); err != nil {
		return "", err
	}
	return name, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user domain.User
		role domain.Role
	)
	if err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.RoleID,
		&user.Phone,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
		&role.ID,
		&role.Name,
		&role.Description,
		&role.CreatedAt,
		&role.UpdatedAt,
		&role.DeletedAt,
	); err != nil {
		return nil, err
	}
	user.Role = &role
	return &user, nil
}
