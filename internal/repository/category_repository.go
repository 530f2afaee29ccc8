package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CategoryRepository persists the two-level category tree in a single table.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	SetStatus(ctx context.Context, id string, status bool) error
	GetByID(ctx context.Context, id string, includeDeleted bool) (*domain.Category, error)
	GetByIDAndKind(ctx context.Context, id string, kind domain.CategoryKind) (*domain.Category, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	ExistsSubcategoryByName(ctx context.Context, name, parentID, excludeID string) (bool, error)
	List(ctx context.Context, opts ListOptions) ([]domain.Category, int, error)
	ListActiveByKind(ctx context.Context, kind domain.CategoryKind) ([]domain.Category, error)
	ListActiveChildren(ctx context.Context, parentID string) ([]domain.Category, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository returns a Postgres-backed implementation.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

const categorySelect = `
        SELECT c.id, c.name, c.type, c.parent_id, c.status, c.created_at, c.updated_at, c.deleted_at,
               p.id, p.name, p.type, p.status
        FROM categories c
        LEFT JOIN categories p ON p.id = c.parent_id`

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	const query = `
        INSERT INTO categories (name, type, parent_id, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		category.Name,
		category.Kind,
		category.ParentID,
		category.Status,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	const query = `
        UPDATE categories SET name=$1, parent_id=$2, updated_at=NOW()
        WHERE id=$3 AND deleted_at IS NULL`
	return execAffecting(ctx, r.pool, query, category.Name, category.ParentID, category.ID)
}

func (r *categoryRepository) SetStatus(ctx context.Context, id string, status bool) error {
	const query = `UPDATE categories SET status=$1, updated_at=NOW() WHERE id=$2 AND deleted_at IS NULL`
	return execAffecting(ctx, r.pool, query, status, id)
}

func (r *categoryRepository) GetByID(ctx context.Context, id string, includeDeleted bool) (*domain.Category, error) {
	query := fmt.Sprintf(`%s WHERE c.id=$1 AND %s`, categorySelect, visibleClause("c.deleted_at", includeDeleted))
	return scanCategory(r.pool.QueryRow(ctx, query, id))
}

func (r *categoryRepository) GetByIDAndKind(ctx context.Context, id string, kind domain.CategoryKind) (*domain.Category, error) {
	query := categorySelect + ` WHERE c.id=$1 AND c.type=$2 AND c.deleted_at IS NULL`
	return scanCategory(r.pool.QueryRow(ctx, query, id, kind))
}

func (r *categoryRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM categories
            WHERE name=$1 AND deleted_at IS NULL AND ($2 = '' OR id::text <> $2)
        )`
	var exists bool
	err := r.pool.QueryRow(ctx, query, name, excludeID).Scan(&exists)
	return exists, err
}

func (r *categoryRepository) ExistsSubcategoryByName(ctx context.Context, name, parentID, excludeID string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM categories
            WHERE name=$1 AND type='subcategory' AND parent_id=$2 AND deleted_at IS NULL
              AND ($3 = '' OR id::text <> $3)
        )`
	var exists bool
	err := r.pool.QueryRow(ctx, query, name, parentID, excludeID).Scan(&exists)
	return exists, err
}

func (r *categoryRepository) List(ctx context.Context, opts ListOptions) ([]domain.Category, int, error) {
	where := deletedClause("c.deleted_at", opts.Deleted)
	total, err := countRows(ctx, r.pool, `SELECT COUNT(*) FROM categories c WHERE `+where)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY c.created_at DESC LIMIT $1 OFFSET $2`, categorySelect, where)
	rows, err := r.pool.Query(ctx, query, opts.limit(), opts.offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	categories, err := scanCategories(rows)
	return categories, total, err
}

func (r *categoryRepository) ListActiveByKind(ctx context.Context, kind domain.CategoryKind) ([]domain.Category, error) {
	query := categorySelect + `
        WHERE c.type=$1 AND c.status AND c.deleted_at IS NULL
        ORDER BY c.name`
	rows, err := r.pool.Query(ctx, query, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCategories(rows)
}

func (r *categoryRepository) ListActiveChildren(ctx context.Context, parentID string) ([]domain.Category, error) {
	query := categorySelect + `
        WHERE c.parent_id=$1 AND c.status AND c.deleted_at IS NULL
        ORDER BY c.name`
	rows, err := r.pool.Query(ctx, query, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCategories(rows)
}

func (r *categoryRepository) SoftDelete(ctx context.Context, id string) error {
	return softDeleteRow(ctx, r.pool, "categories", id)
}

func (r *categoryRepository) Restore(ctx context.Context, id string) error {
	return restoreRow(ctx, r.pool, "categories", id)
}

func scanCategories(rows pgx.Rows) ([]domain.Category, error) {
	var result []domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *category)
	}
	return result, rows.Err()
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var (
		category     domain.Category
		parentID     *string
		parentName   *string
		parentKind   *string
		parentStatus *bool
	)
	if err := row.Scan(
		&category.ID,
		&category.Name,
		&category.Kind,
		&category.ParentID,
		&category.Status,
		&category.CreatedAt,
		&category.UpdatedAt,
		&category.DeletedAt,
		&parentID,
		&parentName,
		&parentKind,
		&parentStatus,
	); err != nil {
		return nil, err
	}
	if parentID != nil {
		category.Parent = &domain.Category{
			ID:     *parentID,
			Name:   derefString(parentName),
			Kind:   domain.CategoryKind(derefString(parentKind)),
			Status: parentStatus != nil && *parentStatus,
		}
	}
	return &category, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
