package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoRowsAffected signals a write that matched no rows. Callers treat it as
// a request error, distinct from a missing record.
var ErrNoRowsAffected = errors.New("repository: no rows affected")

// ListOptions drives paginated, soft-delete aware list queries. Deleted
// selects only soft-deleted rows.
type ListOptions struct {
	Offset  int
	Limit   int
	Deleted bool
}

func (o ListOptions) limit() int {
	if o.Limit <= 0 {
		return 10
	}
	return o.Limit
}

func (o ListOptions) offset() int {
	if o.Offset < 0 {
		return 0
	}
	return o.Offset
}

// deletedClause returns the soft-delete predicate for a list query.
func deletedClause(column string, deleted bool) string {
	if deleted {
		return column + " IS NOT NULL"
	}
	return column + " IS NULL"
}

// visibleClause limits point lookups to live rows unless includeDeleted is set.
func visibleClause(column string, includeDeleted bool) string {
	if includeDeleted {
		return "TRUE"
	}
	return column + " IS NULL"
}

func softDeleteRow(ctx context.Context, pool *pgxpool.Pool, table, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET deleted_at=NOW() WHERE id=$1 AND deleted_at IS NULL`, table)
	return execAffecting(ctx, pool, query, id)
}

func restoreRow(ctx context.Context, pool *pgxpool.Pool, table, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET deleted_at=NULL, updated_at=NOW() WHERE id=$1 AND deleted_at IS NOT NULL`, table)
	return execAffecting(ctx, pool, query, id)
}

func execAffecting(ctx context.Context, pool *pgxpool.Pool, query string, args ...any) error {
	cmd, err := pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func countRows(ctx context.Context, pool *pgxpool.Pool, query string, args ...any) (int, error) {
	var total int
	if err := pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
