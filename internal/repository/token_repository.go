package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TokenRepository manages persisted one-time tokens.
type TokenRepository interface {
	Create(ctx context.Context, token *domain.ActionToken) error
	GetByTokenID(ctx context.Context, tokenID string) (*domain.ActionToken, error)
	// MarkUsed consumes the token. It returns ErrNoRowsAffected when the
	// token was already used, so concurrent consumers cannot both succeed.
	MarkUsed(ctx context.Context, tokenID string) error
	// DeleteCreatedBefore removes records issued before cutoff and reports
	// how many were removed.
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type tokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository constructs repository.
func NewTokenRepository(pool *pgxpool.Pool) TokenRepository {
	return &tokenRepository{pool: pool}
}

func (r *tokenRepository) Create(ctx context.Context, token *domain.ActionToken) error {
	const query = `
        INSERT INTO tokens (token, email, token_id, purpose)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		token.Token,
		domain.NormalizeEmail(token.Email),
		token.TokenID,
		token.Purpose,
	).Scan(&token.ID, &token.CreatedAt)
}

func (r *tokenRepository) GetByTokenID(ctx context.Context, tokenID string) (*domain.ActionToken, error) {
	const query = `
        SELECT id, token, email, token_id, purpose, is_used, created_at
        FROM tokens WHERE token_id=$1`
	var token domain.ActionToken
	if err := r.pool.QueryRow(ctx, query, tokenID).Scan(
		&token.ID,
		&token.Token,
		&token.Email,
		&token.TokenID,
		&token.Purpose,
		&token.IsUsed,
		&token.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) MarkUsed(ctx context.Context, tokenID string) error {
	const query = `
        UPDATE tokens SET is_used=TRUE
        WHERE token_id=$1 AND is_used=FALSE`
	return execAffecting(ctx, r.pool, query, tokenID)
}

func (r *tokenRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tokens WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
