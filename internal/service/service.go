package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/cache"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
	"github.com/spec-kit/helpdesk-service/pkg/util/paging"
)

// ListQuery is the page request accepted by every list operation.
type ListQuery struct {
	Page    int
	Limit   int
	Deleted bool
}

func (q ListQuery) normalized() ListQuery {
	p := paging.Page{Page: q.Page, Limit: q.Limit}
	p.LoadDefault(paging.DefaultLimit)
	return ListQuery{Page: p.Page, Limit: p.Limit, Deleted: q.Deleted}
}

func (q ListQuery) options() repository.ListOptions {
	return repository.ListOptions{
		Offset:  paging.CalculateOffset(q.Limit, q.Page),
		Limit:   q.Limit,
		Deleted: q.Deleted,
	}
}

// PageResult is one page of a list plus its pagination metadata.
type PageResult[T any] struct {
	Items []T         `json:"items"`
	Meta  paging.Meta `json:"meta"`
}

func newPageResult[T any](items []T, q ListQuery, total int) PageResult[T] {
	if items == nil {
		items = []T{}
	}
	return PageResult[T]{Items: items, Meta: paging.NewMeta(q.Limit, q.Page, total, len(items))}
}

// cacheSettings is embedded by services that cache list pages.
type cacheSettings struct {
	store  cache.Store
	ttl    time.Duration
	logger *zap.Logger
}

// invalidate drops every cached page of the entity. Failures are logged;
// the mutation that triggered them has already been written.
func (c cacheSettings) invalidate(ctx context.Context, entity string) {
	if c.store == nil {
		return
	}
	if err := c.store.InvalidateEntity(ctx, entity); err != nil {
		c.logger.Warn("cache invalidation failed", zap.String("entity", entity), zap.Error(err))
	}
}

// invalidateCaller drops the cached pages of the entity built for one caller.
func (c cacheSettings) invalidateCaller(ctx context.Context, entity, callerID string) {
	if c.store == nil {
		return
	}
	if err := c.store.InvalidateCaller(ctx, entity, callerID); err != nil {
		c.logger.Warn("cache invalidation failed",
			zap.String("entity", entity),
			zap.String("caller_id", callerID),
			zap.Error(err))
	}
}

func listCached[T any](ctx context.Context, c cacheSettings, entity, callerID string, q ListQuery, load func(context.Context) (PageResult[T], error)) (PageResult[T], error) {
	key := cache.Key(entity, callerID, q.Page, q.Limit, q.Deleted)
	return cache.Remember(ctx, c.store, c.logger, key, c.ttl, load)
}

// lookupError maps a repository read failure to a NotFound carrying msg.
func lookupError(err error, msg string) error {
	if repository.IsNotFound(err) {
		return apperrors.NewNotFound(msg, nil)
	}
	return apperrors.NewInternalError(err)
}

// writeError maps a write that matched no rows to a BadRequest carrying msg.
func writeError(err error, msg string) error {
	if errors.Is(err, repository.ErrNoRowsAffected) {
		return apperrors.NewBadRequest(msg)
	}
	return apperrors.NewInternalError(err)
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
