package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/cache"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// PriorityService manages ticket priorities.
type PriorityService struct {
	priorities repository.PriorityRepository
	cache      cacheSettings
	logger     *zap.Logger
}

// NewPriorityService constructs the service.
func NewPriorityService(priorities repository.PriorityRepository, store cache.Store, ttl time.Duration, logger *zap.Logger) *PriorityService {
	logger = orNop(logger)
	return &PriorityService{
		priorities: priorities,
		cache:      cacheSettings{store: store, ttl: ttl, logger: logger},
		logger:     logger,
	}
}

func (s *PriorityService) List(ctx context.Context, callerID string, q ListQuery) (PageResult[domain.Priority], error) {
	q = q.normalized()
	return listCached(ctx, s.cache, cache.EntityPriorities, callerID, q, func(ctx context.Context) (PageResult[domain.Priority], error) {
		items, total, err := s.priorities.List(ctx, q.options())
		if err != nil {
			return PageResult[domain.Priority]{}, apperrors.NewInternalError(err)
		}
		return newPageResult(items, q, total), nil
	})
}

// ListByStatus returns live priorities whose status matches rawStatus
// ("true"/"false", "1"/"0").
func (s *PriorityService) ListByStatus(ctx context.Context, rawStatus string) ([]domain.Priority, error) {
	status, err := strconv.ParseBool(strings.TrimSpace(rawStatus))
	if err != nil {
		return nil, apperrors.NewBadRequest(ErrInvalidStatus)
	}
	items, err := s.priorities.ListByStatus(ctx, status)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return items, nil
}

func (s *PriorityService) GetByID(ctx context.Context, id string, includeDeleted bool) (*domain.Priority, error) {
	priority, err := s.priorities.GetByID(ctx, id, includeDeleted)
	if err != nil {
		if repository.IsNotFound(err) {
			s.logger.Warn("priority not found", zap.String("priority_id", id))
		}
		return nil, lookupError(err, ErrPriorityNotFound)
	}
	return priority, nil
}

// Create adds an active priority.
func (s *PriorityService) Create(ctx context.Context, name string) (*domain.Priority, error) {
	name = strings.TrimSpace(name)
	if err := s.ensureUniqueName(ctx, name, ""); err != nil {
		return nil, err
	}
	priority := &domain.Priority{Name: name, Status: true}
	if err := s.priorities.Create(ctx, priority); err != nil {
		return nil, apperrors.NewInternalErrorMessage(ErrPriorityError, err)
	}
	s.cache.invalidate(ctx, cache.EntityPriorities)
	return priority, nil
}

func (s *PriorityService) Update(ctx context.Context, id, name string) (*domain.Priority, error) {
	priority, err := s.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := s.ensureUniqueName(ctx, name, priority.ID); err != nil {
		return nil, err
	}
	priority.Name = name
	if err := s.priorities.Update(ctx, priority); err != nil {
		return nil, writeError(err, ErrPriorityError)
	}
	s.cache.invalidate(ctx, cache.EntityPriorities)
	return priority, nil
}

// ChangeStatus sets the active flag and returns the matching message.
func (s *PriorityService) ChangeStatus(ctx context.Context, id string, status bool) (string, error) {
	priority, err := s.GetByID(ctx, id, false)
	if err != nil {
		return "", err
	}
	if err := s.priorities.SetStatus(ctx, priority.ID, status); err != nil {
		return "", writeError(err, ErrPriorityError)
	}
	s.cache.invalidate(ctx, cache.EntityPriorities)
	if status {
		return MsgPriorityActivated, nil
	}
	return MsgPriorityDeactivated, nil
}

func (s *PriorityService) Delete(ctx context.Context, id string) error {
	priority, err := s.GetByID(ctx, id, false)
	if err != nil {
		return err
	}
	if err := s.priorities.SoftDelete(ctx, priority.ID); err != nil {
		return writeError(err, ErrPriorityNotDeleted)
	}
	s.cache.invalidate(ctx, cache.EntityPriorities)
	return nil
}

// Restore brings back a soft-deleted priority. A live or unknown id is NotFound.
func (s *PriorityService) Restore(ctx context.Context, id string) error {
	priority, err := s.GetByID(ctx, id, true)
	if err != nil {
		return err
	}
	if priority.DeletedAt == nil {
		return apperrors.NewNotFound(ErrPriorityNotFound, nil)
	}
	if err := s.priorities.Restore(ctx, priority.ID); err != nil {
		return writeError(err, ErrPriorityNotRestored)
	}
	s.cache.invalidate(ctx, cache.EntityPriorities)
	return nil
}

func (s *PriorityService) ensureUniqueName(ctx context.Context, name, excludeID string) error {
	exists, err := s.priorities.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if exists {
		return apperrors.NewBadRequest(ErrPriorityAlreadyExist)
	}
	return nil
}
