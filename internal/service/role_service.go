package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/cache"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// RoleService manages roles.
type RoleService struct {
	roles  repository.RoleRepository
	cache  cacheSettings
	logger *zap.Logger
}

// RoleInput is the writable part of a role.
type RoleInput struct {
	Name        string
	Description string
}

// NewRoleService constructs the service.
func NewRoleService(roles repository.RoleRepository, store cache.Store, ttl time.Duration, logger *zap.Logger) *RoleService {
	logger = orNop(logger)
	return &RoleService{
		roles:  roles,
		cache:  cacheSettings{store: store, ttl: ttl, logger: logger},
		logger: logger,
	}
}

func (s *RoleService) List(ctx context.Context, callerID string, q ListQuery) (PageResult[domain.Role], error) {
	q = q.normalized()
	return listCached(ctx, s.cache, cache.EntityRoles, callerID, q, func(ctx context.Context) (PageResult[domain.Role], error) {
		items, total, err := s.roles.List(ctx, q.options())
		if err != nil {
			return PageResult[domain.Role]{}, apperrors.NewInternalError(err)
		}
		return newPageResult(items, q, total), nil
	})
}

func (s *RoleService) GetByID(ctx context.Context, id string, includeDeleted bool) (*domain.Role, error) {
	role, err := s.roles.GetByID(ctx, id, includeDeleted)
	if err != nil {
		return nil, lookupError(err, ErrRoleNotFound)
	}
	return role, nil
}

func (s *RoleService) Create(ctx context.Context, input RoleInput) (*domain.Role, error) {
	name := strings.TrimSpace(input.Name)
	if err := s.ensureUniqueName(ctx, name, ""); err != nil {
		return nil, err
	}
	role := &domain.Role{Name: name, Description: strings.TrimSpace(input.Description)}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, apperrors.NewInternalErrorMessage(ErrRoleError, err)
	}
	s.cache.invalidate(ctx, cache.EntityRoles)
	return role, nil
}

func (s *RoleService) Update(ctx context.Context, id string, input RoleInput) (*domain.Role, error) {
	role, err := s.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	oldName := role.Name
	name := strings.TrimSpace(input.Name)
	if name != "" {
		if err := s.ensureUniqueName(ctx, name, role.ID); err != nil {
			return nil, err
		}
		role.Name = name
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		role.Description = desc
	}
	if err := s.roles.Update(ctx, role); err != nil {
		return nil, writeError(err, ErrRoleError)
	}
	s.cache.invalidate(ctx, cache.EntityRoles)
	if role.Name != oldName {
		// Ticket visibility follows the role name.
		s.cache.invalidate(ctx, cache.EntityTickets)
	}
	return role, nil
}

func (s *RoleService) Delete(ctx context.Context, id string) error {
	role, err := s.GetByID(ctx, id, false)
	if err != nil {
		return err
	}
	if err := s.roles.SoftDelete(ctx, role.ID); err != nil {
		return writeError(err, ErrRoleNotDeleted)
	}
	s.cache.invalidate(ctx, cache.EntityRoles)
	s.cache.invalidate(ctx, cache.EntityTickets)
	return nil
}

func (s *RoleService) Restore(ctx context.Context, id string) error {
	role, err := s.GetByID(ctx, id, true)
	if err != nil {
		return err
	}
	if role.DeletedAt == nil {
		return apperrors.NewNotFound(ErrRoleNotFound, nil)
	}
	if err := s.roles.Restore(ctx, role.ID); err != nil {
		return writeError(err, ErrRoleNotRestored)
	}
	s.cache.invalidate(ctx, cache.EntityRoles)
	s.cache.invalidate(ctx, cache.EntityTickets)
	return nil
}

func (s *RoleService) ensureUniqueName(ctx context.Context, name, excludeID string) error {
	exists, err := s.roles.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if exists {
		return apperrors.NewBadRequest(ErrRoleAlreadyExists)
	}
	return nil
}
