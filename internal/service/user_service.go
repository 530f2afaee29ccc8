package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/cache"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// Verifier sends the account verification mail for a new user.
type Verifier interface {
	SendVerification(ctx context.Context, user *domain.User) error
}

// UserService manages user accounts.
type UserService struct {
	users    repository.UserRepository
	roles    repository.RoleRepository
	hasher   auth.Hasher
	verifier Verifier
	cache    cacheSettings
	logger   *zap.Logger
}

// UserDependencies bundles collaborators for the user service.
type UserDependencies struct {
	UserRepo repository.UserRepository
	RoleRepo repository.RoleRepository
	Hasher   auth.Hasher
	Verifier Verifier
	Cache    cache.Store
	CacheTTL time.Duration
	Logger   *zap.Logger
}

// UserCreateInput describes a new account. Role is a role name.
type UserCreateInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     *string
	Role      string
}

// UserUpdateInput is a partial update; nil fields are left unchanged.
// Changing the password requires the current one in OldPassword.
type UserUpdateInput struct {
	FirstName   *string
	LastName    *string
	Email       *string
	Phone       *string
	Role        *string
	Password    *string
	OldPassword *string
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	logger := orNop(deps.Logger)
	return &UserService{
		users:    deps.UserRepo,
		roles:    deps.RoleRepo,
		hasher:   deps.Hasher,
		verifier: deps.Verifier,
		cache:    cacheSettings{store: deps.Cache, ttl: deps.CacheTTL, logger: logger},
		logger:   logger,
	}
}

// List returns a page of users without password digests.
func (s *UserService) List(ctx context.Context, callerID string, q ListQuery) (PageResult[domain.User], error) {
	q = q.normalized()
	return listCached(ctx, s.cache, cache.EntityUsers, callerID, q, func(ctx context.Context) (PageResult[domain.User], error) {
		items, total, err := s.users.List(ctx, q.options())
		if err != nil {
			return PageResult[domain.User]{}, apperrors.NewInternalError(err)
		}
		for i := range items {
			items[i].PasswordHash = ""
		}
		return newPageResult(items, q, total), nil
	})
}

// GetByID fetches one user without its password digest.
func (s *UserService) GetByID(ctx context.Context, id string, includeDeleted bool) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id, includeDeleted)
	if err != nil {
		if repository.IsNotFound(err) {
			s.logger.Warn("user not found", zap.String("user_id", id))
		}
		return nil, lookupError(err, ErrUserNotFound)
	}
	user.PasswordHash = ""
	return user, nil
}

// Create registers an inactive user and mails a verification link. When the
// mail cannot be sent the row is removed again so the address can retry.
func (s *UserService) Create(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	email := domain.NormalizeEmail(input.Email)
	exists, err := s.users.ExistsByEmail(ctx, email, "")
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if exists {
		return nil, apperrors.NewBadRequest(ErrUserAlreadyExist)
	}
	role, err := s.roles.GetByName(ctx, strings.TrimSpace(input.Role))
	if err != nil {
		return nil, lookupError(err, ErrRoleNotFound)
	}
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		PasswordHash: hash,
		RoleID:       role.ID,
		Role:         role,
		Phone:        input.Phone,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.NewInternalErrorMessage(ErrUserError, err)
	}
	if s.verifier != nil {
		if err := s.verifier.SendVerification(ctx, user); err != nil {
			if rbErr := s.users.DeleteUnverified(ctx, user.ID); rbErr != nil {
				s.logger.Error("rollback of unverified user failed",
					zap.String("user_id", user.ID),
					zap.Error(rbErr))
			}
			return nil, err
		}
	}
	s.cache.invalidate(ctx, cache.EntityUsers)
	user.PasswordHash = ""
	return user, nil
}

// Update applies a partial update to a live user.
func (s *UserService) Update(ctx context.Context, id string, input UserUpdateInput) (*domain.User, error) {
	if input.Email != nil {
		email := domain.NormalizeEmail(*input.Email)
		taken, err := s.users.ExistsByEmail(ctx, email, id)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		if taken {
			return nil, apperrors.NewBadRequest(ErrUserAlreadyExist)
		}
		input.Email = &email
	}

	user, err := s.users.GetByID(ctx, id, false)
	if err != nil {
		return nil, lookupError(err, ErrUserNotFound)
	}

	if input.Password != nil {
		if input.OldPassword == nil || !s.hasher.Compare(user.PasswordHash, *input.OldPassword) {
			return nil, apperrors.NewBadRequest(ErrUserPasswordNotMatchOld)
		}
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		user.PasswordHash = hash
	}
	before := *user
	if input.Role != nil {
		role, err := s.roles.GetByName(ctx, strings.TrimSpace(*input.Role))
		if err != nil {
			return nil, lookupError(err, ErrRoleNotFound)
		}
		user.RoleID = role.ID
		user.Role = role
	}
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, writeError(err, ErrUserError)
	}
	s.cache.invalidate(ctx, cache.EntityUsers)
	s.invalidateTickets(ctx, &before, user)
	user.PasswordHash = ""
	return user, nil
}

// invalidateTickets drops stale ticket pages. A name or email change clears
// every caller's pages; a role change clears only this user's.
func (s *UserService) invalidateTickets(ctx context.Context, before, after *domain.User) {
	switch {
	case before.FirstName != after.FirstName || before.LastName != after.LastName || before.Email != after.Email:
		s.cache.invalidate(ctx, cache.EntityTickets)
	case before.RoleID != after.RoleID:
		s.cache.invalidateCaller(ctx, cache.EntityTickets, after.ID)
	}
}

// Delete soft-deletes a live user.
func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.users.GetByID(ctx, id, false)
	if err != nil {
		return lookupError(err, ErrUserNotFound)
	}
	if err := s.users.SoftDelete(ctx, user.ID); err != nil {
		return writeError(err, ErrUserNotDeleted)
	}
	s.cache.invalidate(ctx, cache.EntityUsers)
	s.cache.invalidate(ctx, cache.EntityTickets)
	return nil
}

// Restore brings back a soft-deleted user. A live or unknown id is NotFound.
func (s *UserService) Restore(ctx context.Context, id string) error {
	user, err := s.users.GetByID(ctx, id, true)
	if err != nil {
		return lookupError(err, ErrUserNotFound)
	}
	if user.DeletedAt == nil {
		return apperrors.NewNotFound(ErrUserNotFound, nil)
	}
	if err := s.users.Restore(ctx, user.ID); err != nil {
		return writeError(err, ErrUserNotRestored)
	}
	s.cache.invalidate(ctx, cache.EntityUsers)
	s.cache.invalidate(ctx, cache.EntityTickets)
	return nil
}
