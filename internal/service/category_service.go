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

// CategoryService manages the two-level category tree.
type CategoryService struct {
	categories repository.CategoryRepository
	cache      cacheSettings
	logger     *zap.Logger
}

// NewCategoryService constructs the service.
func NewCategoryService(categories repository.CategoryRepository, store cache.Store, ttl time.Duration, logger *zap.Logger) *CategoryService {
	logger = orNop(logger)
	return &CategoryService{
		categories: categories,
		cache:      cacheSettings{store: store, ttl: ttl, logger: logger},
		logger:     logger,
	}
}

// List returns a page of categories and subcategories.
func (s *CategoryService) List(ctx context.Context, callerID string, q ListQuery) (PageResult[domain.Category], error) {
	q = q.normalized()
	return listCached(ctx, s.cache, cache.EntityCategories, callerID, q, func(ctx context.Context) (PageResult[domain.Category], error) {
		items, total, err := s.categories.List(ctx, q.options())
		if err != nil {
			return PageResult[domain.Category]{}, apperrors.NewInternalError(err)
		}
		return newPageResult(items, q, total), nil
	})
}

// ListByKind returns active rows of one kind; rawKind is "category" or "subcategory".
func (s *CategoryService) ListByKind(ctx context.Context, rawKind string) ([]domain.Category, error) {
	kind, err := domain.ParseCategoryKind(rawKind)
	if err != nil {
		return nil, apperrors.NewBadRequest(ErrInvalidCategoryType)
	}
	items, err := s.categories.ListActiveByKind(ctx, kind)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return items, nil
}

// ListSubcategories returns the active subcategories of a top-level category.
func (s *CategoryService) ListSubcategories(ctx context.Context, parentID string) ([]domain.Category, error) {
	if _, err := s.categories.GetByIDAndKind(ctx, parentID, domain.CategoryKindCategory); err != nil {
		return nil, lookupError(err, ErrCategoryNotFound)
	}
	items, err := s.categories.ListActiveChildren(ctx, parentID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return items, nil
}

func (s *CategoryService) GetByID(ctx context.Context, id string, includeDeleted bool) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id, includeDeleted)
	if err != nil {
		if repository.IsNotFound(err) {
			s.logger.Warn("category not found", zap.String("category_id", id))
		}
		return nil, lookupError(err, ErrCategoryNotFound)
	}
	return category, nil
}

// Create adds an active top-level category.
func (s *CategoryService) Create(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if err := s.ensureUniqueName(ctx, name, ""); err != nil {
		return nil, err
	}
	category := domain.NewTopLevelCategory(name)
	if err := s.categories.Create(ctx, &category); err != nil {
		return nil, apperrors.NewInternalErrorMessage(ErrCategoryError, err)
	}
	s.cache.invalidate(ctx, cache.EntityCategories)
	return &category, nil
}

// CreateSubcategory adds an active subcategory under an active top-level parent.
func (s *CategoryService) CreateSubcategory(ctx context.Context, parentID, name string) (*domain.Category, error) {
	parent, err := s.activeParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := s.ensureUniqueSubcategory(ctx, name, parent.ID, ""); err != nil {
		return nil, err
	}
	sub, err := domain.NewSubcategory(name, parent)
	if err != nil {
		return nil, apperrors.NewBadRequest(ErrCategoryNotExist)
	}
	if err := s.categories.Create(ctx, &sub); err != nil {
		return nil, apperrors.NewInternalErrorMessage(ErrCategoryError, err)
	}
	s.cache.invalidate(ctx, cache.EntityCategories)
	return &sub, nil
}

// Update renames a top-level category.
func (s *CategoryService) Update(ctx context.Context, id, name string) (*domain.Category, error) {
	category, err := s.categories.GetByIDAndKind(ctx, id, domain.CategoryKindCategory)
	if err != nil {
		return nil, lookupError(err, ErrCategoryNotFound)
	}
	name = strings.TrimSpace(name)
	if err := s.ensureUniqueName(ctx, name, category.ID); err != nil {
		return nil, err
	}
	category.Name = name
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, writeError(err, ErrCategoryError)
	}
	s.cache.invalidate(ctx, cache.EntityCategories)
	return category, nil
}

// UpdateSubcategory renames a subcategory and may move it to another parent.
func (s *CategoryService) UpdateSubcategory(ctx context.Context, id, parentID, name string) (*domain.Category, error) {
	sub, err := s.categories.GetByIDAndKind(ctx, id, domain.CategoryKindSubcategory)
	if err != nil {
		return nil, lookupError(err, ErrSubcategoryNotFound)
	}
	parent, err := s.activeParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := s.ensureUniqueSubcategory(ctx, name, parent.ID, sub.ID); err != nil {
		return nil, err
	}

	sub.Name = name
	sub.ParentID = &parent.ID
	sub.Parent = parent
	if err := sub.Validate(); err != nil {
		return nil, apperrors.NewBadRequest(ErrCategoryNotExist)
	}
	if err := s.categories.Update(ctx, sub); err != nil {
		return nil, writeError(err, ErrCategoryError)
	}
	s.cache.invalidate(ctx, cache.EntityCategories)
	return sub, nil
}

// ChangeStatus activates or deactivates a category or subcategory and
// returns the message matching the new state.
func (s *CategoryService) ChangeStatus(ctx context.Context, id string, status bool) (string, error) {
	category, err := s.GetByID(ctx, id, false)
	if err != nil {
		return "", err
	}
	if err := s.categories.SetStatus(ctx, category.ID, status); err != nil {
		return "", writeError(err, ErrCategoryError)
	}
	s.cache.invalidate(ctx, cache.EntityCategories)
	if status {
		return MsgCategoryActivated, nil
	}
	return MsgCategoryDeactivated, nil
}

// Delete soft-deletes a category or subcategory.
func (s *CategoryService) Delete(ctx context.Context, id string) (string, error) {
	category, err := s.GetByID(ctx, id, false)
	if err != nil {
		return "", err
	}
	if err := s.categories.SoftDelete(ctx, category.ID); err != nil {
		return "", writeError(err, ErrCategoryNotDeleted)
	}
	s.cache.invalidate(ctx, cache.EntityCategories)
	if category.ParentID != nil {
		return MsgSubcategoryRemoved, nil
	}
	return MsgCategoryRemoved, nil
}

// Restore brings back a soft-deleted row. A live or unknown id is NotFound.
func (s *CategoryService) Restore(ctx context.Context, id string) (string, error) {
	category, err := s.GetByID(ctx, id, true)
	if err != nil {
		return "", err
	}
	if category.DeletedAt == nil {
		return "", apperrors.NewNotFound(ErrCategoryNotFound, nil)
	}
	if err := s.categories.Restore(ctx, category.ID); err != nil {
		return "", writeError(err, ErrCategoryNotRestored)
	}
	s.cache.invalidate(ctx, cache.EntityCategories)
	if category.ParentID != nil {
		return MsgSubcategoryRestored, nil
	}
	return MsgCategoryRestored, nil
}

// activeParent loads a subcategory parent: it must be a live, active,
// top-level category.
func (s *CategoryService) activeParent(ctx context.Context, parentID string) (*domain.Category, error) {
	parent, err := s.categories.GetByID(ctx, parentID, false)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewBadRequest(ErrCategoryNotExist)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if parent.Kind != domain.CategoryKindCategory {
		return nil, apperrors.NewBadRequest(ErrCategoryNotExist)
	}
	if !parent.Status {
		return nil, apperrors.NewBadRequest(ErrCategoryNotActive)
	}
	return parent, nil
}

func (s *CategoryService) ensureUniqueName(ctx context.Context, name, excludeID string) error {
	exists, err := s.categories.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if exists {
		return apperrors.NewBadRequest(ErrCategoryAlreadyExist)
	}
	return nil
}

func (s *CategoryService) ensureUniqueSubcategory(ctx context.Context, name, parentID, excludeID string) error {
	exists, err := s.categories.ExistsSubcategoryByName(ctx, name, parentID, excludeID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if exists {
		return apperrors.NewBadRequest(ErrSubcategoryAlreadyExist)
	}
	return nil
}
