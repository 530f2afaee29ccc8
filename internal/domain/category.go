package domain

import (
	"errors"
	"strings"
	"time"
)

// CategoryKind discriminates top-level categories from subcategories.
type CategoryKind string

const (
	CategoryKindCategory    CategoryKind = "category"
	CategoryKindSubcategory CategoryKind = "subcategory"
)

var (
	ErrInvalidCategoryKind = errors.New("invalid category kind")
	ErrParentNotTopLevel   = errors.New("subcategory parent must be a top-level category")
	ErrParentRequired      = errors.New("subcategory requires a parent")
	ErrUnexpectedParent    = errors.New("top-level category cannot have a parent")
)

// Category is either a top-level category or a subcategory of exactly one
// top-level category. Both share one table; ParentID is set only for subcategories.
type Category struct {
	ID        string
	Name      string
	Kind      CategoryKind
	ParentID  *string
	Parent    *Category
	Status    bool
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// ParseCategoryKind accepts the kind name in any case.
func ParseCategoryKind(raw string) (CategoryKind, error) {
	switch CategoryKind(strings.ToLower(strings.TrimSpace(raw))) {
	case CategoryKindCategory:
		return CategoryKindCategory, nil
	case CategoryKindSubcategory:
		return CategoryKindSubcategory, nil
	}
	return "", ErrInvalidCategoryKind
}

// NewTopLevelCategory builds an active top-level category.
func NewTopLevelCategory(name string) Category {
	return Category{Name: name, Kind: CategoryKindCategory, Status: true}
}

// NewSubcategory builds an active subcategory under parent.
func NewSubcategory(name string, parent *Category) (Category, error) {
	if parent == nil || parent.ID == "" {
		return Category{}, ErrParentRequired
	}
	if parent.Kind != CategoryKindCategory {
		return Category{}, ErrParentNotTopLevel
	}
	parentID := parent.ID
	return Category{
		Name:     name,
		Kind:     CategoryKindSubcategory,
		ParentID: &parentID,
		Parent:   parent,
		Status:   true,
	}, nil
}

// IsSubcategory reports whether the category hangs under a parent.
func (c *Category) IsSubcategory() bool {
	return c.Kind == CategoryKindSubcategory
}

// Validate checks the two-level hierarchy invariant.
func (c *Category) Validate() error {
	switch c.Kind {
	case CategoryKindCategory:
		if c.ParentID != nil {
			return ErrUnexpectedParent
		}
	case CategoryKindSubcategory:
		if c.ParentID == nil {
			return ErrParentRequired
		}
		if c.Parent != nil && c.Parent.Kind != CategoryKindCategory {
			return ErrParentNotTopLevel
		}
	default:
		return ErrInvalidCategoryKind
	}
	return nil
}
