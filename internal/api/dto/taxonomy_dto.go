package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RoleRequest payload.
type RoleRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=50"`
	Description string `json:"description" validate:"max=255"`
}

// RoleUpdateRequest payload; blank fields are kept.
type RoleUpdateRequest struct {
	Name        string `json:"name" validate:"max=50"`
	Description string `json:"description" validate:"max=255"`
}

type RoleResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

func ToRoleResponse(r *domain.Role) RoleResponse {
	return RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		DeletedAt:   r.DeletedAt,
	}
}

// NameRequest creates or renames a category, subcategory or priority.
type NameRequest struct {
	Name string `json:"name" validate:"required,notblank,max=100"`
}

// CategorySummary is the parent reference embedded in a subcategory.
type CategorySummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status bool   `json:"status"`
}

type CategoryResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Type      string           `json:"type"`
	Status    bool             `json:"status"`
	Parent    *CategorySummary `json:"parent,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	DeletedAt *time.Time       `json:"deleted_at,omitempty"`
}

func ToCategoryResponse(c *domain.Category) CategoryResponse {
	resp := CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Type:      string(c.Kind),
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		DeletedAt: c.DeletedAt,
	}
	switch {
	case c.Parent != nil:
		resp.Parent = &CategorySummary{ID: c.Parent.ID, Name: c.Parent.Name, Status: c.Parent.Status}
	case c.ParentID != nil:
		resp.Parent = &CategorySummary{ID: *c.ParentID}
	}
	return resp
}

type PriorityResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Status    bool       `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

func ToPriorityResponse(p *domain.Priority) PriorityResponse {
	return PriorityResponse{
		ID:        p.ID,
		Name:      p.Name,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		DeletedAt: p.DeletedAt,
	}
}
