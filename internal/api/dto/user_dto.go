package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// CreateUserRequest payload. Rol is a role name.
type CreateUserRequest struct {
	FirstName string  `json:"first_name" validate:"required,notblank,max=100"`
	LastName  string  `json:"last_name" validate:"required,notblank,max=100"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=6,max=72"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
	Rol       string  `json:"rol" validate:"required,notblank"`
}

// ToService converts the request.
func (r CreateUserRequest) ToService() service.UserCreateInput {
	return service.UserCreateInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Password:  r.Password,
		Phone:     r.Phone,
		Role:      r.Rol,
	}
}

// UpdateUserRequest is a partial update.
type UpdateUserRequest struct {
	FirstName   *string `json:"first_name" validate:"omitempty,notblank,max=100"`
	LastName    *string `json:"last_name" validate:"omitempty,notblank,max=100"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone" validate:"omitempty,max=20"`
	Rol         *string `json:"rol" validate:"omitempty,notblank"`
	Password    *string `json:"password" validate:"omitempty,min=6,max=72"`
	OldPassword *string `json:"old_password"`
}

// ToService converts the request.
func (r UpdateUserRequest) ToService() service.UserUpdateInput {
	return service.UserUpdateInput{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		Phone:       r.Phone,
		Role:        r.Rol,
		Password:    r.Password,
		OldPassword: r.OldPassword,
	}
}

// UserResponse never carries the password digest.
type UserResponse struct {
	ID        string        `json:"id"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Email     string        `json:"email"`
	Phone     *string       `json:"phone"`
	Active    bool          `json:"active"`
	Rol       *RoleResponse `json:"rol,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	DeletedAt *time.Time    `json:"deleted_at,omitempty"`
}

func ToUserResponse(u *domain.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		DeletedAt: u.DeletedAt,
	}
	if u.Role != nil {
		r := ToRoleResponse(u.Role)
		resp.Rol = &r
	}
	return resp
}
