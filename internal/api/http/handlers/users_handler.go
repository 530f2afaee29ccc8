package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/api/validator"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// UsersHandler exposes user administration endpoints.
type UsersHandler struct {
	users     *service.UserService
	validator *validator.Validator
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService, v *validator.Validator) *UsersHandler {
	return &UsersHandler{users: users, validator: v}
}

// List GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}
	q, err := bindListQuery(c, h.validator)
	if err != nil {
		return err
	}
	page, err := h.users.List(c.UserContext(), caller, q.ToService())
	if err != nil {
		return err
	}
	return ok(c, dto.MapPage(page, dto.ToUserResponse))
}

// Get GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	user, err := h.users.GetByID(c.UserContext(), id, c.QueryBool("deleted"))
	if err != nil {
		return err
	}
	return ok(c, dto.ToUserResponse(user))
}

// Create POST /users. The new account stays inactive until verified.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	user, err := h.users.Create(c.UserContext(), req.ToService())
	if err != nil {
		return err
	}
	return created(c, fiber.Map{"message": service.MsgUserCreated, "user": dto.ToUserResponse(user)})
}

// Update PUT /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	user, err := h.users.Update(c.UserContext(), id, req.ToService())
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"message": service.MsgUserUpdated, "user": dto.ToUserResponse(user)})
}

// Delete DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, service.MsgUserRemoved)
}

// Restore POST /users/:id.
func (h *UsersHandler) Restore(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.users.Restore(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, service.MsgUserRestored)
}
