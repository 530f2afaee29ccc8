package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/api/validator"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// RolesHandler exposes role administration endpoints.
type RolesHandler struct {
	roles     *service.RoleService
	validator *validator.Validator
}

func NewRolesHandler(roles *service.RoleService, v *validator.Validator) *RolesHandler {
	return &RolesHandler{roles: roles, validator: v}
}

func (h *RolesHandler) List(c *fiber.Ctx) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}
	q, err := bindListQuery(c, h.validator)
	if err != nil {
		return err
	}
	page, err := h.roles.List(c.UserContext(), caller, q.ToService())
	if err != nil {
		return err
	}
	return ok(c, dto.MapPage(page, dto.ToRoleResponse))
}

func (h *RolesHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	role, err := h.roles.GetByID(c.UserContext(), id, c.QueryBool("deleted"))
	if err != nil {
		return err
	}
	return ok(c, dto.ToRoleResponse(role))
}

func (h *RolesHandler) Create(c *fiber.Ctx) error {
	var req dto.RoleRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	role, err := h.roles.Create(c.UserContext(), service.RoleInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return err
	}
	return created(c, fiber.Map{"message": service.MsgRoleCreated, "rol": dto.ToRoleResponse(role)})
}

func (h *RolesHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.RoleUpdateRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	role, err := h.roles.Update(c.UserContext(), id, service.RoleInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"message": service.MsgRoleUpdated, "rol": dto.ToRoleResponse(role)})
}

func (h *RolesHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.roles.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, service.MsgRoleRemoved)
}

func (h *RolesHandler) Restore(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.roles.Restore(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, service.MsgRoleRestored)
}
