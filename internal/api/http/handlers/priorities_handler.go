package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/api/validator"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// PrioritiesHandler serves ticket priorities.
type PrioritiesHandler struct {
	priorities *service.PriorityService
	validator  *validator.Validator
}

func NewPrioritiesHandler(priorities *service.PriorityService, v *validator.Validator) *PrioritiesHandler {
	return &PrioritiesHandler{priorities: priorities, validator: v}
}

func (h *PrioritiesHandler) List(c *fiber.Ctx) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}
	q, err := bindListQuery(c, h.validator)
	if err != nil {
		return err
	}
	page, err := h.priorities.List(c.UserContext(), caller, q.ToService())
	if err != nil {
		return err
	}
	return ok(c, dto.MapPage(page, dto.ToPriorityResponse))
}

// ListByStatus GET /priorities/status/:status.
func (h *PrioritiesHandler) ListByStatus(c *fiber.Ctx) error {
	items, err := h.priorities.ListByStatus(c.UserContext(), c.Params("status"))
	if err != nil {
		return err
	}
	return ok(c, dto.MapSlice(items, dto.ToPriorityResponse))
}

func (h *PrioritiesHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	priority, err := h.priorities.GetByID(c.UserContext(), id, c.QueryBool("deleted"))
	if err != nil {
		return err
	}
	return ok(c, dto.ToPriorityResponse(priority))
}

func (h *PrioritiesHandler) Create(c *fiber.Ctx) error {
	var req dto.NameRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	priority, err := h.priorities.Create(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return created(c, fiber.Map{"message": service.MsgPriorityCreated, "priority": dto.ToPriorityResponse(priority)})
}

func (h *PrioritiesHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.NameRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	priority, err := h.priorities.Update(c.UserContext(), id, req.Name)
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"message": service.MsgPriorityUpdated, "priority": dto.ToPriorityResponse(priority)})
}

// ChangeStatus PUT /priorities/:id/change-status.
func (h *PrioritiesHandler) ChangeStatus(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.StatusRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	msg, err := h.priorities.ChangeStatus(c.UserContext(), id, *req.Status)
	if err != nil {
		return err
	}
	return message(c, msg)
}

func (h *PrioritiesHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.priorities.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, service.MsgPriorityRemoved)
}

func (h *PrioritiesHandler) Restore(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.priorities.Restore(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, service.MsgPriorityRestored)
}
