package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/api/validator"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service   *service.TicketService
	history   *service.HistoryService
	validator *validator.Validator
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, history *service.HistoryService, v *validator.Validator) *TicketsHandler {
	return &TicketsHandler{service: ticketService, history: history, validator: v}
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}
	q, err := bindListQuery(c, h.validator)
	if err != nil {
		return err
	}
	page, err := h.service.List(c.UserContext(), caller, q.ToService())
	if err != nil {
		return err
	}
	return ok(c, dto.MapPage(page, dto.ToTicketResponse))
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ticket, err := h.service.GetByID(c.UserContext(), caller, id, c.QueryBool("deleted"))
	if err != nil {
		return err
	}
	return ok(c, dto.ToTicketResponse(ticket))
}

// GetTicketByCode GET /tickets/code/:code.
func (h *TicketsHandler) GetTicketByCode(c *fiber.Ctx) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}
	code := strings.TrimSpace(c.Params("code"))
	if code == "" {
		return apperrors.NewValidationError("code required", nil)
	}
	ticket, err := h.service.GetByCode(c.UserContext(), caller, code)
	if err != nil {
		return err
	}
	return ok(c, dto.ToTicketResponse(ticket))
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	ticket, err := h.service.Create(c.UserContext(), caller, service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		PriorityID:  req.PriorityID,
	})
	if err != nil {
		return err
	}
	return created(c, dto.CreatedTicketResponse{
		Message: service.MsgTicketCreated,
		Ticket:  dto.ToTicketResponse(ticket),
	})
}

// ChangeStatus PUT /tickets/status/:id.
func (h *TicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.ChangeTicketStatusRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	input := service.TicketStatusInput{Status: strings.TrimSpace(req.Status), Comments: req.Comments}
	if err := h.service.ChangeStatus(c.UserContext(), caller, id, input); err != nil {
		return err
	}
	return message(c, service.MsgTicketStatusChanged)
}

// AssignTechnician PUT /tickets/assign/tech/:id.
func (h *TicketsHandler) AssignTechnician(c *fiber.Ctx) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.AssignTechnicianRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	if err := h.service.AssignTechnician(c.UserContext(), caller, id, req.AssignedTechID); err != nil {
		return err
	}
	return message(c, service.MsgTicketAssigned)
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), caller, id); err != nil {
		return err
	}
	return message(c, service.MsgTicketRemoved)
}

// RestoreTicket POST /tickets/:id.
func (h *TicketsHandler) RestoreTicket(c *fiber.Ctx) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Restore(c.UserContext(), caller, id); err != nil {
		return err
	}
	return message(c, service.MsgTicketRestored)
}

// TicketHistory GET /tickets/:id/history.
func (h *TicketsHandler) TicketHistory(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	entries, err := h.history.ListByTicket(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, dto.MapSlice(entries, dto.ToTicketHistoryResponse))
}
