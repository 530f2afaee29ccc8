package dto

import (
	"encoding/json"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string `json:"title" validate:"required,notblank,max=255"`
	Description string `json:"description" validate:"required,notblank"`
	CategoryID  string `json:"category_id" validate:"required,uuid"`
	PriorityID  string `json:"priority_id" validate:"required,uuid"`
}

// ChangeTicketStatusRequest payload.
type ChangeTicketStatusRequest struct {
	Status   string  `json:"status" validate:"required,notblank,max=50"`
	Comments *string `json:"comments"`
}

// AssignTechnicianRequest payload.
type AssignTechnicianRequest struct {
	AssignedTechID string `json:"assigned_tech_id" validate:"required,uuid"`
}

// TicketResponse is a ticket with its related records.
type TicketResponse struct {
	ID           string            `json:"id"`
	TicketCode   string            `json:"ticket_code"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Status       string            `json:"status"`
	Comments     *string           `json:"comments"`
	Priority     *PriorityResponse `json:"priority,omitempty"`
	Category     *CategoryResponse `json:"category,omitempty"`
	User         *UserResponse     `json:"user,omitempty"`
	AssignedTech *UserResponse     `json:"assigned_technician,omitempty"`
	AssignedDate *time.Time        `json:"assigned_date"`
	ClosedDate   *time.Time        `json:"closed_date"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	DeletedAt    *time.Time        `json:"deleted_at,omitempty"`
}

// CreatedTicketResponse answers POST /tickets.
type CreatedTicketResponse struct {
	Message string         `json:"message"`
	Ticket  TicketResponse `json:"ticket"`
}

// ToTicketResponse maps a ticket. Password digests never leave the service.
func ToTicketResponse(t *domain.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:           t.ID,
		TicketCode:   t.Code,
		Title:        t.Title,
		Description:  t.Description,
		Status:       t.Status,
		Comments:     t.Comments,
		AssignedDate: t.AssignedDate,
		ClosedDate:   t.ClosedDate,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		DeletedAt:    t.DeletedAt,
	}
	if t.Priority != nil {
		p := ToPriorityResponse(t.Priority)
		resp.Priority = &p
	}
	if t.Category != nil {
		c := ToCategoryResponse(t.Category)
		resp.Category = &c
	}
	if t.Creator != nil {
		u := ToUserResponse(t.Creator)
		resp.User = &u
	}
	if t.AssignedTech != nil {
		u := ToUserResponse(t.AssignedTech)
		resp.AssignedTech = &u
	}
	return resp
}

// TicketHistoryResponse is one audit trail entry.
type TicketHistoryResponse struct {
	ID        string          `json:"id"`
	TicketID  string          `json:"ticket_id"`
	ActorID   *string         `json:"actor_id,omitempty"`
	Event     string          `json:"event"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func ToTicketHistoryResponse(h *domain.TicketHistory) TicketHistoryResponse {
	return TicketHistoryResponse{
		ID:        h.ID,
		TicketID:  h.TicketID,
		ActorID:   h.ActorID,
		Event:     h.EventType,
		Payload:   h.Payload,
		CreatedAt: h.CreatedAt,
	}
}
