package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketDeleted       EventType = "ticket_deleted"
	EventTicketRestored      EventType = "ticket_restored"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TicketID  string    `json:"ticket_id"`
	ActorID   string    `json:"actor_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, ticketID, actorID string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Code       string `json:"code"`
	Title      string `json:"title"`
	CategoryID string `json:"category_id"`
	PriorityID string `json:"priority_id"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus string  `json:"old_status"`
	NewStatus string  `json:"new_status"`
	Comments  *string `json:"comments,omitempty"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	Code       string    `json:"code"`
	Title      string    `json:"title"`
	TechID     string    `json:"tech_id"`
	TechEmail  string    `json:"tech_email"`
	TechName   string    `json:"tech_name"`
	TechLast   string    `json:"tech_last_name"`
	AssignedAt time.Time `json:"assigned_at"`
}
