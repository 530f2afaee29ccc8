package domain

import (
	"encoding/json"
	"time"
)

// TicketHistory is an immutable audit trail entry written for every ticket
// event. Payload is the event payload as JSON.
type TicketHistory struct {
	ID        string
	TicketID  string
	ActorID   *string
	EventType string
	Payload   json.RawMessage
	CreatedAt time.Time
}
