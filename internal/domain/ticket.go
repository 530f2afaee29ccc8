package domain

import "time"

// Ticket statuses are free text; these are the ones the service itself writes.
const (
	TicketStatusOpen   = "Abierto"
	TicketStatusClosed = "Cerrado"
)

// TicketCodeLength is the length of generated ticket codes.
const TicketCodeLength = 15

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID             string
	Code           string
	Title          string
	Description    string
	Status         string
	Comments       *string
	PriorityID     string
	Priority       *Priority
	CategoryID     string
	Category       *Category
	CreatorID      string
	Creator        *User
	AssignedTechID *string
	AssignedTech   *User
	AssignedDate   *time.Time
	ClosedDate     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}
