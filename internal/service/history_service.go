package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// HistoryService keeps the audit trail of every ticket. Entries are written
// from ticket events, so the mutating paths never touch the history table.
type HistoryService struct {
	history repository.TicketHistoryRepository
	tickets repository.TicketRepository
	logger  *zap.Logger
}

// NewHistoryService constructs the service.
func NewHistoryService(history repository.TicketHistoryRepository, tickets repository.TicketRepository, logger *zap.Logger) *HistoryService {
	return &HistoryService{history: history, tickets: tickets, logger: orNop(logger)}
}

// RegisterHandlers subscribes the recorder to every ticket event.
func (s *HistoryService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketStatusChanged,
		events.EventTicketAssigned,
		events.EventTicketDeleted,
		events.EventTicketRestored,
	} {
		dispatcher.Subscribe(eventType, s.record)
	}
}

func (s *HistoryService) record(ctx context.Context, event events.Event) error {
	entry := &domain.TicketHistory{
		TicketID:  event.TicketID,
		EventType: string(event.Type),
	}
	if event.ActorID != "" {
		actor := event.ActorID
		entry.ActorID = &actor
	}
	if event.Payload != nil {
		payload, err := json.Marshal(event.Payload)
		if err != nil {
			return err
		}
		entry.Payload = payload
	}
	if err := s.history.Create(ctx, entry); err != nil {
		s.logger.Warn("ticket history not recorded",
			zap.String("ticket_id", event.TicketID),
			zap.String("event", string(event.Type)),
			zap.Error(err))
		return err
	}
	return nil
}

// ListByTicket returns the audit trail of a ticket, deleted tickets included.
func (s *HistoryService) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID, true); err != nil {
		return nil, lookupError(err, ErrTicketNotFound)
	}
	entries, err := s.history.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, lookupError(err, ErrTicketNotFound)
	}
	return entries, nil
}
