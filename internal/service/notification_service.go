package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/mail"
)

// NotificationService reacts to ticket events.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     mail.Sender
	logger     *zap.Logger
	cfg        config.MailConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer mail.Sender, logger *zap.Logger, cfg config.MailConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		logger:     orNop(logger),
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.logEvent)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.logEvent)
	n.dispatcher.Subscribe(events.EventTicketDeleted, n.logEvent)
	n.dispatcher.Subscribe(events.EventTicketRestored, n.logEvent)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
}

func (n *NotificationService) logEvent(_ context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("ticket_id", event.TicketID),
		zap.String("actor_id", event.ActorID),
		zap.Any("payload", event.Payload))
	return nil
}

// handleTicketAssigned mails the technician. Delivery is best effort: a
// failure is logged and never fails the assignment.
func (n *NotificationService) handleTicketAssigned(ctx context.Context, event events.Event) error {
	_ = n.logEvent(ctx, event)
	if !n.cfg.NotifyAssigned || n.mailer == nil {
		return nil
	}
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok || payload.TechEmail == "" {
		return nil
	}

	msg := mail.Message{
		Email:    payload.TechEmail,
		Name:     payload.TechName,
		LastName: payload.TechLast,
		URL:      fmt.Sprintf("%s/tickets/%s", n.cfg.FrontHost, event.TicketID),
		Subject:  fmt.Sprintf("%s, se te ha asignado el ticket %s", payload.TechName, payload.Code),
		Extra: map[string]string{
			"ticketCode":  payload.Code,
			"ticketTitle": payload.Title,
		},
	}
	if err := n.mailer.Send(ctx, mail.QueueTicketAssigned, msg); err != nil {
		n.logger.Warn("assignment notification not sent",
			zap.String("ticket_id", event.TicketID),
			zap.String("email", payload.TechEmail),
			zap.Error(err))
	}
	return nil
}
