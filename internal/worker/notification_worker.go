package worker

import (
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// StartNotificationWorker subscribes the ticket event consumers: mail
// notifications first, then the audit trail recorder.
func StartNotificationWorker(notificationService *service.NotificationService, history *service.HistoryService, dispatcher events.Dispatcher) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if history != nil {
		history.RegisterHandlers(dispatcher)
	}
}
