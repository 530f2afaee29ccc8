package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/mail"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

type recordingSender struct {
	queues []string
}

func (r *recordingSender) Send(_ context.Context, queue string, _ mail.Message) error {
	r.queues = append(r.queues, queue)
	return nil
}

func TestStartNotificationWorkerSubscribesMail(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	sender := &recordingSender{}
	notifications := service.NewNotificationService(dispatcher, sender, nil, config.MailConfig{NotifyAssigned: true})

	StartNotificationWorker(notifications, nil, dispatcher)

	err := dispatcher.Publish(context.Background(), events.NewEvent(events.EventTicketAssigned, "t-1", "admin", events.TicketAssignedPayload{
		Code:      "abc123",
		TechEmail: "tech@example.com",
		TechName:  "Luis",
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{mail.QueueTicketAssigned}, sender.queues)
}

func TestStartNotificationWorkerToleratesNil(t *testing.T) {
	assert.NotPanics(t, func() {
		StartNotificationWorker(nil, nil, events.NewInMemoryDispatcher())
	})
}
