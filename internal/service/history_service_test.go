package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
)

func TestHistoryRecordsTicketLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture(t, nil)
	history := &memHistory{}
	svc := NewHistoryService(history, f.tickets, nil)
	svc.RegisterHandlers(f.dispatcher)

	ana := seedUser(t, f.roles, f.users, "ana@example.com", "cliente", "secret")
	admin := seedUser(t, f.roles, f.users, "admin@example.com", domain.RoleAdmin, "secret")
	ticket := f.open(t, ana)

	comments := "Revisando"
	require.NoError(t, f.svc.ChangeStatus(ctx, admin.ID, ticket.ID, TicketStatusInput{Status: "En proceso", Comments: &comments}))
	require.NoError(t, f.svc.Delete(ctx, admin.ID, ticket.ID))

	entries, err := svc.ListByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, string(events.EventTicketCreated), entries[0].EventType)
	assert.Equal(t, ana.ID, *entries[0].ActorID)
	assert.Equal(t, string(events.EventTicketDeleted), entries[2].EventType)

	var change events.TicketStatusChangedPayload
	require.NoError(t, json.Unmarshal(entries[1].Payload, &change))
	assert.Equal(t, "En proceso", change.NewStatus)
	require.NotNil(t, change.Comments)
	assert.Equal(t, "Revisando", *change.Comments)
}

func TestHistoryUnknownTicket(t *testing.T) {
	f := newTicketFixture(t, nil)
	svc := NewHistoryService(&memHistory{}, f.tickets, nil)

	_, err := svc.ListByTicket(context.Background(), unknownID)
	requireNotFound(t, err, ErrTicketNotFound)
}

func TestHistoryFailureDoesNotFailMutation(t *testing.T) {
	f := newTicketFixture(t, nil)
	NewHistoryService(&memHistory{err: errors.New("db down")}, f.tickets, nil).RegisterHandlers(f.dispatcher)
	ana := seedUser(t, f.roles, f.users, "ana@example.com", "cliente", "secret")

	ticket := f.open(t, ana)
	assert.NotEmpty(t, ticket.ID)
	assert.Equal(t, 1, f.tickets.count())
}
