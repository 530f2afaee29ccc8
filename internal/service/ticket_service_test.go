package service

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/cache"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/mail"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

var ticketCodePattern = regexp.MustCompile(`^[a-z0-9]{15}$`)

type ticketFixture struct {
	svc        *TicketService
	tickets    *memTickets
	users      *memUsers
	roles      *memRoles
	categories *memCategories
	priorities *memPriorities
	dispatcher events.Dispatcher
	category   *domain.Category
	priority   *domain.Priority
}

func newTicketFixture(t *testing.T, store cache.Store) *ticketFixture {
	t.Helper()
	ctx := context.Background()
	f := &ticketFixture{
		tickets:    newMemTickets(),
		roles:      newMemRoles(),
		categories: newMemCategories(),
		priorities: newMemPriorities(),
		dispatcher: events.NewInMemoryDispatcher(),
	}
	f.users = newMemUsers(f.roles)

	category := domain.NewTopLevelCategory("Hardware")
	require.NoError(t, f.categories.Create(ctx, &category))
	f.category = &category
	f.priority = &domain.Priority{Name: "Alta", Status: true}
	require.NoError(t, f.priorities.Create(ctx, f.priority))

	f.svc = NewTicketService(TicketDependencies{
		TicketRepo:   f.tickets,
		UserRepo:     f.users,
		CategoryRepo: f.categories,
		PriorityRepo: f.priorities,
		Dispatcher:   f.dispatcher,
		Cache:        store,
		CacheTTL:     time.Minute,
	})
	return f
}

func (f *ticketFixture) input() TicketCreateInput {
	return TicketCreateInput{
		Title:       "Printer jammed",
		Description: "Third floor printer does not print",
		CategoryID:  f.category.ID,
		PriorityID:  f.priority.ID,
	}
}

func (f *ticketFixture) open(t *testing.T, creator *domain.User) *domain.Ticket {
	t.Helper()
	ticket, err := f.svc.Create(context.Background(), creator.ID, f.input())
	require.NoError(t, err)
	return ticket
}

func TestCreateTicket(t *testing.T) {
	f := newTicketFixture(t, nil)
	user := seedUser(t, f.roles, f.users, "ana@example.com", "cliente", "secret")

	ticket := f.open(t, user)

	assert.Regexp(t, ticketCodePattern, ticket.Code)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	require.NotNil(t, ticket.Comments)
	assert.Equal(t, "El usuario: Ana Pérez abrió un nuevo ticket", *ticket.Comments)
	assert.Equal(t, user.ID, ticket.CreatorID)

	byCode, err := f.svc.GetByCode(context.Background(), user.ID, ticket.Code)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, byCode.ID)
}

func TestCreateTicketCodesAreDistinct(t *testing.T) {
	f := newTicketFixture(t, nil)
	user := seedUser(t, f.roles, f.users, "ana@example.com", "cliente", "secret")

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		ticket := f.open(t, user)
		assert.Regexp(t, ticketCodePattern, ticket.Code)
		assert.False(t, seen[ticket.Code], "duplicate code %s", ticket.Code)
		seen[ticket.Code] = true
	}
}

func TestCreateTicketMissingReferences(t *testing.T) {
	f := newTicketFixture(t, nil)
	user := seedUser(t, f.roles, f.users, "ana@example.com", "cliente", "secret")
	missing := "00000000-0000-4000-8000-000000000000"

	tests := []struct {
		name    string
		creator string
		mutate  func(*TicketCreateInput)
		message string
	}{
		{"unknown creator", missing, func(*TicketCreateInput) {}, ErrUserNotFound},
		{"unknown category", user.ID, func(in *TicketCreateInput) { in.CategoryID = missing }, ErrCategoryNotFound},
		{"unknown priority", user.ID, func(in *TicketCreateInput) { in.PriorityID = missing }, ErrPriorityNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := f.input()
			tt.mutate(&input)
			_, err := f.svc.Create(context.Background(), tt.creator, input)
			requireNotFound(t, err, tt.message)
			assert.Equal(t, 0, f.tickets.count())
		})
	}
}

func TestCreateTicketRejectsSubcategory(t *testing.T) {
	f := newTicketFixture(t, nil)
	user := seedUser(t, f.roles, f.users, "ana@example.com", "cliente", "secret")
	categories := NewCategoryService(f.categories, nil, 0, nil)

	hardware, err := categories.Create(context.Background(), "Computadoras")
	require.NoError(t, err)
	printers, err := categories.CreateSubcategory(context.Background(), hardware.ID, "Printers")
	require.NoError(t, err)

	input := f.input()
	input.CategoryID = printers.ID
	_, err = f.svc.Create(context.Background(), user.ID, input)
	requireNotFound(t, err, ErrCategoryNotFound)
	assert.Equal(t, 0, f.tickets.count())
}

func TestCreateTicketRetriesCodeCollision(t *testing.T) {
	f := newTicketFixture(t, nil)
	user := seedUser(t, f.roles, f.users, "ana@example.com", "cliente", "secret")

	first := f.open(t, user)
	codes := []string{first.Code, first.Code, "zzzzzzzzzzzzzzz"}
	f.svc.newCode = func() (string, error) {
		code := codes[0]
		codes = codes[1:]
		return code, nil
	}

	second := f.open(t, user)
	assert.Equal(t, "zzzzzzzzzzzzzzz", second.Code)
}

func TestCreateTicketGivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newTicketFixture(t, nil)
	user := seedUser(t, f.roles, f.users, "ana@example.com", "cliente", "secret")
	first := f.open(t, user)
	f.svc.newCode = func() (string, error) { return first.Code, nil }

	_, err := f.svc.Create(context.Background(), user.ID, f.input())
	requireDomainError(t, err, http.StatusInternalServerError, ErrTicketError)
	assert.ErrorIs(t, err, errCodeSpaceExhausted)
	assert.Equal(t, 1, f.tickets.count())
}

func TestListTicketsScopedByRole(t *testing.T) {
	f := newTicketFixture(t, newRedisStore(t))
	ctx := context.Background()
	ana := seedUser(t, f.roles, f.users, "ana@example.com", "cliente", "secret")
	luis := seedUser(t, f.roles, f.users, "luis@example.com", "cliente", "secret")
	admin := seedUser(t, f.roles, f.users, "admin@example.com", domain.RoleAdmin, "secret")
	support := seedUser(t, f.roles, f.users, "soporte@example.com", domain.RoleSupport, "secret")

	f.open(t, ana)
	f.open(t, ana)
	f.open(t, luis)

	own, err := f.svc.List(ctx, ana.ID, ListQuery{})
	require.NoError(t, err)
	require.Len(t, own.Items, 2)
	for _, ticket := range own.Items {
		assert.Equal(t, ana.ID, ticket.CreatorID)
	}
	assert.Equal(t, 2, own.Meta.TotalItems)

	for _, caller := range []*domain.User{admin, support} {
		all, err := f.svc.List(ctx, caller.ID, ListQuery{})
		require.NoError(t, err)
		assert.Len(t, all.Items, 3)
		creators := map[string]bool{}
		for _, ticket := range all.Items {
			creators[ticket.CreatorID] = true
		}
		assert.True(t, creators[ana.ID])
		assert.True(t, creators[luis.ID])
	}
}

func TestListTicketsReflectsMutations(t *testing.T) {
	f := newTicketFixture(t, newRedisStore(t))
	ctx := context.Background()
	ana := seedUser(t, f.roles, f.users, "ana@example.com", "cliente", "secret")
	tech := seedUser(t, f.roles, f.users, "tech@example.com", domain.RoleSupport, "secret")

	first := f.open(t, ana)
	page, err := f.svc.List(ctx, ana.ID, ListQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	f.open(t, ana)
	page, err = f.svc.List(ctx, ana.ID, ListQuery{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	closed := "Resuelto en sitio"
	require.NoError(t, f.svc.ChangeStatus(ctx, tech.ID, first.ID, TicketStatusInput{Status: domain.TicketStatusClosed, Comments: &closed}))
	page, err = f.svc.List(ctx, ana.ID, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, findTicket(t, page.Items, first.ID).Status)

	require.NoError(t, f.svc.AssignTechnician(ctx, tech.ID, first.ID, tech.ID))
	page, err = f.svc.List(ctx, ana.ID, ListQuery{})
	require.NoError(t, err)
	require.NotNil(t, findTicket(t, page.Items, first.ID).AssignedTechID)

	require.NoError(t, f.svc.Delete(ctx, tech.ID, first.ID))
	page, err = f.svc.List(ctx, ana.ID, ListQuery{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	deleted, err := f.svc.List(ctx, ana.ID, ListQuery{Deleted: true})
	require.NoError(t, err)
	require.Len(t, deleted.Items, 1)
	assert.Equal(t, first.ID, deleted.Items[0].ID)

	require.NoError(t, f.svc.Restore(ctx, tech.ID, first.ID))
	page, err = f.svc.List(ctx, ana.ID, ListQuery{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}

func findTicket(t *testing.T, items []domain.Ticket, id string) domain.Ticket {
	t.Helper()
	for _, ticket := range items {
		if ticket.ID == id {
			return ticket
		}
	}
	t.Fatalf("ticket %s not in page", id)
	return domain.Ticket{}
}

func TestChangeStatus(t *testing.T) {
	f := newTicketFixture(t, nil)
	ctx := context.Background()
	ana := seedUser(t, f.roles, f.users, "ana@example.com", "cliente", "secret")
	ticket := f.open(t, ana)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return fixed }

	var published []events.Event
	f.dispatcher.Subscribe(events.EventTicketStatusChanged, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	require.NoError(t, f.svc.ChangeStatus(ctx, ana.ID, ticket.ID, TicketStatusInput{Status: domain.TicketStatusClosed}))
	stored, err := f.svc.GetByID(ctx, ana.ID, ticket.ID, false)
	require.NoError(t, err)
	require.NotNil(t, stored.ClosedDate)
	assert.Equal(t, fixed, *stored.ClosedDate)

	require.NoError(t, f.svc.ChangeStatus(ctx, ana.ID, ticket.ID, TicketStatusInput{Status: "En progreso"}))
	stored, err = f.svc.GetByID(ctx, ana.ID, ticket.ID, false)
	require.NoError(t, err)
	assert.Nil(t, stored.ClosedDate)
	assert.Equal(t, "En progreso", stored.Status)

	require.Len(t, published, 2)
	payload, ok := published[1].Payload.(events.TicketStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.TicketStatusClosed, payload.OldStatus)

	err = f.svc.ChangeStatus(ctx, ana.ID, "00000000-0000-4000-8000-000000000000", TicketStatusInput{Status: "x"})
	requireNotFound(t, err, ErrTicketNotFound)
}

func TestAssignTechnicianNotifies(t *testing.T) {
	f := newTicketFixture(t, nil)
	ctx := context.Background()
	ana := seedUser(t, f.roles, f.users, "ana@example.com", "cliente", "secret")
	tech := seedUser(t, f.roles, f.users, "tech@example.com", domain.RoleSupport, "secret")
	ticket := f.open(t, ana)

	mailer := &fakeMailer{}
	NewNotificationService(f.dispatcher, mailer, nil, config.MailConfig{NotifyAssigned: true, FrontHost: "https://help.example.com"}).RegisterHandlers()

	err := f.svc.AssignTechnician(ctx, ana.ID, ticket.ID, "00000000-0000-4000-8000-000000000000")
	requireNotFound(t, err, ErrUserNotFound)

	require.NoError(t, f.svc.AssignTechnician(ctx, ana.ID, ticket.ID, tech.ID))
	stored, err := f.svc.GetByID(ctx, ana.ID, ticket.ID, false)
	require.NoError(t, err)
	require.NotNil(t, stored.AssignedTechID)
	assert.Equal(t, tech.ID, *stored.AssignedTechID)
	assert.NotNil(t, stored.AssignedDate)

	sent := mailer.last(t)
	assert.Equal(t, mail.QueueTicketAssigned, sent.Queue)
	assert.Equal(t, "tech@example.com", sent.Message.Email)
	assert.Equal(t, "https://help.example.com/tickets/"+ticket.ID, sent.Message.URL)
}

func TestAssignSurvivesMailFailure(t *testing.T) {
	f := newTicketFixture(t, nil)
	ana := seedUser(t, f.roles, f.users, "ana@example.com", "cliente", "secret")
	tech := seedUser(t, f.roles, f.users, "tech@example.com", domain.RoleSupport, "secret")
	ticket := f.open(t, ana)

	mailer := &fakeMailer{err: errors.New("smtp down")}
	NewNotificationService(f.dispatcher, mailer, nil, config.MailConfig{NotifyAssigned: true}).RegisterHandlers()

	assert.NoError(t, f.svc.AssignTechnician(context.Background(), ana.ID, ticket.ID, tech.ID))
}

func TestDeleteAndRestoreTicket(t *testing.T) {
	f := newTicketFixture(t, nil)
	ctx := context.Background()
	ana := seedUser(t, f.roles, f.users, "ana@example.com", "cliente", "secret")
	ticket := f.open(t, ana)
	unknown := "00000000-0000-4000-8000-000000000000"

	requireNotFound(t, f.svc.Restore(ctx, ana.ID, ticket.ID), ErrTicketNotFound)
	requireNotFound(t, f.svc.Restore(ctx, ana.ID, unknown), ErrTicketNotFound)
	requireNotFound(t, f.svc.Delete(ctx, ana.ID, unknown), ErrTicketNotFound)

	require.NoError(t, f.svc.Delete(ctx, ana.ID, ticket.ID))
	requireNotFound(t, f.svc.Delete(ctx, ana.ID, ticket.ID), ErrTicketNotFound)
	_, err := f.svc.GetByID(ctx, ana.ID, ticket.ID, false)
	requireNotFound(t, err, ErrTicketNotFound)
	_, err = f.svc.GetByCode(ctx, ana.ID, ticket.Code)
	requireNotFound(t, err, ErrTicketNotFound)

	admin := seedUser(t, f.roles, f.users, "admin@example.com", domain.RoleAdmin, "secret")
	withDeleted, err := f.svc.GetByID(ctx, admin.ID, ticket.ID, true)
	require.NoError(t, err)
	assert.NotNil(t, withDeleted.DeletedAt)
	_, err = f.svc.GetByID(ctx, ana.ID, ticket.ID, true)
	requireNotFound(t, err, ErrTicketNotFound)

	require.NoError(t, f.svc.Restore(ctx, ana.ID, ticket.ID))
	_, err = f.svc.GetByID(ctx, ana.ID, ticket.ID, false)
	assert.NoError(t, err)
}

func TestTicketLookupsScopedToOwner(t *testing.T) {
	f := newTicketFixture(t, nil)
	ctx := context.Background()
	ana := seedUser(t, f.roles, f.users, "ana@example.com", "cliente", "secret")
	luis := seedUser(t, f.roles, f.users, "luis@example.com", "cliente", "secret")
	support := seedUser(t, f.roles, f.users, "soporte@example.com", domain.RoleSupport, "secret")
	ticket := f.open(t, ana)

	_, err := f.svc.GetByID(ctx, luis.ID, ticket.ID, false)
	requireNotFound(t, err, ErrTicketNotFound)
	_, err = f.svc.GetByCode(ctx, luis.ID, ticket.Code)
	requireNotFound(t, err, ErrTicketNotFound)

	own, err := f.svc.GetByID(ctx, ana.ID, ticket.ID, false)
	require.NoError(t, err)
	assert.Equal(t, ana.ID, own.CreatorID)

	for _, lookup := range []func() (*domain.Ticket, error){
		func() (*domain.Ticket, error) { return f.svc.GetByID(ctx, support.ID, ticket.ID, false) },
		func() (*domain.Ticket, error) { return f.svc.GetByCode(ctx, support.ID, ticket.Code) },
	} {
		got, err := lookup()
		require.NoError(t, err)
		assert.Equal(t, ticket.ID, got.ID)
	}

	_, err = f.svc.GetByID(ctx, "00000000-0000-4000-8000-000000000000", ticket.ID, false)
	requireNotFound(t, err, ErrUserNotFound)
}

func TestListTicketsUnknownCaller(t *testing.T) {
	f := newTicketFixture(t, nil)
	_, err := f.svc.List(context.Background(), "00000000-0000-4000-8000-000000000000", ListQuery{})
	assert.True(t, apperrors.HasStatus(err, http.StatusNotFound))
}
