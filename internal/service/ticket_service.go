package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/cache"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

const (
	ticketCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	maxCodeAttempts    = 5
)

var errCodeSpaceExhausted = errors.New("no free ticket code after retries")

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	categories repository.CategoryRepository
	priorities repository.PriorityRepository
	dispatcher events.Dispatcher
	cache      cacheSettings
	logger     *zap.Logger
	newCode    func() (string, error)
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	UserRepo     repository.UserRepository
	CategoryRepo repository.CategoryRepository
	PriorityRepo repository.PriorityRepository
	Dispatcher   events.Dispatcher
	Cache        cache.Store
	CacheTTL     time.Duration
	Logger       *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	CategoryID  string
	PriorityID  string
}

// TicketStatusInput is a status transition with optional comments.
type TicketStatusInput struct {
	Status   string
	Comments *string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := orNop(deps.Logger)
	return &TicketService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		categories: deps.CategoryRepo,
		priorities: deps.PriorityRepo,
		dispatcher: deps.Dispatcher,
		cache:      cacheSettings{store: deps.Cache, ttl: deps.CacheTTL, logger: logger},
		logger:     logger,
		newCode:    generateTicketCode,
		now:        time.Now,
	}
}

// List returns a page of tickets. Admin and support callers see every
// ticket; anyone else sees only tickets they created.
func (s *TicketService) List(ctx context.Context, callerID string, q ListQuery) (PageResult[domain.Ticket], error) {
	q = q.normalized()
	roleName, err := s.users.RoleNameForUser(ctx, callerID)
	if err != nil {
		return PageResult[domain.Ticket]{}, lookupError(err, ErrUserNotFound)
	}

	filter := repository.TicketFilter{
		Deleted: q.Deleted,
		Limit:   q.Limit,
		Offset:  q.options().Offset,
	}
	if !domain.IsPrivileged(roleName) {
		filter.CreatorID = &callerID
	}

	return listCached(ctx, s.cache, cache.EntityTickets, callerID, q, func(ctx context.Context) (PageResult[domain.Ticket], error) {
		items, total, err := s.tickets.List(ctx, filter)
		if err != nil {
			return PageResult[domain.Ticket]{}, apperrors.NewInternalError(err)
		}
		return newPageResult(items, q, total), nil
	})
}

// GetByID fetches a ticket with its relations. Callers without an admin or
// support role only see live tickets they created; anything else is NotFound.
func (s *TicketService) GetByID(ctx context.Context, callerID, id string, includeDeleted bool) (*domain.Ticket, error) {
	privileged, err := s.callerIsPrivileged(ctx, callerID)
	if err != nil {
		return nil, err
	}
	ticket, err := s.load(ctx, id, includeDeleted && privileged)
	if err != nil {
		return nil, err
	}
	return s.visibleTo(ticket, callerID, privileged)
}

// GetByCode fetches a live ticket by its public code, scoped like GetByID.
func (s *TicketService) GetByCode(ctx context.Context, callerID, code string) (*domain.Ticket, error) {
	privileged, err := s.callerIsPrivileged(ctx, callerID)
	if err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetByCode(ctx, strings.ToLower(strings.TrimSpace(code)))
	if err != nil {
		if repository.IsNotFound(err) {
			s.logger.Warn("ticket not found", zap.String("ticket_code", code))
		}
		return nil, lookupError(err, ErrTicketNotFound)
	}
	return s.visibleTo(ticket, callerID, privileged)
}

func (s *TicketService) callerIsPrivileged(ctx context.Context, callerID string) (bool, error) {
	roleName, err := s.users.RoleNameForUser(ctx, callerID)
	if err != nil {
		return false, lookupError(err, ErrUserNotFound)
	}
	return domain.IsPrivileged(roleName), nil
}

func (s *TicketService) visibleTo(ticket *domain.Ticket, callerID string, privileged bool) (*domain.Ticket, error) {
	if privileged || ticket.CreatorID == callerID {
		return ticket, nil
	}
	s.logger.Warn("ticket hidden from caller",
		zap.String("ticket_id", ticket.ID),
		zap.String("caller_id", callerID))
	return nil, apperrors.NewNotFound(ErrTicketNotFound, nil)
}

func (s *TicketService) load(ctx context.Context, id string, includeDeleted bool) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id, includeDeleted)
	if err != nil {
		if repository.IsNotFound(err) {
			s.logger.Warn("ticket not found", zap.String("ticket_id", id))
		}
		return nil, lookupError(err, ErrTicketNotFound)
	}
	return ticket, nil
}

// Create opens a ticket for creatorID. The creator, the top-level category
// and the priority must all exist.
func (s *TicketService) Create(ctx context.Context, creatorID string, input TicketCreateInput) (*domain.Ticket, error) {
	creator, err := s.users.GetByID(ctx, creatorID, false)
	if err != nil {
		return nil, lookupError(err, ErrUserNotFound)
	}
	category, err := s.categories.GetByIDAndKind(ctx, input.CategoryID, domain.CategoryKindCategory)
	if err != nil {
		return nil, lookupError(err, ErrCategoryNotFound)
	}
	priority, err := s.priorities.GetByID(ctx, input.PriorityID, false)
	if err != nil {
		return nil, lookupError(err, ErrPriorityNotFound)
	}

	code, err := s.uniqueCode(ctx)
	if err != nil {
		return nil, apperrors.NewInternalErrorMessage(ErrTicketError, err)
	}

	comments := fmt.Sprintf("El usuario: %s %s abrió un nuevo ticket", creator.FirstName, creator.LastName)
	ticket := &domain.Ticket{
		Code:        code,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TicketStatusOpen,
		Comments:    &comments,
		PriorityID:  priority.ID,
		Priority:    priority,
		CategoryID:  category.ID,
		Category:    category,
		CreatorID:   creator.ID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.NewInternalErrorMessage(ErrTicketError, err)
	}
	creator.PasswordHash = ""
	ticket.Creator = creator

	s.cache.invalidate(ctx, cache.EntityTickets)
	s.publish(ctx, events.NewEvent(events.EventTicketCreated, ticket.ID, creatorID, events.TicketCreatedPayload{
		Code:       ticket.Code,
		Title:      ticket.Title,
		CategoryID: ticket.CategoryID,
		PriorityID: ticket.PriorityID,
	}))
	return ticket, nil
}

// ChangeStatus replaces status and comments. Closing stamps the closed date;
// any other status clears it.
func (s *TicketService) ChangeStatus(ctx context.Context, actorID, id string, input TicketStatusInput) error {
	ticket, err := s.load(ctx, id, false)
	if err != nil {
		return err
	}

	var closedDate *time.Time
	if input.Status == domain.TicketStatusClosed {
		now := s.now()
		closedDate = &now
	}
	if err := s.tickets.UpdateStatus(ctx, ticket.ID, input.Status, input.Comments, closedDate); err != nil {
		return writeError(err, ErrTicketNotUpdated)
	}

	s.cache.invalidate(ctx, cache.EntityTickets)
	s.publish(ctx, events.NewEvent(events.EventTicketStatusChanged, ticket.ID, actorID, events.TicketStatusChangedPayload{
		OldStatus: ticket.Status,
		NewStatus: input.Status,
		Comments:  input.Comments,
	}))
	return nil
}

// AssignTechnician sets the technician and stamps the assignment date.
func (s *TicketService) AssignTechnician(ctx context.Context, actorID, id, techID string) error {
	ticket, err := s.load(ctx, id, false)
	if err != nil {
		return err
	}
	tech, err := s.users.GetByID(ctx, techID, false)
	if err != nil {
		return lookupError(err, ErrUserNotFound)
	}

	assignedAt := s.now()
	if err := s.tickets.Assign(ctx, ticket.ID, tech.ID, assignedAt); err != nil {
		return writeError(err, ErrTicketNotUpdated)
	}

	s.cache.invalidate(ctx, cache.EntityTickets)
	s.publish(ctx, events.NewEvent(events.EventTicketAssigned, ticket.ID, actorID, events.TicketAssignedPayload{
		Code:       ticket.Code,
		Title:      ticket.Title,
		TechID:     tech.ID,
		TechEmail:  tech.Email,
		TechName:   tech.FirstName,
		TechLast:   tech.LastName,
		AssignedAt: assignedAt,
	}))
	return nil
}

// Delete soft-deletes a live ticket.
func (s *TicketService) Delete(ctx context.Context, actorID, id string) error {
	ticket, err := s.load(ctx, id, false)
	if err != nil {
		return err
	}
	if err := s.tickets.SoftDelete(ctx, ticket.ID); err != nil {
		return writeError(err, ErrTicketNotDeleted)
	}
	s.cache.invalidate(ctx, cache.EntityTickets)
	s.publish(ctx, events.NewEvent(events.EventTicketDeleted, ticket.ID, actorID, nil))
	return nil
}

// Restore brings back a soft-deleted ticket. A live or unknown id is NotFound.
func (s *TicketService) Restore(ctx context.Context, actorID, id string) error {
	ticket, err := s.load(ctx, id, true)
	if err != nil {
		return err
	}
	if ticket.DeletedAt == nil {
		return apperrors.NewNotFound(ErrTicketNotFound, nil)
	}
	if err := s.tickets.Restore(ctx, ticket.ID); err != nil {
		return writeError(err, ErrTicketNotRestored)
	}
	s.cache.invalidate(ctx, cache.EntityTickets)
	s.publish(ctx, events.NewEvent(events.EventTicketRestored, ticket.ID, actorID, nil))
	return nil
}

func (s *TicketService) uniqueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return "", err
		}
		taken, err := s.tickets.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
		s.logger.Warn("ticket code collision", zap.String("ticket_code", code), zap.Int("attempt", attempt+1))
	}
	return "", errCodeSpaceExhausted
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
	}
}

func generateTicketCode() (string, error) {
	max := big.NewInt(int64(len(ticketCodeAlphabet)))
	buf := make([]byte, domain.TicketCodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = ticketCodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
