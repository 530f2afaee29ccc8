package service

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/cache"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/mail"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// clock hands out strictly increasing timestamps so list ordering is stable.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.now.IsZero() {
		c.now = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	c.now = c.now.Add(time.Second)
	return c.now
}

var testClock = &clock{}

func paginate[T any](items []T, opts repository.ListOptions) []T {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	if opts.Offset >= len(items) {
		return []T{}
	}
	end := opts.Offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[opts.Offset:end]
}

func matchesDeleted(deletedAt *time.Time, deleted bool) bool {
	return (deletedAt != nil) == deleted
}

func softDelete(deletedAt **time.Time) error {
	if *deletedAt != nil {
		return repository.ErrNoRowsAffected
	}
	now := testClock.next()
	*deletedAt = &now
	return nil
}

func restore(deletedAt **time.Time) error {
	if *deletedAt == nil {
		return repository.ErrNoRowsAffected
	}
	*deletedAt = nil
	return nil
}

// Roles.

type memRoles struct {
	mu   sync.Mutex
	rows map[string]*domain.Role
}

func newMemRoles() *memRoles { return &memRoles{rows: map[string]*domain.Role{}} }

func (m *memRoles) Create(_ context.Context, role *domain.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	role.ID = uuid.NewString()
	role.CreatedAt = testClock.next()
	role.UpdatedAt = role.CreatedAt
	cp := *role
	m.rows[role.ID] = &cp
	return nil
}

func (m *memRoles) Update(_ context.Context, role *domain.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[role.ID]
	if !ok || row.DeletedAt != nil {
		return repository.ErrNoRowsAffected
	}
	row.Name, row.Description = role.Name, role.Description
	return nil
}

func (m *memRoles) GetByID(_ context.Context, id string, includeDeleted bool) (*domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || (row.DeletedAt != nil && !includeDeleted) {
		return nil, pgx.ErrNoRows
	}
	cp := *row
	return &cp, nil
}

func (m *memRoles) GetByName(_ context.Context, name string) (*domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.Name == name && row.DeletedAt == nil {
			cp := *row
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memRoles) ExistsByName(_ context.Context, name, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.Name == name && row.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRoles) List(_ context.Context, opts repository.ListOptions) ([]domain.Role, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Role
	for _, row := range m.rows {
		if matchesDeleted(row.DeletedAt, opts.Deleted) {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, opts), len(out), nil
}

func (m *memRoles) SoftDelete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return repository.ErrNoRowsAffected
	}
	return softDelete(&row.DeletedAt)
}

func (m *memRoles) Restore(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return repository.ErrNoRowsAffected
	}
	return restore(&row.DeletedAt)
}

// Users.

type memUsers struct {
	mu    sync.Mutex
	rows  map[string]*domain.User
	roles *memRoles
}

func newMemUsers(roles *memRoles) *memUsers {
	return &memUsers{rows: map[string]*domain.User{}, roles: roles}
}

func (m *memUsers) withRole(u domain.User) *domain.User {
	if role, err := m.roles.GetByID(context.Background(), u.RoleID, true); err == nil {
		u.Role = role
	}
	return &u
}

func (m *memUsers) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = uuid.NewString()
	user.Email = domain.NormalizeEmail(user.Email)
	user.CreatedAt = testClock.next()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	cp.Role = nil
	m.rows[user.ID] = &cp
	return nil
}

func (m *memUsers) Update(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[user.ID]
	if !ok || row.DeletedAt != nil {
		return repository.ErrNoRowsAffected
	}
	row.FirstName, row.LastName = user.FirstName, user.LastName
	row.Email = domain.NormalizeEmail(user.Email)
	row.PasswordHash = user.PasswordHash
	row.RoleID, row.Phone = user.RoleID, user.Phone
	return nil
}

func (m *memUsers) SetActive(_ context.Context, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return repository.ErrNoRowsAffected
	}
	row.Active = active
	return nil
}

func (m *memUsers) SetPassword(_ context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || row.DeletedAt != nil {
		return repository.ErrNoRowsAffected
	}
	row.PasswordHash = passwordHash
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string, includeDeleted bool) (*domain.User, error) {
	m.mu.Lock()
	row, ok := m.rows[id]
	m.mu.Unlock()
	if !ok || (row.DeletedAt != nil && !includeDeleted) {
		return nil, pgx.ErrNoRows
	}
	return m.withRole(*row), nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	var found *domain.User
	for _, row := range m.rows {
		if row.Email == domain.NormalizeEmail(email) && row.DeletedAt == nil {
			found = row
			break
		}
	}
	m.mu.Unlock()
	if found == nil {
		return nil, pgx.ErrNoRows
	}
	return m.withRole(*found), nil
}

func (m *memUsers) ExistsByEmail(_ context.Context, email, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.Email == domain.NormalizeEmail(email) && row.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) List(_ context.Context, opts repository.ListOptions) ([]domain.User, int, error) {
	m.mu.Lock()
	var out []domain.User
	for _, row := range m.rows {
		if matchesDeleted(row.DeletedAt, opts.Deleted) {
			out = append(out, *row)
		}
	}
	m.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	for i := range out {
		out[i] = *m.withRole(out[i])
	}
	return paginate(out, opts), len(out), nil
}

func (m *memUsers) SoftDelete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return repository.ErrNoRowsAffected
	}
	return softDelete(&row.DeletedAt)
}

func (m *memUsers) Restore(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return repository.ErrNoRowsAffected
	}
	return restore(&row.DeletedAt)
}

func (m *memUsers) DeleteUnverified(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || row.Active {
		return repository.ErrNoRowsAffected
	}
	delete(m.rows, id)
	return nil
}

func (m *memUsers) RoleNameForUser(ctx context.Context, userID string) (string, error) {
	user, err := m.GetByID(ctx, userID, false)
	if err != nil {
		return "", err
	}
	return user.RoleName(), nil
}

// Categories.

type memCategories struct {
	mu   sync.Mutex
	rows map[string]*domain.Category
}

func newMemCategories() *memCategories {
	return &memCategories{rows: map[string]*domain.Category{}}
}

func (m *memCategories) Create(_ context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	category.ID = uuid.NewString()
	category.CreatedAt = testClock.next()
	cp := *category
	cp.Parent = nil
	m.rows[category.ID] = &cp
	return nil
}

func (m *memCategories) Update(_ context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[category.ID]
	if !ok || row.DeletedAt != nil {
		return repository.ErrNoRowsAffected
	}
	row.Name, row.ParentID = category.Name, category.ParentID
	return nil
}

func (m *memCategories) SetStatus(_ context.Context, id string, status bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || row.DeletedAt != nil {
		return repository.ErrNoRowsAffected
	}
	row.Status = status
	return nil
}

func (m *memCategories) GetByID(_ context.Context, id string, includeDeleted bool) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || (row.DeletedAt != nil && !includeDeleted) {
		return nil, pgx.ErrNoRows
	}
	cp := *row
	return &cp, nil
}

func (m *memCategories) GetByIDAndKind(ctx context.Context, id string, kind domain.CategoryKind) (*domain.Category, error) {
	row, err := m.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if row.Kind != kind {
		return nil, pgx.ErrNoRows
	}
	return row, nil
}

func (m *memCategories) ExistsByName(_ context.Context, name, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.Name == name && row.DeletedAt == nil && row.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memCategories) ExistsSubcategoryByName(_ context.Context, name, parentID, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.Name == name && row.Kind == domain.CategoryKindSubcategory && row.ParentID != nil &&
			*row.ParentID == parentID && row.DeletedAt == nil && row.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memCategories) List(_ context.Context, opts repository.ListOptions) ([]domain.Category, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Category
	for _, row := range m.rows {
		if matchesDeleted(row.DeletedAt, opts.Deleted) {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, opts), len(out), nil
}

func (m *memCategories) ListActiveByKind(_ context.Context, kind domain.CategoryKind) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Category{}
	for _, row := range m.rows {
		if row.Kind == kind && row.Status && row.DeletedAt == nil {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memCategories) ListActiveChildren(_ context.Context, parentID string) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Category{}
	for _, row := range m.rows {
		if row.ParentID != nil && *row.ParentID == parentID && row.Status && row.DeletedAt == nil {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memCategories) SoftDelete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return repository.ErrNoRowsAffected
	}
	return softDelete(&row.DeletedAt)
}

func (m *memCategories) Restore(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return repository.ErrNoRowsAffected
	}
	return restore(&row.DeletedAt)
}

// Priorities.

type memPriorities struct {
	mu   sync.Mutex
	rows map[string]*domain.Priority
}

func newMemPriorities() *memPriorities {
	return &memPriorities{rows: map[string]*domain.Priority{}}
}

func (m *memPriorities) Create(_ context.Context, priority *domain.Priority) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	priority.ID = uuid.NewString()
	priority.CreatedAt = testClock.next()
	cp := *priority
	m.rows[priority.ID] = &cp
	return nil
}

func (m *memPriorities) Update(_ context.Context, priority *domain.Priority) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[priority.ID]
	if !ok || row.DeletedAt != nil {
		return repository.ErrNoRowsAffected
	}
	row.Name = priority.Name
	return nil
}

func (m *memPriorities) SetStatus(_ context.Context, id string, status bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || row.DeletedAt != nil {
		return repository.ErrNoRowsAffected
	}
	row.Status = status
	return nil
}

func (m *memPriorities) GetByID(_ context.Context, id string, includeDeleted bool) (*domain.Priority, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || (row.DeletedAt != nil && !includeDeleted) {
		return nil, pgx.ErrNoRows
	}
	cp := *row
	return &cp, nil
}

func (m *memPriorities) ExistsByName(_ context.Context, name, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.Name == name && row.DeletedAt == nil && row.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memPriorities) List(_ context.Context, opts repository.ListOptions) ([]domain.Priority, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Priority
	for _, row := range m.rows {
		if matchesDeleted(row.DeletedAt, opts.Deleted) {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, opts), len(out), nil
}

func (m *memPriorities) ListByStatus(_ context.Context, status bool) ([]domain.Priority, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Priority{}
	for _, row := range m.rows {
		if row.Status == status && row.DeletedAt == nil {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (m *memPriorities) SoftDelete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return repository.ErrNoRowsAffected
	}
	return softDelete(&row.DeletedAt)
}

func (m *memPriorities) Restore(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return repository.ErrNoRowsAffected
	}
	return restore(&row.DeletedAt)
}

// Tickets.

type memTickets struct {
	mu   sync.Mutex
	rows map[string]*domain.Ticket
}

func newMemTickets() *memTickets { return &memTickets{rows: map[string]*domain.Ticket{}} }

func (m *memTickets) Create(_ context.Context, ticket *domain.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ticket.ID = uuid.NewString()
	ticket.CreatedAt = testClock.next()
	cp := *ticket
	m.rows[ticket.ID] = &cp
	return nil
}

func (m *memTickets) UpdateStatus(_ context.Context, id, status string, comments *string, closedDate *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || row.DeletedAt != nil {
		return repository.ErrNoRowsAffected
	}
	row.Status, row.Comments, row.ClosedDate = status, comments, closedDate
	return nil
}

func (m *memTickets) Assign(_ context.Context, id, techID string, assignedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || row.DeletedAt != nil {
		return repository.ErrNoRowsAffected
	}
	row.AssignedTechID = &techID
	row.AssignedDate = &assignedAt
	return nil
}

func (m *memTickets) GetByID(_ context.Context, id string, includeDeleted bool) (*domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || (row.DeletedAt != nil && !includeDeleted) {
		return nil, pgx.ErrNoRows
	}
	cp := *row
	return &cp, nil
}

func (m *memTickets) GetByCode(_ context.Context, code string) (*domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.Code == code && row.DeletedAt == nil {
			cp := *row
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memTickets) CodeExists(_ context.Context, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *memTickets) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Ticket
	for _, row := range m.rows {
		if !matchesDeleted(row.DeletedAt, filter.Deleted) {
			continue
		}
		if filter.CreatorID != nil && row.CreatorID != *filter.CreatorID {
			continue
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	opts := repository.ListOptions{Offset: filter.Offset, Limit: filter.Limit}
	return paginate(out, opts), len(out), nil
}

func (m *memTickets) SoftDelete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return repository.ErrNoRowsAffected
	}
	return softDelete(&row.DeletedAt)
}

func (m *memTickets) Restore(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return repository.ErrNoRowsAffected
	}
	return restore(&row.DeletedAt)
}

func (m *memTickets) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// Tokens.

type memTokens struct {
	mu   sync.Mutex
	rows map[string]*domain.ActionToken
}

func newMemTokens() *memTokens { return &memTokens{rows: map[string]*domain.ActionToken{}} }

func (m *memTokens) Create(_ context.Context, token *domain.ActionToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	token.ID = uuid.NewString()
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	cp := *token
	m.rows[token.TokenID] = &cp
	return nil
}

func (m *memTokens) GetByTokenID(_ context.Context, tokenID string) (*domain.ActionToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[tokenID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *row
	return &cp, nil
}

func (m *memTokens) MarkUsed(_ context.Context, tokenID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[tokenID]
	if !ok || row.IsUsed {
		return repository.ErrNoRowsAffected
	}
	row.IsUsed = true
	return nil
}

func (m *memTokens) DeleteCreatedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for id, row := range m.rows {
		if row.CreatedAt.Before(cutoff) {
			delete(m.rows, id)
			removed++
		}
	}
	return removed, nil
}

// History.

type memHistory struct {
	mu   sync.Mutex
	rows []domain.TicketHistory
	err  error
}

func (m *memHistory) Create(_ context.Context, entry *domain.TicketHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	entry.ID = uuid.NewString()
	m.rows = append(m.rows, *entry)
	return nil
}

func (m *memHistory) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.TicketHistory{}
	for _, row := range m.rows {
		if row.TicketID == ticketID {
			out = append(out, row)
		}
	}
	return out, nil
}

// Mail.

type sentMail struct {
	Queue   string
	Message mail.Message
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(_ context.Context, queue string, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{Queue: queue, Message: msg})
	return nil
}

func (f *fakeMailer) last(t *testing.T) sentMail {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

// plainHasher keeps tests fast; bcrypt is covered in the auth package.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }
func (plainHasher) Compare(hashed, plain string) bool { return hashed == "hashed:"+plain }

func newRedisStore(t *testing.T) *cache.RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisStore(client)
}

func requireDomainError(t *testing.T, err error, status int, message string) {
	t.Helper()
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, status, de.HTTPStatus)
	assert.Equal(t, message, de.Message)
}

func requireNotFound(t *testing.T, err error, message string) {
	t.Helper()
	requireDomainError(t, err, http.StatusNotFound, message)
}

func requireBadRequest(t *testing.T, err error, message string) {
	t.Helper()
	requireDomainError(t, err, http.StatusBadRequest, message)
}

// seedUser stores an active user with the named role, creating the role on demand.
func seedUser(t *testing.T, roles *memRoles, users *memUsers, email, roleName, password string) *domain.User {
	t.Helper()
	ctx := context.Background()
	role, err := roles.GetByName(ctx, roleName)
	if err != nil {
		role = &domain.Role{Name: roleName}
		require.NoError(t, roles.Create(ctx, role))
	}
	user := &domain.User{
		FirstName:    "Ana",
		LastName:     "Pérez",
		Email:        email,
		PasswordHash: "hashed:" + password,
		RoleID:       role.ID,
		Active:       true,
	}
	require.NoError(t, users.Create(ctx, user))
	return user
}
