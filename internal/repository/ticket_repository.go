package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketFilter captures list parameters. A nil CreatorID lists every creator.
type TicketFilter struct {
	CreatorID *string
	Deleted   bool
	Limit     int
	Offset    int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	UpdateStatus(ctx context.Context, id, status string, comments *string, closedDate *time.Time) error
	Assign(ctx context.Context, id, techID string, assignedAt time.Time) error
	GetByID(ctx context.Context, id string, includeDeleted bool) (*domain.Ticket, error)
	GetByCode(ctx context.Context, code string) (*domain.Ticket, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, int, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

// Password columns are never selected for creator or technician.
const ticketSelect = `
        SELECT t.id, t.ticket_code, t.title, t.description, t.status, t.comments,
               t.priority_id, t.category_id, t.creator_id, t.assigned_technician_id,
               t.assigned_date, t.closed_date, t.created_at, t.updated_at, t.deleted_at,
               p.name, p.status,
               c.name, c.type, c.status,
               cu.first_name, cu.last_name, cu.email,
               tu.first_name, tu.last_name, tu.email
        FROM tickets t
        JOIN priorities p ON p.id = t.priority_id
        JOIN categories c ON c.id = t.category_id
        JOIN users cu ON cu.id = t.creator_id
        LEFT JOIN users tu ON tu.id = t.assigned_technician_id`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_code, title, description, status, comments, priority_id, category_id, creator_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Code,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Comments,
		ticket.PriorityID,
		ticket.CategoryID,
		ticket.CreatorID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id, status string, comments *string, closedDate *time.Time) error {
	const query = `
        UPDATE tickets SET status=$1, comments=$2, closed_date=$3, updated_at=NOW()
        WHERE id=$4 AND deleted_at IS NULL`
	return execAffecting(ctx, r.pool, query, status, comments, closedDate, id)
}

func (r *ticketRepository) Assign(ctx context.Context, id, techID string, assignedAt time.Time) error {
	const query = `
        UPDATE tickets SET assigned_technician_id=$1, assigned_date=$2, updated_at=NOW()
        WHERE id=$3 AND deleted_at IS NULL`
	return execAffecting(ctx, r.pool, query, techID, assignedAt, id)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string, includeDeleted bool) (*domain.Ticket, error) {
	query := fmt.Sprintf(`%s WHERE t.id=$1 AND %s`, ticketSelect, visibleClause("t.deleted_at", includeDeleted))
	return scanTicket(r.pool.QueryRow(ctx, query, id))
}

func (r *ticketRepository) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	query := ticketSelect + ` WHERE t.ticket_code=$1 AND t.deleted_at IS NULL`
	return scanTicket(r.pool.QueryRow(ctx, query, code))
}

func (r *ticketRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM tickets WHERE ticket_code=$1)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, code).Scan(&exists)
	return exists, err
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, int, error) {
	clauses := []string{deletedClause("t.deleted_at", filter.Deleted)}
	args := []any{}

	if filter.CreatorID != nil {
		args = append(args, *filter.CreatorID)
		clauses = append(clauses, fmt.Sprintf("t.creator_id=$%d", len(args)))
	}
	where := strings.Join(clauses, " AND ")

	total, err := countRows(ctx, r.pool, `SELECT COUNT(*) FROM tickets t WHERE `+where, args...)
	if err != nil {
		return nil, 0, err
	}

	opts := ListOptions{Limit: filter.Limit, Offset: filter.Offset}
	query := fmt.Sprintf(`%s WHERE %s ORDER BY t.created_at DESC LIMIT %d OFFSET %d`,
		ticketSelect, where, opts.limit(), opts.offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	tickets, err := scanTickets(rows)
	return tickets, total, err
}

func (r *ticketRepository) SoftDelete(ctx context.Context, id string) error {
	return softDeleteRow(ctx, r.pool, "tickets", id)
}

func (r *ticketRepository) Restore(ctx context.Context, id string) error {
	return restoreRow(ctx, r.pool, "tickets", id)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket    domain.Ticket
		priority  domain.Priority
		category  domain.Category
		creator   domain.User
		techFirst *string
		techLast  *string
		techEmail *string
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.Code,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Comments,
		&ticket.PriorityID,
		&ticket.CategoryID,
		&ticket.CreatorID,
		&ticket.AssignedTechID,
		&ticket.AssignedDate,
		&ticket.ClosedDate,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.DeletedAt,
		&priority.Name,
		&priority.Status,
		&category.Name,
		&category.Kind,
		&category.Status,
		&creator.FirstName,
		&creator.LastName,
		&creator.Email,
		&techFirst,
		&techLast,
		&techEmail,
	); err != nil {
		return nil, err
	}

	priority.ID = ticket.PriorityID
	category.ID = ticket.CategoryID
	creator.ID = ticket.CreatorID
	ticket.Priority = &priority
	ticket.Category = &category
	ticket.Creator = &creator
	if ticket.AssignedTechID != nil {
		ticket.AssignedTech = &domain.User{
			ID:        *ticket.AssignedTechID,
			FirstName: derefString(techFirst),
			LastName:  derefString(techLast),
			Email:     derefString(techEmail),
		}
	}
	return &ticket, nil
}
