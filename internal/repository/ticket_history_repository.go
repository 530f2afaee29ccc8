package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketHistoryRepository stores audit entries.
type TicketHistoryRepository interface {
	Create(ctx context.Context, history *domain.TicketHistory) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error)
}

type ticketHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewTicketHistoryRepository builds repository.
func NewTicketHistoryRepository(pool *pgxpool.Pool) TicketHistoryRepository {
	return &ticketHistoryRepository{pool: pool}
}

func (r *ticketHistoryRepository) Create(ctx context.Context, history *domain.TicketHistory) error {
	const query = `
        INSERT INTO ticket_history (ticket_id, actor_id, event_type, payload)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	payload := history.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	return r.pool.QueryRow(ctx, query,
		history.TicketID,
		history.ActorID,
		history.EventType,
		[]byte(payload),
	).Scan(&history.ID, &history.CreatedAt)
}

// ListByTicket returns the entries of a ticket, oldest first.
func (r *ticketHistoryRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	const query = `
        SELECT id, ticket_id, actor_id, event_type, payload, created_at
        FROM ticket_history WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.TicketHistory{}
	for rows.Next() {
		var (
			history domain.TicketHistory
			payload []byte
		)
		if err := rows.Scan(
			&history.ID,
			&history.TicketID,
			&history.ActorID,
			&history.EventType,
			&payload,
			&history.CreatedAt,
		); err != nil {
			return nil, err
		}
		history.Payload = payload
		result = append(result, history)
	}
	return result, rows.Err()
}
