package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/community-portal/internal/domain"
)

// TicketReplyRepository manages the append-only reply thread.
type TicketReplyRepository interface {
	// Create inserts the reply and, when transitionToProcessing is set,
	// flips the ticket from open to processing in the same transaction.
	// The transition is a conditional update, so concurrent staff replies
	// are idempotent.
	Create(ctx context.Context, reply *domain.TicketReply, transitionToProcessing bool) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketReply, error)
}

type ticketReplyRepository struct {
	pool *pgxpool.Pool
}

// NewTicketReplyRepository builds repository.
func NewTicketReplyRepository(pool *pgxpool.Pool) TicketReplyRepository {
	return &ticketReplyRepository{pool: pool}
}

func (r *ticketReplyRepository) Create(ctx context.Context, reply *domain.TicketReply, transitionToProcessing bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insertQuery = `
        INSERT INTO ticket_replies (ticket_id, author_id, body, is_staff, is_system)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, insertQuery,
		reply.TicketID,
		reply.AuthorID,
		reply.Body,
		reply.IsStaff,
		reply.IsSystem,
	).Scan(&reply.ID, &reply.CreatedAt); err != nil {
		return err
	}

	if transitionToProcessing {
		const transitionQuery = `
            UPDATE tickets SET status=$1, updated_at=NOW()
            WHERE id=$2 AND status=$3`
		if _, err := tx.Exec(ctx, transitionQuery,
			domain.TicketStatusProcessing, reply.TicketID, domain.TicketStatusOpen); err != nil {
			return err
		}
	} else {
		if _, err := tx.Exec(ctx, `UPDATE tickets SET updated_at=NOW() WHERE id=$1`, reply.TicketID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *ticketReplyRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketReply, error) {
	const query = `
        SELECT id, ticket_id, author_id, body, is_staff, is_system, created_at
        FROM ticket_replies WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketReply
	for rows.Next() {
		var reply domain.TicketReply
		if err := rows.Scan(
			&reply.ID,
			&reply.TicketID,
			&reply.AuthorID,
			&reply.Body,
			&reply.IsStaff,
			&reply.IsSystem,
			&reply.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, reply)
	}
	return result, rows.Err()
}
