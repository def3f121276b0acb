package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/community-portal/internal/domain"
)

// ErrTicketClosed is returned when a mutation targets a closed ticket.
var ErrTicketClosed = fmt.Errorf("ticket is closed")

// TicketFilter captures listing parameters.
type TicketFilter struct {
	OwnerID    *string
	AssignedTo *string
	Statuses   []domain.TicketStatus
	Limit      int
	Offset     int
}

// TicketRepository encapsulates ticket persistence. Status transitions are
// conditional updates so concurrent actors cannot resurrect a closed ticket.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Assign(ctx context.Context, ticketID, assigneeID string) error
	Close(ctx context.Context, ticketID, closedBy string) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, owner_id, subject, body, status, assigned_to, closed_at, closed_by, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (owner_id, subject, body, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.OwnerID,
		ticket.Subject,
		ticket.Body,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id).Scan(
		&ticket.ID,
		&ticket.OwnerID,
		&ticket.Subject,
		&ticket.Body,
		&ticket.Status,
		&ticket.AssignedTo,
		&ticket.ClosedAt,
		&ticket.ClosedBy,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("owner_id=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.OwnerID,
			&ticket.Subject,
			&ticket.Body,
			&ticket.Status,
			&ticket.AssignedTo,
			&ticket.ClosedAt,
			&ticket.ClosedBy,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

// Assign stores the assignee and forces processing unless the ticket is
// already closed.
func (r *ticketRepository) Assign(ctx context.Context, ticketID, assigneeID string) error {
	const query = `
        UPDATE tickets SET assigned_to=$1, status=$2, updated_at=NOW()
        WHERE id=$3 AND status <> $4`
	cmd, err := r.pool.Exec(ctx, query, assigneeID, domain.TicketStatusProcessing, ticketID, domain.TicketStatusClosed)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return r.closedOrMissing(ctx, ticketID)
	}
	return nil
}

// Close records the closing actor and time; closed is terminal.
func (r *ticketRepository) Close(ctx context.Context, ticketID, closedBy string) error {
	const query = `
        UPDATE tickets SET status=$1, closed_at=NOW(), closed_by=$2, updated_at=NOW()
        WHERE id=$3 AND status <> $1`
	cmd, err := r.pool.Exec(ctx, query, domain.TicketStatusClosed, closedBy, ticketID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return r.closedOrMissing(ctx, ticketID)
	}
	return nil
}

func (r *ticketRepository) closedOrMissing(ctx context.Context, ticketID string) error {
	var status domain.TicketStatus
	if err := r.pool.QueryRow(ctx, `SELECT status FROM tickets WHERE id=$1`, ticketID).Scan(&status); err != nil {
		return pgx.ErrNoRows
	}
	if status == domain.TicketStatusClosed {
		return ErrTicketClosed
	}
	return pgx.ErrNoRows
}
