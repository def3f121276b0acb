package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/community-portal/internal/domain"
)

// StaffRepository manages the public staff roster.
type StaffRepository interface {
	Create(ctx context.Context, member *domain.StaffMember) error
	Update(ctx context.Context, member *domain.StaffMember) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.StaffMember, error)
	GetByUserID(ctx context.Context, userID string) (*domain.StaffMember, error)
	List(ctx context.Context, includeInactive bool) ([]domain.StaffMember, error)
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository builds repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

const staffColumns = `id, user_id, display_name, title, bio, sort_order, is_active, created_at, updated_at`

func (r *staffRepository) Create(ctx context.Context, member *domain.StaffMember) error {
	const query = `
        INSERT INTO staff_members (user_id, display_name, title, bio, sort_order, is_active)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		member.UserID,
		member.DisplayName,
		member.Title,
		member.Bio,
		member.SortOrder,
		member.IsActive,
	).Scan(&member.ID, &member.CreatedAt, &member.UpdatedAt)
}

func (r *staffRepository) Update(ctx context.Context, member *domain.StaffMember) error {
	const query = `
        UPDATE staff_members SET display_name=$1, title=$2, bio=$3, sort_order=$4, is_active=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		member.DisplayName,
		member.Title,
		member.Bio,
		member.SortOrder,
		member.IsActive,
		member.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM staff_members WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.StaffMember, error) {
	return r.fetchSingle(ctx, `SELECT `+staffColumns+` FROM staff_members WHERE id=$1`, id)
}

func (r *staffRepository) GetByUserID(ctx context.Context, userID string) (*domain.StaffMember, error) {
	return r.fetchSingle(ctx, `SELECT `+staffColumns+` FROM staff_members WHERE user_id=$1`, userID)
}

func (r *staffRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.StaffMember, error) {
	var member domain.StaffMember
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&member.ID,
		&member.UserID,
		&member.DisplayName,
		&member.Title,
		&member.Bio,
		&member.SortOrder,
		&member.IsActive,
		&member.CreatedAt,
		&member.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *staffRepository) List(ctx context.Context, includeInactive bool) ([]domain.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_members`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY sort_order ASC, created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StaffMember
	for rows.Next() {
		var member domain.StaffMember
		if err := rows.Scan(
			&member.ID,
			&member.UserID,
			&member.DisplayName,
			&member.Title,
			&member.Bio,
			&member.SortOrder,
			&member.IsActive,
			&member.CreatedAt,
			&member.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, member)
	}
	return result, rows.Err()
}
