package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/community-portal/internal/domain"
)

// ErrPendingApplicationExists signals the one-pending-per-user rule.
var ErrPendingApplicationExists = fmt.Errorf("pending application exists")

// ErrApplicationResolved signals an attempt to re-review a terminal application.
var ErrApplicationResolved = fmt.Errorf("application already resolved")

// ApplicationFilter captures listing parameters.
type ApplicationFilter struct {
	UserID   *string
	Statuses []domain.ApplicationStatus
	Limit    int
	Offset   int
}

// ApplicationRepository encapsulates staff-application persistence. Approve
// runs the full approval side effect (roster insert, role upgrade) in one
// transaction so a failed roster write never leaves a half-applied approval.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.StaffApplication) error
	GetByID(ctx context.Context, id string) (*domain.StaffApplication, error)
	ListWithFilter(ctx context.Context, filter ApplicationFilter) ([]domain.StaffApplication, error)
	Approve(ctx context.Context, appID, reviewerID string, notes *string) (*domain.StaffApplication, error)
	Reject(ctx context.Context, appID, reviewerID string, notes *string) (*domain.StaffApplication, error)
}

type applicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository instantiates repository.
func NewApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &applicationRepository{pool: pool}
}

const applicationColumns = `id, user_id, position, experience, reason, age, status, review_notes, reviewed_by, reviewed_at, created_at, updated_at`

func (r *applicationRepository) Create(ctx context.Context, app *domain.StaffApplication) error {
	const query = `
        INSERT INTO staff_applications (user_id, position, experience, reason, age, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		app.UserID,
		app.Position,
		app.Experience,
		app.Reason,
		app.Age,
		app.Status,
	).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrPendingApplicationExists
	}
	return err
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.StaffApplication, error) {
	var app domain.StaffApplication
	if err := r.pool.QueryRow(ctx, `SELECT `+applicationColumns+` FROM staff_applications WHERE id=$1`, id).Scan(
		&app.ID,
		&app.UserID,
		&app.Position,
		&app.Experience,
		&app.Reason,
		&app.Age,
		&app.Status,
		&app.ReviewNotes,
		&app.ReviewedBy,
		&app.ReviewedAt,
		&app.CreatedAt,
		&app.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) ListWithFilter(ctx context.Context, filter ApplicationFilter) ([]domain.StaffApplication, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
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

	query := fmt.Sprintf(`SELECT %s FROM staff_applications WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		applicationColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StaffApplication
	for rows.Next() {
		var app domain.StaffApplication
		if err := rows.Scan(
			&app.ID,
			&app.UserID,
			&app.Position,
			&app.Experience,
			&app.Reason,
			&app.Age,
			&app.Status,
			&app.ReviewNotes,
			&app.ReviewedBy,
			&app.ReviewedAt,
			&app.CreatedAt,
			&app.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, app)
	}
	return result, rows.Err()
}

// Approve flips the application to approved, inserts the roster row when
// absent and upgrades the applicant's role from user to moderator. The status
// flip is guarded on status='pending', so a lost race (or a repeat call)
// fails the whole transaction instead of double-applying side effects.
func (r *applicationRepository) Approve(ctx context.Context, appID, reviewerID string, notes *string) (*domain.StaffApplication, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	app, err := r.resolveInTx(ctx, tx, appID, reviewerID, notes, domain.ApplicationStatusApproved)
	if err != nil {
		return nil, err
	}

	var username string
	if err := tx.QueryRow(ctx, `SELECT username FROM users WHERE id=$1`, app.UserID).Scan(&username); err != nil {
		return nil, err
	}

	const rosterQuery = `
        INSERT INTO staff_members (user_id, display_name, title)
        VALUES ($1,$2,$3)
        ON CONFLICT (user_id) DO NOTHING`
	if _, err := tx.Exec(ctx, rosterQuery, app.UserID, username, app.Position); err != nil {
		return nil, err
	}

	const roleQuery = `UPDATE users SET role=$1, updated_at=NOW() WHERE id=$2 AND role=$3`
	if _, err := tx.Exec(ctx, roleQuery, domain.RoleModerator, app.UserID, domain.RoleUser); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return app, nil
}

func (r *applicationRepository) Reject(ctx context.Context, appID, reviewerID string, notes *string) (*domain.StaffApplication, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	app, err := r.resolveInTx(ctx, tx, appID, reviewerID, notes, domain.ApplicationStatusRejected)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return app, nil
}

func (r *applicationRepository) resolveInTx(ctx context.Context, tx pgx.Tx, appID, reviewerID string, notes *string, status domain.ApplicationStatus) (*domain.StaffApplication, error) {
	const query = `
        UPDATE staff_applications
        SET status=$1, reviewed_by=$2, reviewed_at=NOW(), review_notes=$3, updated_at=NOW()
        WHERE id=$4 AND status=$5
        RETURNING ` + applicationColumns
	var app domain.StaffApplication
	err := tx.QueryRow(ctx, query, status, reviewerID, notes, appID, domain.ApplicationStatusPending).Scan(
		&app.ID,
		&app.UserID,
		&app.Position,
		&app.Experience,
		&app.Reason,
		&app.Age,
		&app.Status,
		&app.ReviewNotes,
		&app.ReviewedBy,
		&app.ReviewedAt,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		// Distinguish missing from already-resolved.
		var exists bool
		if checkErr := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM staff_applications WHERE id=$1)`, appID).Scan(&exists); checkErr == nil && exists {
			return nil, ErrApplicationResolved
		}
		return nil, pgx.ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
