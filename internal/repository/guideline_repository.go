package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/community-portal/internal/domain"
)

// GuidelineFilter captures listing parameters.
type GuidelineFilter struct {
	Type          *string
	PublishedOnly bool
}

// GuidelineRepository manages guideline documents.
type GuidelineRepository interface {
	Create(ctx context.Context, guideline *domain.Guideline) error
	Update(ctx context.Context, guideline *domain.Guideline) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Guideline, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Guideline, error)
	List(ctx context.Context, filter GuidelineFilter) ([]domain.Guideline, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type guidelineRepository struct {
	pool *pgxpool.Pool
}

// NewGuidelineRepository builds repository.
func NewGuidelineRepository(pool *pgxpool.Pool) GuidelineRepository {
	return &guidelineRepository{pool: pool}
}

const guidelineColumns = `id, type, title, slug, content, sort_order, is_published, created_at, updated_at`

func (r *guidelineRepository) Create(ctx context.Context, guideline *domain.Guideline) error {
	const query = `
        INSERT INTO guidelines (type, title, slug, content, sort_order, is_published)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		guideline.Type,
		guideline.Title,
		guideline.Slug,
		guideline.Content,
		guideline.SortOrder,
		guideline.IsPublished,
	).Scan(&guideline.ID, &guideline.CreatedAt, &guideline.UpdatedAt)
}

func (r *guidelineRepository) Update(ctx context.Context, guideline *domain.Guideline) error {
	const query = `
        UPDATE guidelines SET type=$1, title=$2, slug=$3, content=$4, sort_order=$5, is_published=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		guideline.Type,
		guideline.Title,
		guideline.Slug,
		guideline.Content,
		guideline.SortOrder,
		guideline.IsPublished,
		guideline.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *guidelineRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM guidelines WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *guidelineRepository) GetByID(ctx context.Context, id string) (*domain.Guideline, error) {
	return r.fetchSingle(ctx, `SELECT `+guidelineColumns+` FROM guidelines WHERE id=$1`, id)
}

func (r *guidelineRepository) GetBySlug(ctx context.Context, slug string) (*domain.Guideline, error) {
	return r.fetchSingle(ctx, `SELECT `+guidelineColumns+` FROM guidelines WHERE slug=$1`, slug)
}

func (r *guidelineRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Guideline, error) {
	var guideline domain.Guideline
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&guideline.ID,
		&guideline.Type,
		&guideline.Title,
		&guideline.Slug,
		&guideline.Content,
		&guideline.SortOrder,
		&guideline.IsPublished,
		&guideline.CreatedAt,
		&guideline.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &guideline, nil
}

func (r *guidelineRepository) List(ctx context.Context, filter GuidelineFilter) ([]domain.Guideline, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Type != nil {
		args = append(args, *filter.Type)
		clauses = append(clauses, fmt.Sprintf("type=$%d", len(args)))
	}
	if filter.PublishedOnly {
		clauses = append(clauses, "is_published = TRUE")
	}

	query := fmt.Sprintf(`SELECT %s FROM guidelines WHERE %s ORDER BY sort_order ASC, created_at ASC`,
		guidelineColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Guideline
	for rows.Next() {
		var guideline domain.Guideline
		if err := rows.Scan(
			&guideline.ID,
			&guideline.Type,
			&guideline.Title,
			&guideline.Slug,
			&guideline.Content,
			&guideline.SortOrder,
			&guideline.IsPublished,
			&guideline.CreatedAt,
			&guideline.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, guideline)
	}
	return result, rows.Err()
}

func (r *guidelineRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM guidelines WHERE slug=$1)`, slug).Scan(&exists)
	return exists, err
}
