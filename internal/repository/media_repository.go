package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/community-portal/internal/domain"
)

// MediaRepository manages gallery entries.
type MediaRepository interface {
	Create(ctx context.Context, item *domain.MediaItem) error
	Update(ctx context.Context, item *domain.MediaItem) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.MediaItem, error)
	List(ctx context.Context, approvedOnly bool, limit, offset int) ([]domain.MediaItem, error)
}

type mediaRepository struct {
	pool *pgxpool.Pool
}

// NewMediaRepository builds repository.
func NewMediaRepository(pool *pgxpool.Pool) MediaRepository {
	return &mediaRepository{pool: pool}
}

const mediaColumns = `id, uploader_id, title, url, thumbnail_url, is_approved, created_at`

func (r *mediaRepository) Create(ctx context.Context, item *domain.MediaItem) error {
	const query = `
        INSERT INTO media_items (uploader_id, title, url, thumbnail_url, is_approved)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		item.UploaderID,
		item.Title,
		item.URL,
		item.ThumbnailURL,
		item.IsApproved,
	).Scan(&item.ID, &item.CreatedAt)
}

func (r *mediaRepository) Update(ctx context.Context, item *domain.MediaItem) error {
	const query = `
        UPDATE media_items SET title=$1, url=$2, thumbnail_url=$3, is_approved=$4
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		item.Title,
		item.URL,
		item.ThumbnailURL,
		item.IsApproved,
		item.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *mediaRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM media_items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *mediaRepository) GetByID(ctx context.Context, id string) (*domain.MediaItem, error) {
	var item domain.MediaItem
	if err := r.pool.QueryRow(ctx, `SELECT `+mediaColumns+` FROM media_items WHERE id=$1`, id).Scan(
		&item.ID,
		&item.UploaderID,
		&item.Title,
		&item.URL,
		&item.ThumbnailURL,
		&item.IsApproved,
		&item.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *mediaRepository) List(ctx context.Context, approvedOnly bool, limit, offset int) ([]domain.MediaItem, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + mediaColumns + ` FROM media_items`
	if approvedOnly {
		query += ` WHERE is_approved = TRUE`
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, offset)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.MediaItem
	for rows.Next() {
		var item domain.MediaItem
		if err := rows.Scan(
			&item.ID,
			&item.UploaderID,
			&item.Title,
			&item.URL,
			&item.ThumbnailURL,
			&item.IsApproved,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
