package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/community-portal/internal/domain"
)

// CharacterRepository manages roleplay character sheets.
type CharacterRepository interface {
	Create(ctx context.Context, character *domain.Character) error
	Update(ctx context.Context, character *domain.Character) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Character, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Character, error)
	ListPublic(ctx context.Context, limit, offset int) ([]domain.Character, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Character, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type characterRepository struct {
	pool *pgxpool.Pool
}

// NewCharacterRepository builds repository.
func NewCharacterRepository(pool *pgxpool.Pool) CharacterRepository {
	return &characterRepository{pool: pool}
}

const characterColumns = `id, owner_id, name, slug, backstory, avatar_url, is_public, created_at, updated_at`

func (r *characterRepository) Create(ctx context.Context, character *domain.Character) error {
	const query = `
        INSERT INTO characters (owner_id, name, slug, backstory, avatar_url, is_public)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		character.OwnerID,
		character.Name,
		character.Slug,
		character.Backstory,
		character.AvatarURL,
		character.IsPublic,
	).Scan(&character.ID, &character.CreatedAt, &character.UpdatedAt)
}

func (r *characterRepository) Update(ctx context.Context, character *domain.Character) error {
	const query = `
        UPDATE characters SET name=$1, slug=$2, backstory=$3, avatar_url=$4, is_public=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		character.Name,
		character.Slug,
		character.Backstory,
		character.AvatarURL,
		character.IsPublic,
		character.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *characterRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM characters WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *characterRepository) GetByID(ctx context.Context, id string) (*domain.Character, error) {
	return r.fetchSingle(ctx, `SELECT `+characterColumns+` FROM characters WHERE id=$1`, id)
}

func (r *characterRepository) GetBySlug(ctx context.Context, slug string) (*domain.Character, error) {
	return r.fetchSingle(ctx, `SELECT `+characterColumns+` FROM characters WHERE slug=$1`, slug)
}

func (r *characterRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Character, error) {
	var character domain.Character
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&character.ID,
		&character.OwnerID,
		&character.Name,
		&character.Slug,
		&character.Backstory,
		&character.AvatarURL,
		&character.IsPublic,
		&character.CreatedAt,
		&character.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &character, nil
}

func (r *characterRepository) ListPublic(ctx context.Context, limit, offset int) ([]domain.Character, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := fmt.Sprintf(`SELECT %s FROM characters WHERE is_public = TRUE ORDER BY name ASC LIMIT %d OFFSET %d`,
		characterColumns, limit, offset)
	return r.list(ctx, query)
}

func (r *characterRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Character, error) {
	return r.list(ctx, `SELECT `+characterColumns+` FROM characters WHERE owner_id=$1 ORDER BY name ASC`, ownerID)
}

func (r *characterRepository) list(ctx context.Context, query string, args ...any) ([]domain.Character, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Character
	for rows.Next() {
		var character domain.Character
		if err := rows.Scan(
			&character.ID,
			&character.OwnerID,
			&character.Name,
			&character.Slug,
			&character.Backstory,
			&character.AvatarURL,
			&character.IsPublic,
			&character.CreatedAt,
			&character.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, character)
	}
	return result, rows.Err()
}

func (r *characterRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM characters WHERE slug=$1)`, slug).Scan(&exists)
	return exists, err
}
