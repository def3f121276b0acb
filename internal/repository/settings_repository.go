package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/community-portal/internal/domain"
)

// SettingsRepository manages admin-configurable site settings. It holds
// config only; cached external snapshots live in Redis.
type SettingsRepository interface {
	Upsert(ctx context.Context, setting *domain.Setting) error
	Get(ctx context.Context, key string) (*domain.Setting, error)
	List(ctx context.Context, category *string) ([]domain.Setting, error)
	Delete(ctx context.Context, key string) error
}

type settingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository builds repository.
func NewSettingsRepository(pool *pgxpool.Pool) SettingsRepository {
	return &settingsRepository{pool: pool}
}

func (r *settingsRepository) Upsert(ctx context.Context, setting *domain.Setting) error {
	const query = `
        INSERT INTO settings (key, value, category, updated_at)
        VALUES ($1,$2,$3,NOW())
        ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, category=EXCLUDED.category, updated_at=NOW()
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query, setting.Key, setting.Value, setting.Category).
		Scan(&setting.UpdatedAt)
}

func (r *settingsRepository) Get(ctx context.Context, key string) (*domain.Setting, error) {
	var setting domain.Setting
	if err := r.pool.QueryRow(ctx, `SELECT key, value, category, updated_at FROM settings WHERE key=$1`, key).Scan(
		&setting.Key,
		&setting.Value,
		&setting.Category,
		&setting.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingsRepository) List(ctx context.Context, category *string) ([]domain.Setting, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if category != nil {
		args = append(args, *category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT key, value, category, updated_at FROM settings WHERE %s ORDER BY key ASC`,
		strings.Join(clauses, " AND "))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Setting
	for rows.Next() {
		var setting domain.Setting
		if err := rows.Scan(&setting.Key, &setting.Value, &setting.Category, &setting.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, setting)
	}
	return result, rows.Err()
}

func (r *settingsRepository) Delete(ctx context.Context, key string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM settings WHERE key=$1`, key)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
