package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/community-portal/internal/domain"
)

// NewsFilter captures article listing parameters.
type NewsFilter struct {
	CategoryID    *string
	PublishedOnly bool
	Limit         int
	Offset        int
}

// NewsRepository manages articles and their categories.
type NewsRepository interface {
	CreateCategory(ctx context.Context, category *domain.NewsCategory) error
	ListCategories(ctx context.Context) ([]domain.NewsCategory, error)
	DeleteCategory(ctx context.Context, id string) error

	CreateArticle(ctx context.Context, article *domain.NewsArticle) error
	UpdateArticle(ctx context.Context, article *domain.NewsArticle) error
	DeleteArticle(ctx context.Context, id string) error
	GetArticleByID(ctx context.Context, id string) (*domain.NewsArticle, error)
	GetArticleBySlug(ctx context.Context, slug string) (*domain.NewsArticle, error)
	ListArticles(ctx context.Context, filter NewsFilter) ([]domain.NewsArticle, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type newsRepository struct {
	pool *pgxpool.Pool
}

// NewNewsRepository builds repository.
func NewNewsRepository(pool *pgxpool.Pool) NewsRepository {
	return &newsRepository{pool: pool}
}

const articleColumns = `id, category_id, author_id, title, slug, summary, content, cover_image_url, is_published, published_at, created_at, updated_at`

func (r *newsRepository) CreateCategory(ctx context.Context, category *domain.NewsCategory) error {
	const query = `
        INSERT INTO news_categories (name, slug)
        VALUES ($1,$2)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, category.Name, category.Slug).
		Scan(&category.ID, &category.CreatedAt)
}

func (r *newsRepository) ListCategories(ctx context.Context) ([]domain.NewsCategory, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, slug, created_at FROM news_categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.NewsCategory
	for rows.Next() {
		var category domain.NewsCategory
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug, &category.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}

func (r *newsRepository) DeleteCategory(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM news_categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *newsRepository) CreateArticle(ctx context.Context, article *domain.NewsArticle) error {
	const query = `
        INSERT INTO news_articles (category_id, author_id, title, slug, summary, content, cover_image_url, is_published, published_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		article.CategoryID,
		article.AuthorID,
		article.Title,
		article.Slug,
		article.Summary,
		article.Content,
		article.CoverImageURL,
		article.IsPublished,
		article.PublishedAt,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
}

func (r *newsRepository) UpdateArticle(ctx context.Context, article *domain.NewsArticle) error {
	const query = `
        UPDATE news_articles SET category_id=$1, title=$2, slug=$3, summary=$4, content=$5,
            cover_image_url=$6, is_published=$7, published_at=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		article.CategoryID,
		article.Title,
		article.Slug,
		article.Summary,
		article.Content,
		article.CoverImageURL,
		article.IsPublished,
		article.PublishedAt,
		article.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *newsRepository) DeleteArticle(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM news_articles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *newsRepository) GetArticleByID(ctx context.Context, id string) (*domain.NewsArticle, error) {
	return r.fetchSingle(ctx, `SELECT `+articleColumns+` FROM news_articles WHERE id=$1`, id)
}

func (r *newsRepository) GetArticleBySlug(ctx context.Context, slug string) (*domain.NewsArticle, error) {
	return r.fetchSingle(ctx, `SELECT `+articleColumns+` FROM news_articles WHERE slug=$1`, slug)
}

func (r *newsRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.NewsArticle, error) {
	var article domain.NewsArticle
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&article.ID,
		&article.CategoryID,
		&article.AuthorID,
		&article.Title,
		&article.Slug,
		&article.Summary,
		&article.Content,
		&article.CoverImageURL,
		&article.IsPublished,
		&article.PublishedAt,
		&article.CreatedAt,
		&article.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *newsRepository) ListArticles(ctx context.Context, filter NewsFilter) ([]domain.NewsArticle, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("category_id=$%d", len(args)))
	}
	if filter.PublishedOnly {
		clauses = append(clauses, "is_published = TRUE")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM news_articles WHERE %s ORDER BY COALESCE(published_at, created_at) DESC LIMIT %d OFFSET %d`,
		articleColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.NewsArticle
	for rows.Next() {
		var article domain.NewsArticle
		if err := rows.Scan(
			&article.ID,
			&article.CategoryID,
			&article.AuthorID,
			&article.Title,
			&article.Slug,
			&article.Summary,
			&article.Content,
			&article.CoverImageURL,
			&article.IsPublished,
			&article.PublishedAt,
			&article.CreatedAt,
			&article.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, article)
	}
	return result, rows.Err()
}

func (r *newsRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM news_articles WHERE slug=$1)`, slug).Scan(&exists)
	return exists, err
}
