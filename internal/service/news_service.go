package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/community-portal/internal/domain"
	"github.com/spec-kit/community-portal/internal/repository"
	apperrors "github.com/spec-kit/community-portal/pkg/util"
)

// NewsService manages articles and categories.
type NewsService struct {
	news repository.NewsRepository
}

// NewsArticleInput describes article create/update payloads.
type NewsArticleInput struct {
	CategoryID    *string
	Title         string
	Slug          string
	Summary       string
	Content       string
	CoverImageURL *string
	IsPublished   bool
}

// NewNewsService constructs the service.
func NewNewsService(news repository.NewsRepository) *NewsService {
	return &NewsService{news: news}
}

// CreateCategory adds a category; slug derives from the name when absent.
func (s *NewsService) CreateCategory(ctx context.Context, name, slug string) (*domain.NewsCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", map[string]any{"field": "name"})
	}
	if slug == "" {
		slug = apperrors.Slugify(name)
	}

	category := &domain.NewsCategory{Name: name, Slug: slug}
	if err := s.news.CreateCategory(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// ListCategories returns all categories.
func (s *NewsService) ListCategories(ctx context.Context) ([]domain.NewsCategory, error) {
	categories, err := s.news.ListCategories(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

// DeleteCategory removes a category; articles fall back to uncategorized.
func (s *NewsService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.news.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("category", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

// CreateArticle stores a sanitized article authored by the actor.
func (s *NewsService) CreateArticle(ctx context.Context, author *domain.User, input NewsArticleInput) (*domain.NewsArticle, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", map[string]any{"field": "title"})
	}

	slug := input.Slug
	if slug == "" {
		var err error
		slug, err = uniqueSlug(ctx, s.news.SlugExists, title)
		if err != nil {
			return nil, err
		}
	}

	article := &domain.NewsArticle{
		CategoryID:    input.CategoryID,
		AuthorID:      author.ID,
		Title:         title,
		Slug:          slug,
		Summary:       strings.TrimSpace(input.Summary),
		Content:       sanitizeHTML(input.Content),
		CoverImageURL: input.CoverImageURL,
		IsPublished:   input.IsPublished,
	}
	if article.IsPublished {
		now := time.Now()
		article.PublishedAt = &now
	}
	if err := s.news.CreateArticle(ctx, article); err != nil {
		return nil, apperrors.MapError(err)
	}
	return article, nil
}

// UpdateArticle applies admin edits; publishing stamps PublishedAt once.
func (s *NewsService) UpdateArticle(ctx context.Context, id string, input NewsArticleInput) (*domain.NewsArticle, error) {
	article, err := s.getArticle(ctx, id)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		article.Title = title
	}
	if input.Slug != "" {
		article.Slug = input.Slug
	}
	article.CategoryID = input.CategoryID
	article.Summary = strings.TrimSpace(input.Summary)
	article.Content = sanitizeHTML(input.Content)
	article.CoverImageURL = input.CoverImageURL
	if input.IsPublished && !article.IsPublished {
		now := time.Now()
		article.PublishedAt = &now
	}
	article.IsPublished = input.IsPublished

	if err := s.news.UpdateArticle(ctx, article); err != nil {
		return nil, apperrors.MapError(err)
	}
	return article, nil
}

// DeleteArticle removes an article.
func (s *NewsService) DeleteArticle(ctx context.Context, id string) error {
	if err := s.news.DeleteArticle(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("article", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

// GetArticleBySlug returns one article. Unpublished drafts are visible only
// when includeDrafts is set (admin surface).
func (s *NewsService) GetArticleBySlug(ctx context.Context, slug string, includeDrafts bool) (*domain.NewsArticle, error) {
	article, err := s.news.GetArticleBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("article", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !article.IsPublished && !includeDrafts {
		return nil, apperrors.NewNotFound("article", nil)
	}
	return article, nil
}

// ListArticles lists articles; the public surface sees published ones only.
func (s *NewsService) ListArticles(ctx context.Context, categoryID *string, includeDrafts bool, limit, offset int) ([]domain.NewsArticle, error) {
	articles, err := s.news.ListArticles(ctx, repository.NewsFilter{
		CategoryID:    categoryID,
		PublishedOnly: !includeDrafts,
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return articles, nil
}

func (s *NewsService) getArticle(ctx context.Context, id string) (*domain.NewsArticle, error) {
	article, err := s.news.GetArticleByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("article", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return article, nil
}
