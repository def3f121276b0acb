package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/community-portal/internal/api/dto"
	"github.com/spec-kit/community-portal/internal/domain"
	"github.com/spec-kit/community-portal/internal/service"
	apperrors "github.com/spec-kit/community-portal/pkg/util"
)

// NewsHandler manages news categories and articles.
type NewsHandler struct {
	service *service.NewsService
}

// NewNewsHandler constructs handler.
func NewNewsHandler(newsService *service.NewsService) *NewsHandler {
	return &NewsHandler{service: newsService}
}

// ListCategories GET /news/categories.
func (h *NewsHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, dto.NewCategoryResponse(&categories[i]))
	}
	return c.JSON(fiber.Map{"items": items})
}

// CreateCategory POST /admin/news/categories.
func (h *NewsHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.service.CreateCategory(c.Context(), req.Name, req.Slug)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"category": dto.NewCategoryResponse(category),
	})
}

// DeleteCategory DELETE /admin/news/categories/:id.
func (h *NewsHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.service.DeleteCategory(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// ListArticles GET /news. Admins on the admin surface also see drafts.
func (h *NewsHandler) ListArticles(c *fiber.Ctx) error {
	var categoryID *string
	if id := c.Query("category_id"); id != "" {
		categoryID = &id
	}
	limit, offset := parsePagination(c)
	includeDrafts := isAdmin(c) && c.QueryBool("include_drafts")
	articles, err := h.service.ListArticles(c.Context(), categoryID, includeDrafts, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": articleResponses(articles)})
}

// GetArticle GET /news/:slug.
func (h *NewsHandler) GetArticle(c *fiber.Ctx) error {
	article, err := h.service.GetArticleBySlug(c.Context(), c.Params("slug"), isAdmin(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"article": dto.NewArticleResponse(article)})
}

// CreateArticle POST /admin/news.
func (h *NewsHandler) CreateArticle(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	article, err := h.service.CreateArticle(c.Context(), principal.User, articleInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"article": dto.NewArticleResponse(article),
	})
}

// UpdateArticle PUT /admin/news/:id.
func (h *NewsHandler) UpdateArticle(c *fiber.Ctx) error {
	var req dto.ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	article, err := h.service.UpdateArticle(c.Context(), c.Params("id"), articleInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"article": dto.NewArticleResponse(article),
	})
}

// DeleteArticle DELETE /admin/news/:id.
func (h *NewsHandler) DeleteArticle(c *fiber.Ctx) error {
	if err := h.service.DeleteArticle(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func articleInput(req dto.ArticleRequest) service.NewsArticleInput {
	return service.NewsArticleInput{
		CategoryID:    req.CategoryID,
		Title:         req.Title,
		Slug:          req.Slug,
		Summary:       req.Summary,
		Content:       req.Content,
		CoverImageURL: req.CoverImageURL,
		IsPublished:   req.IsPublished,
	}
}

func articleResponses(articles []domain.NewsArticle) []dto.ArticleResponse {
	items := make([]dto.ArticleResponse, 0, len(articles))
	for i := range articles {
		items = append(items, dto.NewArticleResponse(&articles[i]))
	}
	return items
}
