package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/community-portal/internal/api/dto"
	"github.com/spec-kit/community-portal/internal/domain"
	"github.com/spec-kit/community-portal/internal/service"
	apperrors "github.com/spec-kit/community-portal/pkg/util"
)

// GuidelinesHandler manages guideline documents.
type GuidelinesHandler struct {
	service *service.GuidelineService
}

// NewGuidelinesHandler constructs handler.
func NewGuidelinesHandler(guidelineService *service.GuidelineService) *GuidelinesHandler {
	return &GuidelinesHandler{service: guidelineService}
}

// List GET /guidelines.
func (h *GuidelinesHandler) List(c *fiber.Ctx) error {
	var guidelineType *string
	if t := c.Query("type"); t != "" {
		guidelineType = &t
	}
	includeDrafts := isAdmin(c) && c.QueryBool("include_drafts")
	guidelines, err := h.service.List(c.Context(), guidelineType, includeDrafts)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": guidelineResponses(guidelines)})
}

// Get GET /guidelines/:slug.
func (h *GuidelinesHandler) Get(c *fiber.Ctx) error {
	guideline, err := h.service.GetBySlug(c.Context(), c.Params("slug"), isAdmin(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"guideline": dto.NewGuidelineResponse(guideline)})
}

// Create POST /admin/guidelines.
func (h *GuidelinesHandler) Create(c *fiber.Ctx) error {
	var req dto.GuidelineRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	guideline, err := h.service.Create(c.Context(), guidelineInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success":   true,
		"guideline": dto.NewGuidelineResponse(guideline),
	})
}

// Update PUT /admin/guidelines/:id.
func (h *GuidelinesHandler) Update(c *fiber.Ctx) error {
	var req dto.GuidelineRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	guideline, err := h.service.Update(c.Context(), c.Params("id"), guidelineInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"guideline": dto.NewGuidelineResponse(guideline),
	})
}

// Delete DELETE /admin/guidelines/:id.
func (h *GuidelinesHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func guidelineInput(req dto.GuidelineRequest) service.GuidelineInput {
	return service.GuidelineInput{
		Type:        req.Type,
		Title:       req.Title,
		Slug:        req.Slug,
		Content:     req.Content,
		SortOrder:   req.SortOrder,
		IsPublished: req.IsPublished,
	}
}

func guidelineResponses(guidelines []domain.Guideline) []dto.GuidelineResponse {
	items := make([]dto.GuidelineResponse, 0, len(guidelines))
	for i := range guidelines {
		items = append(items, dto.NewGuidelineResponse(&guidelines[i]))
	}
	return items
}
