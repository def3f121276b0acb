package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/community-portal/internal/api/dto"
	"github.com/spec-kit/community-portal/internal/service"
	apperrors "github.com/spec-kit/community-portal/pkg/util"
)

// MediaHandler manages the gallery.
type MediaHandler struct {
	service *service.MediaService
}

// NewMediaHandler constructs handler.
func NewMediaHandler(mediaService *service.MediaService) *MediaHandler {
	return &MediaHandler{service: mediaService}
}

// List GET /media.
func (h *MediaHandler) List(c *fiber.Ctx) error {
	includeUnapproved := isPrivileged(c) && c.QueryBool("include_unapproved")
	limit, offset := parsePagination(c)
	items, err := h.service.List(c.Context(), includeUnapproved, limit, offset)
	if err != nil {
		return err
	}
	resp := make([]dto.MediaItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, dto.NewMediaItemResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"items": resp})
}

// Submit POST /media.
func (h *MediaHandler) Submit(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.MediaSubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	item, err := h.service.Submit(c.Context(), principal.User, service.MediaSubmitInput{
		Title:        req.Title,
		URL:          req.URL,
		ThumbnailURL: req.ThumbnailURL,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"item":    dto.NewMediaItemResponse(item),
	})
}

// Approve POST /admin/media/:id/approve.
func (h *MediaHandler) Approve(c *fiber.Ctx) error {
	item, err := h.service.Approve(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"item":    dto.NewMediaItemResponse(item),
	})
}

// Delete DELETE /media/:id.
func (h *MediaHandler) Delete(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), principal.User, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
