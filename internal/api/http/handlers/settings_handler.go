package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/community-portal/internal/api/dto"
	"github.com/spec-kit/community-portal/internal/service"
	apperrors "github.com/spec-kit/community-portal/pkg/util"
)

// SettingsHandler manages admin site settings.
type SettingsHandler struct {
	service *service.SettingsService
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: settingsService}
}

// List GET /admin/settings.
func (h *SettingsHandler) List(c *fiber.Ctx) error {
	var category *string
	if cat := c.Query("category"); cat != "" {
		category = &cat
	}
	settings, err := h.service.List(c.Context(), category)
	if err != nil {
		return err
	}
	items := make([]dto.SettingResponse, 0, len(settings))
	for i := range settings {
		items = append(items, dto.NewSettingResponse(&settings[i]))
	}
	return c.JSON(fiber.Map{"items": items})
}

// Get GET /admin/settings/:key.
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	setting, err := h.service.Get(c.Context(), c.Params("key"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"setting": dto.NewSettingResponse(setting)})
}

// Put PUT /admin/settings/:key.
func (h *SettingsHandler) Put(c *fiber.Ctx) error {
	var req dto.SettingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	setting, err := h.service.Set(c.Context(), c.Params("key"), req.Value, req.Category)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"setting": dto.NewSettingResponse(setting),
	})
}

// Delete DELETE /admin/settings/:key.
func (h *SettingsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("key")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
