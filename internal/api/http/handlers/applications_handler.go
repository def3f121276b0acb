package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/community-portal/internal/api/dto"
	"github.com/spec-kit/community-portal/internal/domain"
	"github.com/spec-kit/community-portal/internal/service"
	apperrors "github.com/spec-kit/community-portal/pkg/util"
)

// ApplicationsHandler manages staff-application endpoints.
type ApplicationsHandler struct {
	service *service.ApplicationService
}

// NewApplicationsHandler constructs handler.
func NewApplicationsHandler(applicationService *service.ApplicationService) *ApplicationsHandler {
	return &ApplicationsHandler{service: applicationService}
}

// Submit POST /applications.
func (h *ApplicationsHandler) Submit(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.SubmitApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	app, err := h.service.Submit(c.Context(), principal.User, service.ApplicationSubmitInput{
		Position:   req.Position,
		Experience: req.Experience,
		Reason:     req.Reason,
		Age:        req.Age,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success":     true,
		"application": dto.NewApplicationResponse(app),
	})
}

// ListOwn GET /applications/mine.
func (h *ApplicationsHandler) ListOwn(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	apps, err := h.service.ListOwn(c.Context(), principal.ID())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": applicationResponses(apps)})
}

// List GET /applications (admin only, enforced by routing).
func (h *ApplicationsHandler) List(c *fiber.Ctx) error {
	var statuses []domain.ApplicationStatus
	for _, part := range splitCSV(c.Query("status")) {
		statuses = append(statuses, domain.ApplicationStatus(part))
	}
	limit, offset := parsePagination(c)
	apps, err := h.service.List(c.Context(), statuses, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": applicationResponses(apps)})
}

// Approve POST /applications/:id/approve (admin only, enforced by routing).
func (h *ApplicationsHandler) Approve(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.ReviewApplicationRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	app, err := h.service.Approve(c.Context(), principal.User, c.Params("id"), req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"application": dto.NewApplicationResponse(app),
	})
}

// Reject POST /applications/:id/reject (admin only, enforced by routing).
func (h *ApplicationsHandler) Reject(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.ReviewApplicationRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	app, err := h.service.Reject(c.Context(), principal.User, c.Params("id"), req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"application": dto.NewApplicationResponse(app),
	})
}

func applicationResponses(apps []domain.StaffApplication) []dto.ApplicationResponse {
	items := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		items = append(items, dto.NewApplicationResponse(&apps[i]))
	}
	return items
}
