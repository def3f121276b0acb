package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/community-portal/internal/api/dto"
	"github.com/spec-kit/community-portal/internal/service"
	apperrors "github.com/spec-kit/community-portal/pkg/util"
)

// StaffHandler manages the public staff roster.
type StaffHandler struct {
	service *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{service: staffService}
}

// List GET /staff.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	includeInactive := isAdmin(c) && c.QueryBool("include_inactive")
	members, err := h.service.List(c.Context(), includeInactive)
	if err != nil {
		return err
	}
	items := make([]dto.StaffMemberResponse, 0, len(members))
	for i := range members {
		items = append(items, dto.NewStaffMemberResponse(&members[i]))
	}
	return c.JSON(fiber.Map{"items": items})
}

// Create POST /admin/staff.
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	var req dto.StaffMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	member, err := h.service.Create(c.Context(), staffInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"member":  dto.NewStaffMemberResponse(member),
	})
}

// Update PUT /admin/staff/:id.
func (h *StaffHandler) Update(c *fiber.Ctx) error {
	var req dto.StaffMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	member, err := h.service.Update(c.Context(), c.Params("id"), staffInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"member":  dto.NewStaffMemberResponse(member),
	})
}

// Delete DELETE /admin/staff/:id.
func (h *StaffHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func staffInput(req dto.StaffMemberRequest) service.StaffMemberInput {
	return service.StaffMemberInput{
		UserID:      req.UserID,
		DisplayName: req.DisplayName,
		Title:       req.Title,
		Bio:         req.Bio,
		SortOrder:   req.SortOrder,
		IsActive:    req.IsActive,
	}
}
