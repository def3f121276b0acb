package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/community-portal/internal/api/dto"
	"github.com/spec-kit/community-portal/internal/domain"
	"github.com/spec-kit/community-portal/internal/service"
	apperrors "github.com/spec-kit/community-portal/pkg/util"
)

// CharactersHandler manages the roleplay character viewer.
type CharactersHandler struct {
	service *service.CharacterService
}

// NewCharactersHandler constructs handler.
func NewCharactersHandler(characterService *service.CharacterService) *CharactersHandler {
	return &CharactersHandler{service: characterService}
}

// ListPublic GET /characters.
func (h *CharactersHandler) ListPublic(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	characters, err := h.service.ListPublic(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": characterResponses(characters)})
}

// ListOwn GET /characters/mine.
func (h *CharactersHandler) ListOwn(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	characters, err := h.service.ListOwn(c.Context(), principal.ID())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": characterResponses(characters)})
}

// Get GET /characters/:slug.
func (h *CharactersHandler) Get(c *fiber.Ctx) error {
	character, err := h.service.GetBySlug(c.Context(), optionalUser(c), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"character": dto.NewCharacterResponse(character)})
}

// Create POST /characters.
func (h *CharactersHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CharacterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	character, err := h.service.Create(c.Context(), principal.User, characterInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success":   true,
		"character": dto.NewCharacterResponse(character),
	})
}

// Update PUT /characters/:id.
func (h *CharactersHandler) Update(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CharacterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	character, err := h.service.Update(c.Context(), principal.User, c.Params("id"), characterInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"character": dto.NewCharacterResponse(character),
	})
}

// Delete DELETE /characters/:id.
func (h *CharactersHandler) Delete(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), principal.User, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func characterInput(req dto.CharacterRequest) service.CharacterInput {
	return service.CharacterInput{
		Name:      req.Name,
		Backstory: req.Backstory,
		AvatarURL: req.AvatarURL,
		IsPublic:  req.IsPublic,
	}
}

func characterResponses(characters []domain.Character) []dto.CharacterResponse {
	items := make([]dto.CharacterResponse, 0, len(characters))
	for i := range characters {
		items = append(items, dto.NewCharacterResponse(&characters[i]))
	}
	return items
}
