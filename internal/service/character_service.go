package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/community-portal/internal/domain"
	"github.com/spec-kit/community-portal/internal/repository"
	apperrors "github.com/spec-kit/community-portal/pkg/util"
)

// CharacterService manages roleplay character sheets.
type CharacterService struct {
	characters repository.CharacterRepository
}

// CharacterInput describes create/update payloads.
type CharacterInput struct {
	Name      string
	Backstory string
	AvatarURL *string
	IsPublic  bool
}

// NewCharacterService constructs the service.
func NewCharacterService(characters repository.CharacterRepository) *CharacterService {
	return &CharacterService{characters: characters}
}

// Create stores a new character owned by the actor.
func (s *CharacterService) Create(ctx context.Context, owner *domain.User, input CharacterInput) (*domain.Character, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", map[string]any{"field": "name"})
	}

	slug, err := uniqueSlug(ctx, s.characters.SlugExists, name)
	if err != nil {
		return nil, err
	}

	character := &domain.Character{
		OwnerID:   owner.ID,
		Name:      name,
		Slug:      slug,
		Backstory: sanitizeHTML(input.Backstory),
		AvatarURL: input.AvatarURL,
		IsPublic:  input.IsPublic,
	}
	if err := s.characters.Create(ctx, character); err != nil {
		return nil, apperrors.MapError(err)
	}
	return character, nil
}

// Update edits a character. Only the owner or a privileged user may edit;
// the slug stays fixed once minted.
func (s *CharacterService) Update(ctx context.Context, actor *domain.User, id string, input CharacterInput) (*domain.Character, error) {
	character, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if character.OwnerID != actor.ID && !actor.Role.IsPrivileged() {
		return nil, apperrors.NewForbidden("not allowed to edit this character")
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		character.Name = name
	}
	character.Backstory = sanitizeHTML(input.Backstory)
	character.AvatarURL = input.AvatarURL
	character.IsPublic = input.IsPublic

	if err := s.characters.Update(ctx, character); err != nil {
		return nil, apperrors.MapError(err)
	}
	return character, nil
}

// Delete removes a character with the same ownership rule as Update.
func (s *CharacterService) Delete(ctx context.Context, actor *domain.User, id string) error {
	character, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if character.OwnerID != actor.ID && !actor.Role.IsPrivileged() {
		return apperrors.NewForbidden("not allowed to delete this character")
	}
	if err := s.characters.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// GetBySlug returns a character. Private sheets show only to their owner or
// privileged viewers; viewer may be nil for anonymous requests.
func (s *CharacterService) GetBySlug(ctx context.Context, viewer *domain.User, slug string) (*domain.Character, error) {
	character, err := s.characters.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("character", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !character.IsPublic {
		if viewer == nil || (character.OwnerID != viewer.ID && !viewer.Role.IsPrivileged()) {
			return nil, apperrors.NewNotFound("character", nil)
		}
	}
	return character, nil
}

// ListPublic returns the public character directory.
func (s *CharacterService) ListPublic(ctx context.Context, limit, offset int) ([]domain.Character, error) {
	characters, err := s.characters.ListPublic(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return characters, nil
}

// ListOwn returns every character the actor owns, public or not.
func (s *CharacterService) ListOwn(ctx context.Context, ownerID string) ([]domain.Character, error) {
	characters, err := s.characters.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return characters, nil
}

func (s *CharacterService) get(ctx context.Context, id string) (*domain.Character, error) {
	character, err := s.characters.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("character", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return character, nil
}
