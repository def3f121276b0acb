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

// GuidelineService manages guideline documents.
type GuidelineService struct {
	guidelines repository.GuidelineRepository
}

// GuidelineInput describes create/update payloads.
type GuidelineInput struct {
	Type        string
	Title       string
	Slug        string
	Content     string
	SortOrder   int
	IsPublished bool
}

// NewGuidelineService constructs the service.
func NewGuidelineService(guidelines repository.GuidelineRepository) *GuidelineService {
	return &GuidelineService{guidelines: guidelines}
}

// Create stores a sanitized guideline.
func (s *GuidelineService) Create(ctx context.Context, input GuidelineInput) (*domain.Guideline, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", map[string]any{"field": "title"})
	}

	slug := input.Slug
	if slug == "" {
		var err error
		slug, err = uniqueSlug(ctx, s.guidelines.SlugExists, title)
		if err != nil {
			return nil, err
		}
	}

	guidelineType := strings.TrimSpace(input.Type)
	if guidelineType == "" {
		guidelineType = "general"
	}

	guideline := &domain.Guideline{
		Type:        guidelineType,
		Title:       title,
		Slug:        slug,
		Content:     sanitizeHTML(input.Content),
		SortOrder:   input.SortOrder,
		IsPublished: input.IsPublished,
	}
	if err := s.guidelines.Create(ctx, guideline); err != nil {
		return nil, apperrors.MapError(err)
	}
	return guideline, nil
}

// Update applies admin edits.
func (s *GuidelineService) Update(ctx context.Context, id string, input GuidelineInput) (*domain.Guideline, error) {
	guideline, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		guideline.Title = title
	}
	if input.Slug != "" {
		guideline.Slug = input.Slug
	}
	if guidelineType := strings.TrimSpace(input.Type); guidelineType != "" {
		guideline.Type = guidelineType
	}
	guideline.Content = sanitizeHTML(input.Content)
	guideline.SortOrder = input.SortOrder
	guideline.IsPublished = input.IsPublished

	if err := s.guidelines.Update(ctx, guideline); err != nil {
		return nil, apperrors.MapError(err)
	}
	return guideline, nil
}

// Delete removes a guideline.
func (s *GuidelineService) Delete(ctx context.Context, id string) error {
	if err := s.guidelines.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("guideline", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

// GetBySlug returns one guideline; drafts are admin-only.
func (s *GuidelineService) GetBySlug(ctx context.Context, slug string, includeDrafts bool) (*domain.Guideline, error) {
	guideline, err := s.guidelines.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("guideline", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !guideline.IsPublished && !includeDrafts {
		return nil, apperrors.NewNotFound("guideline", nil)
	}
	return guideline, nil
}

// List returns guidelines ordered for display; drafts are admin-only.
func (s *GuidelineService) List(ctx context.Context, guidelineType *string, includeDrafts bool) ([]domain.Guideline, error) {
	guidelines, err := s.guidelines.List(ctx, repository.GuidelineFilter{
		Type:          guidelineType,
		PublishedOnly: !includeDrafts,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return guidelines, nil
}

func (s *GuidelineService) get(ctx context.Context, id string) (*domain.Guideline, error) {
	guideline, err := s.guidelines.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("guideline", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return guideline, nil
}
