package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/community-portal/internal/domain"
	"github.com/spec-kit/community-portal/internal/repository"
	apperrors "github.com/spec-kit/community-portal/pkg/util"
)

// MediaService manages the gallery. Uploads are link submissions; binary
// hosting stays external.
type MediaService struct {
	media repository.MediaRepository
}

// MediaSubmitInput describes a gallery submission.
type MediaSubmitInput struct {
	Title        string
	URL          string
	ThumbnailURL *string
}

// NewMediaService constructs the service.
func NewMediaService(media repository.MediaRepository) *MediaService {
	return &MediaService{media: media}
}

// Submit files a gallery entry. Privileged submitters skip the moderation
// queue; everyone else waits for approval.
func (s *MediaService) Submit(ctx context.Context, uploader *domain.User, input MediaSubmitInput) (*domain.MediaItem, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", map[string]any{"field": "title"})
	}
	if err := validateMediaURL(input.URL); err != nil {
		return nil, err
	}
	if input.ThumbnailURL != nil && *input.ThumbnailURL != "" {
		if err := validateMediaURL(*input.ThumbnailURL); err != nil {
			return nil, err
		}
	}

	item := &domain.MediaItem{
		UploaderID:   uploader.ID,
		Title:        title,
		URL:          input.URL,
		ThumbnailURL: input.ThumbnailURL,
		IsApproved:   uploader.Role.IsPrivileged(),
	}
	if err := s.media.Create(ctx, item); err != nil {
		return nil, apperrors.MapError(err)
	}
	return item, nil
}

// List returns gallery entries; unapproved ones are staff-only.
func (s *MediaService) List(ctx context.Context, includeUnapproved bool, limit, offset int) ([]domain.MediaItem, error) {
	items, err := s.media.List(ctx, !includeUnapproved, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// Approve marks a pending entry as visible.
func (s *MediaService) Approve(ctx context.Context, id string) (*domain.MediaItem, error) {
	item, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.IsApproved {
		return item, nil
	}
	item.IsApproved = true
	if err := s.media.Update(ctx, item); err != nil {
		return nil, apperrors.MapError(err)
	}
	return item, nil
}

// Delete removes an entry. Owners may retract their own submissions; staff
// may remove anything.
func (s *MediaService) Delete(ctx context.Context, actor *domain.User, id string) error {
	item, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if item.UploaderID != actor.ID && !actor.Role.IsPrivileged() {
		return apperrors.NewForbidden("not allowed to remove this item")
	}
	if err := s.media.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *MediaService) get(ctx context.Context, id string) (*domain.MediaItem, error) {
	item, err := s.media.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("media item", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return item, nil
}

func validateMediaURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return apperrors.NewValidationError("url must be an absolute http(s) link", map[string]any{"field": "url"})
	}
	return nil
}
