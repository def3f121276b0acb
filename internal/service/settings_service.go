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

// SettingsService exposes the admin-editable configuration table.
type SettingsService struct {
	settings repository.SettingsRepository
}

// NewSettingsService constructs the service.
func NewSettingsService(settings repository.SettingsRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

// Set upserts a setting.
func (s *SettingsService) Set(ctx context.Context, key, value, category string) (*domain.Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, apperrors.NewValidationError("key required", map[string]any{"field": "key"})
	}
	if category == "" {
		category = "general"
	}

	setting := &domain.Setting{Key: key, Value: value, Category: category}
	if err := s.settings.Upsert(ctx, setting); err != nil {
		return nil, apperrors.MapError(err)
	}
	return setting, nil
}

// Get fetches one setting by key.
func (s *SettingsService) Get(ctx context.Context, key string) (*domain.Setting, error) {
	setting, err := s.settings.Get(ctx, key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("setting", map[string]any{"key": key})
		}
		return nil, apperrors.MapError(err)
	}
	return setting, nil
}

// List returns settings, optionally scoped to a category.
func (s *SettingsService) List(ctx context.Context, category *string) ([]domain.Setting, error) {
	settings, err := s.settings.List(ctx, category)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return settings, nil
}

// Delete removes a setting.
func (s *SettingsService) Delete(ctx context.Context, key string) error {
	if err := s.settings.Delete(ctx, key); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("setting", map[string]any{"key": key})
		}
		return apperrors.MapError(err)
	}
	return nil
}
