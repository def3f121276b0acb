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

// StaffService manages the public staff roster.
type StaffService struct {
	staff repository.StaffRepository
	users repository.UserRepository
}

// StaffMemberInput describes roster create/update payloads.
type StaffMemberInput struct {
	UserID      string
	DisplayName string
	Title       string
	Bio         string
	SortOrder   int
	IsActive    bool
}

// NewStaffService constructs the service.
func NewStaffService(staff repository.StaffRepository, users repository.UserRepository) *StaffService {
	return &StaffService{staff: staff, users: users}
}

// List returns the roster; inactive entries are admin-only.
func (s *StaffService) List(ctx context.Context, includeInactive bool) ([]domain.StaffMember, error) {
	members, err := s.staff.List(ctx, includeInactive)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return members, nil
}

// Create adds a roster entry for an existing user. Application approval uses
// the repository transaction directly; this path serves manual admin edits.
func (s *StaffService) Create(ctx context.Context, input StaffMemberInput) (*domain.StaffMember, error) {
	displayName := strings.TrimSpace(input.DisplayName)
	if input.UserID == "" || displayName == "" {
		return nil, apperrors.NewValidationError("user_id and display_name required", nil)
	}

	if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": input.UserID})
		}
		return nil, apperrors.MapError(err)
	}
	if _, err := s.staff.GetByUserID(ctx, input.UserID); err == nil {
		return nil, apperrors.NewConflict("user already on the roster", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	member := &domain.StaffMember{
		UserID:      input.UserID,
		DisplayName: displayName,
		Title:       strings.TrimSpace(input.Title),
		Bio:         strings.TrimSpace(input.Bio),
		SortOrder:   input.SortOrder,
		IsActive:    input.IsActive,
	}
	if err := s.staff.Create(ctx, member); err != nil {
		return nil, apperrors.MapError(err)
	}
	return member, nil
}

// Update edits a roster entry.
func (s *StaffService) Update(ctx context.Context, id string, input StaffMemberInput) (*domain.StaffMember, error) {
	member, err := s.staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff member", nil)
		}
		return nil, apperrors.MapError(err)
	}

	if displayName := strings.TrimSpace(input.DisplayName); displayName != "" {
		member.DisplayName = displayName
	}
	member.Title = strings.TrimSpace(input.Title)
	member.Bio = strings.TrimSpace(input.Bio)
	member.SortOrder = input.SortOrder
	member.IsActive = input.IsActive

	if err := s.staff.Update(ctx, member); err != nil {
		return nil, apperrors.MapError(err)
	}
	return member, nil
}

// Delete removes a roster entry. The underlying user keeps their role;
// demotion is a separate administrative act.
func (s *StaffService) Delete(ctx context.Context, id string) error {
	if err := s.staff.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("staff member", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}
