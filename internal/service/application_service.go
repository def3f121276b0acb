package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/community-portal/internal/domain"
	"github.com/spec-kit/community-portal/internal/events"
	"github.com/spec-kit/community-portal/internal/repository"
	apperrors "github.com/spec-kit/community-portal/pkg/util"
)

// ApplicationService coordinates the staff-application workflow.
type ApplicationService struct {
	applications repository.ApplicationRepository
	dispatcher   events.Dispatcher
}

// ApplicationDependencies bundles repositories for the application service.
type ApplicationDependencies struct {
	ApplicationRepo repository.ApplicationRepository
	Dispatcher      events.Dispatcher
}

// ApplicationSubmitInput describes the candidacy payload.
type ApplicationSubmitInput struct {
	Position   string
	Experience string
	Reason     string
	Age        *int
}

// NewApplicationService constructs the service.
func NewApplicationService(deps ApplicationDependencies) *ApplicationService {
	return &ApplicationService{
		applications: deps.ApplicationRepo,
		dispatcher:   deps.Dispatcher,
	}
}

// Submit files an application. A user may hold at most one pending
// application; the store's partial unique index backs this check under races.
func (s *ApplicationService) Submit(ctx context.Context, applicant *domain.User, input ApplicationSubmitInput) (*domain.StaffApplication, error) {
	position := strings.TrimSpace(input.Position)
	if position == "" {
		return nil, apperrors.NewValidationError("position required", map[string]any{"field": "position"})
	}

	pending, err := s.applications.ListWithFilter(ctx, repository.ApplicationFilter{
		UserID:   &applicant.ID,
		Statuses: []domain.ApplicationStatus{domain.ApplicationStatusPending},
		Limit:    1,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(pending) > 0 {
		return nil, apperrors.NewValidationError("pending application exists", nil)
	}

	app := &domain.StaffApplication{
		UserID:     applicant.ID,
		Position:   position,
		Experience: strings.TrimSpace(input.Experience),
		Reason:     strings.TrimSpace(input.Reason),
		Age:        input.Age,
		Status:     domain.ApplicationStatusPending,
	}
	if err := s.applications.Create(ctx, app); err != nil {
		if errors.Is(err, repository.ErrPendingApplicationExists) {
			return nil, apperrors.NewValidationError("pending application exists", nil)
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventApplicationSubmitted,
		EntityID: app.ID,
		ActorID:  applicant.ID,
	})
	return app, nil
}

// ListOwn returns the applicant's applications.
func (s *ApplicationService) ListOwn(ctx context.Context, userID string) ([]domain.StaffApplication, error) {
	apps, err := s.applications.ListWithFilter(ctx, repository.ApplicationFilter{UserID: &userID, Limit: 50})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return apps, nil
}

// List returns applications for admin review.
func (s *ApplicationService) List(ctx context.Context, statuses []domain.ApplicationStatus, limit, offset int) ([]domain.StaffApplication, error) {
	apps, err := s.applications.ListWithFilter(ctx, repository.ApplicationFilter{
		Statuses: statuses,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return apps, nil
}

// Approve resolves a pending application in the applicant's favor. The
// roster insert and role upgrade ride in the repository transaction, so a
// failed side effect rolls back the approval instead of half-applying it.
func (s *ApplicationService) Approve(ctx context.Context, reviewer *domain.User, appID string, notes *string) (*domain.StaffApplication, error) {
	app, err := s.applications.Approve(ctx, appID, reviewer.ID, notes)
	if err != nil {
		return nil, mapReviewError(err, appID)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventApplicationReviewed,
		EntityID: app.ID,
		ActorID:  reviewer.ID,
		Payload:  events.ApplicationReviewedPayload{Outcome: string(app.Status), ReviewerID: reviewer.ID},
	})
	return app, nil
}

// Reject resolves a pending application against the applicant.
func (s *ApplicationService) Reject(ctx context.Context, reviewer *domain.User, appID string, notes *string) (*domain.StaffApplication, error) {
	app, err := s.applications.Reject(ctx, appID, reviewer.ID, notes)
	if err != nil {
		return nil, mapReviewError(err, appID)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventApplicationReviewed,
		EntityID: app.ID,
		ActorID:  reviewer.ID,
		Payload:  events.ApplicationReviewedPayload{Outcome: string(app.Status), ReviewerID: reviewer.ID},
	})
	return app, nil
}

func (s *ApplicationService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func mapReviewError(err error, appID string) error {
	switch {
	case errors.Is(err, repository.ErrApplicationResolved):
		return apperrors.NewConflict("application already resolved", map[string]any{"application_id": appID})
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewNotFound("application", map[string]any{"application_id": appID})
	default:
		return apperrors.MapError(err)
	}
}
