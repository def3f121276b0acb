package dto

import (
	"time"

	"github.com/spec-kit/community-portal/internal/domain"
)

// SubmitApplicationRequest payload.
type SubmitApplicationRequest struct {
	Position   string `json:"position"`
	Experience string `json:"experience"`
	Reason     string `json:"reason"`
	Age        *int   `json:"age,omitempty"`
}

// ReviewApplicationRequest payload for approve/reject.
type ReviewApplicationRequest struct {
	Notes *string `json:"notes,omitempty"`
}

// ApplicationResponse maps a staff application.
type ApplicationResponse struct {
	ID          string                   `json:"id"`
	UserID      string                   `json:"user_id"`
	Position    string                   `json:"position"`
	Experience  string                   `json:"experience"`
	Reason      string                   `json:"reason"`
	Age         *int                     `json:"age,omitempty"`
	Status      domain.ApplicationStatus `json:"status"`
	ReviewNotes *string                  `json:"review_notes,omitempty"`
	ReviewedBy  *string                  `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time               `json:"reviewed_at,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
}

// NewApplicationResponse maps a domain application.
func NewApplicationResponse(app *domain.StaffApplication) ApplicationResponse {
	return ApplicationResponse{
		ID:          app.ID,
		UserID:      app.UserID,
		Position:    app.Position,
		Experience:  app.Experience,
		Reason:      app.Reason,
		Age:         app.Age,
		Status:      app.Status,
		ReviewNotes: app.ReviewNotes,
		ReviewedBy:  app.ReviewedBy,
		ReviewedAt:  app.ReviewedAt,
		CreatedAt:   app.CreatedAt,
	}
}
