package domain

import "time"

// ApplicationStatus enumerates the staff-application lifecycle.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// StaffApplication is a user's candidacy for a staff position. A user may
// have at most one pending application at a time; approved and rejected are
// terminal.
type StaffApplication struct {
	ID          string
	UserID      string
	Position    string
	Experience  string
	Reason      string
	Age         *int
	Status      ApplicationStatus
	ReviewNotes *string
	ReviewedBy  *string
	ReviewedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsResolved reports whether the application reached a terminal state.
func (a *StaffApplication) IsResolved() bool {
	return a.Status != ApplicationStatusPending
}
