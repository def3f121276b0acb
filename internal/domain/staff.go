package domain

import "time"

// StaffMember is a roster entry shown on the public staff page. Exactly one
// row may exist per user.
type StaffMember struct {
	ID          string
	UserID      string
	DisplayName string
	Title       string
	Bio         string
	SortOrder   int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
