package domain

import "time"

// Guideline is a rules/help document. Public visibility is gated by
// IsPublished; SortOrder controls display order within a type.
type Guideline struct {
	ID          string
	Type        string
	Title       string
	Slug        string
	Content     string
	SortOrder   int
	IsPublished bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
